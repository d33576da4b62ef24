package submission

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// maxSanitizePasses bounds how often entity encoded markup is unwrapped.
const maxSanitizePasses = 4

var (
	valuePolicyOnce sync.Once
	valuePolicy     *bluemonday.Policy
)

// Sanitize returns a copy of values with markup stripped from every string.
// Strings come back as plain text: the policy output is entity decoded, so
// "Tom & Jerry" is stored as typed and never as "Tom &amp; Jerry".
func Sanitize(values map[string]any) map[string]any {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]any, len(values))
	for key, value := range values {
		if text, ok := value.(string); ok {
			out[key] = PlainText(text)
			continue
		}
		out[key] = value
	}
	return out
}

// PlainText strips tags from text and decodes entities, repeating until the
// result is stable so entity encoded tags are removed as well.
func PlainText(text string) string {
	policy := valueSanitizer()
	current := text
	for range maxSanitizePasses {
		next := html.UnescapeString(policy.Sanitize(current))
		if next == current {
			break
		}
		current = next
	}
	return strings.TrimSpace(current)
}

func valueSanitizer() *bluemonday.Policy {
	valuePolicyOnce.Do(func() {
		valuePolicy = bluemonday.StrictPolicy()
	})
	return valuePolicy
}
