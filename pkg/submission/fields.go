package submission

import (
	"iter"
	"strings"

	"github.com/goliatone/go-formstructure/pkg/resource"
)

// ButtonTypePrefix identifies button components, which never carry input.
const ButtonTypePrefix = "core/wcm/components/form/button"

// Field properties read from form field resources.
const (
	PropName      = "name"
	PropRequired  = "required"
	PropMaxLength = "maxlength"
	PropOptions   = "options"
	PropValue     = "value"
	PropText      = "text"
	itemsNode     = "items"
)

// Field describes one submittable input of a form.
type Field struct {
	Name         string   `json:"name"`
	Path         string   `json:"path"`
	ResourceType string   `json:"resourceType"`
	Required     bool     `json:"required,omitempty"`
	MaxLength    int      `json:"maxLength,omitempty"`
	Options      []string `json:"options,omitempty"`
}

// Fields converts form elements into submittable fields. Buttons and
// elements without a usable name are skipped; when two elements share a name
// the first one wins.
func Fields(resolver resource.Resolver, elements iter.Seq[*resource.Resource]) []Field {
	if resolver == nil || elements == nil {
		return nil
	}
	var out []Field
	seen := make(map[string]struct{})
	for res := range elements {
		if isButton(resolver, res) {
			continue
		}
		name := inputName(res)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		props := res.ValueMap()
		field := Field{
			Name:         name,
			Path:         res.Path(),
			ResourceType: res.ResourceType(),
			Required:     props.GetBool(PropRequired),
			Options:      optionValues(res),
		}
		if n, ok := props.GetInt(PropMaxLength); ok && n > 0 {
			field.MaxLength = n
		}
		out = append(out, field)
	}
	return out
}

func isButton(resolver resource.Resolver, res *resource.Resource) bool {
	for _, rt := range resolver.SuperTypeChain(res) {
		if strings.HasPrefix(rt, ButtonTypePrefix) {
			return true
		}
	}
	return false
}

func inputName(res *resource.Resource) string {
	props := res.ValueMap()
	if props.Has(PropName) {
		return strings.TrimSpace(props.GetString(PropName))
	}
	return res.Name()
}

// optionValues reads allowed values from an items child (one resource per
// option) or, failing that, from a multi-value options property.
func optionValues(res *resource.Resource) []string {
	var out []string
	if items := res.Child(itemsNode); items != nil {
		for item := range items.Children() {
			value := strings.TrimSpace(item.ValueMap().GetString(PropValue))
			if value == "" {
				value = strings.TrimSpace(item.ValueMap().GetString(PropText))
			}
			if value != "" {
				out = append(out, value)
			}
		}
		return out
	}
	raw, ok := res.ValueMap().Get(PropOptions)
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	for _, entry := range list {
		if value, ok := entry.(string); ok && strings.TrimSpace(value) != "" {
			out = append(out, strings.TrimSpace(value))
		}
	}
	return out
}
