package submission

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Issue is a single validation failure.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures validation outcomes.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Normalize keeps the values named by fields, converts them to trimmed
// strings and drops empty ones so a blank input counts as missing.
func Normalize(fields []Field, values map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		raw, ok := values[field.Name]
		if !ok || raw == nil {
			continue
		}
		var value string
		switch typed := raw.(type) {
		case string:
			value = typed
		case []string:
			if len(typed) > 0 {
				value = typed[0]
			}
		default:
			value = fmt.Sprint(typed)
		}
		if value = strings.TrimSpace(value); value != "" {
			out[field.Name] = value
		}
	}
	return out
}

// Validate checks values against schema, reporting every failure.
func Validate(schema *openapi3.Schema, values map[string]any) Result {
	if schema == nil {
		return Result{Valid: true}
	}
	err := schema.VisitJSON(values, openapi3.MultiErrors())
	if err == nil {
		return Result{Valid: true}
	}

	var issues []Issue
	collectIssues(err, &issues)
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Field == issues[j].Field {
			return issues[i].Message < issues[j].Message
		}
		return issues[i].Field < issues[j].Field
	})
	return Result{Valid: false, Issues: issues}
}

func collectIssues(err error, dest *[]Issue) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, nested := range multi {
			collectIssues(nested, dest)
		}
		return
	}
	*dest = append(*dest, issueFromError(err))
}

func issueFromError(err error) Issue {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return Issue{
			Field:   strings.Join(schemaErr.JSONPointer(), "."),
			Message: strings.TrimSpace(schemaErr.Reason),
		}
	}
	return Issue{Message: strings.TrimSpace(err.Error())}
}
