package submission

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Schema builds the object schema posted values must satisfy: one string
// property per field, with required, maxLength and enum constraints.
func Schema(fields []Field) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	for _, field := range fields {
		prop := openapi3.NewStringSchema()
		if field.MaxLength > 0 {
			prop.WithMaxLength(int64(field.MaxLength))
		}
		if len(field.Options) > 0 {
			enum := make([]any, 0, len(field.Options))
			for _, option := range field.Options {
				enum = append(enum, option)
			}
			prop.WithEnum(enum...)
		}
		schema.WithProperty(field.Name, prop)
		if field.Required {
			schema.Required = append(schema.Required, field.Name)
		}
	}
	return schema
}
