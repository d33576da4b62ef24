// Package submission turns the fields of a form container into an OpenAPI
// object schema, validates posted values against it and strips markup from
// the values before they are stored.
package submission
