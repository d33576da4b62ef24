// Package form locates form containers in a resource tree, enumerates the
// form fields they hold and records the submission action on the container.
//
// A resource is a form container when its type, or one of its super types,
// is one of the configured container types. A resource is a form field when
// it is not a container and its type chain contains a type under one of the
// configured field prefixes (core/wcm/components/form/ by default), so
// project components inheriting from the core fields are recognised too.
//
// Field enumeration is bounded by containers: fields nested inside plain
// layout nodes are found, fields inside a nested container belong to that
// container and are skipped.
package form
