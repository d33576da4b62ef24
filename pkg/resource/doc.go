// Package resource models the content repository the form helpers operate on:
// a typed, path-addressable tree of resources with ordered properties and
// ordered children. Tree is the in-memory Resolver used by the CLI and tests.
// It loads content in the JSON content-loader shape (objects become child
// resources, everything else becomes a property) or the equivalent YAML, and
// keeps document order for children so traversal follows the authored order.
//
// Resource types follow the usual super type rules: a resource is of type T
// when its own type, its `sling:resourceSuperType`, or the super type declared
// on the type definition found under one of the search paths (`/apps`, `/libs`)
// equals T.
package resource
