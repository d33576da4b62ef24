package resource

import "iter"

// Well-known property names.
const (
	PropResourceType      = "sling:resourceType"
	PropResourceSuperType = "sling:resourceSuperType"
	PropPrimaryType       = "jcr:primaryType"
)

// Well-known node types.
const (
	DefaultPrimaryType = "nt:unstructured"
	FolderType         = "sling:Folder"
)

// Resource is a node in the repository tree.
type Resource struct {
	name     string
	path     string
	parent   *Resource
	children []*Resource
	props    *ValueMap
}

// Name returns the last path segment; the root has an empty name.
func (r *Resource) Name() string {
	if r == nil {
		return ""
	}
	return r.name
}

// Path returns the absolute path of the resource.
func (r *Resource) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Parent returns the parent resource, or nil for the root.
func (r *Resource) Parent() *Resource {
	if r == nil {
		return nil
	}
	return r.parent
}

// ResourceType returns the declared resource type, falling back to the primary
// type and finally to nt:unstructured.
func (r *Resource) ResourceType() string {
	if r == nil {
		return ""
	}
	if rt := r.props.GetString(PropResourceType); rt != "" {
		return rt
	}
	if pt := r.props.GetString(PropPrimaryType); pt != "" {
		return pt
	}
	return DefaultPrimaryType
}

// ResourceSuperType returns the super type declared on the resource itself.
func (r *Resource) ResourceSuperType() string {
	if r == nil {
		return ""
	}
	return r.props.GetString(PropResourceSuperType)
}

// ValueMap exposes the resource properties. Writes are tracked by the owning
// tree.
func (r *Resource) ValueMap() *ValueMap {
	if r == nil {
		return nil
	}
	return r.props
}

// Children yields the direct children in order. The sequence can be ranged
// over more than once.
func (r *Resource) Children() iter.Seq[*Resource] {
	return func(yield func(*Resource) bool) {
		if r == nil {
			return
		}
		for _, child := range r.children {
			if !yield(child) {
				return
			}
		}
	}
}

// HasChildren reports whether the resource has at least one child.
func (r *Resource) HasChildren() bool {
	return r != nil && len(r.children) > 0
}

// Child returns the direct child called name.
func (r *Resource) Child(name string) *Resource {
	if r == nil {
		return nil
	}
	for _, child := range r.children {
		if child.name == name {
			return child
		}
	}
	return nil
}

func (r *Resource) detach(child *Resource) {
	for idx, existing := range r.children {
		if existing == child {
			r.children = append(r.children[:idx], r.children[idx+1:]...)
			return
		}
	}
}
