package resource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a path does not resolve to a resource.
	ErrNotFound = errors.New("resource: not found")
	// ErrExists is returned when creating a resource whose path is taken.
	ErrExists = errors.New("resource: already exists")
	// ErrInvalidPath is returned for relative paths or invalid names.
	ErrInvalidPath = errors.New("resource: invalid path")
)

// Resolver is the repository session the form helpers operate on.
type Resolver interface {
	GetResource(path string) *Resource
	IsResourceType(res *Resource, resourceType string) bool
	SuperTypeChain(res *Resource) []string
	Create(parentPath, name string, props map[string]any) (*Resource, error)
	EnsurePath(path, primaryType string) (*Resource, error)
	HasChanges() bool
	Commit(ctx context.Context) error
	Revert()
}

// CommitHook observes committed changes. Returning an error aborts the commit
// and leaves the changes pending.
type CommitHook func(ctx context.Context, paths []string) error

// Option configures a Tree.
type Option func(*Tree)

// WithSearchPaths overrides where resource type definitions are looked up.
func WithSearchPaths(paths ...string) Option {
	return func(t *Tree) {
		cleaned := make([]string, 0, len(paths))
		for _, p := range paths {
			if clean := CleanPath(p); clean != "" {
				cleaned = append(cleaned, clean)
			}
		}
		t.searchPaths = cleaned
	}
}

// WithCommitHook registers a hook run on every successful commit.
func WithCommitHook(hook CommitHook) Option {
	return func(t *Tree) {
		if hook != nil {
			t.hooks = append(t.hooks, hook)
		}
	}
}

// WithLogger sets the logger used for commit diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Tree is an in-memory Resolver. It is not safe for concurrent mutation; each
// caller is expected to own its tree the way a request owns its session.
type Tree struct {
	root        *Resource
	searchPaths []string
	hooks       []CommitHook
	logger      *zap.Logger

	modified map[string]*ValueMap
	created  []*Resource
}

var _ Resolver = (*Tree)(nil)

// NewTree returns a tree holding only the root resource.
func NewTree(options ...Option) *Tree {
	t := &Tree{
		searchPaths: []string{"/apps", "/libs"},
		logger:      zap.NewNop(),
		modified:    make(map[string]*ValueMap),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
	t.root = t.newResource(nil, "", "/")
	return t
}

// Root returns the root resource.
func (t *Tree) Root() *Resource {
	return t.root
}

// SearchPaths returns the configured type search paths.
func (t *Tree) SearchPaths() []string {
	return append([]string(nil), t.searchPaths...)
}

// GetResource resolves an absolute path. It returns nil when the path is
// relative or nothing lives there.
func (t *Tree) GetResource(path string) *Resource {
	if t == nil || CleanPath(path) == "" {
		return nil
	}
	current := t.root
	for _, segment := range segments(path) {
		current = current.Child(segment)
		if current == nil {
			return nil
		}
	}
	return current
}

// IsResourceType reports whether res is of resourceType, either directly or
// through its super type chain.
func (t *Tree) IsResourceType(res *Resource, resourceType string) bool {
	want := t.normaliseType(resourceType)
	if res == nil || want == "" {
		return false
	}
	for _, rt := range t.SuperTypeChain(res) {
		if rt == want {
			return true
		}
	}
	return false
}

// SuperTypeChain returns the resource type of res followed by every super
// type, nearest first. Cycles are cut at the first repeated type.
func (t *Tree) SuperTypeChain(res *Resource) []string {
	if res == nil {
		return nil
	}
	first := t.normaliseType(res.ResourceType())
	chain := []string{first}
	seen := map[string]struct{}{first: {}}

	next := t.normaliseType(res.ResourceSuperType())
	if next == "" {
		next = t.superTypeOf(first)
	}
	for next != "" {
		if _, loop := seen[next]; loop {
			break
		}
		seen[next] = struct{}{}
		chain = append(chain, next)
		next = t.superTypeOf(next)
	}
	return chain
}

// TypeDefinition returns the resource holding the definition of
// resourceType, searching absolute types directly and relative types under
// each search path in order.
func (t *Tree) TypeDefinition(resourceType string) *Resource {
	rt := strings.TrimSpace(resourceType)
	if rt == "" {
		return nil
	}
	if strings.HasPrefix(rt, "/") {
		return t.GetResource(rt)
	}
	for _, base := range t.searchPaths {
		if def := t.GetResource(JoinPath(base, rt)); def != nil {
			return def
		}
	}
	return nil
}

func (t *Tree) superTypeOf(resourceType string) string {
	def := t.TypeDefinition(resourceType)
	if def == nil {
		return ""
	}
	return t.normaliseType(def.ValueMap().GetString(PropResourceSuperType))
}

// normaliseType strips a search path prefix so "/apps/x/y" and "x/y" compare
// equal.
func (t *Tree) normaliseType(resourceType string) string {
	rt := strings.TrimSpace(resourceType)
	if !strings.HasPrefix(rt, "/") {
		return rt
	}
	for _, base := range t.searchPaths {
		if strings.HasPrefix(rt, base+"/") {
			return strings.TrimPrefix(rt, base+"/")
		}
	}
	return rt
}

// Create adds a child named name under parentPath with the given properties,
// written in sorted key order.
func (t *Tree) Create(parentPath, name string, props map[string]any) (*Resource, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: child name %q", ErrInvalidPath, name)
	}
	parent := t.GetResource(parentPath)
	if parent == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, parentPath)
	}
	if parent.Child(name) != nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, JoinPath(parent.path, name))
	}

	child := t.newResource(parent, name, JoinPath(parent.path, name))
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		child.props.set(key, props[key])
	}
	parent.children = append(parent.children, child)
	t.created = append(t.created, child)
	return child, nil
}

// EnsurePath returns the resource at path, creating missing ancestors with
// the given primary type.
func (t *Tree) EnsurePath(path, primaryType string) (*Resource, error) {
	return t.ensurePath(path, primaryType, true)
}

func (t *Tree) ensurePath(path, primaryType string, track bool) (*Resource, error) {
	if CleanPath(path) == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	if primaryType == "" {
		primaryType = DefaultPrimaryType
	}
	current := t.root
	for _, segment := range segments(path) {
		next := current.Child(segment)
		if next == nil {
			next = t.newResource(current, segment, JoinPath(current.path, segment))
			next.props.set(PropPrimaryType, primaryType)
			current.children = append(current.children, next)
			if track {
				t.created = append(t.created, next)
			}
		}
		current = next
	}
	return current, nil
}

// HasChanges reports whether there are uncommitted modifications.
func (t *Tree) HasChanges() bool {
	return len(t.modified) > 0 || len(t.created) > 0
}

// Changes lists the paths touched since the last commit or revert.
func (t *Tree) Changes() []string {
	seen := make(map[string]struct{}, len(t.modified)+len(t.created))
	for path := range t.modified {
		seen[path] = struct{}{}
	}
	for _, res := range t.created {
		seen[res.path] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for path := range seen {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Commit persists pending changes by running the commit hooks and clearing
// the change log. Committing a clean tree is a no-op.
func (t *Tree) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !t.HasChanges() {
		return nil
	}
	paths := t.Changes()
	for _, hook := range t.hooks {
		if err := hook(ctx, paths); err != nil {
			return fmt.Errorf("resource: commit: %w", err)
		}
	}
	t.logger.Debug("repository changes committed", zap.Strings("paths", paths))
	t.modified = make(map[string]*ValueMap)
	t.created = nil
	return nil
}

// Revert discards pending changes: property edits are rolled back and created
// resources are removed.
func (t *Tree) Revert() {
	for idx := len(t.created) - 1; idx >= 0; idx-- {
		res := t.created[idx]
		if res.parent != nil {
			res.parent.detach(res)
		}
	}
	for path, snapshot := range t.modified {
		if res := t.GetResource(path); res != nil {
			res.props.restore(snapshot)
		}
	}
	t.modified = make(map[string]*ValueMap)
	t.created = nil
}

func (t *Tree) newResource(parent *Resource, name, path string) *Resource {
	res := &Resource{
		name:   name,
		path:   path,
		parent: parent,
		props:  NewValueMap(),
	}
	res.props.onWrite = func() { t.touch(res) }
	return res
}

// touch snapshots the properties of res before its first tracked write.
func (t *Tree) touch(res *Resource) {
	for _, created := range t.created {
		if created == res {
			return
		}
	}
	if _, ok := t.modified[res.path]; ok {
		return
	}
	t.modified[res.path] = res.props.Clone()
}
