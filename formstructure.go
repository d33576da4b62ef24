package formstructure

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formstructure/pkg/action"
	"github.com/goliatone/go-formstructure/pkg/form"
	"github.com/goliatone/go-formstructure/pkg/resource"
)

// Resource aliases resource.Resource so callers can stay on the root package.
type Resource = resource.Resource

// Resolver aliases the repository session the helpers work against.
type Resolver = resource.Resolver

// Tree aliases the in-memory repository.
type Tree = resource.Tree

// Helper aliases the form structure helper contract.
type Helper = form.Helper

// NewTree constructs an empty in-memory repository.
func NewTree(options ...resource.Option) *Tree {
	return resource.NewTree(options...)
}

// LoadTree mounts each file of fsys at its path, in order.
func LoadTree(fsys fs.FS, mounts []Mount, options ...resource.Option) (*Tree, error) {
	tree := resource.NewTree(options...)
	for _, m := range mounts {
		if err := tree.LoadFS(fsys, m.File, m.Path); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// Mount pairs a content file with the repository path it is loaded at.
type Mount struct {
	File string
	Path string
}

// NewHelper exposes the core structure helper constructor.
func NewHelper(resolver Resolver, options ...form.Option) *form.StructureHelper {
	return form.New(resolver, options...)
}

// NewFactory returns a factory with the core helper registered.
func NewFactory(resolver Resolver, options ...form.Option) *form.Factory {
	return form.NewFactory(resolver, options...)
}

// Submit stores values for the form containing res using the default store
// action. See action.SubmitForm.
func Submit(ctx context.Context, helper *form.StructureHelper, res *Resource, values map[string]any, options ...action.StoreOption) (*Resource, error) {
	return action.SubmitForm(ctx, helper, action.DefaultRegistry(helper, options...), res, values)
}
