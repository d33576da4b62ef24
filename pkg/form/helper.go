package form

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstructure/pkg/resource"
)

// Helper answers structural questions about forms in a resource tree.
type Helper interface {
	// CanManage reports whether res is a form container or form field this
	// helper understands.
	CanManage(res *resource.Resource) bool
	// GetFormResource returns the nearest form container at or above res.
	GetFormResource(res *resource.Resource) *resource.Resource
	// GetFormElements yields the form fields below res in tree order.
	GetFormElements(res *resource.Resource) iter.Seq[*resource.Resource]
	// UpdateFormStructure records the submission action on a form container.
	UpdateFormStructure(ctx context.Context, res *resource.Resource) error
}

// StructureHelper is the Helper for core form components.
type StructureHelper struct {
	resolver          resource.Resolver
	containerTypes    []string
	fieldPrefixes     []string
	defaultActionType string
	userGeneratedRoot string
	now               func() time.Time
	autoCommit        bool
	logger            *zap.Logger
}

var _ Helper = (*StructureHelper)(nil)

// New returns a helper bound to resolver.
func New(resolver resource.Resolver, options ...Option) *StructureHelper {
	h := &StructureHelper{
		resolver:          resolver,
		containerTypes:    append([]string(nil), DefaultContainerTypes...),
		fieldPrefixes:     []string{DefaultFieldTypePrefix},
		defaultActionType: DefaultActionType,
		userGeneratedRoot: DefaultUserGeneratedRoot,
		now:               time.Now,
		autoCommit:        true,
		logger:            zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h
}

// Resolver returns the resolver the helper reads from.
func (h *StructureHelper) Resolver() resource.Resolver {
	if h == nil {
		return nil
	}
	return h.resolver
}

// DefaultActionType returns the action type stamped by UpdateFormStructure.
func (h *StructureHelper) DefaultActionType() string {
	if h == nil {
		return ""
	}
	return h.defaultActionType
}

// CanManage implements Helper.
func (h *StructureHelper) CanManage(res *resource.Resource) bool {
	return h.IsFormContainer(res) || h.IsFormField(res)
}

// IsFormContainer reports whether res is one of the container types.
func (h *StructureHelper) IsFormContainer(res *resource.Resource) bool {
	if h == nil || h.resolver == nil || res == nil {
		return false
	}
	for _, containerType := range h.containerTypes {
		if h.resolver.IsResourceType(res, containerType) {
			return true
		}
	}
	return false
}

// IsFormField reports whether res is a form field: not a container and typed
// under one of the field prefixes.
func (h *StructureHelper) IsFormField(res *resource.Resource) bool {
	if h == nil || h.resolver == nil || res == nil {
		return false
	}
	if h.IsFormContainer(res) {
		return false
	}
	for _, rt := range h.resolver.SuperTypeChain(res) {
		for _, prefix := range h.fieldPrefixes {
			if strings.HasPrefix(rt, prefix) {
				return true
			}
		}
	}
	return false
}

// GetFormResource implements Helper. The search starts at res itself.
func (h *StructureHelper) GetFormResource(res *resource.Resource) *resource.Resource {
	if res == nil {
		return nil
	}
	for current := res; current != nil; current = current.Parent() {
		if h.IsFormContainer(current) {
			return current
		}
	}
	h.log().Debug("no form container above resource", zap.String("path", res.Path()))
	return nil
}

// GetFormElements implements Helper. The sequence is empty when res is nil or
// not inside a form. It walks the tree afresh on every range, so it reflects
// the current state of the repository.
func (h *StructureHelper) GetFormElements(res *resource.Resource) iter.Seq[*resource.Resource] {
	return func(yield func(*resource.Resource) bool) {
		if res == nil || h.GetFormResource(res) == nil {
			return
		}
		for child := range res.Children() {
			if !h.walkElements(child, yield) {
				return
			}
		}
	}
}

func (h *StructureHelper) walkElements(res *resource.Resource, yield func(*resource.Resource) bool) bool {
	if h.IsFormContainer(res) {
		return true
	}
	if h.IsFormField(res) {
		return yield(res)
	}
	for child := range res.Children() {
		if !h.walkElements(child, yield) {
			return false
		}
	}
	return true
}

// UpdateFormStructure implements Helper. Blank action type and action target
// properties are filled in; existing values are kept so repeated calls are
// stable. Non-container and nil resources are ignored.
func (h *StructureHelper) UpdateFormStructure(ctx context.Context, res *resource.Resource) error {
	if !h.IsFormContainer(res) {
		return nil
	}

	props := res.ValueMap()
	changed := false
	if strings.TrimSpace(props.GetString(PropActionType)) == "" {
		props.Set(PropActionType, h.defaultActionType)
		changed = true
	}
	if strings.TrimSpace(props.GetString(PropAction)) == "" {
		props.Set(PropAction, h.ActionTarget(res))
		changed = true
	}
	if !changed {
		return nil
	}

	h.log().Info("form structure updated",
		zap.String("path", res.Path()),
		zap.String("actionType", props.GetString(PropActionType)),
		zap.String("action", props.GetString(PropAction)),
	)

	if !h.autoCommit || !h.resolver.HasChanges() {
		return nil
	}
	if err := h.resolver.Commit(ctx); err != nil {
		return fmt.Errorf("form: update %s: %w", res.Path(), err)
	}
	return nil
}

// ActionTarget derives a fresh action target for form: the page path below
// the user generated root followed by a time based segment, with a trailing
// slash so stored submissions are created beneath it.
func (h *StructureHelper) ActionTarget(form *resource.Resource) string {
	pagePath := form.Path()
	if idx := strings.Index(pagePath, "/jcr:content"); idx >= 0 {
		pagePath = pagePath[:idx]
	}
	if pagePath == "/content" || strings.HasPrefix(pagePath, "/content/") {
		pagePath = strings.TrimPrefix(pagePath, "/content")
	}
	base := resource.JoinPath(h.userGeneratedRoot, pagePath)
	return fmt.Sprintf("%s/cq-gen%d/", strings.TrimSuffix(base, "/"), h.now().UnixMilli())
}

func (h *StructureHelper) log() *zap.Logger {
	if h == nil || h.logger == nil {
		return zap.NewNop()
	}
	return h.logger
}
