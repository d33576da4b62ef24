package action

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstructure/pkg/form"
	"github.com/goliatone/go-formstructure/pkg/resource"
	"github.com/goliatone/go-formstructure/pkg/submission"
)

// Properties written on stored submissions.
const (
	PropFormPath = "formPath"
	PropCreated  = "jcr:created"
)

// ValidationError reports the issues that rejected a submission.
type ValidationError struct {
	Form   string
	Issues []submission.Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Field == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return fmt.Sprintf("action: submission to %s rejected: %s", e.Form, strings.Join(parts, "; "))
}

// StoreOption customises a StoreHandler.
type StoreOption func(*StoreHandler)

// WithNameGenerator overrides how submission node names are generated.
func WithNameGenerator(next func() string) StoreOption {
	return func(s *StoreHandler) {
		if next != nil {
			s.nextName = next
		}
	}
}

// WithStoreClock injects the time source used for jcr:created.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *StoreHandler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStoreLogger sets the handler logger.
func WithStoreLogger(logger *zap.Logger) StoreOption {
	return func(s *StoreHandler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// StoreHandler persists submissions under the container's action target.
type StoreHandler struct {
	helper   *form.StructureHelper
	nextName func() string
	now      func() time.Time
	logger   *zap.Logger
}

var _ Handler = (*StoreHandler)(nil)

// NewStoreHandler returns a store handler reading forms through helper.
func NewStoreHandler(helper *form.StructureHelper, options ...StoreOption) *StoreHandler {
	s := &StoreHandler{
		helper:   helper,
		nextName: uuid.NewString,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// ActionType implements Handler.
func (s *StoreHandler) ActionType() string {
	return s.helper.DefaultActionType()
}

// Submit implements Handler. Values are reduced to the form fields, stripped
// of markup and validated; exactly the validated values are stored in a new
// resource. The repository is committed once the resource is written and
// reverted if the commit fails.
func (s *StoreHandler) Submit(ctx context.Context, container *resource.Resource, values map[string]any) (*resource.Resource, error) {
	if !s.helper.IsFormContainer(container) {
		return nil, ErrNotForm
	}
	resolver := s.helper.Resolver()

	if err := s.helper.UpdateFormStructure(ctx, container); err != nil {
		return nil, err
	}
	target := strings.TrimSpace(container.ValueMap().GetString(form.PropAction))

	fields := submission.Fields(resolver, s.helper.GetFormElements(container))
	clean := submission.Normalize(fields, submission.Sanitize(submission.Normalize(fields, values)))
	result := submission.Validate(submission.Schema(fields), clean)
	if !result.Valid {
		s.logger.Warn("form submission rejected",
			zap.String("form", container.Path()),
			zap.Int("issues", len(result.Issues)),
		)
		return nil, &ValidationError{Form: container.Path(), Issues: result.Issues}
	}

	folder, err := resolver.EnsurePath(target, resource.FolderType)
	if err != nil {
		return nil, fmt.Errorf("action: store %s: %w", container.Path(), err)
	}

	props := make(map[string]any, len(clean)+3)
	for key, value := range clean {
		props[key] = value
	}
	props[resource.PropPrimaryType] = resource.DefaultPrimaryType
	props[PropFormPath] = container.Path()
	props[PropCreated] = s.now().UTC().Format(time.RFC3339)

	entry, err := resolver.Create(folder.Path(), s.nextName(), props)
	if err != nil {
		resolver.Revert()
		return nil, fmt.Errorf("action: store %s: %w", container.Path(), err)
	}
	if err := resolver.Commit(ctx); err != nil {
		resolver.Revert()
		return nil, fmt.Errorf("action: store %s: %w", container.Path(), err)
	}

	s.logger.Info("form submission stored",
		zap.String("form", container.Path()),
		zap.String("path", entry.Path()),
	)
	return entry, nil
}

// SubmitForm submits values to the form containing res: the form structure is
// completed first (blank action type and target are filled in, existing ones
// kept) and the values are dispatched through registry.
func SubmitForm(ctx context.Context, helper *form.StructureHelper, registry *Registry, res *resource.Resource, values map[string]any) (*resource.Resource, error) {
	container := helper.GetFormResource(res)
	if container == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotForm, res.Path())
	}
	if err := helper.UpdateFormStructure(ctx, container); err != nil {
		return nil, err
	}
	return registry.Dispatch(ctx, container, values)
}

// DefaultRegistry returns a registry with the store handler registered.
func DefaultRegistry(helper *form.StructureHelper, options ...StoreOption) *Registry {
	reg := NewRegistry()
	reg.MustRegister(NewStoreHandler(helper, options...))
	return reg
}
