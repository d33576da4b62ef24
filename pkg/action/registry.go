package action

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstructure/pkg/form"
	"github.com/goliatone/go-formstructure/pkg/resource"
)

var (
	// ErrNotForm is returned when the submission target is not a form container.
	ErrNotForm = errors.New("action: resource is not a form container")
	// ErrNoActionType is returned when a container has no actionType.
	ErrNoActionType = errors.New("action: form has no action type")
	// ErrUnknownAction is returned when no handler matches the actionType.
	ErrUnknownAction = errors.New("action: no handler for action type")
	// ErrDuplicateAction is returned when an action type is registered twice.
	ErrDuplicateAction = errors.New("action: action type already handled")
	// ErrInvalidHandler is returned for nil handlers or handlers without an
	// action type.
	ErrInvalidHandler = errors.New("action: invalid handler")
)

// Handler processes submissions for one action type.
type Handler interface {
	ActionType() string
	Submit(ctx context.Context, container *resource.Resource, values map[string]any) (*resource.Resource, error)
}

// Registry maps action types to the handlers processing them.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns a registry without handlers.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register makes handler responsible for its action type. An action type can
// only be handled once.
func (r *Registry) Register(handler Handler) error {
	if handler == nil {
		return fmt.Errorf("%w: nil", ErrInvalidHandler)
	}
	actionType := strings.TrimSpace(handler.ActionType())
	if actionType == "" {
		return fmt.Errorf("%w: %T has no action type", ErrInvalidHandler, handler)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.handlers[actionType]; taken {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, actionType)
	}
	r.handlers[actionType] = handler
	return nil
}

// MustRegister is Register for static wiring; it panics on error.
func (r *Registry) MustRegister(handler Handler) {
	if err := r.Register(handler); err != nil {
		panic(err)
	}
}

// Get returns the handler for actionType.
func (r *Registry) Get(actionType string) (Handler, error) {
	key := strings.TrimSpace(actionType)
	r.mu.RLock()
	handler, ok := r.handlers[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, key)
	}
	return handler, nil
}

// List returns the handled action types in lexical order.
func (r *Registry) List() []string {
	r.mu.RLock()
	types := make([]string, 0, len(r.handlers))
	for actionType := range r.handlers {
		types = append(types, actionType)
	}
	r.mu.RUnlock()
	sort.Strings(types)
	return types
}

// Dispatch submits values to the handler named by the container's actionType.
func (r *Registry) Dispatch(ctx context.Context, container *resource.Resource, values map[string]any) (*resource.Resource, error) {
	if container == nil {
		return nil, ErrNotForm
	}
	actionType := strings.TrimSpace(container.ValueMap().GetString(form.PropActionType))
	if actionType == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoActionType, container.Path())
	}
	handler, err := r.Get(actionType)
	if err != nil {
		return nil, err
	}
	return handler.Submit(ctx, container, values)
}
