package form

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Defaults applied by New.
const (
	DefaultActionType        = "foundation/components/form/actions/store"
	DefaultUserGeneratedRoot = "/content/usergenerated"
	DefaultFieldTypePrefix   = "core/wcm/components/form/"
)

// Properties written on form containers.
const (
	PropActionType = "actionType"
	PropAction     = "action"
)

// DefaultContainerTypes lists the resource types treated as form containers.
var DefaultContainerTypes = []string{
	"core/wcm/components/form/container/v1/container",
	"core/wcm/components/form/container/v2/container",
	"core/wcm/components/form/container",
}

// Option customises a StructureHelper.
type Option func(*StructureHelper)

// WithContainerTypes replaces the container type allow-list.
func WithContainerTypes(types ...string) Option {
	return func(h *StructureHelper) {
		if cleaned := cleanList(types); len(cleaned) > 0 {
			h.containerTypes = cleaned
		}
	}
}

// WithFieldTypePrefixes replaces the prefixes identifying form field types.
func WithFieldTypePrefixes(prefixes ...string) Option {
	return func(h *StructureHelper) {
		if cleaned := cleanList(prefixes); len(cleaned) > 0 {
			h.fieldPrefixes = cleaned
		}
	}
}

// WithDefaultActionType overrides the action type stamped on containers that
// have none.
func WithDefaultActionType(actionType string) Option {
	return func(h *StructureHelper) {
		if trimmed := strings.TrimSpace(actionType); trimmed != "" {
			h.defaultActionType = trimmed
		}
	}
}

// WithUserGeneratedRoot overrides where generated action targets live.
func WithUserGeneratedRoot(root string) Option {
	return func(h *StructureHelper) {
		if trimmed := strings.TrimSpace(root); trimmed != "" {
			h.userGeneratedRoot = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithClock injects the time source used for generated action targets.
func WithClock(now func() time.Time) Option {
	return func(h *StructureHelper) {
		if now != nil {
			h.now = now
		}
	}
}

// WithAutoCommit controls whether UpdateFormStructure commits the resolver
// after changing a container. Enabled by default.
func WithAutoCommit(enabled bool) Option {
	return func(h *StructureHelper) {
		h.autoCommit = enabled
	}
}

// WithLogger sets the helper logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *StructureHelper) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
