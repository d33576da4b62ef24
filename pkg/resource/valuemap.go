package resource

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueMap holds a resource's properties in insertion order. Writes made
// through Set/Delete are reported to the owning Tree so they can be committed
// or reverted.
type ValueMap struct {
	keys    []string
	values  map[string]any
	onWrite func()
}

// NewValueMap returns an empty, detached value map.
func NewValueMap() *ValueMap {
	return &ValueMap{values: make(map[string]any)}
}

// Get returns the raw value stored under key.
func (m *ValueMap) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	value, ok := m.values[key]
	return value, ok
}

// GetString returns the value under key formatted as a string. Missing keys
// and nil values return "".
func (m *ValueMap) GetString(key string) string {
	value, ok := m.Get(key)
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return typed
	case []any:
		if len(typed) == 0 {
			return ""
		}
		return fmt.Sprint(typed[0])
	default:
		return fmt.Sprint(typed)
	}
}

// GetBool interprets the value under key as a boolean. Strings are parsed with
// strconv.ParseBool; anything else is false.
func (m *ValueMap) GetBool(key string) bool {
	value, ok := m.Get(key)
	if !ok {
		return false
	}
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		return err == nil && parsed
	default:
		return false
	}
}

// GetInt interprets the value under key as an integer.
func (m *ValueMap) GetInt(key string) (int, bool) {
	value, ok := m.Get(key)
	if !ok {
		return 0, false
	}
	switch typed := value.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		return int(typed), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// Has reports whether key is present.
func (m *ValueMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the property names in insertion order.
func (m *ValueMap) Keys() []string {
	if m == nil || len(m.keys) == 0 {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of properties.
func (m *ValueMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Set stores value under key, keeping the original position when the key
// already exists.
func (m *ValueMap) Set(key string, value any) {
	if m == nil || strings.TrimSpace(key) == "" {
		return
	}
	if m.onWrite != nil {
		m.onWrite()
	}
	m.set(key, value)
}

// Delete removes key.
func (m *ValueMap) Delete(key string) {
	if m == nil || !m.Has(key) {
		return
	}
	if m.onWrite != nil {
		m.onWrite()
	}
	delete(m.values, key)
	for idx, existing := range m.keys {
		if existing == key {
			m.keys = append(m.keys[:idx], m.keys[idx+1:]...)
			break
		}
	}
}

// Clone returns a detached copy. Slice values are copied one level deep.
func (m *ValueMap) Clone() *ValueMap {
	out := NewValueMap()
	if m == nil {
		return out
	}
	for _, key := range m.keys {
		out.set(key, cloneValue(m.values[key]))
	}
	return out
}

// Map returns the properties as a plain map.
func (m *ValueMap) Map() map[string]any {
	if m == nil || len(m.keys) == 0 {
		return nil
	}
	out := make(map[string]any, len(m.keys))
	for _, key := range m.keys {
		out[key] = cloneValue(m.values[key])
	}
	return out
}

func (m *ValueMap) set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *ValueMap) restore(snapshot *ValueMap) {
	m.keys = snapshot.keys
	m.values = snapshot.values
}

func cloneValue(value any) any {
	if list, ok := value.([]any); ok {
		out := make([]any, len(list))
		copy(out, list)
		return out
	}
	return value
}
