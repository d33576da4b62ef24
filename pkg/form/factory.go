package form

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstructure/pkg/resource"
)

// CoreHelperName is the name the core StructureHelper is registered under.
const CoreHelperName = "core"

type factoryEntry struct {
	name     string
	priority int
	helper   Helper
	order    int
}

// Factory picks the helper responsible for a resource. Higher priority wins;
// ties fall back to registration order. Re-registering a name replaces the
// previous helper.
type Factory struct {
	mu      sync.RWMutex
	entries []factoryEntry
	next    int
}

// NewFactory returns a factory with the core helper registered at priority 0.
func NewFactory(resolver resource.Resolver, options ...Option) *Factory {
	f := &Factory{}
	f.Register(CoreHelperName, 0, New(resolver, options...))
	return f
}

// Register adds helper under name.
func (f *Factory) Register(name string, priority int, helper Helper) {
	if f == nil || helper == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for idx, entry := range f.entries {
		if entry.name == trimmed {
			f.entries = append(f.entries[:idx], f.entries[idx+1:]...)
			break
		}
	}
	f.entries = append(f.entries, factoryEntry{
		name:     trimmed,
		priority: priority,
		helper:   helper,
		order:    f.next,
	})
	f.next++
	sort.SliceStable(f.entries, func(i, j int) bool {
		if f.entries[i].priority == f.entries[j].priority {
			return f.entries[i].order < f.entries[j].order
		}
		return f.entries[i].priority > f.entries[j].priority
	})
}

// Helper returns the helper registered under name.
func (f *Factory) Helper(name string) (Helper, bool) {
	if f == nil {
		return nil, false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, entry := range f.entries {
		if entry.name == name {
			return entry.helper, true
		}
	}
	return nil, false
}

// HelperFor returns the first helper that can manage res, or nil.
func (f *Factory) HelperFor(res *resource.Resource) Helper {
	if f == nil || res == nil {
		return nil
	}
	f.mu.RLock()
	entries := append([]factoryEntry(nil), f.entries...)
	f.mu.RUnlock()

	for _, entry := range entries {
		if entry.helper.CanManage(res) {
			return entry.helper
		}
	}
	return nil
}

// Names lists registered helpers in resolution order.
func (f *Factory) Names() []string {
	if f == nil {
		return nil
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.entries))
	for _, entry := range f.entries {
		out = append(out, entry.name)
	}
	return out
}
