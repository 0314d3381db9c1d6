package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryManagementRegistry keeps management handles in process memory.
// Useful for embedding and tests; out-of-process visibility is provided
// by the SQL-backed registry in store/sql.
type MemoryManagementRegistry struct {
	mu      sync.RWMutex
	handles map[string]ManagementHandle
}

func NewMemoryManagementRegistry() *MemoryManagementRegistry {
	return &MemoryManagementRegistry{handles: make(map[string]ManagementHandle)}
}

func (r *MemoryManagementRegistry) Register(_ context.Context, handle ManagementHandle) error {
	name := strings.TrimSpace(handle.Name)
	if name == "" {
		return fmt.Errorf("core: management handle name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handles[name]; exists {
		return fmt.Errorf("core: management handle already registered: %s", name)
	}
	r.handles[name] = handle
	return nil
}

func (r *MemoryManagementRegistry) Unregister(_ context.Context, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("core: management handle name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handles[trimmed]; !exists {
		return fmt.Errorf("core: management handle not registered: %s", trimmed)
	}
	delete(r.handles, trimmed)
	return nil
}

// Handles returns the registered handles ordered by name. The snapshot is
// taken under a single lock acquisition so a concurrent Unregister cannot
// punch holes in the result.
func (r *MemoryManagementRegistry) Handles() []ManagementHandle {
	r.mu.RLock()
	out := make([]ManagementHandle, 0, len(r.handles))
	for _, handle := range r.handles {
		out = append(out, handle)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
