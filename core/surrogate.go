package core

import (
	"fmt"
	"strings"
	"sync"
)

// Surrogate is a name-only stand-in for a factory crossing a
// serialization boundary. It carries no credentials or connection state;
// materialization resolves the live factory through a NamingDirectory.
type Surrogate struct {
	Name string `json:"name"`
}

// Resolve looks the surrogate up in the supplied directory. The result is
// always the live factory bound under the name, never a reconstructed
// one.
func (s Surrogate) Resolve(directory NamingDirectory) (*ManagedDataSource, error) {
	if directory == nil {
		return nil, fmt.Errorf("core: naming directory is required")
	}
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return nil, fmt.Errorf("core: surrogate name is required")
	}
	source, ok := directory.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("core: no data source bound under name: %s", name)
	}
	return source, nil
}

type MemoryNamingDirectory struct {
	mu      sync.RWMutex
	sources map[string]*ManagedDataSource
}

func NewMemoryNamingDirectory() *MemoryNamingDirectory {
	return &MemoryNamingDirectory{sources: make(map[string]*ManagedDataSource)}
}

func (d *MemoryNamingDirectory) Bind(name string, source *ManagedDataSource) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("core: binding name is required")
	}
	if source == nil {
		return fmt.Errorf("core: data source is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.sources[trimmed]; exists {
		return fmt.Errorf("core: name already bound: %s", trimmed)
	}
	d.sources[trimmed] = source
	return nil
}

func (d *MemoryNamingDirectory) Lookup(name string) (*ManagedDataSource, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, false
	}
	d.mu.RLock()
	source, ok := d.sources[trimmed]
	d.mu.RUnlock()
	return source, ok
}

func (d *MemoryNamingDirectory) Unbind(name string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	d.mu.Lock()
	delete(d.sources, trimmed)
	d.mu.Unlock()
}
