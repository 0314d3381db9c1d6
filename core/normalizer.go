package core

import (
	"fmt"
	"strings"
	"sync"
)

// MemoryNormalizerRegistry resolves URL normalizers by URL prefix. When
// several prefixes match, the longest one wins.
type MemoryNormalizerRegistry struct {
	mu          sync.RWMutex
	normalizers map[string]URLNormalizer
}

func NewMemoryNormalizerRegistry() *MemoryNormalizerRegistry {
	return &MemoryNormalizerRegistry{normalizers: make(map[string]URLNormalizer)}
}

func (r *MemoryNormalizerRegistry) Register(prefix string, normalizer URLNormalizer) error {
	if normalizer == nil {
		return fmt.Errorf("core: normalizer is nil")
	}
	trimmed := strings.TrimSpace(prefix)
	if trimmed == "" {
		return fmt.Errorf("core: normalizer prefix is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.normalizers[trimmed]; exists {
		return fmt.Errorf("core: normalizer already registered: %s", trimmed)
	}
	r.normalizers[trimmed] = normalizer
	return nil
}

func (r *MemoryNormalizerRegistry) Lookup(url string) (URLNormalizer, bool) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		best       URLNormalizer
		bestLength int
	)
	for prefix, normalizer := range r.normalizers {
		if strings.HasPrefix(trimmed, prefix) && len(prefix) > bestLength {
			best = normalizer
			bestLength = len(prefix)
		}
	}
	return best, best != nil
}
