package core

import (
	"fmt"
	"strings"
	"sync"
)

// PlainTextCipherName is the strategy registered by default. It treats the
// stored password as plaintext.
const PlainTextCipherName = "plain"

// PlainTextCipher passes credentials through unchanged.
type PlainTextCipher struct{}

func (PlainTextCipher) Encrypt(plaintext string) (string, error) {
	return plaintext, nil
}

func (PlainTextCipher) Decrypt(ciphertext string) (string, error) {
	return ciphertext, nil
}

type MemoryCipherRegistry struct {
	mu      sync.RWMutex
	ciphers map[string]PasswordCipher
}

// NewMemoryCipherRegistry builds a registry pre-populated with the
// plaintext strategy.
func NewMemoryCipherRegistry() *MemoryCipherRegistry {
	registry := &MemoryCipherRegistry{ciphers: make(map[string]PasswordCipher)}
	registry.ciphers[PlainTextCipherName] = PlainTextCipher{}
	return registry
}

func (r *MemoryCipherRegistry) Register(name string, cipher PasswordCipher) error {
	if cipher == nil {
		return fmt.Errorf("core: cipher is nil")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("core: cipher name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ciphers[trimmed]; exists {
		return fmt.Errorf("core: cipher already registered: %s", trimmed)
	}
	r.ciphers[trimmed] = cipher
	return nil
}

func (r *MemoryCipherRegistry) Get(name string) (PasswordCipher, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, false
	}
	r.mu.RLock()
	cipher, ok := r.ciphers[trimmed]
	r.mu.RUnlock()
	return cipher, ok
}
