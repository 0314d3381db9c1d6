// Package postgres canonicalizes postgres connection URLs.
package postgres

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-datasource/core"
)

const (
	// Prefix is the short scheme this normalizer rewrites.
	Prefix = "postgres://"
	// CanonicalPrefix is the scheme the rewritten URL carries.
	CanonicalPrefix = "postgresql://"
)

// Normalizer rewrites the postgres:// shorthand to the canonical
// postgresql:// scheme. No base-dir override is needed; postgres DSNs
// carry no file paths.
type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

func (*Normalizer) UpdatedURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("postgres: connection url is required")
	}
	if strings.HasPrefix(trimmed, Prefix) {
		return CanonicalPrefix + strings.TrimPrefix(trimmed, Prefix), nil
	}
	return trimmed, nil
}

func (*Normalizer) RequiresBaseDirOverride() bool {
	return false
}

// Register claims both postgres URL schemes in the supplied registry.
func Register(registry core.NormalizerRegistry) error {
	if err := registry.Register(Prefix, New()); err != nil {
		return err
	}
	return registry.Register(CanonicalPrefix, New())
}

var _ core.URLNormalizer = (*Normalizer)(nil)
