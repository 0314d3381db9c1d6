// Package sqlite rewrites sqlite connection URLs into the file DSN form
// the driver expects.
package sqlite

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-datasource/core"
)

// Prefix is the URL prefix this normalizer claims in the registry.
const Prefix = "sqlite://"

// Normalizer converts sqlite:// URLs to file: DSNs. Relative file paths
// resolve against the process working directory, so construction runs
// under the configured base directory.
type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

func (*Normalizer) UpdatedURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("sqlite: connection url is required")
	}
	if !strings.HasPrefix(trimmed, Prefix) {
		return trimmed, nil
	}
	rest := strings.TrimPrefix(trimmed, Prefix)
	if rest == "" {
		return "", fmt.Errorf("sqlite: connection url has no path: %s", raw)
	}
	if strings.HasPrefix(rest, "file:") {
		return rest, nil
	}
	return "file:" + rest, nil
}

func (*Normalizer) RequiresBaseDirOverride() bool {
	return true
}

// Register claims the sqlite prefix in the supplied registry.
func Register(registry core.NormalizerRegistry) error {
	return registry.Register(Prefix, New())
}

var _ core.URLNormalizer = (*Normalizer)(nil)
