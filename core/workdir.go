package core

import (
	"fmt"
	"os"
	"strings"
)

// withBaseDir runs fn with the process working directory swapped to base
// and restores the previous directory on every exit path. The working
// directory is process-global: two factories running the override
// concurrently race each other, same as the upstream behavior this
// preserves.
func withBaseDir(base string, fn func() error) error {
	dir := strings.TrimSpace(base)
	if dir == "" {
		return fn()
	}
	previous, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("core: resolve working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("core: enter base directory %s: %w", dir, err)
	}
	defer func() {
		_ = os.Chdir(previous)
	}()
	return fn()
}
