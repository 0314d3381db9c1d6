package datasource

import (
	"github.com/goliatone/go-datasource/adapters/gologger"
	"github.com/goliatone/go-datasource/core"
	"github.com/goliatone/go-datasource/engine/bunpool"
	pgnormalizer "github.com/goliatone/go-datasource/normalizers/postgres"
	sqlitenormalizer "github.com/goliatone/go-datasource/normalizers/sqlite"
	"github.com/goliatone/go-datasource/security"
)

// Setup wires a ManagedDataSource with the bun-backed pool engine, the
// built-in URL normalizers, and SQL logging routed through glog. Options
// may still override any dependency.
func Setup(cfg Config, opts ...Option) (*ManagedDataSource, error) {
	registry, err := DefaultNormalizerRegistry()
	if err != nil {
		return nil, err
	}
	_, logger := gologger.Resolve("datasource", nil, nil)
	engine := bunpool.New(
		bunpool.WithLogger(logger),
		bunpool.WithQueryHook(gologger.NewQueryHook(logger)),
	)
	defaults := []Option{
		WithLogger(logger),
		WithPoolEngine(engine),
		WithNormalizerRegistry(registry),
	}
	return core.New(cfg, append(defaults, opts...)...)
}

// DefaultNormalizerRegistry registers the sqlite and postgres URL plugins.
func DefaultNormalizerRegistry() (NormalizerRegistry, error) {
	registry := core.NewMemoryNormalizerRegistry()
	if err := sqlitenormalizer.Register(registry); err != nil {
		return nil, err
	}
	if err := pgnormalizer.Register(registry); err != nil {
		return nil, err
	}
	return registry, nil
}

// BunPoolEngine exposes the default engine for callers that want to tune
// pool knobs before handing it to New.
func BunPoolEngine(opts ...bunpool.Option) PoolEngine {
	return bunpool.New(opts...)
}

// AppKeyCipher builds the AES-GCM password strategy from raw key material.
func AppKeyCipher(key string, opts ...security.Option) (PasswordCipher, error) {
	return security.NewAppKeyCipherFromString(key, opts...)
}

// AppKeyCipherRegistry returns a registry with both the plaintext and the
// appkey strategies installed.
func AppKeyCipherRegistry(key string, opts ...security.Option) (CipherRegistry, error) {
	appKey, err := security.NewAppKeyCipherFromString(key, opts...)
	if err != nil {
		return nil, err
	}
	registry := core.NewMemoryCipherRegistry()
	if err := security.Register(registry, appKey); err != nil {
		return nil, err
	}
	return registry, nil
}
