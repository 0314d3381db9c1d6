package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// PoolInstance is the underlying pooled connection source produced by a
// PoolEngine. The factory owns at most one per lifetime.
type PoolInstance interface {
	Close(ctx context.Context) error
}

// ParentLoggerProvider is an optional capability a PoolInstance may
// implement. Instances that expose it surface their internal logger
// through ManagedDataSource.ParentLogger.
type ParentLoggerProvider interface {
	ParentLogger() Logger
}

// PoolEngine owns the physical connection lifecycle (borrow, return,
// evict). The factory only delegates construction and teardown; calls may
// block on network I/O while physical connections are opened or drained.
type PoolEngine interface {
	Create(ctx context.Context, cfg Config) (PoolInstance, error)
}

// PasswordCipher recovers a plaintext credential from a stored ciphertext.
// Implementations are looked up by strategy name through a CipherRegistry.
type PasswordCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// CipherRegistry resolves cipher strategies by name.
type CipherRegistry interface {
	Register(name string, cipher PasswordCipher) error
	Get(name string) (PasswordCipher, bool)
}

// URLNormalizer rewrites or validates a connection URL for vendor quirks.
// RequiresBaseDirOverride reports whether construction must run with the
// process working directory swapped to the configured base directory.
type URLNormalizer interface {
	UpdatedURL(raw string) (string, error)
	RequiresBaseDirOverride() bool
}

// NormalizerRegistry resolves URL normalizers by URL prefix. Absence of a
// plugin is not an error; the default construction path applies.
type NormalizerRegistry interface {
	Register(prefix string, normalizer URLNormalizer) error
	Lookup(url string) (URLNormalizer, bool)
}

// ManagementHandle is the externally-visible registration of one factory,
// keyed by its name.
type ManagementHandle struct {
	ID         string
	Name       string
	DriverName string
	URL        string
	State      LifecycleState
}

// ManagementRegistry exposes factories to an out-of-process monitoring
// system. Both operations are best-effort: failures never block the
// factory.
type ManagementRegistry interface {
	Register(ctx context.Context, handle ManagementHandle) error
	Unregister(ctx context.Context, name string) error
}

// TransactionManager coordinates distributed transactions. The factory
// treats it as opaque; it only binds one to a deferred XA data source.
type TransactionManager interface {
	Name() string
}

// XADataSource is a data source capable of participating in a distributed
// two-phase-commit transaction.
type XADataSource interface {
	XAName() string
}

// XAResolver resolves an XA-capable data source by name. A not-found
// failure is expected when the driver is not loadable yet; the factory
// falls back to a deferred proxy in that case.
type XAResolver interface {
	Resolve(name string) (XADataSource, error)
}

// NamingDirectory maps factory names to live factories. Serialization
// surrogates resolve through it instead of reconstructing configuration.
type NamingDirectory interface {
	Bind(name string, source *ManagedDataSource) error
	Lookup(name string) (*ManagedDataSource, bool)
	Unbind(name string)
}

// ConfigProvider loads configuration on top of supplied defaults.
type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

// RawConfigLoader yields unshaped configuration values for a provider.
type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

// OptionsResolver merges defaults, loaded, and runtime configuration into
// the final Config.
type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
