package datasource

import "github.com/goliatone/go-datasource/core"

type Config = core.Config

type Option = core.Option

type ManagedDataSource = core.ManagedDataSource

type Surrogate = core.Surrogate

type LifecycleState = core.LifecycleState
type ManagementHandle = core.ManagementHandle

type PoolInstance = core.PoolInstance
type PoolEngine = core.PoolEngine
type PasswordCipher = core.PasswordCipher
type CipherRegistry = core.CipherRegistry
type URLNormalizer = core.URLNormalizer
type NormalizerRegistry = core.NormalizerRegistry
type ManagementRegistry = core.ManagementRegistry
type TransactionManager = core.TransactionManager
type XADataSource = core.XADataSource
type XAResolver = core.XAResolver
type NamingDirectory = core.NamingDirectory

const (
	StateCreated = core.StateCreated
	StateActive  = core.StateActive
	StateClosed  = core.StateClosed
)

var (
	WithLogger             = core.WithLogger
	WithLoggerProvider     = core.WithLoggerProvider
	WithErrorFactory       = core.WithErrorFactory
	WithErrorMapper        = core.WithErrorMapper
	WithPoolEngine         = core.WithPoolEngine
	WithCipherRegistry     = core.WithCipherRegistry
	WithNormalizerRegistry = core.WithNormalizerRegistry
	WithManagementRegistry = core.WithManagementRegistry
	WithXAResolver         = core.WithXAResolver
	WithTransactionManager = core.WithTransactionManager
	WithConfigProvider     = core.WithConfigProvider
	WithOptionsResolver    = core.WithOptionsResolver

	NewCipherRegistry     = core.NewMemoryCipherRegistry
	NewNormalizerRegistry = core.NewMemoryNormalizerRegistry
	NewManagementRegistry = core.NewMemoryManagementRegistry
	NewNamingDirectory    = core.NewMemoryNamingDirectory

	IsDecryptionFailure         = core.IsDecryptionFailure
	IsUnsupportedIsolationLevel = core.IsUnsupportedIsolationLevel
	IsUnderlyingCreationFailure = core.IsUnderlyingCreationFailure
	IsLoggerUnsupported         = core.IsLoggerUnsupported
	IsConfigSealed              = core.IsConfigSealed
	IsClosed                    = core.IsClosed
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func New(cfg Config, opts ...Option) (*ManagedDataSource, error) {
	return core.New(cfg, opts...)
}
