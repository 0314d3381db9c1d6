package core

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// LifecycleState tracks the factory contract: created on construction,
// active once the pool instance exists, closed is terminal.
type LifecycleState string

const (
	StateCreated LifecycleState = "created"
	StateActive  LifecycleState = "active"
	StateClosed  LifecycleState = "closed"
)

// ManagedDataSource lazily constructs, caches, and tears down one pooled
// connection source. All state-reading and state-mutating operations are
// serialized by a per-instance mutex; creation and close may block on
// network I/O while the pool engine opens or drains physical connections.
type ManagedDataSource struct {
	mu sync.Mutex

	config       Config
	isolation    sql.IsolationLevel
	hasIsolation bool

	engine      PoolEngine
	ciphers     CipherRegistry
	normalizers NormalizerRegistry
	management  ManagementRegistry
	xaResolver  XAResolver
	txManager   TransactionManager

	logger         Logger
	loggerProvider LoggerProvider
	errorFactory   ErrorFactory
	errorMapper    ErrorMapper

	instance     PoolInstance
	parentLogger Logger
	handle       *ManagementHandle
	xa           XAResolution
	closed       bool
}

// New builds a managed data source from the resolved configuration,
// registering its management handle best-effort. A pool engine is the
// only hard dependency.
func New(cfg Config, opts ...Option) (*ManagedDataSource, error) {
	builder, err := resolveBuilder(cfg, opts...)
	if err != nil {
		return nil, err
	}

	source := &ManagedDataSource{
		config:         builder.runtimeConfig,
		engine:         builder.engine,
		ciphers:        builder.ciphers,
		normalizers:    builder.normalizers,
		management:     builder.management,
		xaResolver:     builder.xaResolver,
		txManager:      builder.txManager,
		logger:         builder.logger,
		loggerProvider: builder.loggerProvider,
		errorFactory:   builder.errorFactory,
		errorMapper:    builder.errorMapper,
		xa:             XAResolution{Kind: XAResolutionUnconfigured},
	}
	if cfg.DefaultTransactionIsolation != "" {
		level, isoErr := isolationLevel(builder.errorFactory, cfg.DefaultTransactionIsolation)
		if isoErr != nil {
			return nil, isoErr
		}
		source.isolation = level
		source.hasIsolation = true
	}
	source.registerHandle(context.Background())
	return source, nil
}

// registerHandle is best-effort: a failing or absent management registry
// never blocks the factory.
func (s *ManagedDataSource) registerHandle(ctx context.Context) {
	if s.management == nil {
		return
	}
	handle := ManagementHandle{
		ID:         uuid.NewString(),
		Name:       s.config.Name,
		DriverName: s.config.DriverName,
		URL:        s.config.URL,
		State:      StateCreated,
	}
	if err := s.management.Register(ctx, handle); err != nil {
		s.logError("management registration failed", "name", s.config.Name, "error", err.Error())
		return
	}
	s.handle = &handle
}

// DataSource is the idempotent lazy accessor: the first call constructs
// the pooled connection source through the engine, subsequent calls
// return the cached instance unchanged.
func (s *ManagedDataSource) DataSource(ctx context.Context) (PoolInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, newClosedError(s.errorFactory, s.config.Name)
	}
	if s.instance != nil {
		return s.instance, nil
	}

	if cipherName := strings.TrimSpace(s.config.PasswordCipher); cipherName != "" {
		plaintext, err := s.decryptPassword(cipherName)
		if err != nil {
			return nil, err
		}
		s.config.Password = plaintext
	}

	normalizer, hasNormalizer := s.lookupNormalizer()
	if hasNormalizer {
		updated, err := normalizer.UpdatedURL(s.config.URL)
		if err != nil {
			return nil, s.mapError(goerrors.Wrap(err, goerrors.CategoryBadInput, "core: url normalization failed"))
		}
		if updated != s.config.URL {
			s.logInfo("normalized connection url", "name", s.config.Name)
			s.config.URL = updated
		}
	}

	if strings.TrimSpace(s.config.XADataSourceName) != "" && s.xa.Kind == XAResolutionUnconfigured {
		resolution := resolveXA(s.config.XADataSourceName, s.xaResolver, s.txManager)
		if resolution.Kind != XAResolutionUnconfigured {
			s.xa = resolution
			s.txManager = resolution.TransactionManager
		}
	}

	create := func() error {
		instance, err := s.engine.Create(ctx, s.config)
		if err != nil {
			return newCreateError(err)
		}
		s.instance = instance
		return nil
	}

	var err error
	if hasNormalizer && normalizer.RequiresBaseDirOverride() {
		err = withBaseDir(s.config.BaseDir, create)
	} else {
		err = create()
	}
	if err != nil {
		return nil, err
	}

	if s.handle != nil {
		s.handle.State = StateActive
	}
	s.logInfo("data source created", "name", s.config.Name, "driver", s.config.DriverName)
	return s.instance, nil
}

func (s *ManagedDataSource) decryptPassword(cipherName string) (string, error) {
	if s.ciphers == nil {
		return "", newDecryptionError(s.errorFactory, cipherName, goerrors.New("core: no cipher registry configured", goerrors.CategoryOperation))
	}
	cipher, ok := s.ciphers.Get(cipherName)
	if !ok {
		return "", newDecryptionError(s.errorFactory, cipherName, goerrors.New("core: cipher strategy not registered", goerrors.CategoryNotFound))
	}
	plaintext, err := cipher.Decrypt(s.config.Password)
	if err != nil {
		return "", newDecryptionError(s.errorFactory, cipherName, err)
	}
	return plaintext, nil
}

func (s *ManagedDataSource) lookupNormalizer() (URLNormalizer, bool) {
	if s.normalizers == nil {
		return nil, false
	}
	return s.normalizers.Lookup(s.config.URL)
}

// Close unregisters the management handle best-effort, then delegates
// teardown to the cached instance. Safe before first creation and safe to
// call twice; closed is terminal.
func (s *ManagedDataSource) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	if s.handle != nil && s.management != nil {
		if err := s.management.Unregister(ctx, s.handle.Name); err != nil {
			s.logError("management unregistration failed", "name", s.handle.Name, "error", err.Error())
		}
	}
	s.handle = nil

	var err error
	if s.instance != nil {
		if closeErr := s.instance.Close(ctx); closeErr != nil {
			err = s.mapError(goerrors.Wrap(closeErr, goerrors.CategoryExternal, "core: pool instance teardown failed"))
		}
		s.instance = nil
	}
	s.parentLogger = nil
	s.closed = true
	return err
}

// ParentLogger resolves and memoizes the logger the pool instance
// exposes. Instances without the capability fail with LoggerUnsupported.
func (s *ManagedDataSource) ParentLogger() (Logger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.parentLogger != nil {
		return s.parentLogger, nil
	}
	provider, ok := s.instance.(ParentLoggerProvider)
	if !ok {
		return nil, newLoggerUnsupportedError(s.errorFactory)
	}
	logger := provider.ParentLogger()
	if logger == nil {
		return nil, newLoggerUnsupportedError(s.errorFactory)
	}
	s.parentLogger = logger
	return logger, nil
}

// Name is the identity key; it never changes after construction.
func (s *ManagedDataSource) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Name
}

func (s *ManagedDataSource) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.URL
}

func (s *ManagedDataSource) SetURL(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutable("url"); err != nil {
		return err
	}
	s.config.URL = url
	return nil
}

func (s *ManagedDataSource) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Username
}

func (s *ManagedDataSource) SetUsername(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutable("username"); err != nil {
		return err
	}
	s.config.Username = username
	return nil
}

func (s *ManagedDataSource) SetPassword(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutable("password"); err != nil {
		return err
	}
	s.config.Password = password
	return nil
}

func (s *ManagedDataSource) PasswordCipher() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.PasswordCipher
}

func (s *ManagedDataSource) SetPasswordCipher(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutable("password_cipher"); err != nil {
		return err
	}
	s.config.PasswordCipher = name
	return nil
}

func (s *ManagedDataSource) DriverName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.DriverName
}

func (s *ManagedDataSource) SetDriverName(driver string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutable("driver_name"); err != nil {
		return err
	}
	s.config.DriverName = driver
	return nil
}

// SetDefaultTransactionIsolation maps a symbolic isolation name to its
// numeric constant. Empty input leaves the configured level untouched.
func (s *ManagedDataSource) SetDefaultTransactionIsolation(symbolic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(symbolic) == "" {
		return nil
	}
	level, err := isolationLevel(s.errorFactory, symbolic)
	if err != nil {
		return err
	}
	if err := s.ensureMutable("default_transaction_isolation"); err != nil {
		return err
	}
	s.config.DefaultTransactionIsolation = strings.ToUpper(strings.TrimSpace(symbolic))
	s.isolation = level
	s.hasIsolation = true
	return nil
}

// DefaultTransactionIsolation returns the numeric isolation level and
// whether one was configured.
func (s *ManagedDataSource) DefaultTransactionIsolation() (sql.IsolationLevel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isolation, s.hasIsolation
}

func (s *ManagedDataSource) SetMaxWait(millis int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutable("max_wait_ms"); err != nil {
		return err
	}
	s.config.MaxWaitMillis = millis
	return nil
}

func (s *ManagedDataSource) MaxWait() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.config.MaxWaitMillis) * time.Millisecond
}

func (s *ManagedDataSource) SetXADataSourceName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutable("xa_data_source"); err != nil {
		return err
	}
	s.config.XADataSourceName = name
	return nil
}

// XAState exposes the current XA resolution outcome.
func (s *ManagedDataSource) XAState() XAResolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.xa
}

// TransactionManager returns the manager bound to this factory, if any.
func (s *ManagedDataSource) TransactionManager() TransactionManager {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txManager
}

// Surrogate produces the name-only stand-in used across serialization
// boundaries.
func (s *ManagedDataSource) Surrogate() Surrogate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Surrogate{Name: s.config.Name}
}

// Handle returns a copy of the registered management handle.
func (s *ManagedDataSource) Handle() (ManagementHandle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return ManagementHandle{}, false
	}
	return *s.handle, true
}

func (s *ManagedDataSource) State() LifecycleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return StateClosed
	case s.instance != nil:
		return StateActive
	default:
		return StateCreated
	}
}

// ensureMutable enforces the sealed-configuration contract: once the
// underlying instance exists, or after close, setters fail instead of
// silently mutating dead state.
func (s *ManagedDataSource) ensureMutable(field string) error {
	if s.closed {
		return newClosedError(s.errorFactory, s.config.Name)
	}
	if s.instance != nil {
		return newConfigSealedError(s.errorFactory, field)
	}
	return nil
}

func (s *ManagedDataSource) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s.errorMapper != nil {
		if mapped := s.errorMapper(err); mapped != nil {
			return mapped
		}
	}
	return err
}

func (s *ManagedDataSource) logInfo(message string, args ...any) {
	if logger := s.boundLogger(); logger != nil {
		logger.Info(message, args...)
	}
}

func (s *ManagedDataSource) logError(message string, args ...any) {
	if logger := s.boundLogger(); logger != nil {
		logger.Error(message, args...)
	}
}

// boundLogger attaches the factory identity as a structured field when the
// logger supports it.
func (s *ManagedDataSource) boundLogger() Logger {
	if s.logger == nil {
		return nil
	}
	logger := s.logger
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(map[string]any{"datasource": s.config.Name})
	}
	return logger
}
