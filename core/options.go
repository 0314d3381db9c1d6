package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	opts "github.com/goliatone/go-options"
)

type builder struct {
	runtimeConfig   Config
	logger          Logger
	loggerProvider  LoggerProvider
	errorFactory    ErrorFactory
	errorMapper     ErrorMapper
	engine          PoolEngine
	ciphers         CipherRegistry
	normalizers     NormalizerRegistry
	management      ManagementRegistry
	xaResolver      XAResolver
	txManager       TransactionManager
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
}

type Option func(*builder)

func WithLogger(logger Logger) Option {
	return func(b *builder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *builder) {
		b.loggerProvider = provider
	}
}

func WithErrorFactory(factory ErrorFactory) Option {
	return func(b *builder) {
		b.errorFactory = factory
	}
}

func WithErrorMapper(mapper ErrorMapper) Option {
	return func(b *builder) {
		b.errorMapper = mapper
	}
}

func WithPoolEngine(engine PoolEngine) Option {
	return func(b *builder) {
		b.engine = engine
	}
}

func WithCipherRegistry(registry CipherRegistry) Option {
	return func(b *builder) {
		b.ciphers = registry
	}
}

func WithNormalizerRegistry(registry NormalizerRegistry) Option {
	return func(b *builder) {
		b.normalizers = registry
	}
}

func WithManagementRegistry(registry ManagementRegistry) Option {
	return func(b *builder) {
		b.management = registry
	}
}

func WithXAResolver(resolver XAResolver) Option {
	return func(b *builder) {
		b.xaResolver = resolver
	}
}

func WithTransactionManager(manager TransactionManager) Option {
	return func(b *builder) {
		b.txManager = manager
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *builder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *builder) {
		b.optionsResolver = resolver
	}
}

func defaultBuilder(runtime Config) builder {
	loggerProvider, logger := glog.Resolve("datasource", nil, nil)
	return builder{
		runtimeConfig:   runtime,
		loggerProvider:  loggerProvider,
		logger:          logger,
		errorFactory:    goerrors.New,
		errorMapper:     dataSourceErrorMapper,
		ciphers:         NewMemoryCipherRegistry(),
		normalizers:     NewMemoryNormalizerRegistry(),
		management:      NewMemoryManagementRegistry(),
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
	}
}

func resolveBuilder(runtime Config, options ...Option) (builder, error) {
	b := defaultBuilder(runtime)
	for _, option := range options {
		if option == nil {
			continue
		}
		option(&b)
	}

	provider, logger := glog.Resolve("datasource", b.loggerProvider, b.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("datasource"); named != nil {
			logger = glog.Ensure(named)
		}
	}
	b.loggerProvider = provider
	b.logger = logger

	if b.errorFactory == nil {
		b.errorFactory = goerrors.New
	}
	if b.errorMapper == nil {
		b.errorMapper = dataSourceErrorMapper
	}
	if b.ciphers == nil {
		b.ciphers = NewMemoryCipherRegistry()
	}
	if b.normalizers == nil {
		b.normalizers = NewMemoryNormalizerRegistry()
	}
	if b.configProvider == nil {
		b.configProvider = NewCfgxConfigProvider(nil)
	}
	if b.optionsResolver == nil {
		b.optionsResolver = GoOptionsResolver{}
	}
	if b.engine == nil {
		return builder{}, goerrors.New("core: pool engine is required", goerrors.CategoryBadInput).
			WithTextCode(DataSourceErrorBadInput)
	}

	defaults := DefaultConfig()
	loaded, err := b.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return builder{}, b.errorMapper(err)
	}
	finalConfig, err := b.optionsResolver.Resolve(defaults, loaded, b.runtimeConfig)
	if err != nil {
		return builder{}, b.errorMapper(err)
	}
	b.runtimeConfig = finalConfig
	return b, nil
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			configToLayerMap(defaults, true),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			configToLayerMap(loaded, false),
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			configToLayerMap(runtime, false),
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	include := func(key string, value string) {
		if includeZero || strings.TrimSpace(value) != "" {
			layer[key] = value
		}
	}
	include("name", cfg.Name)
	include("url", cfg.URL)
	include("driver_name", cfg.DriverName)
	include("username", cfg.Username)
	include("password", cfg.Password)
	include("password_cipher", cfg.PasswordCipher)
	include("default_transaction_isolation", cfg.DefaultTransactionIsolation)
	include("xa_data_source", cfg.XADataSourceName)
	include("base_dir", cfg.BaseDir)
	if includeZero || cfg.MaxWaitMillis != 0 {
		layer["max_wait_ms"] = cfg.MaxWaitMillis
	}
	return layer
}
