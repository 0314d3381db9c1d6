// Package bunpool provides the default pool engine: a bun.DB wrapping the
// database/sql connection pool, with postgres and sqlite dialects.
package bunpool

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	"github.com/goliatone/go-datasource/core"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"

	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
)

// Engine implements core.PoolEngine over database/sql + bun.
type Engine struct {
	logger          glog.Logger
	queryHook       bun.QueryHook
	client          any
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	connMaxIdleTime time.Duration
}

type Option func(*Engine)

func WithLogger(logger glog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithQueryHook(hook bun.QueryHook) Option {
	return func(e *Engine) {
		e.queryHook = hook
	}
}

// WithClient reuses a pre-opened connection source instead of opening a
// new one: a *bun.DB, or anything exposing DB() *bun.DB such as a
// go-persistence-bun client.
func WithClient(client any) Option {
	return func(e *Engine) {
		e.client = client
	}
}

func WithMaxOpenConns(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxOpenConns = n
		}
	}
}

func WithMaxIdleConns(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIdleConns = n
		}
	}
}

func WithConnMaxLifetime(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.connMaxLifetime = d
		}
	}
}

func WithConnMaxIdleTime(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.connMaxIdleTime = d
		}
	}
}

func New(opts ...Option) *Engine {
	engine := &Engine{
		logger:          glog.Nop(),
		maxOpenConns:    defaultMaxOpenConns,
		maxIdleConns:    defaultMaxIdleConns,
		connMaxLifetime: defaultConnMaxLifetime,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(engine)
	}
	return engine
}

// Create opens the pooled connection source for cfg. With a pre-opened
// client configured, the factory configuration is ignored beyond the
// acquire wait; otherwise the URL, driver, and credentials decide the
// physical connection.
func (e *Engine) Create(ctx context.Context, cfg core.Config) (core.PoolInstance, error) {
	if e.client != nil {
		db, err := resolveBunDB(e.client)
		if err != nil {
			return nil, err
		}
		return e.newInstance(db, nil, cfg), nil
	}

	driver, err := resolveDriver(cfg)
	if err != nil {
		return nil, err
	}
	dsn, err := buildDSN(driver, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("bunpool: open %s connection: %w", driver, err)
	}
	sqlDB.SetMaxOpenConns(e.maxOpenConns)
	sqlDB.SetMaxIdleConns(e.maxIdleConns)
	sqlDB.SetConnMaxLifetime(e.connMaxLifetime)
	if e.connMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(e.connMaxIdleTime)
	}

	pingCtx := ctx
	if wait := time.Duration(cfg.MaxWaitMillis) * time.Millisecond; wait > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("bunpool: ping %s: %w", driver, err)
	}

	db := bun.NewDB(sqlDB, dialectFor(driver))
	if e.queryHook != nil {
		db.AddQueryHook(e.queryHook)
	}
	return e.newInstance(db, sqlDB, cfg), nil
}

func (e *Engine) newInstance(db *bun.DB, owned *sql.DB, cfg core.Config) *Instance {
	return &Instance{
		db:      db,
		owned:   owned,
		logger:  e.logger,
		maxWait: time.Duration(cfg.MaxWaitMillis) * time.Millisecond,
	}
}

func resolveDriver(cfg core.Config) (string, error) {
	driver := strings.TrimSpace(cfg.DriverName)
	if driver != "" {
		return driver, nil
	}
	lowered := strings.ToLower(strings.TrimSpace(cfg.URL))
	switch {
	case strings.HasPrefix(lowered, "postgres://"), strings.HasPrefix(lowered, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(lowered, "file:"), strings.HasPrefix(lowered, "sqlite://"):
		return DriverSQLite, nil
	}
	return "", fmt.Errorf("bunpool: cannot infer driver from url: %s", cfg.URL)
}

func dialectFor(driver string) schema.Dialect {
	if driver == DriverSQLite {
		return sqlitedialect.New()
	}
	return pgdialect.New()
}

// buildDSN folds configured credentials into the connection URL where the
// driver expects them. sqlite file DSNs carry no credentials.
func buildDSN(driver string, cfg core.Config) (string, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return "", fmt.Errorf("bunpool: connection url is required")
	}
	if driver == DriverSQLite {
		return strings.TrimPrefix(raw, "sqlite://"), nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("bunpool: parse connection url: %w", err)
	}
	if strings.TrimSpace(cfg.Username) != "" {
		parsed.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	return parsed.String(), nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("bunpool: client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("bunpool: client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("bunpool: unsupported client type %T", candidate)
	}
}
