package bunpool

import (
	"context"
	"database/sql"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-datasource/core"
)

// Instance is the pooled connection source bunpool hands back to the
// factory. When the engine opened the sql.DB itself it owns the teardown;
// with an injected client the caller keeps ownership.
type Instance struct {
	db      *bun.DB
	owned   *sql.DB
	logger  glog.Logger
	maxWait time.Duration
}

// DB exposes the underlying bun handle for query building.
func (i *Instance) DB() *bun.DB {
	return i.db
}

// Conn acquires a single connection, bounded by the configured pool wait
// when one was set.
func (i *Instance) Conn(ctx context.Context) (bun.Conn, error) {
	if i.maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.maxWait)
		defer cancel()
	}
	return i.db.Conn(ctx)
}

func (i *Instance) Close(context.Context) error {
	if i.owned == nil {
		return nil
	}
	return i.db.Close()
}

// ParentLogger surfaces the engine logger through the optional factory
// capability.
func (i *Instance) ParentLogger() core.Logger {
	return i.logger
}

var (
	_ core.PoolInstance         = (*Instance)(nil)
	_ core.ParentLoggerProvider = (*Instance)(nil)
)
