// Package gologger bridges glog loggers into the collaborators the
// data source stack logs through.
package gologger

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/uptrace/bun"
)

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// QueryHook routes bun query events through a glog logger so engine SQL
// logging follows the factory's logging configuration.
type QueryHook struct {
	logger glog.Logger
}

func NewQueryHook(logger glog.Logger) *QueryHook {
	return &QueryHook{logger: glog.Ensure(logger)}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	if h == nil || h.logger == nil || event == nil {
		return
	}
	duration := time.Since(event.StartTime).Milliseconds()
	if event.Err != nil {
		h.logger.Error("query failed",
			"query", event.Query,
			"duration_ms", duration,
			"error", event.Err.Error(),
		)
		return
	}
	h.logger.Debug("query executed",
		"query", event.Query,
		"duration_ms", duration,
	)
}

var _ bun.QueryHook = (*QueryHook)(nil)
