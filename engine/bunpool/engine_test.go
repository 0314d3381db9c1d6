package bunpool_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-datasource/core"
	"github.com/goliatone/go-datasource/engine/bunpool"
)

func sqliteConfig(t *testing.T) core.Config {
	t.Helper()
	return core.Config{
		Name:       "bunpool-test",
		DriverName: bunpool.DriverSQLite,
		URL: fmt.Sprintf(
			"file:bunpool-test-%d?mode=memory&cache=shared",
			time.Now().UnixNano(),
		),
	}
}

func TestEngine_CreateSQLite(t *testing.T) {
	ctx := context.Background()
	engine := bunpool.New()

	instance, err := engine.Create(ctx, sqliteConfig(t))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() {
		if err := instance.Close(ctx); err != nil {
			t.Fatalf("close: %v", err)
		}
	}()

	pooled, ok := instance.(*bunpool.Instance)
	if !ok {
		t.Fatalf("expected bunpool instance, got %T", instance)
	}

	var one int
	if err := pooled.DB().NewRaw("SELECT 1").Scan(ctx, &one); err != nil {
		t.Fatalf("query: %v", err)
	}
	if one != 1 {
		t.Fatalf("expected 1, got %d", one)
	}
}

func TestEngine_SQLiteURLSchemeStripped(t *testing.T) {
	ctx := context.Background()
	engine := bunpool.New()

	cfg := sqliteConfig(t)
	cfg.DriverName = ""
	cfg.URL = "sqlite://" + cfg.URL

	instance, err := engine.Create(ctx, cfg)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer instance.Close(ctx)
}

func TestEngine_InstanceExposesParentLogger(t *testing.T) {
	ctx := context.Background()
	engine := bunpool.New()

	instance, err := engine.Create(ctx, sqliteConfig(t))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer instance.Close(ctx)

	provider, ok := instance.(core.ParentLoggerProvider)
	if !ok {
		t.Fatalf("expected parent logger capability")
	}
	if provider.ParentLogger() == nil {
		t.Fatalf("expected a parent logger")
	}
}

func TestEngine_InjectedClientIsNotClosed(t *testing.T) {
	ctx := context.Background()

	sqlDB, err := sql.Open("sqlite3", fmt.Sprintf(
		"file:bunpool-client-%d?mode=memory&cache=shared", time.Now().UnixNano(),
	))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer sqlDB.Close()
	db := bun.NewDB(sqlDB, sqlitedialect.New())

	engine := bunpool.New(bunpool.WithClient(db))
	instance, err := engine.Create(ctx, core.Config{Name: "bunpool-test"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := instance.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Teardown must not reach the injected client.
	if err := sqlDB.PingContext(ctx); err != nil {
		t.Fatalf("expected injected client to stay open, ping failed: %v", err)
	}
}

func TestEngine_UnknownURLFailsDriverInference(t *testing.T) {
	engine := bunpool.New()
	if _, err := engine.Create(context.Background(), core.Config{
		Name: "bunpool-test",
		URL:  "mysterydb://db/orders",
	}); err == nil {
		t.Fatalf("expected driver inference to fail")
	}
}

func TestEngine_FactoryIntegration(t *testing.T) {
	ctx := context.Background()
	source, err := core.New(sqliteConfig(t), core.WithPoolEngine(bunpool.New()))
	if err != nil {
		t.Fatalf("new managed data source: %v", err)
	}

	instance, err := source.DataSource(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	again, err := source.DataSource(ctx)
	if err != nil {
		t.Fatalf("second access: %v", err)
	}
	if instance != again {
		t.Fatalf("expected cached instance")
	}

	logger, err := source.ParentLogger()
	if err != nil {
		t.Fatalf("parent logger: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected parent logger from bunpool instance")
	}

	if err := source.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
}
