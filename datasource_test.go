package datasource_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	datasource "github.com/goliatone/go-datasource"
	"github.com/goliatone/go-datasource/core"
	"github.com/goliatone/go-datasource/engine/bunpool"
	"github.com/goliatone/go-datasource/security"
)

func TestSetup_SQLiteEndToEnd(t *testing.T) {
	ctx := context.Background()

	cfg := datasource.DefaultConfig()
	cfg.Name = "facade-sqlite"
	cfg.URL = fmt.Sprintf("sqlite://facade-test-%d?mode=memory&cache=shared", time.Now().UnixNano())

	source, err := datasource.Setup(cfg)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	instance, err := source.DataSource(ctx)
	if err != nil {
		t.Fatalf("data source: %v", err)
	}
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

	again, err := source.DataSource(ctx)
	if err != nil {
		t.Fatalf("second data source: %v", err)
	}
	if again != instance {
		t.Fatalf("expected cached instance on repeat access")
	}

	if err := source.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := source.DataSource(ctx); !datasource.IsClosed(err) {
		t.Fatalf("expected closed error after close, got %v", err)
	}
}

type captureEngine struct {
	observed core.Config
}

func (e *captureEngine) Create(_ context.Context, cfg core.Config) (core.PoolInstance, error) {
	e.observed = cfg
	return noopInstance{}, nil
}

type noopInstance struct{}

func (noopInstance) Close(context.Context) error { return nil }

func TestSetup_DecryptsAppKeyPassword(t *testing.T) {
	ctx := context.Background()

	appKey, err := datasource.AppKeyCipher("facade-test-key")
	if err != nil {
		t.Fatalf("app key cipher: %v", err)
	}
	encrypted, err := appKey.Encrypt("hunter2")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	registry, err := datasource.AppKeyCipherRegistry("facade-test-key")
	if err != nil {
		t.Fatalf("cipher registry: %v", err)
	}

	engine := &captureEngine{}
	cfg := datasource.DefaultConfig()
	cfg.Name = "facade-cipher"
	cfg.URL = "postgres://db:5432/orders"
	cfg.Password = encrypted
	cfg.PasswordCipher = security.AppKeyCipherName

	source, err := datasource.Setup(cfg,
		datasource.WithPoolEngine(engine),
		datasource.WithCipherRegistry(registry),
	)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, err := source.DataSource(ctx); err != nil {
		t.Fatalf("data source: %v", err)
	}
	if engine.observed.Password != "hunter2" {
		t.Fatalf("expected decrypted password handed to engine, got %q", engine.observed.Password)
	}
}

func TestDefaultNormalizerRegistry_ResolvesBuiltinSchemes(t *testing.T) {
	registry, err := datasource.DefaultNormalizerRegistry()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}

	normalizer, ok := registry.Lookup("sqlite://app.db")
	if !ok {
		t.Fatalf("expected sqlite normalizer")
	}
	updated, err := normalizer.UpdatedURL("sqlite://app.db")
	if err != nil {
		t.Fatalf("sqlite normalize: %v", err)
	}
	if updated != "file:app.db" {
		t.Fatalf("expected file: url, got %q", updated)
	}

	normalizer, ok = registry.Lookup("postgres://db:5432/orders")
	if !ok {
		t.Fatalf("expected postgres normalizer")
	}
	updated, err = normalizer.UpdatedURL("postgres://db:5432/orders")
	if err != nil {
		t.Fatalf("postgres normalize: %v", err)
	}
	if updated != "postgresql://db:5432/orders" {
		t.Fatalf("expected canonical scheme, got %q", updated)
	}
}
