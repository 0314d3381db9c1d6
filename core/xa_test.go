package core

import (
	"context"
	"errors"
	"testing"
)

type fakeXADataSource struct {
	name string
}

func (f fakeXADataSource) XAName() string {
	return f.name
}

type fakeXAResolver struct {
	resolved XADataSource
	err      error
	calls    int
}

func (f *fakeXAResolver) Resolve(string) (XADataSource, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resolved, nil
}

type fakeTransactionManager struct {
	name string
}

func (f fakeTransactionManager) Name() string {
	return f.name
}

func TestResolveXA_DirectWhenResolvable(t *testing.T) {
	resolver := &fakeXAResolver{resolved: fakeXADataSource{name: "pgxa"}}
	resolution := resolveXA("pgxa", resolver, nil)

	if resolution.Kind != XAResolutionDirect {
		t.Fatalf("expected direct resolution, got %s", resolution.Kind)
	}
	if resolution.DataSource.XAName() != "pgxa" {
		t.Fatalf("expected resolved data source")
	}
}

func TestResolveXA_NotFoundInstallsDeferredProxy(t *testing.T) {
	resolver := &fakeXAResolver{err: ErrXANotFound}
	resolution := resolveXA("pgxa", resolver, nil)

	if resolution.Kind != XAResolutionDeferred {
		t.Fatalf("expected deferred resolution, got %s", resolution.Kind)
	}
	proxy, ok := resolution.DataSource.(*DeferredXADataSource)
	if !ok {
		t.Fatalf("expected deferred proxy, got %T", resolution.DataSource)
	}
	if proxy.XAName() != "pgxa" {
		t.Fatalf("expected proxy bound to configured name")
	}
}

func TestResolveXA_DeferredBindsDefaultTransactionManager(t *testing.T) {
	previous := DefaultTransactionManager()
	defer SetDefaultTransactionManager(previous)

	SetDefaultTransactionManager(fakeTransactionManager{name: "geronimo"})
	resolution := resolveXA("pgxa", &fakeXAResolver{err: ErrXANotFound}, nil)

	if resolution.TransactionManager == nil || resolution.TransactionManager.Name() != "geronimo" {
		t.Fatalf("expected default transaction manager bound, got %v", resolution.TransactionManager)
	}
}

func TestResolveXA_BoundManagerIsKept(t *testing.T) {
	bound := fakeTransactionManager{name: "local"}
	resolution := resolveXA("pgxa", &fakeXAResolver{err: ErrXANotFound}, bound)

	if resolution.TransactionManager != TransactionManager(bound) {
		t.Fatalf("expected factory-bound manager kept")
	}
}

func TestResolveXA_OtherFailuresStayUnconfigured(t *testing.T) {
	resolution := resolveXA("pgxa", &fakeXAResolver{err: errors.New("linker exploded")}, nil)

	if resolution.Kind != XAResolutionUnconfigured {
		t.Fatalf("expected unconfigured state, got %s", resolution.Kind)
	}
	if resolution.DataSource != nil {
		t.Fatalf("expected no data source bound")
	}
}

func TestDeferredXADataSource_ResolvesOnFirstUse(t *testing.T) {
	resolver := &fakeXAResolver{resolved: fakeXADataSource{name: "pgxa"}}
	proxy := NewDeferredXADataSource("pgxa", resolver)

	first, err := proxy.Target()
	if err != nil {
		t.Fatalf("resolve target: %v", err)
	}
	second, err := proxy.Target()
	if err != nil {
		t.Fatalf("resolve target again: %v", err)
	}
	if first != second {
		t.Fatalf("expected memoized target")
	}
	if resolver.calls != 1 {
		t.Fatalf("expected a single resolver call, got %d", resolver.calls)
	}
}

func TestDataSource_XAResolutionDuringCreation(t *testing.T) {
	previous := DefaultTransactionManager()
	defer SetDefaultTransactionManager(previous)
	SetDefaultTransactionManager(fakeTransactionManager{name: "geronimo"})

	engine := &fakeEngine{}
	resolver := &fakeXAResolver{err: ErrXANotFound}
	source := newTestSource(t,
		Config{Name: "orders", XADataSourceName: "pgxa"},
		WithPoolEngine(engine),
		WithXAResolver(resolver),
	)

	if _, err := source.DataSource(context.Background()); err != nil {
		t.Fatalf("create: %v", err)
	}

	state := source.XAState()
	if state.Kind != XAResolutionDeferred {
		t.Fatalf("expected deferred xa state, got %s", state.Kind)
	}
	manager := source.TransactionManager()
	if manager == nil || manager.Name() != "geronimo" {
		t.Fatalf("expected default transaction manager bound to factory")
	}
}
