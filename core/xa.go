package core

import (
	"errors"
	"fmt"
	"sync"
)

// ErrXANotFound is returned by XAResolver implementations when the named
// data source is not resolvable yet. It triggers the deferred-proxy
// fallback instead of failing creation.
var ErrXANotFound = errors.New("core: xa data source not found")

// XAResolutionKind tags the outcome of the XA resolution state machine.
type XAResolutionKind string

const (
	XAResolutionUnconfigured XAResolutionKind = "unconfigured"
	XAResolutionDirect       XAResolutionKind = "direct"
	XAResolutionDeferred     XAResolutionKind = "deferred"
)

// XAResolution is the tagged result of resolving a configured XA data
// source name.
type XAResolution struct {
	Kind               XAResolutionKind
	DataSource         XADataSource
	TransactionManager TransactionManager
}

var defaultTransactionManager struct {
	mu sync.RWMutex
	tm TransactionManager
}

// SetDefaultTransactionManager installs the process-wide transaction
// manager bound to deferred XA data sources when a factory has none of
// its own.
func SetDefaultTransactionManager(tm TransactionManager) {
	defaultTransactionManager.mu.Lock()
	defaultTransactionManager.tm = tm
	defaultTransactionManager.mu.Unlock()
}

// DefaultTransactionManager returns the process-wide transaction manager,
// or nil when none was installed.
func DefaultTransactionManager() TransactionManager {
	defaultTransactionManager.mu.RLock()
	defer defaultTransactionManager.mu.RUnlock()
	return defaultTransactionManager.tm
}

// DeferredXADataSource is a placeholder bound to a resolver and a data
// source name, resolved only on first real use.
type DeferredXADataSource struct {
	name     string
	resolver XAResolver

	mu       sync.Mutex
	resolved XADataSource
}

func NewDeferredXADataSource(name string, resolver XAResolver) *DeferredXADataSource {
	return &DeferredXADataSource{name: name, resolver: resolver}
}

func (d *DeferredXADataSource) XAName() string {
	return d.name
}

// Target resolves and memoizes the real XA data source.
func (d *DeferredXADataSource) Target() (XADataSource, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.resolved != nil {
		return d.resolved, nil
	}
	if d.resolver == nil {
		return nil, fmt.Errorf("core: deferred xa data source has no resolver: %s", d.name)
	}
	resolved, err := d.resolver.Resolve(d.name)
	if err != nil {
		return nil, err
	}
	d.resolved = resolved
	return resolved, nil
}

// resolveXA runs the resolution state machine for a configured XA data
// source name. Direct resolution wins; a not-found failure installs a
// deferred proxy and binds the process default transaction manager when
// the factory has none. Any other failure leaves the state unconfigured;
// the pool engine may resolve the name later through its own mechanism.
func resolveXA(name string, resolver XAResolver, tm TransactionManager) XAResolution {
	if resolver == nil {
		return XAResolution{Kind: XAResolutionUnconfigured, TransactionManager: tm}
	}
	resolved, err := resolver.Resolve(name)
	if err == nil {
		return XAResolution{
			Kind:               XAResolutionDirect,
			DataSource:         resolved,
			TransactionManager: tm,
		}
	}
	if errors.Is(err, ErrXANotFound) {
		if tm == nil {
			tm = DefaultTransactionManager()
		}
		return XAResolution{
			Kind:               XAResolutionDeferred,
			DataSource:         NewDeferredXADataSource(name, resolver),
			TransactionManager: tm,
		}
	}
	return XAResolution{Kind: XAResolutionUnconfigured, TransactionManager: tm}
}
