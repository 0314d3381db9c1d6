// Package core contains the managed data source contracts, configuration,
// and orchestration logic. Engine, cipher, and normalizer adapters must
// depend on this package; core must not depend on vendor-specific or
// storage-specific adapters.
package core
