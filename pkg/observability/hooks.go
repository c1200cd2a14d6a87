// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about reference-graph changes, scope recomputation, and
// manifest loading.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, and events identify
// documents by location so this package imports nothing from the engine.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetFederationHooks(&myFederationHooks{})
//	    observability.SetManifestHooks(&myManifestHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Federation().OnEdgeAdded("plant.aml", "base.aml")
//	observability.Manifest().OnBuildComplete(path, documents, duration, err)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Federation Hooks
// =============================================================================

// FederationHooks receives events from the document reference graph.
type FederationHooks interface {
	// Edge events
	OnEdgeAdded(referrer, referenced string)
	OnEdgeRemoved(referrer, referenced string)
	OnEdgeRejected(referrer, referenced string, err error)

	// Scope events
	OnScopeRevalidated(root string, forward, backward int, duration time.Duration)
	OnScopeInvalidated(root string)
}

// =============================================================================
// Manifest Hooks
// =============================================================================

// ManifestHooks receives events from manifest loading.
type ManifestHooks interface {
	// OnBuildStart records the start of building a workspace from a manifest.
	OnBuildStart(path string)

	// OnBuildComplete records the end of a build with the number of documents.
	OnBuildComplete(path string, documents int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFederationHooks is a no-op implementation of FederationHooks.
type NoopFederationHooks struct{}

func (NoopFederationHooks) OnEdgeAdded(string, string)                         {}
func (NoopFederationHooks) OnEdgeRemoved(string, string)                       {}
func (NoopFederationHooks) OnEdgeRejected(string, string, error)               {}
func (NoopFederationHooks) OnScopeRevalidated(string, int, int, time.Duration) {}
func (NoopFederationHooks) OnScopeInvalidated(string)                          {}

// NoopManifestHooks is a no-op implementation of ManifestHooks.
type NoopManifestHooks struct{}

func (NoopManifestHooks) OnBuildStart(string)                               {}
func (NoopManifestHooks) OnBuildComplete(string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	federationHooks FederationHooks = NoopFederationHooks{}
	manifestHooks   ManifestHooks   = NoopManifestHooks{}
	hooksMu         sync.RWMutex
)

// SetFederationHooks registers custom federation hooks.
// This should be called once at application startup before any graph operations.
func SetFederationHooks(h FederationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		federationHooks = h
	}
}

// SetManifestHooks registers custom manifest hooks.
// This should be called once at application startup before any manifest is built.
func SetManifestHooks(h ManifestHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		manifestHooks = h
	}
}

// Federation returns the registered federation hooks.
func Federation() FederationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return federationHooks
}

// Manifest returns the registered manifest hooks.
func Manifest() ManifestHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return manifestHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	federationHooks = NoopFederationHooks{}
	manifestHooks = NoopManifestHooks{}
}
