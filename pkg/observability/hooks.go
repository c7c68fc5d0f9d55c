// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about program builds, cache operations, playback and the
// HTTP server.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the library packages
// stay free of any metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetPlaybackHooks(&myPlaybackHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnGlyphStart(ctx, font, len(texts))
//	// ... rasterize ...
//	observability.Pipeline().OnGlyphComplete(ctx, font, len(grids), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the program-building pipeline.
type PipelineHooks interface {
	// Glyph events (text to grid)
	OnGlyphStart(ctx context.Context, font string, entries int)
	OnGlyphComplete(ctx context.Context, font string, entries int, duration time.Duration, err error)

	// Generate events (grids to animation program)
	OnGenerateStart(ctx context.Context, direction string, entries int)
	OnGenerateComplete(ctx context.Context, direction string, frames int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Playback Hooks
// =============================================================================

// PlaybackHooks receives events from the playback scheduler. They run on the
// scheduler's tick path and must return quickly.
type PlaybackHooks interface {
	// OnRender records one effective tick.
	OnRender(animation, frame int)

	// OnDelay records the start of a phase pause.
	OnDelay(phase string, d time.Duration)

	// OnStop records the terminal state after the given number of passes.
	OnStop(iterations int)

	// OnFault records a tick that found no frame at the current indexes.
	OnFault(animation, frame int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a handler or socket failure.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGlyphStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnGlyphComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnGenerateStart(context.Context, string, int)                   {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, string, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopPlaybackHooks is a no-op implementation of PlaybackHooks.
type NoopPlaybackHooks struct{}

func (NoopPlaybackHooks) OnRender(int, int)             {}
func (NoopPlaybackHooks) OnDelay(string, time.Duration) {}
func (NoopPlaybackHooks) OnStop(int)                    {}
func (NoopPlaybackHooks) OnFault(int, int)              {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	playbackHooks PlaybackHooks = NoopPlaybackHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetPlaybackHooks registers custom playback hooks.
func SetPlaybackHooks(h PlaybackHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		playbackHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Playback returns the registered playback hooks.
func Playback() PlaybackHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return playbackHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	playbackHooks = NoopPlaybackHooks{}
	httpHooks = NoopHTTPHooks{}
}
