// Package httputil fetches remote resources for the glyph source.
//
// FIGlet fonts may be named by URL (for example
// "https://example.com/fonts/banner3.flf"). A [Fetcher] downloads such a
// file once, keeps it in a [cache.Cache] and serves later lookups from there.
//
// Transient failures are retried with exponential backoff:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// A 404 is reported as errors.ErrCodeNotFound and never retried.
package httputil
