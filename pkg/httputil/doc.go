// Package httputil provides HTTP utilities for the upstream API clients.
//
// # Retry
//
// [Retry] wraps a request with retry for transient failures. Only errors
// wrapped in [RetryableError] are retried: network errors and 5xx
// responses. Everything else (404, malformed JSON, ...) fails immediately.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch(ctx)
//	})
//
// The delay doubles after every failed attempt. Cancelling ctx aborts the
// wait between attempts and returns ctx.Err().
//
// robopom defaults to a single attempt so that a run fails fast; raise
// http.retries in the config file to enable retries.
package httputil
