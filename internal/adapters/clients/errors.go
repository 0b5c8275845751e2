// Package clients sends reminders to remote receivers over HTTP with
// retries and a circuit breaker. Callers translate its errors into domain
// errors; see package acl.
package clients

import (
	"context"
	"errors"
	"net"
	"net/http"
)

var (
	// ErrCircuitOpen means the breaker refused the request without sending it.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the error of the last failed attempt.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

func retryableStatus(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

// isRetryableError reports transport failures worth another attempt.
// Cancellation and deadlines are final.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
