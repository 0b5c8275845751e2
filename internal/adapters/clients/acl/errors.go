package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/daily-quote/internal/adapters/clients"
	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 4 << 10

// remoteError accepts both the {"error":{...}} envelope this service emits
// and the flat {"code","message"} shape common to webhook receivers.
type remoteError struct {
	Error struct {
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Message string `json:"message"`
}

func (e *remoteError) message() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

func decodeRemoteError(body io.Reader) *remoteError {
	if body == nil {
		return nil
	}

	var e remoteError
	if json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&e) != nil {
		return nil
	}

	return &e
}

// MapHTTPError turns a failed delivery into a domain error. A receiver that
// rejects the payload (400 or 422) gives a ValidationError, since resending
// the same reminder will not help. Every other failure gives an
// UnavailableError naming service.
func MapHTTPError(resp *http.Response, clientErr error, service, operation string) error {
	switch {
	case errors.Is(clientErr, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(service, "circuit breaker open during "+operation)
	case errors.Is(clientErr, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(service, "max retries exceeded during "+operation)
	case clientErr != nil:
		return domain.NewUnavailableError(service, fmt.Sprintf("%s failed: %v", operation, clientErr))
	case resp == nil:
		return domain.NewUnavailableError(service, "no response received")
	case resp.StatusCode < http.StatusBadRequest:
		return nil
	}

	remote := decodeRemoteError(resp.Body)

	msg := statusMessage(resp.StatusCode, operation)
	if remote != nil && remote.message() != "" {
		msg = remote.message()
	}

	if resp.StatusCode != http.StatusBadRequest && resp.StatusCode != http.StatusUnprocessableEntity {
		return domain.NewUnavailableError(service, msg)
	}

	if remote != nil {
		for field, detail := range remote.Error.Details {
			return domain.NewValidationError(field, detail)
		}
	}

	return domain.NewValidationError("", msg)
}

func statusMessage(status int, operation string) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "payload rejected"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "access denied"
	case http.StatusNotFound:
		return "endpoint not found"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusServiceUnavailable:
		return "receiver temporarily unavailable"
	default:
		return fmt.Sprintf("%s failed with status %d", operation, status)
	}
}
