// Package dto holds the JSON shapes shared by the HTTP handlers: the error
// envelope, cursor pagination and request validation.
package dto

import "net/http"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail is the error inside the envelope. Details is keyed by request
// field for validation failures and carries the record for parse failures.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes. HTTPStatusFromCode gives the status for each.
const (
	// ErrorCodeNotFound indicates an unknown quote ID or route.
	ErrorCodeNotFound = "NOT_FOUND"

	// ErrorCodeValidation indicates request validation failed.
	ErrorCodeValidation = "VALIDATION_ERROR"

	// ErrorCodeParse indicates a highlights export was rejected as a whole.
	ErrorCodeParse = "PARSE_ERROR"

	// ErrorCodeNoQuotes indicates no quote collection can be served.
	ErrorCodeNoQuotes = "QUOTES_UNAVAILABLE"

	// ErrorCodeSelection indicates the daily quote could not be chosen.
	ErrorCodeSelection = "SELECTION_FAILED"

	// ErrorCodeScheduleRejected indicates a reminder batch failed its preconditions.
	ErrorCodeScheduleRejected = "SCHEDULE_REJECTED"

	// ErrorCodeScheduleFailed indicates the notifier failed part way through a batch.
	ErrorCodeScheduleFailed = "SCHEDULE_FAILED"

	// ErrorCodeUnavailable indicates the store or notifier is unreachable.
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"

	// ErrorCodeInternal hides an unclassified failure.
	ErrorCodeInternal = "INTERNAL_ERROR"

	// ErrorCodeTimeout indicates the request deadline passed.
	ErrorCodeTimeout = "TIMEOUT"

	// ErrorCodeBadRequest covers malformed requests that name no field, such
	// as a stale pagination cursor or an unreadable body.
	ErrorCodeBadRequest = "BAD_REQUEST"

	// ErrorCodeMethodNotAllowed indicates the route exists for other methods only.
	ErrorCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// NewErrorResponse builds an envelope without details.
func NewErrorResponse(code, message string) *ErrorResponse {
	return NewErrorResponseWithDetails(code, message, nil)
}

// NewErrorResponseWithDetails builds an envelope.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}

// WithTraceID sets the identifier a client quotes when reporting the error.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps an error code to its status; unknown codes are 500.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeParse, ErrorCodeScheduleRejected:
		return http.StatusUnprocessableEntity
	case ErrorCodeUnavailable, ErrorCodeNoQuotes, ErrorCodeSelection, ErrorCodeScheduleFailed:
		return http.StatusServiceUnavailable
	case ErrorCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
