package errors

import "fmt"

// ErrorCode represents a lifequest error code.
type ErrorCode string

const (
	ErrMissingInput             ErrorCode = "MISSING_INPUT"              // 400
	ErrInvalidRequest           ErrorCode = "INVALID_REQUEST"            // 400
	ErrUnauthorized             ErrorCode = "UNAUTHORIZED"               // 401
	ErrInsufficientTokens       ErrorCode = "INSUFFICIENT_TOKENS"        // 402
	ErrNotFound                 ErrorCode = "NOT_FOUND"                  // 404
	ErrRateLimited              ErrorCode = "RATE_LIMITED"               // 429
	ErrNotConfigured            ErrorCode = "NOT_CONFIGURED"             // 500
	ErrMalformedResponse        ErrorCode = "MALFORMED_RESPONSE"         // 500
	ErrInvalidResponseStructure ErrorCode = "INVALID_RESPONSE_STRUCTURE" // 500
	ErrInternal                 ErrorCode = "INTERNAL"                   // 500
	ErrProvider                 ErrorCode = "PROVIDER_ERROR"             // 502
)

// QuestError represents a structured error with code, status, and details.
type QuestError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *QuestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewMissingInput creates a 400 error for a missing required input.
func NewMissingInput(field string) *QuestError {
	return &QuestError{
		Code:    ErrMissingInput,
		Status:  400,
		Message: fmt.Sprintf("%s is required", field),
		Details: map[string]any{"field": field},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *QuestError {
	return &QuestError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnauthorized creates a 401 error for a credential rejected by the
// provider. Fatal until the key is corrected; never retried.
func NewUnauthorized() *QuestError {
	return &QuestError{
		Code:    ErrUnauthorized,
		Status:  401,
		Message: "provider rejected the API key; check your credential",
	}
}

// NewInsufficientTokens creates a 402 error when the profile cannot cover
// the cost of a paid action.
func NewInsufficientTokens(cost, balance int) *QuestError {
	return &QuestError{
		Code:    ErrInsufficientTokens,
		Status:  402,
		Message: fmt.Sprintf("action costs %d tokens but balance is %d", cost, balance),
		Details: map[string]any{"cost": cost, "balance": balance},
	}
}

// NewNotFound creates a 404 error for a history record that cannot be found.
func NewNotFound(id string) *QuestError {
	return &QuestError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("history record not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewRateLimited creates a 429 error for a transient provider rejection.
// The caller may retry after backoff; the core never retries on its own.
func NewRateLimited() *QuestError {
	return &QuestError{
		Code:    ErrRateLimited,
		Status:  429,
		Message: "provider rate limit exceeded; try again later",
	}
}

// NewNotConfigured creates a 500 error for a missing or placeholder API key.
// Raised before any network call is attempted.
func NewNotConfigured() *QuestError {
	return &QuestError{
		Code:    ErrNotConfigured,
		Status:  500,
		Message: "OPENAI_API_KEY is not configured",
	}
}

// NewMalformedResponse creates a 500 error for a completion that could not
// be coerced into JSON even after the repair pass. The raw text is carried
// in details so the failure is diagnosable.
func NewMalformedResponse(raw string) *QuestError {
	return &QuestError{
		Code:    ErrMalformedResponse,
		Status:  500,
		Message: "provider response is not valid JSON",
		Details: map[string]any{"raw_response": raw},
	}
}

// NewInvalidResponseStructure creates a 500 error for a completion that
// parsed but is missing required fields. The parsed object is carried in
// details.
func NewInvalidResponseStructure(missing []string, parsed any) *QuestError {
	return &QuestError{
		Code:    ErrInvalidResponseStructure,
		Status:  500,
		Message: fmt.Sprintf("provider response missing required fields: %v", missing),
		Details: map[string]any{"missing_fields": missing, "received": parsed},
	}
}

// NewProvider creates an error for any other non-success provider response,
// carrying status and raw body for diagnosis.
func NewProvider(status int, body string) *QuestError {
	return &QuestError{
		Code:    ErrProvider,
		Status:  status,
		Message: fmt.Sprintf("provider returned status %d", status),
		Details: map[string]any{"provider_status": status, "body": body},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *QuestError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &QuestError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a QuestError with the given code.
func Is(err error, code ErrorCode) bool {
	if qErr, ok := err.(*QuestError); ok {
		return qErr.Code == code
	}
	return false
}

// Transient reports whether the error is worth retrying from the caller's
// side. Only rate limiting (which also covers provider timeouts) qualifies.
func Transient(err error) bool {
	return Is(err, ErrRateLimited)
}
