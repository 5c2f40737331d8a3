package yalidine

import "fmt"

// ============================================================================
// PROVIDER ERROR CODES
// ============================================================================
// These constants mirror domain error codes to avoid circular imports.
// The handler layer maps these to HTTP status codes.

const (
	codeInternal    = "internal"
	codeInvalid     = "invalid"
	codeUnavailable = "unavailable"
)

// ProviderError represents a Yalidine-specific error with a code and message.
// It implements the domain.Error interface pattern for consistent HTTP status
// mapping.
type ProviderError struct {
	Code    string
	Message string
	Status  int // HTTP status from the provider, 0 for transport failures
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *ProviderError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the user-facing message.
func (e *ProviderError) ErrorMessage() string {
	return e.Message
}

func newProviderError(code, message string) *ProviderError {
	return &ProviderError{Code: code, Message: message}
}

// ============================================================================
// PROVIDER ERRORS
// ============================================================================

var (
	// ErrMissingBaseURL is returned when the client is built without an API URL.
	ErrMissingBaseURL = newProviderError(codeInternal, "Yalidine base URL is required")

	// ErrMissingCredentials is returned when API ID or token is absent.
	ErrMissingCredentials = newProviderError(codeInternal, "Yalidine API credentials are required")

	// ErrInvalidWilayaID is returned when a wilaya ID is not positive.
	ErrInvalidWilayaID = newProviderError(codeInvalid, "Wilaya ID must be positive")

	// ErrInvalidCommuneID is returned when a commune ID is not positive.
	ErrInvalidCommuneID = newProviderError(codeInvalid, "Commune ID must be positive")

	// ErrInvalidWeight is returned when the parcel weight is not positive.
	ErrInvalidWeight = newProviderError(codeInvalid, "Parcel weight must be positive")
)

// NetworkError wraps a transport-level failure (DNS, connect, timeout).
// Callers surface it as a retry-capable error state, never as a silently
// empty result.
func NetworkError(err error) error {
	return &ProviderError{
		Code:    codeUnavailable,
		Message: "Shipping provider unreachable",
		Err:     err,
	}
}

// ServerError wraps a non-2xx provider response.
func ServerError(status int) error {
	return &ProviderError{
		Code:    codeUnavailable,
		Message: fmt.Sprintf("Shipping provider returned HTTP %d", status),
		Status:  status,
	}
}
