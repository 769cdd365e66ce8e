// Package errors provides severity-aware error types for the quote pipeline.
package errors

import "fmt"

// Severity indicates error impact level.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// QuoteError is a structured error with context. Recoverable errors route
// to clarification questions instead of aborting the request.
type QuoteError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Severity    Severity `json:"severity"`
	ServiceName string   `json:"service_name,omitempty"`
	Recoverable bool     `json:"recoverable"`
	RetryHint   string   `json:"retry_hint,omitempty"`
}

func (e *QuoteError) Error() string {
	if e.ServiceName != "" {
		return fmt.Sprintf("[%s] %s: %s (service: %s)", e.Severity, e.Code, e.Message, e.ServiceName)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Message)
}

// Error codes
const (
	ErrCodeInputEmpty           = "INPUT_EMPTY"
	ErrCodeNoServicesDetected   = "NO_SERVICES_DETECTED"
	ErrCodeIncompleteService    = "INCOMPLETE_SERVICE"
	ErrCodeUnmappableService    = "UNMAPPABLE_SERVICE"
	ErrCodeUnitMismatch         = "UNIT_MISMATCH"
	ErrCodePricingOracleFailure = "PRICING_ORACLE_FAILURE"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
)

// NewInputEmptyError reports a request with no usable text.
func NewInputEmptyError() *QuoteError {
	return &QuoteError{
		Code:        ErrCodeInputEmpty,
		Message:     "no text provided",
		Severity:    SeverityError,
		Recoverable: true,
	}
}

// NewUnmappableServiceError reports a service with no catalog match.
func NewUnmappableServiceError(name string) *QuoteError {
	return &QuoteError{
		Code:        ErrCodeUnmappableService,
		Message:     fmt.Sprintf("no catalog match for service: %s", name),
		Severity:    SeverityWarning,
		ServiceName: name,
		Recoverable: true,
	}
}

// NewInvalidQuantityError reports a zero or negative quantity. Always
// routed to clarification, never silently priced.
func NewInvalidQuantityError(name string, quantity float64) *QuoteError {
	return &QuoteError{
		Code:        ErrCodeInvalidQuantity,
		Message:     fmt.Sprintf("invalid quantity %g for service: %s", quantity, name),
		Severity:    SeverityError,
		ServiceName: name,
		Recoverable: true,
	}
}

// NewOracleFailureError reports a pricing oracle call that failed. Fatal
// for the request; the hint tells callers the request is safe to retry.
func NewOracleFailureError(lookupKey string, cause error) *QuoteError {
	return &QuoteError{
		Code:        ErrCodePricingOracleFailure,
		Message:     fmt.Sprintf("pricing lookup failed for key %s: %v", lookupKey, cause),
		Severity:    SeverityFatal,
		Recoverable: false,
		RetryHint:   "the pricing backend did not respond; retry the request",
	}
}
