// Package errors provides standardized error handling for the chatbot pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfigurationError ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeModelUnavailable   ErrorCode = "MODEL_UNAVAILABLE"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeCatalogQueryFailed       ErrorCode = "CATALOG_QUERY_FAILED"
	ErrCodeCatalogQueryTimeout      ErrorCode = "CATALOG_QUERY_TIMEOUT"
	ErrCodeProductNotFound          ErrorCode = "PRODUCT_NOT_FOUND"

	ErrCodeLinkResolutionFailed ErrorCode = "LINK_RESOLUTION_FAILED"

	ErrCodeInvalidRequestFormat ErrorCode = "INVALID_REQUEST_FORMAT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches StandardErrors by code so callers can use errors.Is with a
// constructor-produced sentinel.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// IsCode reports whether err is (or wraps) a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var se *StandardError
	return errors.As(err, &se) && se.Code == code
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigurationError marks an intent-resource load/validation failure. It is
// non-retryable: the classifier degrades to keyword mode instead.
func NewConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationError,
		Message:   "Intent configuration missing or malformed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelUnavailableError marks a classifier that could not be trained.
func NewModelUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelUnavailable,
		Message:   "Trained classifier unavailable",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogQueryFailedError wraps a catalog search failure. The composer
// renders it as "no matches"; it never propagates to the transport.
func NewCatalogQueryFailedError(backend string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogQueryFailed,
		Message:   "Catalog query execution error",
		Details:   fmt.Sprintf("backend: %s, error: %s", backend, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogQueryTimeoutError creates a retryable query timeout error.
func NewCatalogQueryTimeoutError(backend string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogQueryTimeout,
		Message:   "Catalog query timeout",
		Details:   fmt.Sprintf("backend: %s", backend),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProductNotFoundError creates a non-retryable lookup miss.
func NewProductNotFoundError(id int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeProductNotFound,
		Message:   "Product not found",
		Details:   fmt.Sprintf("id: %d", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLinkResolutionFailedError marks an unresolvable named destination. The
// composer substitutes a safe placeholder instead of failing the reply.
func NewLinkResolutionFailedError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLinkResolutionFailed,
		Message:   "Unknown link destination",
		Details:   fmt.Sprintf("name: %s", name),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestFormatError marks a malformed transport payload. Rejected at
// the boundary with a client error status before reaching the pipeline.
func NewInvalidRequestFormatError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequestFormat,
		Message:   "Invalid request payload",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
