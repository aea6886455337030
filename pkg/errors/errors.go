package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeConfiguration indicates missing or invalid startup configuration
	ErrorTypeConfiguration ErrorType = "CONFIGURATION"

	// ErrorTypeValidation indicates invalid caller input
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeFetch indicates a failure retrieving hospital or disease data
	ErrorTypeFetch ErrorType = "FETCH"

	// ErrorTypeCostEstimate indicates a failed or unsuccessful cost estimate
	ErrorTypeCostEstimate ErrorType = "COST_ESTIMATE"

	// ErrorTypeLLMInvocation indicates a failure calling the completion endpoint
	ErrorTypeLLMInvocation ErrorType = "LLM_INVOCATION"

	// ErrorTypeResponseParse indicates model output that is not valid JSON
	ErrorTypeResponseParse ErrorType = "RESPONSE_PARSE"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConfiguration,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewFetchError creates a new fetch error
func NewFetchError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFetch,
		Message: message,
		Err:     err,
	}
}

// NewCostEstimateError creates a new cost estimate error
func NewCostEstimateError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeCostEstimate,
		Message: message,
		Err:     err,
	}
}

// NewLLMInvocationError creates a new LLM invocation error
func NewLLMInvocationError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeLLMInvocation,
		Message: message,
		Err:     err,
	}
}

// NewResponseParseError creates a new response parse error
func NewResponseParseError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeResponseParse,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether any AppError in the chain has the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}
