package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type of the module.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// UnknownDependency creates an AppError for a name that has no binding.
func UnknownDependency(name string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownDependency, Message: fmt.Sprintf("dependency %q is not registered", name),
		Details: map[string]any{"name": name},
	}
}

// DependencyMismatch creates an AppError for a dependency that cannot be
// passed to the constructor parameter at the given position.
func DependencyMismatch(name, dependency string, position int, want, got string) *AppError {
	return &AppError{
		Code: ErrCodeDependencyMismatch,
		Message: fmt.Sprintf("dependency %q of %q is %s, parameter %d expects %s",
			dependency, name, got, position, want),
		Details: map[string]any{"name": name, "dependency": dependency, "position": position},
	}
}

// FactoryFailed creates an AppError for a constructor that returned an error.
func FactoryFailed(name string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeFactoryFailed, Message: fmt.Sprintf("factory for %q failed", name),
		Details: map[string]any{"name": name}, Cause: cause,
	}
}

// InvalidFactory creates an AppError for a constructor rejected at registration.
func InvalidFactory(name, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidFactory, Message: fmt.Sprintf("invalid factory for %q: %s", name, reason),
		Details: map[string]any{"name": name},
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
