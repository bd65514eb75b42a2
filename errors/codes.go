package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resolution errors
const (
	// ErrCodeUnknownDependency indicates a name has no binding.
	ErrCodeUnknownDependency ErrorCode = "UNKNOWN_DEPENDENCY"
	// ErrCodeDependencyMismatch indicates a resolved dependency does not fit the
	// constructor parameter it was injected into.
	ErrCodeDependencyMismatch ErrorCode = "DEPENDENCY_TYPE_MISMATCH"
	// ErrCodeFactoryFailed indicates a constructor returned an error.
	ErrCodeFactoryFailed ErrorCode = "FACTORY_FAILED"
)

// Registration errors
const (
	// ErrCodeInvalidFactory indicates a constructor that cannot be called with
	// its declared dependencies.
	ErrCodeInvalidFactory ErrorCode = "INVALID_FACTORY"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)
