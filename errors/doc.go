// Package errors provides the structured error type returned by the
// container. Every failure carries a machine-readable ErrorCode so callers can
// branch on the kind of failure without matching message strings.
//
//	if errors.HasCode(err, errors.ErrCodeUnknownDependency) {
//	    // name was never registered
//	}
package errors
