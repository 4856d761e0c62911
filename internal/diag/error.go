package diag

import (
	"errors"
	"fmt"
)

// Error carries a diagnostic through the error channel.
type Error struct {
	Diag Diagnostic
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Diag.Code.ID(), e.Diag.Message)
}

// Is matches another *Error with the same code, so callers can write
// errors.Is(err, diag.Sentinel(diag.SemaConstCycle)).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Diag.Code == e.Diag.Code
}

// Sentinel returns a comparison value for errors.Is.
func Sentinel(code Code) error {
	return &Error{Diag: Diagnostic{Severity: SevError, Code: code}}
}

// CodeOf extracts the diagnostic code from err, or UnknownCode.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Diag.Code
	}
	return UnknownCode
}

// AsDiagnostic returns the diagnostic wrapped in err, if any.
func AsDiagnostic(err error) (Diagnostic, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Diag, true
	}
	return Diagnostic{}, false
}
