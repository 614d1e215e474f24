package webidl

import (
	"errors"
	"fmt"
)

// DOMException is an error with one of the DOMException names.
// https://webidl.spec.whatwg.org/#idl-DOMException
type DOMException struct {
	Name    string
	Message string
}

func (e *DOMException) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// SecurityError creates a "SecurityError" DOMException.
func SecurityError(message string) *DOMException {
	return &DOMException{Name: "SecurityError", Message: message}
}

// SyntaxError creates a "SyntaxError" DOMException.
func SyntaxError(message string) *DOMException {
	return &DOMException{Name: "SyntaxError", Message: message}
}

// IsSecurityError reports whether err is a "SecurityError" DOMException
// anywhere in its chain.
func IsSecurityError(err error) bool {
	return isNamed(err, "SecurityError")
}

// IsSyntaxError reports whether err is a "SyntaxError" DOMException
// anywhere in its chain.
func IsSyntaxError(err error) bool {
	return isNamed(err, "SyntaxError")
}

func isNamed(err error, name string) bool {
	var ex *DOMException
	if errors.As(err, &ex) {
		return ex.Name == name
	}
	return false
}
