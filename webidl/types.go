// Package webidl holds the small WebIDL-level types and exceptions the
// rest of the module surfaces to script-facing callers.
package webidl

// https://heycam.github.io/webidl/#idl-DOMString
type DOMString string

// https://heycam.github.io/webidl/#idl-USVString
type USVString string
