// Package redigoerr holds the sentinel errors of the wire-visible error
// taxonomy and renders them to the exact strings clients see on the wire.
package redigoerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingKey      = errors.New("missing key")
	ErrArity           = errors.New("invalid number of args")
	ErrExecution       = errors.New("error")
	ErrNotImplemented  = errors.New("not implemented")
)

// TypeMismatch builds the "Invalid command <cmd> for <type>" error used
// when a command's owning type doesn't match an existing key's type. It is
// its own error (not a sentinel) because the message is parameterized by
// the command and the entry's type.
func TypeMismatch(cmd, kind string) error {
	return fmt.Errorf("invalid command %s for %s", cmd, kind)
}

// Render maps an error from the taxonomy above to the plain-text wire
// response. Errors outside the sentinel set (e.g. a TypeMismatch) render as
// their own message with the first letter capitalized.
func Render(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownCommand):
		return "Unknown command"
	case errors.Is(err, ErrMissingKey):
		return "Missing key"
	case errors.Is(err, ErrArity):
		return "Invalid number of args"
	case errors.Is(err, ErrNotImplemented):
		return "Not implemented"
	case errors.Is(err, ErrExecution):
		return "error"
	default:
		return capitalize(err.Error())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
