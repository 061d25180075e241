package ir

import (
	"errors"
	"fmt"

	"github.com/signadot/doctree/format"
)

var (
	ErrDepthExceeded = errors.New("structural depth exceeded")
	ErrParse         = errors.New("parse error")
	ErrNotFound      = errors.New("not found")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrBadPath       = errors.New("bad path")
	ErrBadTemplate   = errors.New("bad template")
	ErrBadFormat     = format.ErrBadFormat
)

// DepthError reports that op went deeper than limit levels.
func DepthError(op string, limit int) error {
	return fmt.Errorf("%w: %s deeper than %d levels", ErrDepthExceeded, op, limit)
}

// ParseError wraps a parser failure from the named format.
func ParseError(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrParse, what, err)
}
