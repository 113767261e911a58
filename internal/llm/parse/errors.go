package parse

import (
	"errors"
	"fmt"
)

// ErrMalformedOutput is matched by a ParseError from DecodeJSON after every layer failed.
var ErrMalformedOutput = errors.New("malformed oracle output")

// Payload kinds reported by ParseError.
const (
	KindScore = "score"
	KindJSON  = "json"
)

// ParseError reports that the oracle answered but no payload could be extracted.
type ParseError struct {
	Kind   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Kind, e.Reason)
}

// Unwrap lets errors.Is(err, ErrMalformedOutput) match JSON failures.
func (e *ParseError) Unwrap() error {
	if e.Kind == KindJSON {
		return ErrMalformedOutput
	}
	return nil
}

// ValidationError reports a decoded payload whose structure is wrong.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}
