package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrInvalidPattern  = errors.New("invalid pattern")
	ErrInvalidDocument = errors.New("invalid document")
	ErrEmptyDocument   = errors.New("document has no terms")
	ErrUndefined       = errors.New("value undefined: zero denominator")
)

// ConfigurationError reports a malformed dictionary, compound rule or
// settings entry. It matches ErrInvalidConfig with errors.Is.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrInvalidConfig, e.Msg)
	}
	return fmt.Sprintf("%v: %s: %s", ErrInvalidConfig, e.Field, e.Msg)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidConfig }

// PatternError reports a pattern that cannot be compiled.
type PatternError struct {
	Category string
	Pattern  string
	Msg      string
}

func (e *PatternError) Error() string {
	if e.Category == "" {
		return fmt.Sprintf("%v %q: %s", ErrInvalidPattern, e.Pattern, e.Msg)
	}
	return fmt.Sprintf("%v %q in category %q: %s", ErrInvalidPattern, e.Pattern, e.Category, e.Msg)
}

func (e *PatternError) Unwrap() error { return ErrInvalidPattern }
