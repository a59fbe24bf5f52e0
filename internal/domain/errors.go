package domain

import (
	"errors"
	"fmt"
)

// ErrEncoding matches every EncodingError through errors.Is.
var ErrEncoding = errors.New("header encoding error")

// EncodingError reports a header field that violates its committed width or shape.
type EncodingError struct {
	Field  Field
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %s", e.Field, e.Reason)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// NewEncodingError builds an EncodingError for field.
func NewEncodingError(field Field, format string, args ...any) error {
	return &EncodingError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
