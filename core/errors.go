package core

import "github.com/pkg/errors"

// ErrInvalidRecord is the cause of every rejected mutation: out-of-range values, illegal
// status transitions and references to records that do not exist.
var ErrInvalidRecord = errors.New("invalid record")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// NewInvalidRecordError returns a ValidationError caused by ErrInvalidRecord.
func NewInvalidRecordError(flds ...FieldError) error {
	return &ValidationError{Err: ErrInvalidRecord, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// IsInvalidRecord reports whether err was caused by a rejected record.
func IsInvalidRecord(err error) bool {
	if vErr, ok := errors.Cause(err).(*ValidationError); ok {
		return vErr.Err == ErrInvalidRecord
	}
	return errors.Cause(err) == ErrInvalidRecord
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
