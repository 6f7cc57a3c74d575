package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports a record or event with a missing or malformed
// required field. It is always recoverable: the offending record is skipped
// and processing continues.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError reports a failed request to the remote listing API. It is
// fatal to the bulk run that hit it, and to nothing else.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StorageError reports a persistence collaborator failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError anywhere in its chain.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport reports whether err is a TransportError anywhere in its chain.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsStorage reports whether err is a StorageError anywhere in its chain.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
