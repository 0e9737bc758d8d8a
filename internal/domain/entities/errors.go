package entities

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain failures so the transport layer can map them
// to status codes.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindUnsupportedFilter ErrorKind = "unsupported_filter"
	KindDuplicate         ErrorKind = "duplicate"
	KindInvalidType       ErrorKind = "invalid_type"
	KindNotFound          ErrorKind = "not_found"
	KindLoadFailure       ErrorKind = "load_failure"
	KindPersistFailure    ErrorKind = "persist_failure"
)

// Common messages
const (
	MsgMissingData  = "Missing required data."
	MsgTooManyTypes = "Pokemon can only have one or two types."
	MsgInvalidType  = "Pokemon's type is invalid."
	MsgAlreadyExist = "The Pokemon already exists."
	MsgNotExist     = "The Pokemon does not exist."
	MsgLoadCSV      = "An error occurred while reading the CSV file"
	MsgReadStore    = "Failed to read JSON data"
	MsgWriteStore   = "Failed to write JSON data"
)

// Error is a domain error carrying a machine readable kind and a message
// suitable for clients.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a domain error without an underlying cause
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a domain error around cause
func WrapError(kind ErrorKind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of the first domain error in err's chain, or the
// empty kind when there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// ErrNotFound builds the not found error for a pokemon id
func ErrNotFound(id int) *Error {
	return NewError(KindNotFound, "Pokemon with ID %d not found", id)
}
