// Package serr holds the errors returned by the earley parse server's service
// layer. API handlers map them to HTTP statuses with errors.Is.
package serr

import (
	"errors"
	"strings"
)

var (
	ErrBadCredentials = errors.New("the supplied username/password combination is incorrect")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrAlreadyExists  = errors.New("resource with same identifying information already exists")
	ErrDB             = errors.New("an error occured with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
	ErrBadGrammar     = errors.New("the grammar is not valid")
	ErrQuotaExceeded  = errors.New("the grammar quota has been reached")
)

// Error is a message with any number of causes. errors.Is reports true for an
// Error and any of its causes.
//
// Error() gives the message followed by the first cause's message, or just
// one of the two if the other is missing.
type Error struct {
	msg   string
	cause []error
}

func (e Error) Error() string {
	parts := make([]string, 0, 2)
	if e.msg != "" {
		parts = append(parts, e.msg)
	}
	if len(e.cause) > 0 {
		parts = append(parts, e.cause[0].Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the causes of the Error, or nil if it has none.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// WrapDB creates an Error caused by err and by ErrDB. msg may be "".
func WrapDB(msg string, err error) Error {
	return New(msg, err, ErrDB)
}

// New creates an Error with the given message and causes.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}
