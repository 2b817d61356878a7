// Package egerrors has errors that carry a message meant for the person at
// the shell in addition to the usual technical description.
package egerrors

import (
	"errors"
	"fmt"
)

// interpreterError is an error caused by attempting to interpret shell input.
// Either the input could not be understood or it asks for something that
// cannot be done right now.
//
// It includes a human-readable message to show to an operator as well as a
// typical more technical "error message" style message.
type interpreterError struct {
	msg   string
	human string
	wrap  error
}

func (e *interpreterError) Error() string {
	return e.msg
}

// ConsoleMessage shows the message that should be displayed at the shell to
// describe the error.
func (e *interpreterError) ConsoleMessage() string {
	return e.human
}

// Unwrap gives the error that the interpreterError wraps, if it wraps one.
func (e *interpreterError) Unwrap() error {
	return e.wrap
}

// Interpreter returns a new error that has both the message to show at the
// shell and the technical description of the error. If technical is empty, one
// is generated from the console message.
func Interpreter(console, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q)", console)
	}
	return &interpreterError{
		msg:   technical,
		human: console,
	}
}

// Interpreterf returns a new error that has a message to show at the shell and
// an automatically generated Error() description.
func Interpreterf(consoleFormat string, a ...interface{}) error {
	return Interpreter(fmt.Sprintf(consoleFormat, a...), "")
}

// WrapInterpreter is like Interpreter but the returned error also wraps e.
func WrapInterpreter(e error, console, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q): %v", console, e)
	}
	return &interpreterError{
		msg:   technical,
		human: console,
		wrap:  e,
	}
}

// WrapInterpreterf is like Interpreterf but the returned error also wraps e.
func WrapInterpreterf(e error, consoleFormat string, a ...interface{}) error {
	return WrapInterpreter(e, fmt.Sprintf(consoleFormat, a...), "")
}

// ConsoleMessage gets the message to display at the shell for the given error.
// If err is or wraps an error created by this package, its console message is
// returned. Otherwise, err.Error() is returned.
func ConsoleMessage(err error) string {
	var intErr *interpreterError
	if errors.As(err, &intErr) {
		return intErr.ConsoleMessage()
	}
	return err.Error()
}
