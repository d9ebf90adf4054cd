package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionInit indicates that the browser session could not be started
	ErrSessionInit = errors.New("session init failed")

	// ErrPortalUnreachable indicates that no candidate portal URL responded
	ErrPortalUnreachable = errors.New("portal unreachable")

	// ErrElementNotFound indicates that no locator strategy matched
	ErrElementNotFound = errors.New("element not found")

	// ErrFieldFill indicates that a single record field could not be written
	ErrFieldFill = errors.New("field fill failed")

	// ErrSaveUnconfirmed indicates that the save control could not be used
	ErrSaveUnconfirmed = errors.New("save unconfirmed")
)

// Error is a classified workflow error
type Error struct {
	// Kind is one of the sentinel errors above
	Kind error

	// Message is a human-readable error message
	Message string

	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error kind
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// NewSessionInitError wraps a browser start failure
func NewSessionInitError(err error) *Error {
	return &Error{Kind: ErrSessionInit, Message: "browser session could not start", Err: err}
}

// NewPortalUnreachableError reports that every candidate URL failed
func NewPortalUnreachableError(urls []string, err error) *Error {
	return &Error{
		Kind:    ErrPortalUnreachable,
		Message: fmt.Sprintf("tried %d candidate url(s): %s", len(urls), strings.Join(urls, ", ")),
		Err:     err,
	}
}

// NewSaveUnconfirmedError wraps a failure to use the save control
func NewSaveUnconfirmedError(err error) *Error {
	return &Error{Kind: ErrSaveUnconfirmed, Message: "save control not used", Err: err}
}

// ElementNotFoundError lists every strategy attempted before giving up
type ElementNotFoundError struct {
	Attempts []string
	Err      error // last underlying failure
}

func (e *ElementNotFoundError) Error() string {
	if len(e.Attempts) == 0 {
		return "element not found: no locator strategies given"
	}
	msg := fmt.Sprintf("element not found after %d strategies [%s]", len(e.Attempts), strings.Join(e.Attempts, "; "))
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ElementNotFoundError) Unwrap() error { return e.Err }

func (e *ElementNotFoundError) Is(target error) bool { return target == ErrElementNotFound }

// FieldFillError records one field that could not be written
type FieldFillError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldFillError) Error() string {
	return fmt.Sprintf("could not fill %s with %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldFillError) Unwrap() error { return e.Err }

func (e *FieldFillError) Is(target error) bool { return target == ErrFieldFill }

// IsElementNotFound checks if an error is an element lookup failure
func IsElementNotFound(err error) bool {
	return errors.Is(err, ErrElementNotFound)
}

// IsSessionInit checks if an error is a session start failure
func IsSessionInit(err error) bool {
	return errors.Is(err, ErrSessionInit)
}
