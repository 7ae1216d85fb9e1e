package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all packages. Extensions register their own codes
// above 100.
var (
	ErrUnauthorized       = Register(2, "unauthorized")
	ErrNotFound           = Register(3, "not found")
	ErrMsg                = Register(4, "invalid message")
	ErrModel              = Register(5, "invalid model")
	ErrDuplicate          = Register(6, "duplicate")
	ErrHuman              = Register(7, "coding error")
	ErrImmutable          = Register(8, "cannot be modified")
	ErrEmpty              = Register(9, "value is empty")
	ErrState              = Register(10, "invalid state")
	ErrType               = Register(11, "invalid type")
	ErrInsufficientAmount = Register(12, "insufficient amount")
	ErrAmount             = Register(13, "invalid amount")
	ErrInput              = Register(14, "invalid input")
	ErrOverflow           = Register(16, "value overflow")
	ErrDatabase           = Register(17, "database error")

	// ErrPanic marks a recovered panic. Its message is never reported
	// outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// registry holds every registered code. Code 1 stands for errors without
// a code and can never be registered.
var registry = map[uint32]*Error{internalCode: nil}

// Register declares a root error. It panics when code is taken, so it must
// only be called while initializing package variables.
func Register(code uint32, description string) *Error {
	if prev, ok := registry[code]; ok {
		if prev == nil {
			panic(fmt.Sprintf("error code %d is reserved", code))
		}
		panic(fmt.Sprintf("error code %d is already registered as %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error. Errors returned at runtime wrap one of them so
// that callers can test their kind with Is and clients can act on Code.
type Error struct {
	code uint32
	desc string
}

func (e *Error) Error() string {
	return e.desc
}

// Code returns the registered code.
func (e *Error) Code() uint32 {
	return e.code
}

// Is reports whether err is, or wraps, this root error. A nil kind matches
// only a nil err, including typed nil pointers.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return isNil(err)
	}
	for err != nil {
		if err == error(kind) {
			return true
		}
		err = unwrap(err)
	}
	return false
}

// Wrap annotates err with description. The first wrap records the stack
// trace. Wrapping nil returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithType annotates err with the type of obj.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

// Recover turns a panic into an ErrPanic assigned to err. It must be
// deferred directly.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

// Cause is used by github.com/pkg/errors.Cause.
func (e *wrappedError) Cause() error {
	return e.parent
}

// Unwrap is used by the standard library errors.Is and errors.As.
func (e *wrappedError) Unwrap() error {
	return e.parent
}

// unwrap returns the next error of the chain, or nil.
func unwrap(err error) error {
	switch e := err.(type) {
	case interface{ Cause() error }:
		return e.Cause()
	case interface{ Unwrap() error }:
		return e.Unwrap()
	}
	return nil
}

func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
