package errors

import "fmt"

const (
	// internalCode is reported for errors that do not wrap a root error.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Code returns the code of the root error wrapped by err. It is 0 for nil
// and 1 for errors without a root error.
func Code(err error) uint32 {
	if isNil(err) {
		return 0
	}
	for ; err != nil; err = unwrap(err) {
		if e, ok := err.(*Error); ok {
			return e.Code()
		}
	}
	return internalCode
}

// Report returns the code and message of err as shown to a client. Outside
// of debug mode, errors without a root error and recovered panics are
// reported as a generic internal error. Debug mode adds the stack trace.
func Report(err error, debug bool) (uint32, string) {
	code := Code(err)
	switch {
	case code == 0:
		return 0, ""
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalCode || ErrPanic.Is(err):
		return code, internalLog
	default:
		return code, err.Error()
	}
}
