package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// stackTrace returns the first stack trace found along the chain of err.
func stackTrace(err error) errors.StackTrace {
	for ; err != nil; err = unwrap(err) {
		if st, ok := err.(interface{ StackTrace() errors.StackTrace }); ok {
			return st.StackTrace()
		}
	}
	return nil
}

// Format prints the message for %s. %v adds the [file:line] where the
// error was first wrapped and %+v the whole stack trace.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb != 'v' {
		io.WriteString(s, e.Error())
		return
	}
	stack := ownFrames(stackTrace(e))
	if s.Flag('+') {
		fmt.Fprintf(s, "%+v\n", stack)
		io.WriteString(s, e.Error())
		return
	}
	io.WriteString(s, e.Error())
	if len(stack) > 0 {
		file, line := location(stack[0])
		if i := strings.Index(file, "github.com/"); i >= 0 {
			file = file[i+len("github.com/"):]
		}
		fmt.Fprintf(s, " [%s:%d]", file, line)
	}
}

// ownFrames drops the frames of this package and of the runtime from the
// top of the stack, and the runtime and testing frames from its bottom.
func ownFrames(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && inFile(st[0], "/errors/errors.go", "/runtime/") {
		st = st[1:]
	}
	for len(st) > 1 && inFile(st[len(st)-1], "runtime/", "src/testing/") {
		st = st[:len(st)-1]
	}
	return st
}

func inFile(f errors.Frame, fragments ...string) bool {
	file, _ := location(f)
	for _, frag := range fragments {
		if strings.Contains(file, frag) {
			return true
		}
	}
	return false
}

// location extracts the file and line of a frame from its "%+v" form,
// which is "function\n\tfile:line".
func location(f errors.Frame) (string, int) {
	parts := strings.SplitN(fmt.Sprintf("%+v", f), "\n\t", 2)
	if len(parts) < 2 {
		return "", 0
	}
	i := strings.LastIndex(parts[1], ":")
	if i < 0 {
		return parts[1], 0
	}
	var line int
	fmt.Sscanf(parts[1][i+1:], "%d", &line)
	return parts[1][:i], line
}
