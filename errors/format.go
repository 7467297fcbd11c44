package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Format prints the error message for %s. %v adds the [file:line] where
// the error was first wrapped and %+v prints the whole stack.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb != 'v' {
		io.WriteString(s, e.Error())
		return
	}
	stack := callerFrames(stackTrace(e))
	if s.Flag('+') {
		fmt.Fprintf(s, "%+v\n%s", stack, e.Error())
		return
	}
	io.WriteString(s, e.Error())
	if len(stack) != 0 {
		file, line := frameLocation(stack[0])
		if i := strings.Index(file, "github.com/"); i >= 0 {
			file = file[i+len("github.com/"):]
		}
		fmt.Fprintf(s, " [%s:%d]", file, line)
	}
}

// stackTrace returns the outermost stack recorded in the chain of err.
func stackTrace(err error) errors.StackTrace {
	for err != nil {
		if st, ok := err.(interface{ StackTrace() errors.StackTrace }); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return nil
}

// callerFrames drops the frames of this package and of the runtime, so the
// stack starts at the code that produced the error.
func callerFrames(st errors.StackTrace) errors.StackTrace {
	skip := []string{"/errors/wrap.go", "/errors/field.go", "/runtime/", "/_test/"}
	for len(st) != 0 && frameIn(st[0], skip) {
		st = st[1:]
	}
	for len(st) > 1 && frameIn(st[len(st)-1], skip[2:3]) {
		st = st[:len(st)-1]
	}
	return st
}

func frameIn(f errors.Frame, paths []string) bool {
	file, _ := frameLocation(f)
	for _, p := range paths {
		if strings.Contains(file, p) {
			return true
		}
	}
	return false
}

// frameLocation resolves a frame the way pkg/errors does, a frame holds the
// return address so the call is one instruction before it.
func frameLocation(f errors.Frame) (string, int) {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(pc)
}
