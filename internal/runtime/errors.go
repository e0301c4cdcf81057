package runtime

import (
	"fmt"
	"os"
	stdruntime "runtime"
)

// FatalError identifies an invariant violation, resource exhaustion, or OS
// failure that this runtime treats as unrecoverable (spec §7: "the runtime
// either succeeds or terminates the process"). It is constructed by fatalf
// purely for logging structure; fatalf itself never returns, so no caller
// ever receives a FatalError value to handle.
type FatalError struct {
	Op  string
	Msg string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// fatalf reports an unrecoverable condition and terminates the process,
// mirroring the C original's panic(fmt, ...) macro (file:line:func plus
// exit) and the teacher's own fmt.Fprintf(os.Stderr, ...); os.Exit(1)
// idiom in main.go. op names the failing internal function; the caller
// identity (file:line) is recovered via stdruntime.Caller so the fatal
// log line points at the actual call site, not at fatalf itself.
func fatalf(op, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, file, line, ok := stdruntime.Caller(1)
	if !ok {
		file, line = "unknown", 0
	}
	err := &FatalError{Op: op, Msg: msg}
	logger().Fatal(op, file, line, err.Error())
	os.Exit(2)
}
