package runtime

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Logger is the structured logging seam the scheduler reports fiber
// lifecycle transitions, refill batches, shutdown, and fatal errors
// through. It exists so callers can supply their own zerolog/zap/logrus
// adapter without this package importing all of them, in the same
// package-level pluggable shape as SetStructuredLogger/getGlobalLogger in
// the retrieved eventloop package (see DESIGN.md).
type Logger interface {
	Debugw(msg string, kv ...any)
	Infow(msg string, kv ...any)
	Warnw(msg string, kv ...any)
	Fatal(op, file string, line int, msg string)
}

// zerologLogger is the default Logger, backed by github.com/rs/zerolog.
type zerologLogger struct {
	log zerolog.Logger
}

func newDefaultLogger() Logger {
	return &zerologLogger{
		log: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger(),
	}
}

func (z *zerologLogger) event(e *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}

func (z *zerologLogger) Debugw(msg string, kv ...any) { z.event(z.log.Debug(), msg, kv) }
func (z *zerologLogger) Infow(msg string, kv ...any)  { z.event(z.log.Info(), msg, kv) }
func (z *zerologLogger) Warnw(msg string, kv ...any)  { z.event(z.log.Warn(), msg, kv) }

func (z *zerologLogger) Fatal(op, file string, line int, msg string) {
	z.log.Error().Str("op", op).Str("file", file).Int("line", line).Msg(msg)
}

var globalLogger atomic.Pointer[Logger]

func init() {
	l := newDefaultLogger()
	globalLogger.Store(&l)
}

// SetLogger installs a custom structured logger, replacing the zerolog
// default. Must be called before the coordinator is constructed (i.e.
// before the first Spawn/Yield from the main goroutine); see Configure.
func SetLogger(l Logger) {
	globalLogger.Store(&l)
}

func logger() Logger {
	return *globalLogger.Load()
}
