package log

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var (
	Trace   *log.Logger
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
)

func init() {
	InitLog()
}

// levelWriter turns every line printed on a std logger into a zerolog event
// of a fixed level.
type levelWriter struct {
	logger zerolog.Logger
	level  zerolog.Level
}

func (w levelWriter) Write(p []byte) (int, error) {
	w.logger.WithLevel(w.level).Msg(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func newLogger(out io.Writer, level zerolog.Level) *log.Logger {
	zl := zerolog.New(out).With().Timestamp().Logger()
	return log.New(levelWriter{logger: zl, level: level}, "", 0)
}

// InitLog configures the package loggers. Trace output is discarded unless
// SCRIVI_TRACE is set to 1.
func InitLog() {
	var traceOut io.Writer = io.Discard
	if os.Getenv("SCRIVI_TRACE") == "1" {
		traceOut = consoleWriter(os.Stderr)
	}

	Trace = newLogger(traceOut, zerolog.TraceLevel)
	Info = newLogger(consoleWriter(os.Stdout), zerolog.InfoLevel)
	Warning = newLogger(consoleWriter(os.Stdout), zerolog.WarnLevel)
	Error = newLogger(consoleWriter(os.Stderr), zerolog.ErrorLevel)
}

// SetOutput routes every logger, trace included, to out as JSON lines.
func SetOutput(out io.Writer) {
	Trace = newLogger(out, zerolog.TraceLevel)
	Info = newLogger(out, zerolog.InfoLevel)
	Warning = newLogger(out, zerolog.WarnLevel)
	Error = newLogger(out, zerolog.ErrorLevel)
}

func consoleWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: "15:04:05"}
}
