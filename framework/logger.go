package framework

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const timestampFormat = "2006-01-02 15:04:05.000"

type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

func NullLogger() Logger { return nullLogger{} }

type prefixedLogger struct {
	prefix string
	target Logger
}

func (p prefixedLogger) Printf(message string, args ...interface{}) {
	p.target.Printf(p.prefix+message, args...)
}

// LoggerWithPrefix returns a Logger that adds a fixed prefix to every message.
func LoggerWithPrefix(logger Logger, prefix string) Logger {
	if logger == nil {
		return NullLogger()
	}
	return prefixedLogger{prefix: prefix, target: logger}
}

type zerologAdapter struct {
	logger zerolog.Logger
}

func (z zerologAdapter) Printf(message string, args ...interface{}) {
	z.logger.Debug().Msgf(message, args...)
}

// ZerologLogger adapts a zerolog.Logger to the Logger interface. Messages are logged at debug
// level.
func ZerologLogger(logger zerolog.Logger) Logger {
	return zerologAdapter{logger: logger}
}

type loggerWriter struct {
	target Logger
}

func (w loggerWriter) Write(p []byte) (int, error) {
	w.target.Printf("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// NewZerolog returns a zerolog.Logger whose events are rendered as single console-format
// lines and passed to the specified Logger. Timestamps are omitted, since a CapturingLogger
// records its own.
func NewZerolog(logger Logger) zerolog.Logger {
	if logger == nil {
		return zerolog.Nop()
	}
	if z, ok := logger.(zerologAdapter); ok {
		return z.logger
	}
	out := zerolog.ConsoleWriter{
		Out:          loggerWriter{target: logger},
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(out).Level(zerolog.DebugLevel)
}

type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Message,
		)
	}
}
