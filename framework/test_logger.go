package framework

import (
	"github.com/rs/zerolog"
)

// TestLogger receives events as the test run progresses. TestStarted is called for every test
// that the filter allows or rejects; it is followed by TestError for each failure, and finally
// by either TestFinished or TestSkipped.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}

type multiTestLogger []TestLogger

// TestLoggers returns a TestLogger that passes every event to each of the loggers in order.
func TestLoggers(loggers ...TestLogger) TestLogger {
	return multiTestLogger(loggers)
}

func (m multiTestLogger) TestStarted(id TestID) {
	for _, l := range m {
		l.TestStarted(id)
	}
}

func (m multiTestLogger) TestError(id TestID, err error) {
	for _, l := range m {
		l.TestError(id, err)
	}
}

func (m multiTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	for _, l := range m {
		l.TestFinished(id, failed, debugOutput)
	}
}

func (m multiTestLogger) TestSkipped(id TestID, reason string) {
	for _, l := range m {
		l.TestSkipped(id, reason)
	}
}

type eventTestLogger struct {
	logger zerolog.Logger
}

// EventTestLogger records test events as debug-level structured log events, so that a log
// file contains the outcome of each test alongside the harness's own events.
func EventTestLogger(logger zerolog.Logger) TestLogger {
	return eventTestLogger{logger: logger}
}

func (e eventTestLogger) TestStarted(id TestID) {
	e.logger.Debug().Str("test", id.String()).Msg("test started")
}

func (e eventTestLogger) TestError(id TestID, err error) {
	e.logger.Debug().Str("test", id.String()).Err(err).Msg("test error")
}

func (e eventTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	e.logger.Debug().Str("test", id.String()).Bool("failed", failed).Int("debugLines", len(debugOutput)).
		Msg("test finished")
}

func (e eventTestLogger) TestSkipped(id TestID, reason string) {
	e.logger.Debug().Str("test", id.String()).Str("reason", reason).Msg("test skipped")
}
