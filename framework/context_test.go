package framework

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loggedEvent struct {
	kind   string
	id     string
	detail string
}

type recordingTestLogger struct {
	events      []loggedEvent
	debugOutput map[string]CapturedOutput
}

func newRecordingTestLogger() *recordingTestLogger {
	return &recordingTestLogger{debugOutput: make(map[string]CapturedOutput)}
}

func (r *recordingTestLogger) TestStarted(id TestID) {
	r.events = append(r.events, loggedEvent{kind: "started", id: id.String()})
}

func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.events = append(r.events, loggedEvent{kind: "error", id: id.String(), detail: err.Error()})
}

func (r *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	detail := "passed"
	if failed {
		detail = "failed"
	}
	r.events = append(r.events, loggedEvent{kind: "finished", id: id.String(), detail: detail})
	r.debugOutput[id.String()] = debugOutput
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.events = append(r.events, loggedEvent{kind: "skipped", id: id.String(), detail: reason})
}

func failureIDs(results Results) []string {
	var ids []string
	for _, f := range results.Failures {
		ids = append(ids, f.TestID.String())
	}
	return ids
}

func TestPassingTests(t *testing.T) {
	logger := newRecordingTestLogger()
	results := Run(nil, logger, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Run("b", func(c *Context) {})
		})
	})

	assert.True(t, results.OK())
	assert.Equal(t, []loggedEvent{
		{kind: "started", id: "a"},
		{kind: "started", id: "a/b"},
		{kind: "finished", id: "a/b", detail: "passed"},
		{kind: "finished", id: "a", detail: "passed"},
	}, logger.events)
}

func TestErrorfContinuesAndFailNowStops(t *testing.T) {
	var reachedAfterErrorf, reachedAfterFailNow bool
	results := Run(nil, nil, func(c *Context) {
		c.Run("errorf", func(c *Context) {
			c.Errorf("problem %d", 1)
			reachedAfterErrorf = true
			assert.True(t, c.Failed())
		})
		c.Run("failnow", func(c *Context) {
			c.Errorf("fatal problem")
			c.FailNow()
			reachedAfterFailNow = true
		})
		c.Run("ok", func(c *Context) {})
	})

	assert.True(t, reachedAfterErrorf)
	assert.False(t, reachedAfterFailNow)
	assert.False(t, results.OK())
	assert.Equal(t, []string{"errorf", "failnow"}, failureIDs(results))
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Equal(t, "problem 1", results.Failures[0].Errors[0].Error())
}

func TestFailNowWithoutMessage(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) { c.FailNow() })
	})

	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Equal(t, "test failed with no failure message", results.Failures[0].Errors[0].Error())
}

func TestUnexpectedPanicIsAFailure(t *testing.T) {
	logger := newRecordingTestLogger()
	results := Run(nil, logger, func(c *Context) {
		c.Run("x", func(c *Context) { panic(errors.New("oops")) })
		c.Run("y", func(c *Context) {})
	})

	assert.Equal(t, []string{"x"}, failureIDs(results))
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic in test: oops")
	assert.Equal(t, loggedEvent{kind: "finished", id: "y", detail: "passed"}, logger.events[len(logger.events)-1])
}

func TestSkip(t *testing.T) {
	logger := newRecordingTestLogger()
	var reachedAfterSkip bool
	results := Run(nil, logger, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.SkipWithReason("not supported")
			reachedAfterSkip = true
		})
	})

	assert.False(t, reachedAfterSkip)
	assert.True(t, results.OK())
	assert.Equal(t, []loggedEvent{
		{kind: "started", id: "x"},
		{kind: "skipped", id: "x", detail: "not supported"},
	}, logger.events)

	passed, failed, skipped := results.Counts()
	assert.Equal(t, 0, passed)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 1, skipped)
}

func TestCountsIncludeOnlyTestsWithoutSubtests(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("fails", func(c *Context) { c.Errorf("bad") })
			c.Run("passes", func(c *Context) {})
		})
	})

	passed, failed, skipped := results.Counts()
	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, []string{"group/fails"}, failureIDs(results))
}

func TestGroupThatFailsItselfIsCounted(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("passes", func(c *Context) {})
			c.Errorf("setup failed")
		})
	})

	passed, failed, _ := results.Counts()
	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{"group"}, failureIDs(results))
}

func TestFilterExcludesTests(t *testing.T) {
	logger := newRecordingTestLogger()
	var ran []string
	filter := func(id TestID) bool { return id.String() != "excluded" }
	Run(filter, logger, func(c *Context) {
		c.Run("excluded", func(c *Context) { ran = append(ran, "excluded") })
		c.Run("included", func(c *Context) { ran = append(ran, "included") })
	})

	assert.Equal(t, []string{"included"}, ran)
	assert.Equal(t, loggedEvent{kind: "skipped", id: "excluded", detail: "excluded by filter parameters"}, logger.events[1])
}

func TestDeferredCleanupsRunInReverseOrder(t *testing.T) {
	for _, outcome := range []string{"pass", "fail", "skip", "panic"} {
		t.Run(outcome, func(t *testing.T) {
			var calls []string
			Run(nil, nil, func(c *Context) {
				c.Run("x", func(c *Context) {
					c.Defer(func() { calls = append(calls, "first") })
					c.Defer(func() { panic("broken cleanup") })
					c.Defer(func() { calls = append(calls, "second") })
					switch outcome {
					case "fail":
						c.FailNow()
					case "skip":
						c.Skip()
					case "panic":
						panic("oops")
					}
				})
			})
			assert.Equal(t, []string{"second", "first"}, calls)
		})
	}
}

func TestDebugOutputIsPassedToLogger(t *testing.T) {
	logger := newRecordingTestLogger()
	Run(nil, logger, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Debug("hello %s", "world")
			c.DebugLogger().Printf("second")
		})
	})

	output := logger.debugOutput["x"]
	require.Len(t, output, 2)
	assert.Equal(t, "hello world", output[0].Message)
	assert.Equal(t, "second", output[1].Message)
}

func TestSubtestIDsDoNotShareStorage(t *testing.T) {
	var ids []TestID
	Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Run("b", func(c *Context) { ids = append(ids, c.ID()) })
			c.Run("c", func(c *Context) { ids = append(ids, c.ID()) })
		})
	})

	require.Len(t, ids, 2)
	assert.Equal(t, "a/b", ids[0].String())
	assert.Equal(t, "a/c", ids[1].String())
}
