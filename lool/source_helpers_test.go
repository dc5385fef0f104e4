package lool

import (
	"time"
)

type scriptStep struct {
	timeout bool
	frame   Frame
	err     error
}

// scriptedSource is a FrameSource that plays back a fixed sequence of frames. A timeout step
// makes one PollReadable call return false; once the script is used up, every poll times out.
// It never actually waits.
type scriptedSource struct {
	steps    []scriptStep
	polls    int
	receives int
	timeouts []time.Duration
}

func newScriptedSource(steps ...scriptStep) *scriptedSource {
	return &scriptedSource{steps: steps}
}

func (s *scriptedSource) PollReadable(timeout time.Duration) bool {
	s.polls++
	s.timeouts = append(s.timeouts, timeout)
	if len(s.steps) == 0 {
		return false
	}
	if s.steps[0].timeout {
		s.steps = s.steps[1:]
		return false
	}
	return true
}

func (s *scriptedSource) Receive() (Frame, error) {
	s.receives++
	if len(s.steps) == 0 || s.steps[0].timeout {
		panic("Receive called without a readable frame")
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	return step.frame, step.err
}

func timeouts(n int) []scriptStep {
	steps := make([]scriptStep, n)
	for i := range steps {
		steps[i].timeout = true
	}
	return steps
}

func text(message string) scriptStep {
	return scriptStep{frame: Frame{Payload: []byte(message)}}
}

func texts(message string, n int) []scriptStep {
	steps := make([]scriptStep, n)
	for i := range steps {
		steps[i] = text(message)
	}
	return steps
}

func emptyFrame() scriptStep {
	return scriptStep{frame: Frame{Payload: []byte{}}}
}

func closeFrame(code int, reason string) scriptStep {
	return scriptStep{frame: Frame{Close: &CloseInfo{Code: code, Reason: reason}}}
}

func failure(err error) scriptStep {
	return scriptStep{err: err}
}

func script(parts ...interface{}) []scriptStep {
	var steps []scriptStep
	for _, p := range parts {
		switch v := p.(type) {
		case scriptStep:
			steps = append(steps, v)
		case []scriptStep:
			steps = append(steps, v...)
		default:
			panic("unsupported script part")
		}
	}
	return steps
}
