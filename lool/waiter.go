package lool

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const DefaultPollTimeout = time.Second

// WaitPolicy bounds a wait. Each poll waits up to PollTimeout for a frame. The wait starts
// with InitialBudget polls to spend; a poll that times out spends one, and a message that
// arrives without matching resets the remaining budget to RenewalBudget.
type WaitPolicy struct {
	PollTimeout   time.Duration
	InitialBudget int
	RenewalBudget int
}

var (
	// LoadPolicy is used when waiting for a document to finish loading.
	LoadPolicy = WaitPolicy{PollTimeout: DefaultPollTimeout, InitialBudget: 30, RenewalBudget: 10}

	// ResponsePolicy is used when waiting for the response to a command.
	ResponsePolicy = WaitPolicy{PollTimeout: DefaultPollTimeout, InitialBudget: 20, RenewalBudget: 10}
)

func (p WaitPolicy) WithPollTimeout(timeout time.Duration) WaitPolicy {
	p.PollTimeout = timeout
	return p
}

// MaxSilentWait is how long a wait lasts if nothing at all arrives.
func (p WaitPolicy) MaxSilentWait() time.Duration {
	return p.PollTimeout * time.Duration(p.InitialBudget)
}

func (p WaitPolicy) normalized() WaitPolicy {
	if p.PollTimeout <= 0 {
		p.PollTimeout = DefaultPollTimeout
	}
	if p.InitialBudget < 1 {
		p.InitialBudget = 1
	}
	if p.RenewalBudget < 1 {
		p.RenewalBudget = 1
	}
	return p
}

// Matcher decides whether a classified message is the one being waited for, and if so
// returns the content to hand back to the caller.
type Matcher func(message string) (content string, ok bool)

// PrefixMatcher matches messages starting with prefix, and returns the text after it.
func PrefixMatcher(prefix string) Matcher {
	return func(message string) (string, bool) {
		if strings.HasPrefix(message, prefix) {
			return message[len(prefix):], true
		}
		return "", false
	}
}

// KindMatcher matches messages that decode to any of the specified kinds, and returns the
// decoded body.
func KindMatcher(kinds ...Kind) Matcher {
	return func(message string) (string, bool) {
		m := Decode([]byte(message))
		for _, k := range kinds {
			if m.Kind == k {
				return m.Body, true
			}
		}
		return "", false
	}
}

type WaitState int

const (
	Waiting WaitState = iota
	Matched
	Exhausted
	Closed
	Faulted
)

func (s WaitState) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Matched:
		return "matched"
	case Exhausted:
		return "exhausted"
	case Closed:
		return "closed"
	case Faulted:
		return "faulted"
	default:
		return "invalid"
	}
}

// WaitResult describes how a wait ended.
type WaitResult struct {
	State WaitState
	// Content is what the Matcher returned for the matching message.
	Content string
	// Message is the classified text of the matching message.
	Message string
	// Polls counts PollReadable calls, and Received counts non-empty payload frames.
	Polls    int
	Received int
}

// Waiter reads frames from a source until one matches.
type Waiter struct {
	Source FrameSource
	Policy WaitPolicy
	Logger zerolog.Logger
}

// Wait polls the source until a frame whose payload, classified according to mode, is
// accepted by match. It returns a nil error only in the Matched state. Otherwise the error is
// ErrExhausted, a *CloseError, or a *TransportFault.
func (w Waiter) Wait(mode Mode, match Matcher) (WaitResult, error) {
	policy := w.Policy.normalized()
	retries := policy.InitialBudget
	result := WaitResult{State: Waiting}

	for {
		result.Polls++
		if !w.Source.PollReadable(policy.PollTimeout) {
			retries--
			w.Logger.Debug().Int("retries", retries).Msg("timeout")
			if retries <= 0 {
				result.State = Exhausted
				return result, ErrExhausted
			}
			continue
		}

		frame, err := w.Source.Receive()
		if err != nil {
			var fault *TransportFault
			if !errors.As(err, &fault) {
				err = &TransportFault{Op: "receive", Err: err}
			}
			w.Logger.Warn().Err(err).Msg("receive failed")
			result.State = Faulted
			return result, err
		}
		if frame.IsClose() {
			w.Logger.Debug().Int("code", frame.Close.Code).Str("reason", frame.Close.Reason).Msg("received close frame")
			result.State = Closed
			return result, &CloseError{CloseInfo: *frame.Close}
		}
		if len(frame.Payload) == 0 {
			continue
		}

		result.Received++
		w.Logger.Debug().Int("bytes", len(frame.Payload)).Str("message", Abbreviate(frame.Payload)).Msg("received")
		message := mode.classify(frame.Payload)
		if content, ok := match(message); ok {
			result.State = Matched
			result.Content = content
			result.Message = message
			return result, nil
		}
		retries = policy.RenewalBudget
	}
}
