package lool

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lool/ws-contract-tests/servicedef"
)

const writeTimeout = time.Second * 5

// LoadedKinds are the messages that show a document has finished loading. Either one counts,
// since a status response can only be sent once loading is complete.
var LoadedKinds = []Kind{KindStatusIndicatorFinish, KindStatus}

type SessionOptions struct {
	Logger zerolog.Logger
	// PollTimeout, if set, replaces the poll timeout of every policy used by the session.
	PollTimeout time.Duration
}

// Session is one connection to the service. It is meant to be used by a single goroutine,
// strictly alternating commands and waits; it allows only one wait at a time.
type Session struct {
	id          string
	conn        *websocket.Conn
	source      *WebSocketFrameSource
	logger      zerolog.Logger
	pollTimeout time.Duration
	waiting     atomic.Bool
	closed      atomic.Bool
	closeOnce   sync.Once
	closeErr    error
}

// NewSession takes ownership of a WebSocket connection.
func NewSession(conn *websocket.Conn, opts SessionOptions) *Session {
	id := uuid.NewString()
	return &Session{
		id:          id,
		conn:        conn,
		source:      NewWebSocketFrameSource(conn),
		logger:      opts.Logger.With().Str("session", id[:8]).Logger(),
		pollTimeout: opts.PollTimeout,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Send writes text as a single text frame. It does not wait for any reply.
func (s *Session) Send(text string) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.logger.Debug().Str("command", Abbreviate([]byte(text))).Int("bytes", len(text)).Msg("sending")
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return &TransportFault{Op: "send", Err: err}
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return &TransportFault{Op: "send", Err: err}
	}
	return nil
}

// Await waits for a matching message using the specified policy. If the service closes the
// connection during the wait, the session is closed too.
func (s *Session) Await(policy WaitPolicy, mode Mode, match Matcher) (WaitResult, error) {
	if s.closed.Load() {
		return WaitResult{}, ErrSessionClosed
	}
	if !s.waiting.CompareAndSwap(false, true) {
		return WaitResult{}, ErrWaitInProgress
	}
	defer s.waiting.Store(false)

	if s.pollTimeout > 0 {
		policy = policy.WithPollTimeout(s.pollTimeout)
	}
	w := Waiter{Source: s.source, Policy: policy, Logger: s.logger}
	result, err := w.Wait(mode, match)
	s.logger.Debug().Str("state", result.State.String()).Int("polls", result.Polls).
		Int("received", result.Received).Msg("wait finished")
	if result.State == Closed {
		s.closed.Store(true)
	}
	return result, err
}

// AwaitPrefix waits for a message starting with prefix, and returns the rest of the
// message after the prefix.
func (s *Session) AwaitPrefix(prefix string, mode Mode) (string, error) {
	s.logger.Debug().Str("prefix", prefix).Str("mode", mode.String()).Msg("waiting for response")
	result, err := s.Await(ResponsePolicy, mode, PrefixMatcher(prefix))
	if err != nil {
		return "", fmt.Errorf("waiting for %q: %w", prefix, err)
	}
	return result.Content, nil
}

// AwaitKind waits for a message of any of the specified kinds, and returns it decoded.
func (s *Session) AwaitKind(mode Mode, kinds ...Kind) (Message, error) {
	s.logger.Debug().Str("kinds", kindList(kinds)).Str("mode", mode.String()).Msg("waiting for response")
	result, err := s.Await(ResponsePolicy, mode, KindMatcher(kinds...))
	if err != nil {
		return Message{}, fmt.Errorf("waiting for %s: %w", kindList(kinds), err)
	}
	m := Decode([]byte(result.Message))
	s.logger.Debug().Str("prefix", m.Prefix()).Msg("matched")
	return m, nil
}

// AwaitDocumentLoaded waits until a message shows that the document has finished loading. An
// error response to the load command ends the wait early with ErrDocumentLoadFailed.
func (s *Session) AwaitDocumentLoaded() error {
	s.logger.Debug().Msg("waiting for document to load")
	loaded := KindMatcher(LoadedKinds...)
	loadedOrFailed := func(message string) (string, bool) {
		if m := Decode([]byte(message)); m.Kind == KindError {
			info, err := m.AsError()
			return m.Body, err == nil && info.Cmd == servicedef.CommandLoad
		}
		return loaded(message)
	}
	result, err := s.Await(LoadPolicy, ModeFirstLine, loadedOrFailed)
	if err != nil {
		return fmt.Errorf("waiting for document to load: %w", err)
	}
	if m := Decode([]byte(result.Message)); m.Kind == KindError {
		return fmt.Errorf("%w: %s", ErrDocumentLoadFailed, m.Body)
	}
	return nil
}

// IsDocumentLoaded is like AwaitDocumentLoaded, but only reports whether the document
// loaded.
func (s *Session) IsDocumentLoaded() bool {
	if err := s.AwaitDocumentLoaded(); err != nil {
		s.logger.Debug().Err(err).Msg("document not loaded")
		return false
	}
	return true
}

func kindList(kinds []Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, " or ")
}

// Shutdown sends a normal closure frame and closes the connection. If the service already
// closed the connection, the close frame has been answered and only the socket is closed.
// Only the first call has any effect; later calls return the same result.
func (s *Session) Shutdown() error {
	s.closeOnce.Do(func() {
		closedByPeer := s.closed.Swap(true)
		s.logger.Debug().Bool("closedByPeer", closedByPeer).Msg("shutting down")
		var writeErr error
		if !closedByPeer {
			message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			writeErr = s.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeTimeout))
		}
		s.source.Stop()
		closeErr := s.conn.Close()
		switch {
		case writeErr != nil && !errors.Is(writeErr, websocket.ErrCloseSent):
			s.closeErr = &TransportFault{Op: "shutdown", Err: writeErr}
		case closeErr != nil:
			s.closeErr = &TransportFault{Op: "shutdown", Err: closeErr}
		}
	})
	return s.closeErr
}
