package lool

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const readQueueSize = 64

type received struct {
	frame Frame
	err   error
}

// WebSocketFrameSource is a FrameSource reading from a gorilla WebSocket connection.
//
// A single goroutine reads from the connection and queues what it reads, since a read with
// a deadline cannot be resumed on a *websocket.Conn once the deadline has passed. Control
// frames other than close are handled by the connection itself and never surface here.
type WebSocketFrameSource struct {
	conn    *websocket.Conn
	items   chan received
	pending *received
	done    chan struct{}
	stop    sync.Once
}

func NewWebSocketFrameSource(conn *websocket.Conn) *WebSocketFrameSource {
	s := &WebSocketFrameSource{
		conn:  conn,
		items: make(chan received, readQueueSize),
		done:  make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *WebSocketFrameSource) readLoop() {
	defer close(s.items)
	for {
		_, data, err := s.conn.ReadMessage()
		var item received
		if err == nil {
			item.frame = Frame{Payload: data}
		} else {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				item.frame = Frame{Close: &CloseInfo{Code: closeErr.Code, Reason: closeErr.Text}}
			} else {
				item.err = &TransportFault{Op: "receive", Err: err}
			}
		}
		select {
		case s.items <- item:
		case <-s.done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *WebSocketFrameSource) PollReadable(timeout time.Duration) bool {
	if s.pending != nil {
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case item, ok := <-s.items:
		s.pending = itemOrClosed(item, ok)
		return true
	case <-timer.C:
		return false
	}
}

// Receive returns the frame found by the last PollReadable call. If there was none, it waits
// for the next frame.
func (s *WebSocketFrameSource) Receive() (Frame, error) {
	if s.pending == nil {
		item, ok := <-s.items
		s.pending = itemOrClosed(item, ok)
	}
	item := *s.pending
	s.pending = nil
	return item.frame, item.err
}

// Stop makes the reading goroutine exit once the connection is closed.
func (s *WebSocketFrameSource) Stop() {
	s.stop.Do(func() { close(s.done) })
}

func itemOrClosed(item received, ok bool) *received {
	if !ok {
		item = received{err: &TransportFault{Op: "receive", Err: ErrSessionClosed}}
	}
	return &item
}
