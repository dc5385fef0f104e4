package lool

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrExhausted means that the retry budget of a wait ran out before a matching message
	// arrived.
	ErrExhausted = errors.New("no matching message arrived before the retry budget ran out")

	// ErrPrematureClose means that the connection was closed before a matching message
	// arrived. Errors reporting this condition are of type *CloseError.
	ErrPrematureClose = errors.New("connection was closed before a matching message arrived")

	// ErrDocumentLoadFailed means that the service answered a load command with an error.
	ErrDocumentLoadFailed = errors.New("document failed to load")

	ErrSessionClosed     = errors.New("session is closed")
	ErrWaitInProgress    = errors.New("another wait is already in progress on this session")
	ErrMalformedResponse = errors.New("malformed response")
)

// CloseInfo is the content of a close frame.
type CloseInfo struct {
	Code   int
	Reason string
}

// Frame is one unit of data delivered by the transport: either a payload, or a signal that
// the peer is closing the connection.
type Frame struct {
	Payload []byte
	// Close is non-nil if this is a close frame.
	Close *CloseInfo
}

func (f Frame) IsClose() bool {
	return f.Close != nil
}

func IsCloseFrame(f Frame) bool {
	return f.IsClose()
}

// FrameSource is a connection that delivers discrete frames.
//
// PollReadable reports whether a frame is available, waiting at most timeout. Receive returns
// exactly one frame; it does not block if PollReadable has just returned true. Frames are
// delivered once, in order.
type FrameSource interface {
	PollReadable(timeout time.Duration) bool
	Receive() (Frame, error)
}

// TransportFault is a failure of the underlying connection.
type TransportFault struct {
	Op  string
	Err error
}

func (f *TransportFault) Error() string {
	return fmt.Sprintf("transport fault during %s: %s", f.Op, f.Err)
}

func (f *TransportFault) Unwrap() error {
	return f.Err
}

// CloseError reports that a close frame arrived while waiting. errors.Is(err,
// ErrPrematureClose) is true for every CloseError.
type CloseError struct {
	CloseInfo
}

func (e *CloseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s (close code %d)", ErrPrematureClose, e.Code)
	}
	return fmt.Sprintf("%s (close code %d: %s)", ErrPrematureClose, e.Code, e.Reason)
}

func (e *CloseError) Unwrap() error {
	return ErrPrematureClose
}
