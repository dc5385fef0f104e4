package lool

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lool/ws-contract-tests/mockservice"
	"github.com/lool/ws-contract-tests/servicedef"
)

const testPollTimeout = time.Millisecond * 20

func startMockService(t *testing.T, options mockservice.Options) *mockservice.Service {
	service := mockservice.New(options, nil)
	t.Cleanup(service.Close)
	return service
}

func openSession(t *testing.T, service *mockservice.Service) *Session {
	conn, resp, err := websocket.DefaultDialer.Dial(service.WebSocketURL(), nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	session := NewSession(conn, SessionOptions{Logger: zerolog.Nop(), PollTimeout: testPollTimeout})
	t.Cleanup(func() { _ = session.Shutdown() })
	return session
}

func loadDocument(t *testing.T, session *Session, name string) {
	require.NoError(t, session.Send(LoadCommand(servicedef.LoadParams{URL: "file:///data/" + name})))
	require.NoError(t, session.Send(StatusCommand()))
	require.NoError(t, session.AwaitDocumentLoaded())
}

func TestSessionLoadAndStatus(t *testing.T) {
	service := startMockService(t, mockservice.Options{})
	session := openSession(t, service)

	loadDocument(t, session, "hello.odt")

	require.NoError(t, session.Send(StatusCommand()))
	body, err := session.AwaitPrefix("status:", ModeFirstLine)
	require.NoError(t, err)
	status, err := ParseStatus(body)
	require.NoError(t, err)
	assert.Equal(t, "text", status.Type)
	assert.Equal(t, 1, status.Parts)
}

func TestSessionIsDocumentLoaded(t *testing.T) {
	service := startMockService(t, mockservice.Options{})
	session := openSession(t, service)

	require.NoError(t, session.Send(LoadCommand(servicedef.LoadParams{URL: "file:///data/hello.odt"})))
	assert.True(t, session.IsDocumentLoaded())
}

func TestSessionIsDocumentLoadedFalseOnError(t *testing.T) {
	service := startMockService(t, mockservice.Options{})
	session := openSession(t, service)

	require.NoError(t, session.Send(LoadCommand(servicedef.LoadParams{URL: "file:///data/password-protected.ods"})))
	body, err := session.AwaitPrefix("error:", ModeFirstLine)
	require.NoError(t, err)
	info, err := ParseError(body)
	require.NoError(t, err)
	assert.Equal(t, servicedef.ErrorKindPasswordRequiredToView, info.Kind)

	assert.False(t, session.IsDocumentLoaded())
}

func TestSessionFindsResponseBehindNoise(t *testing.T) {
	service := startMockService(t, mockservice.Options{Noise: 25})
	session := openSession(t, service)

	loadDocument(t, session, "hello.odt")
	require.NoError(t, session.Send(StatusCommand()))
	_, err := session.AwaitPrefix("status:", ModeFirstLine)
	assert.NoError(t, err)
}

func TestSessionWaitExhaustedWhenServiceIsSilent(t *testing.T) {
	service := startMockService(t, mockservice.Options{Silent: true})
	session := openSession(t, service)

	require.NoError(t, session.Send(StatusCommand()))
	started := time.Now()
	_, err := session.AwaitPrefix("status:", ModeFirstLine)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.GreaterOrEqual(t, time.Since(started), ResponsePolicy.WithPollTimeout(testPollTimeout).MaxSilentWait())
}

func TestSessionReportsHangUp(t *testing.T) {
	service := startMockService(t, mockservice.Options{HangUpOn: servicedef.CommandStatus})
	session := openSession(t, service)

	require.NoError(t, session.Send(StatusCommand()))
	_, err := session.AwaitPrefix("status:", ModeFirstLine)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrematureClose)

	var closeErr *CloseError
	require.True(t, errors.As(err, &closeErr))
	assert.Equal(t, websocket.CloseGoingAway, closeErr.Code)

	// The service closed the connection, so the session is closed as well.
	_, err = session.AwaitPrefix("status:", ModeFirstLine)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, session.Send(StatusCommand()), ErrSessionClosed)

	assert.NoError(t, session.Shutdown())
	require.Eventually(t, func() bool { return service.ActiveConnections() == 0 },
		time.Second, time.Millisecond*10)
}

func TestSessionAwaitKind(t *testing.T) {
	service := startMockService(t, mockservice.Options{Noise: 3})
	session := openSession(t, service)
	loadDocument(t, session, "insert-delete.odp")

	require.NoError(t, session.Send(StatusCommand()))
	m, err := session.AwaitKind(ModeFirstLine, KindStatus)
	require.NoError(t, err)
	assert.Equal(t, "status:", m.Prefix())
	status, err := m.AsStatus()
	require.NoError(t, err)
	assert.Equal(t, "presentation", status.Type)

	require.NoError(t, session.Send(UnoCommand(servicedef.UnoInsertPage)))
	m, err = session.AwaitKind(ModeWholeMessage, KindPartsCountChanged)
	require.NoError(t, err)
	change, err := m.AsPartsCountChanged()
	require.NoError(t, err)
	assert.Equal(t, servicedef.PartInserted, change.Action)
}

func TestSessionAwaitKindReportsExpectedKinds(t *testing.T) {
	service := startMockService(t, mockservice.Options{Silent: true})
	session := openSession(t, service)

	_, err := session.AwaitKind(ModeFirstLine, KindStatus, KindError)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Contains(t, err.Error(), "waiting for status or error")
}

func TestSessionAwaitDocumentLoadedFailsFastOnLoadError(t *testing.T) {
	service := startMockService(t, mockservice.Options{})
	session := openSession(t, service)

	require.NoError(t, session.Send(LoadCommand(servicedef.LoadParams{URL: "file:///data/password-protected.ods"})))
	started := time.Now()
	err := session.AwaitDocumentLoaded()
	assert.ErrorIs(t, err, ErrDocumentLoadFailed)
	assert.Contains(t, err.Error(), servicedef.ErrorKindPasswordRequiredToView)
	assert.Less(t, time.Since(started), LoadPolicy.WithPollTimeout(testPollTimeout).MaxSilentWait())
}

func TestSessionAwaitDocumentLoadedIgnoresErrorsFromOtherCommands(t *testing.T) {
	service := startMockService(t, mockservice.Options{})
	session := openSession(t, service)

	require.NoError(t, session.Send(StatusCommand()))
	require.NoError(t, session.Send(LoadCommand(servicedef.LoadParams{URL: "file:///data/hello.odt"})))
	assert.NoError(t, session.AwaitDocumentLoaded())
}

func TestSessionRejectsUseAfterShutdown(t *testing.T) {
	service := startMockService(t, mockservice.Options{})
	session := openSession(t, service)

	require.NoError(t, session.Shutdown())
	assert.NoError(t, session.Shutdown(), "second shutdown returns the same result")

	assert.ErrorIs(t, session.Send(StatusCommand()), ErrSessionClosed)
	_, err := session.AwaitPrefix("status:", ModeFirstLine)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.False(t, session.IsDocumentLoaded())

	require.Eventually(t, func() bool { return service.ActiveConnections() == 0 },
		time.Second, time.Millisecond*10)
}

func TestSessionAllowsOnlyOneWait(t *testing.T) {
	service := startMockService(t, mockservice.Options{Silent: true})
	session := openSession(t, service)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = session.AwaitPrefix("status:", ModeFirstLine)
	}()
	require.Eventually(t, func() bool { return session.waiting.Load() }, time.Second, time.Millisecond)

	_, err := session.Await(ResponsePolicy, ModeFirstLine, PrefixMatcher("status:"))
	assert.ErrorIs(t, err, ErrWaitInProgress)
	<-done
}

func TestSessionSendsLargeCommandAsOneFrame(t *testing.T) {
	service := startMockService(t, mockservice.Options{})
	session := openSession(t, service)
	loadDocument(t, session, "hello.odt")

	body := strings.Repeat("line of pasted text\n", 5000)
	require.NoError(t, session.Send(PasteCommand(servicedef.MimeTypeTextHTML, body)))
	require.NoError(t, session.Send(StatusCommand()))
	_, err := session.AwaitPrefix("status:", ModeFirstLine)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(service.Commands()) == 4 }, time.Second, time.Millisecond*10)
	assert.Equal(t, PasteCommand(servicedef.MimeTypeTextHTML, body), service.Commands()[2])
}

func TestSessionIDsAreUnique(t *testing.T) {
	service := startMockService(t, mockservice.Options{})
	a, b := openSession(t, service), openSession(t, service)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Len(t, a.ID(), 36)
}
