package wstests

import (
	"context"
	"fmt"
	"time"

	"github.com/lool/ws-contract-tests/framework"
	"github.com/lool/ws-contract-tests/lool"
	"github.com/lool/ws-contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

const connectTimeout = time.Second * 10

// CapabilityPartsCountChanged enables the tests that expect partscountchanged notifications
// when slides are inserted or deleted. Not every version of the service sends them.
const CapabilityPartsCountChanged = "partscountchanged"

var AllCapabilities = []string{
	CapabilityPartsCountChanged,
}

// SuiteConfig contains the parameters of a test run that the tests themselves need.
type SuiteConfig struct {
	// FixturesDir is the directory containing the test documents.
	FixturesDir string
	// PollTimeout, if set, replaces the default interval of one second between checks for
	// incoming messages. The retry budgets scale with it.
	PollTimeout time.Duration
}

type environment struct {
	harness *framework.TestHarness
	config  SuiteConfig
}

// T represents a test or subtest in our WebSocket test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, and with some extra features such as debug logging that are
// convenient for our use case. Those features are provided by our lower-level framework
// package.
//
// It also provides functionality that is specific to this protocol. A test opens a connection
// to the service with OpenSession, and then uses methods like Send and RequireStatus. The
// connection is shut down when the test exits, even if it fails.
//
// To make test assertions, you can use the assert and require packages, passing the *T as if it
// were a *testing.T. The Require methods fail the test and exit immediately if the expected
// response does not arrive.
type T struct {
	context *framework.Context
	env     *environment
	session *lool.Session
}

func newTestScope(context *framework.Context, env *environment) *T {
	return &T{context: context, env: env}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
//
// The specified function receives a new T instance, which has no session until it opens one.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.env))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// RequireCapability skips this test if the specified capability was not enabled for this
// test run.
func (t *T) RequireCapability(capability string) {
	if !t.env.harness.HasCapability(capability) {
		t.context.SkipWithReason(fmt.Sprintf("capability %q was not enabled", capability))
	}
}

// OpenSession connects to the service. All subsequent calls to methods like Send and
// RequireStatus refer to this session. The session is shut down when the test exits.
func (t *T) OpenSession() *lool.Session {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	conn, err := t.env.harness.Dial(ctx, t.context.DebugLogger())
	require.NoError(t, err)

	session := lool.NewSession(conn, lool.SessionOptions{
		Logger:      framework.NewZerolog(t.context.DebugLogger()),
		PollTimeout: t.env.config.PollTimeout,
	})
	t.context.Defer(func() {
		if err := session.Shutdown(); err != nil {
			t.Debug("Error shutting down session: %s", err)
		}
	})
	t.session = session
	return session
}

func (t *T) requireSession() *lool.Session {
	require.NotNil(t, t.session, "test tried to communicate with the service before opening a session")
	return t.session
}

// Send sends a command to the service.
func (t *T) Send(command string) {
	require.NoError(t, t.requireSession().Send(command))
}

// LoadDocument sends a load command for a test document, and returns the document's URL.
func (t *T) LoadDocument(name string, params servicedef.LoadParams) string {
	params.URL = t.DocumentURL(name)
	t.Send(lool.LoadCommand(params))
	return params.URL
}

// RequireDocumentLoaded waits until the service signals that the document has finished
// loading. The test fails and immediately exits if it does not.
func (t *T) RequireDocumentLoaded(documentURL string) {
	err := t.requireSession().AwaitDocumentLoaded()
	require.NoError(t, err, "cannot load the document %s", documentURL)
}

// RequireLoadedDocument loads a test document with default parameters, asks for its status,
// and waits for the document to finish loading.
func (t *T) RequireLoadedDocument(name string) string {
	documentURL := t.LoadDocument(name, servicedef.LoadParams{})
	t.Send(lool.StatusCommand())
	t.RequireDocumentLoaded(documentURL)
	return documentURL
}

// RequireMessage waits for a message of any of the specified kinds, and returns it decoded.
// Other messages received in the meantime are ignored.
//
// The test fails and immediately exits if no such message arrives.
func (t *T) RequireMessage(mode lool.Mode, kinds ...lool.Kind) lool.Message {
	m, err := t.requireSession().AwaitKind(mode, kinds...)
	require.NoError(t, err)
	return m
}

// RequireStatus waits for a status response and decodes it.
func (t *T) RequireStatus() lool.StatusInfo {
	status, err := t.RequireMessage(lool.ModeFirstLine, lool.KindStatus).AsStatus()
	require.NoError(t, err)
	return status
}

// RequireError waits for an error response and decodes it.
func (t *T) RequireError() lool.ErrorInfo {
	info, err := t.RequireMessage(lool.ModeFirstLine, lool.KindError).AsError()
	require.NoError(t, err)
	return info
}

// RequireTextSelection waits for a textselectioncontent response and returns the selected text.
func (t *T) RequireTextSelection() string {
	return t.RequireMessage(lool.ModeFirstLine, lool.KindTextSelectionContent).Body
}

// RequirePartsCountChanged waits for a partscountchanged notification and decodes its JSON body,
// which may span several lines.
func (t *T) RequirePartsCountChanged() lool.PartsCountChanged {
	change, err := t.RequireMessage(lool.ModeWholeMessage, lool.KindPartsCountChanged).AsPartsCountChanged()
	require.NoError(t, err)
	return change
}
