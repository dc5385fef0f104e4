package framework

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const defaultWebSocketPath = "/ws"
const handshakeTimeout = time.Second * 10
const statusQueryInterval = time.Millisecond * 100

// ServiceParams describes where the service under test is listening, and which optional
// behaviors the person running the tests has said it supports.
type ServiceParams struct {
	Host         string
	Port         int
	Path         string
	Capabilities []string
}

// TestHarness knows how to reach the service under test. Each test opens its own WebSocket
// connection through Dial; the harness itself holds no connections.
type TestHarness struct {
	serviceBaseURL string
	webSocketURL   string
	capabilities   []string
	dialer         *websocket.Dialer
	logger         Logger
}

// NewTestHarness creates a TestHarness instance, and verifies that the service is responding
// to HTTP requests before returning. The service has to be started separately; this only
// waits up to statusQueryTimeout for it to become reachable.
func NewTestHarness(
	params ServiceParams,
	statusQueryTimeout time.Duration,
	debugLogger Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	if params.Path == "" {
		params.Path = defaultWebSocketPath
	}
	if !strings.HasPrefix(params.Path, "/") {
		params.Path = "/" + params.Path
	}
	hostPort := net.JoinHostPort(params.Host, strconv.Itoa(params.Port))

	h := &TestHarness{
		serviceBaseURL: (&url.URL{Scheme: "http", Host: hostPort}).String(),
		webSocketURL:   (&url.URL{Scheme: "ws", Host: hostPort, Path: params.Path}).String(),
		capabilities:   params.Capabilities,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
		logger: debugLogger,
	}

	if err := queryServiceStatus(h.serviceBaseURL, statusQueryTimeout, startupOutput); err != nil {
		return nil, err
	}
	return h, nil
}

func queryServiceStatus(baseURL string, timeout time.Duration, output io.Writer) error {
	fmt.Fprintf(output, "Connecting to service at %s", baseURL)

	client := &http.Client{Timeout: timeout}
	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := client.Get(baseURL)
		if err == nil {
			_ = resp.Body.Close()
			fmt.Fprintln(output)
			fmt.Fprintf(output, "Service responded with HTTP status %d\n", resp.StatusCode)
			return nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(statusQueryInterval)
	}
}

func (h *TestHarness) ServiceBaseURL() string {
	return h.serviceBaseURL
}

func (h *TestHarness) WebSocketURL() string {
	return h.webSocketURL
}

func (h *TestHarness) Capabilities() []string {
	return append([]string(nil), h.capabilities...)
}

func (h *TestHarness) HasCapability(desired string) bool {
	for _, capability := range h.capabilities {
		if capability == desired {
			return true
		}
	}
	return false
}

// Dial opens a new WebSocket connection to the service. The caller owns the connection and
// is responsible for closing it.
func (h *TestHarness) Dial(ctx context.Context, logger Logger) (*websocket.Conn, error) {
	if logger == nil {
		logger = h.logger
	}
	logger.Printf("Connecting to %s", h.webSocketURL)
	conn, resp, err := h.dialer.DialContext(ctx, h.webSocketURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket handshake with %s failed with HTTP status %d: %w",
				h.webSocketURL, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("could not connect to %s: %w", h.webSocketURL, err)
	}
	return conn, nil
}
