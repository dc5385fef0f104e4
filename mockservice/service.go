package mockservice

import (
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const webSocketPath = "/ws"

// Options control how the mock service behaves toward every connection.
type Options struct {
	// Latency is a delay before each reply.
	Latency time.Duration
	// Noise is the number of unrelated notifications sent ahead of each reply.
	Noise int
	// Silent makes the service read commands but never reply.
	Silent bool
	// HangUpOn, if set, is a command name that makes the service send a close frame instead of
	// a reply.
	HangUpOn string
}

// Service is a running mock document service.
type Service struct {
	server   *httptest.Server
	upgrader websocket.Upgrader
	options  Options
	logger   Logger
	conns    map[*websocket.Conn]struct{}
	total    int
	commands []string
	lock     sync.Mutex
	closing  sync.Once
}

// Logger receives debug output from the service.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (nullLogger) Printf(string, ...interface{}) {}

// New starts a mock service on a random local port.
func New(options Options, logger Logger) *Service {
	if logger == nil {
		logger = nullLogger{}
	}
	s := &Service{
		options: options,
		logger:  logger,
		conns:   make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc(webSocketPath, s.serveWebSocket)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	s.server = httptest.NewServer(mux)
	return s
}

// URL returns the base HTTP URL of the service.
func (s *Service) URL() string {
	return s.server.URL
}

// WebSocketURL returns the URL that clients connect to.
func (s *Service) WebSocketURL() string {
	u, _ := url.Parse(s.server.URL)
	u.Scheme = "ws"
	u.Path = webSocketPath
	return u.String()
}

// Host and Port return the address the service listens on.
func (s *Service) Host() string {
	host, _, _ := net.SplitHostPort(s.server.Listener.Addr().String())
	return host
}

func (s *Service) Port() int {
	_, port, _ := net.SplitHostPort(s.server.Listener.Addr().String())
	n, _ := strconv.Atoi(port)
	return n
}

// Path is the path of the WebSocket endpoint.
func (s *Service) Path() string {
	return webSocketPath
}

// Commands returns every command received so far, on all connections, in arrival order.
func (s *Service) Commands() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string(nil), s.commands...)
}

// ActiveConnections is the number of connections that are currently open.
func (s *Service) ActiveConnections() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.conns)
}

// TotalConnections is the number of connections accepted since the service started.
func (s *Service) TotalConnections() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.total
}

// Close disconnects every client and stops the service.
func (s *Service) Close() {
	s.closing.Do(func() {
		s.lock.Lock()
		conns := s.conns
		s.conns = make(map[*websocket.Conn]struct{})
		s.lock.Unlock()
		for c := range conns {
			_ = c.Close()
		}
		s.server.Close()
	})
}

func (s *Service) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("WebSocket upgrade failed: %s", err)
		return
	}
	s.lock.Lock()
	s.conns[conn] = struct{}{}
	s.total++
	s.lock.Unlock()

	defer func() {
		s.lock.Lock()
		delete(s.conns, conn)
		s.lock.Unlock()
		_ = conn.Close()
	}()

	ds := newDocumentSession(s, conn)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.logger.Printf("Connection ended: %s", err)
			return
		}
		s.recordCommand(string(data))
		if !ds.handle(data) {
			return
		}
	}
}

func (s *Service) recordCommand(command string) {
	s.lock.Lock()
	s.commands = append(s.commands, command)
	s.lock.Unlock()
}
