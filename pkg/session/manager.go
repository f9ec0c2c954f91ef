package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vango-dev/frontpage/internal/config"
	siteerrors "github.com/vango-dev/frontpage/internal/errors"
	"github.com/vango-dev/frontpage/pkg/protocol"
)

// Manager accepts live connections and tracks their sessions.
type Manager struct {
	cfg      config.SessionConfig
	resolve  Resolver
	logger   *zap.Logger
	metrics  *Metrics
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*Session
	pending  int // reserved but not yet tracked
	shutdown bool
	wg       sync.WaitGroup
}

// Option configures a Manager.
type Option func(*Manager)

// WithCheckOrigin overrides the WebSocket origin check. The default accepts
// only same-origin upgrades.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(m *Manager) { m.upgrader.CheckOrigin = fn }
}

// WithMetrics sets the collectors sessions report to.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// NewManager creates a manager. resolve rebuilds pages for handshakes.
func NewManager(cfg config.SessionConfig, resolve Resolver, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		cfg:      cfg,
		resolve:  resolve,
		logger:   logger.Named("session"),
		sessions: make(map[string]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.metrics == nil {
		m.metrics = NewMetrics(nil)
	}
	return m
}

// ServeHTTP upgrades the request and serves the session until it ends.
func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := m.reserve(); err != nil {
		m.metrics.rejectedSessions.Inc()
		m.logger.Warn("rejecting live connection", zap.Error(err))
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer m.wg.Done()

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		m.release("")
		m.logger.Debug("upgrade failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(int64(protocol.FrameHeaderSize + protocol.MaxPayloadSize))

	s := newSession(uuid.NewString(), conn, m.cfg, m.resolve, m.logger, m.metrics)
	m.track(s)
	defer m.release(s.id)

	if err := s.Serve(r.Context()); err != nil {
		m.logger.Info("session failed", zap.String("session", s.id), zap.Error(err))
	}
}

// reserve claims a slot for a new session.
func (m *Manager) reserve() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shutdown {
		return siteerrors.New("E402").WithDetail("server shutting down")
	}
	if m.cfg.MaxSessions > 0 && len(m.sessions)+m.pending >= m.cfg.MaxSessions {
		return siteerrors.New("E400")
	}
	m.pending++
	m.wg.Add(1)
	return nil
}

func (m *Manager) track(s *Session) {
	m.mu.Lock()
	m.pending--
	m.sessions[s.id] = s
	closing := m.shutdown
	m.mu.Unlock()

	m.metrics.sessionsTotal.Inc()
	m.metrics.activeSessions.Inc()
	// CloseAll may have run between reserve and track.
	if closing {
		s.Close(protocol.CloseServerShutdown, "server shutting down")
	}
}

// release frees the slot taken by reserve. An empty id releases a
// reservation that never became a session.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" {
		m.pending--
		return
	}
	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		m.metrics.activeSessions.Dec()
	}
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Get returns the session with id, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

// CloseAll refuses new sessions, closes every open one and waits for their
// handlers to return or ctx to expire.
func (m *Manager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	m.shutdown = true
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	for _, s := range open {
		s.Close(protocol.CloseServerShutdown, "server shutting down")
	}

	waited := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		m.logger.Info("all sessions closed", zap.Int("closed", len(open)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
