package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/vango-dev/frontpage/internal/config"
	siteerrors "github.com/vango-dev/frontpage/internal/errors"
	"github.com/vango-dev/frontpage/internal/logging"
	"github.com/vango-dev/frontpage/pkg/assets"
	"github.com/vango-dev/frontpage/pkg/content"
	"github.com/vango-dev/frontpage/pkg/pref"
	"github.com/vango-dev/frontpage/pkg/render"
	"github.com/vango-dev/frontpage/pkg/routepath"
	"github.com/vango-dev/frontpage/pkg/session"
	"github.com/vango-dev/frontpage/pkg/vdom"
)

// LivePath is where the client opens its WebSocket.
const LivePath = "/live"

const defaultShutdownTimeout = 10 * time.Second

// Server is the HTTP surface: server-rendered pages, the live endpoint,
// static assets, health and metrics.
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *content.Store
	routes   []Route
	patterns map[string]*Route
	notFound Page
	theme    pref.Theme

	router   chi.Router
	pages    *chi.Mux // page routes only, for resolving live handshakes
	sessions *session.Manager
	registry *prometheus.Registry
	metrics  *Metrics
	tracer   trace.Tracer
	manifest *assets.Manifest
	assets   assets.Resolver

	mu         sync.Mutex
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithNotFound sets the page rendered for unknown paths and missing entries.
func WithNotFound(p Page) Option {
	return func(s *Server) { s.notFound = p }
}

// WithRegistry sets the registry collectors are registered with and the
// metrics endpoint serves.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// New builds a server for routes. store may be nil when no page reads
// content.
func New(cfg *config.Config, store *content.Store, routes []Route, logger *zap.Logger, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		routes:   append([]Route(nil), routes...),
		patterns: make(map[string]*Route, len(routes)),
		notFound: defaultNotFound,
		tracer:   otel.Tracer("github.com/vango-dev/frontpage/pkg/server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	theme, err := pref.ParseTheme(cfg.Site.DefaultTheme)
	if err != nil {
		theme = pref.ThemeSystem
	}
	s.theme = theme

	s.assets = assets.NewPassthroughResolver(StaticPrefix)
	if m, err := fingerprintAssets(); err != nil {
		logger.Warn("serving unfingerprinted assets", zap.Error(err))
	} else {
		s.manifest = m
		s.assets = assets.NewResolver(m, StaticPrefix)
	}

	s.metrics = NewMetrics(s.registry, store)
	s.sessions = session.NewManager(cfg.Session, s.Resolve, logger,
		session.WithMetrics(session.NewMetrics(s.registry)),
		session.WithCheckOrigin(checkOrigin(cfg.Server.AllowedOrigins)),
	)

	s.pages = chi.NewRouter()
	for i := range s.routes {
		r := &s.routes[i]
		s.patterns[r.Pattern] = r
		s.pages.Get(r.Pattern, http.NotFound)
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(s.logger.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(canonicalPaths)
	r.Use(s.metrics.Middleware)
	r.Use(middleware.GetHead)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle(LivePath, s.sessions)
	r.Post("/theme", s.handleTheme)
	r.Handle(StaticPrefix+"*", staticHandler(s.manifest))
	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	}

	for i := range s.routes {
		route := &s.routes[i]
		r.Get(route.Pattern, func(w http.ResponseWriter, req *http.Request) {
			s.servePage(w, req, route, urlParams(chi.RouteContext(req.Context())))
		})
	}
	r.NotFound(s.handleNotFound)
	return r
}

// canonicalPaths redirects GET and HEAD requests for non-canonical paths
// ("/blog/", "/blog//x") to their canonical form. Paths that cannot be
// canonicalized are rejected.
func canonicalPaths(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		res, err := routepath.Canonicalize(r.URL.EscapedPath())
		if err != nil {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}
		if res.Changed {
			target := res.Path
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Asset returns the URL path of an embedded client file.
func (s *Server) Asset(name string) string { return s.assets.Asset(name) }

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the live session manager.
func (s *Server) Sessions() *session.Manager { return s.sessions }

// Registry returns the Prometheus registry the server reports to.
func (s *Server) Registry() *prometheus.Registry { return s.registry }

// Resolve rebuilds the tree for path. It is the session.Resolver used for
// live handshakes; unknown paths resolve to the not-found page so its
// header still gets a live scroll view.
func (s *Server) Resolve(ctx context.Context, path string, theme pref.Theme) (*vdom.VNode, error) {
	if res, err := routepath.Canonicalize(path); err == nil {
		path = res.Path
	}
	route, params := s.match(path)
	node, _, err := s.build(ctx, route, path, params, theme)
	return node, err
}

func (s *Server) match(path string) (*Route, map[string]string) {
	rctx := chi.NewRouteContext()
	if !s.pages.Match(rctx, http.MethodGet, path) {
		return nil, nil
	}
	route, ok := s.patterns[rctx.RoutePattern()]
	if !ok {
		return nil, nil
	}
	return route, urlParams(rctx)
}

func urlParams(rctx *chi.Context) map[string]string {
	if rctx == nil {
		return nil
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		if k == "*" {
			continue
		}
		params[k] = rctx.URLParams.Values[i]
	}
	return params
}

// build runs the page for route, falling back to the not-found page when
// route is nil or the page reports a missing entry.
func (s *Server) build(ctx context.Context, route *Route, path string, params map[string]string, theme pref.Theme) (*vdom.VNode, int, error) {
	var (
		node *vdom.VNode
		err  error
		pc   *PageContext
	)
	if route != nil {
		pc = s.pageContext(ctx, path, params, theme)
		node, err = route.Page(pc)
		if errors.Is(err, content.ErrNotFound) {
			s.logger.Debug("entry not found", zap.String("path", path), zap.Error(err))
			route = nil
		}
	}
	if route == nil {
		pc = s.pageContext(ctx, path, params, theme)
		pc.SetStatus(http.StatusNotFound)
		node, err = s.notFound(pc)
	}
	if err != nil {
		return nil, 0, siteerrors.New("E501").WithDetail(path).Wrap(err)
	}
	if node == nil {
		return nil, 0, siteerrors.New("E501").WithDetail(path + ": page returned nil")
	}
	return node, pc.Status(), nil
}

func (s *Server) pageContext(ctx context.Context, path string, params map[string]string, theme pref.Theme) *PageContext {
	if params == nil {
		params = map[string]string{}
	}
	return &PageContext{
		Path:    path,
		Params:  params,
		Theme:   theme,
		Site:    s.cfg.Site,
		Content: s.store,
		ctx:     ctx,
		assets:  s.assets,
	}
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, route *Route, params map[string]string) {
	name, pattern := "not_found", ""
	if route != nil {
		name, pattern = route.Name, route.Pattern
	}
	ctx, span := s.tracer.Start(r.Context(), "page "+name, trace.WithAttributes(
		attribute.String("http.route", pattern),
		attribute.String("url.path", r.URL.Path),
	))
	defer span.End()

	theme := pref.ThemeFromRequest(r, s.theme)
	node, status, err := s.build(ctx, route, r.URL.Path, params, theme)

	var buf bytes.Buffer
	if err == nil {
		err = render.NewRenderer().RenderPage(&buf, node)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.renderErrors.WithLabelValues(name).Inc()
		s.logger.Error("page failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.Int("http.status_code", status))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	s.servePage(w, r, nil, nil)
}

type healthResponse struct {
	Status        string    `json:"status"`
	Sessions      int       `json:"sessions"`
	Entries       int       `json:"entries"`
	ContentLoaded time.Time `json:"content_loaded,omitzero"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Sessions: s.sessions.Count()}
	if s.store != nil {
		resp.Entries = s.store.Count()
		resp.ContentLoaded = s.store.LoadedAt()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// handleTheme is the form fallback for the theme toggle when the live
// connection is unavailable. An empty theme toggles the current one.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	theme := pref.ThemeFromRequest(r, s.theme).Toggle()
	if v := r.PostForm.Get("theme"); v != "" {
		t, err := pref.ParseTheme(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		theme = t
	}
	pref.SetThemeCookie(w, theme)

	back, err := routepath.Local(r.PostForm.Get("return"))
	if err != nil {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// RouteInfo describes one registered route for the CLI route table.
type RouteInfo struct {
	Methods []string
	Pattern string
	Name    string
}

// Routes lists every registered route, sorted by pattern.
func (s *Server) Routes() []RouteInfo {
	byPattern := map[string]*RouteInfo{}
	_ = chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		info, ok := byPattern[route]
		if !ok {
			info = &RouteInfo{Pattern: route}
			if r, ok := s.patterns[route]; ok {
				info.Name = r.Name
			}
			byPattern[route] = info
		}
		info.Methods = append(info.Methods, method)
		return nil
	})

	out := make([]RouteInfo, 0, len(byPattern))
	for _, info := range byPattern {
		sort.Strings(info.Methods)
		info.Methods = compactStrings(info.Methods)
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pattern < out[j].Pattern })
	return out
}

func compactStrings(in []string) []string {
	out := in[:0]
	for i, v := range in {
		if i == 0 || v != in[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return siteerrors.New("E500").WithDetail(s.cfg.Server.Addr).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		ErrorLog:          zap.NewStdLog(s.logger.Named("http")),
	}
	s.mu.Lock()
	s.httpServer = hs
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		errCh <- hs.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		timeout := s.cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := s.Shutdown(sctx)
		<-errCh
		return err
	}
}

// Shutdown closes live sessions, then stops the HTTP server, waiting for
// in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down", zap.Int("sessions", s.sessions.Count()))

	var errs []error
	if err := s.sessions.CloseAll(ctx); err != nil {
		errs = append(errs, siteerrors.New("E502").WithDetail("live sessions").Wrap(err))
	}

	s.mu.Lock()
	hs := s.httpServer
	s.mu.Unlock()
	if hs != nil {
		if err := hs.Shutdown(ctx); err != nil {
			errs = append(errs, siteerrors.New("E502").WithDetail("http").Wrap(err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	s.logger.Info("server shutdown complete")
	return nil
}

func defaultNotFound(pc *PageContext) (*vdom.VNode, error) {
	return vdom.Html(
		vdom.Head(vdom.Title(fmt.Sprintf("Not found | %s", pc.Site.Name))),
		vdom.Body(vdom.Main(
			vdom.H1("Page not found"),
			vdom.P("Nothing lives at ", vdom.Strong(pc.Path), "."),
		)),
	), nil
}
