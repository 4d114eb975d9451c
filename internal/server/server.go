// Package server hosts the widgets in a small demo web application.
//
// Every browser session gets its own table, inputs and carousel. Clicks
// arrive as htmx posts below /widgets, run against the session's widgets one
// at a time, and are answered with the re-rendered widget fragment. Widget
// notifications are streamed to the page over a websocket.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/conneroisu/widgetkit/internal/config"
	"github.com/conneroisu/widgetkit/internal/errors"
	"github.com/conneroisu/widgetkit/internal/fixtures"
	"github.com/conneroisu/widgetkit/internal/logging"
	"github.com/conneroisu/widgetkit/internal/metrics"
	"github.com/conneroisu/widgetkit/internal/session"
	"github.com/conneroisu/widgetkit/internal/watcher"
	"github.com/conneroisu/widgetkit/internal/websocket"
	"github.com/conneroisu/widgetkit/pkg/carousel"
)

// ActionPrefix is the path below which widget actions are routed.
const ActionPrefix = "/widgets"

const (
	shutdownTimeout  = 10 * time.Second
	fixturesDebounce = 200 * time.Millisecond
)

// Options carries the collaborators of a Server. Zero values are replaced
// with defaults.
type Options struct {
	Logger   logging.Logger
	Metrics  *metrics.Metrics
	Document *fixtures.Document
}

// Server is the demo host.
type Server struct {
	config  *config.Config
	logger  logging.Logger
	metrics *metrics.Metrics
	errors  *errors.ErrorHandler
	hub     *websocket.Hub
	store   *session.Store

	docMu sync.RWMutex
	doc   *fixtures.Document

	serverMu   sync.Mutex
	httpServer *http.Server
	watcher    *watcher.FileWatcher
}

// New creates a server. The fixtures document is loaded from the configured
// path unless opts supplies one.
func New(cfg *config.Config, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger{}
	}
	logger = logger.WithComponent("server")

	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	doc := opts.Document
	if doc == nil {
		var err error
		doc, err = fixtures.Load(cfg.Fixtures.Path)
		if err != nil {
			return nil, fmt.Errorf("loading fixtures: %w", err)
		}
	}

	s := &Server{
		config:  cfg,
		logger:  logger,
		metrics: m,
		errors:  errors.NewErrorHandler(logger),
		hub:     websocket.NewHub(websocket.AllowedOrigins(cfg.Server.AllowedOrigins), logger),
		doc:     doc,
	}
	s.store = session.NewStore(cfg.Server.SessionTTL, s.newWorkspace,
		session.WithCountHook(func(n int) { m.SessionsActive.Set(float64(n)) }))

	return s, nil
}

// Store returns the session store.
func (s *Server) Store() *session.Store {
	return s.store
}

// Hub returns the websocket event hub.
func (s *Server) Hub() *websocket.Hub {
	return s.hub
}

func (s *Server) document() *fixtures.Document {
	s.docMu.RLock()
	defer s.docMu.RUnlock()
	return s.doc
}

func (s *Server) newWorkspace(id string) *session.Workspace {
	doc := s.document()

	testimonials := doc.Testimonials
	if testimonials == nil {
		testimonials = carousel.DefaultTestimonials()
	}

	return session.NewWorkspace(id, session.Options{
		Columns:      doc.TableColumns(),
		Rows:         doc.TableRows(),
		Testimonials: testimonials,
		EmptyText:    s.config.Table.EmptyText,
		Selectable:   s.config.Table.Selectable,
		RowKey:       s.config.Table.RowKey,
		ActionPrefix: ActionPrefix,
		Listener:     s.listener(id),
	})
}

// listener forwards the notifications of one session to its websocket
// clients.
func (s *Server) listener(sessionID string) session.Listener {
	return func(widget, action string, data any) {
		kind, name, _ := strings.Cut(widget, ":")
		if name == "" {
			name = kind
		}
		s.hub.Publish(websocket.Event{
			Type:    kind + "." + action,
			Widget:  name,
			Data:    data,
			Session: sessionID,
		})
	}
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.hub.Run(ctx)
	go s.store.Run(ctx, sweepInterval(s.config.Server.SessionTTL))

	if s.config.Fixtures.Watch && s.config.Fixtures.Path != "" {
		if err := s.watchFixtures(ctx); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", s.config.Server.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Server.Addr(), err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if sl, ok := s.logger.(interface{ Slog() *slog.Logger }); ok {
		srv.ErrorLog = slog.NewLogLogger(sl.Slog().Handler(), slog.LevelWarn)
	}
	s.serverMu.Lock()
	s.httpServer = srv
	s.serverMu.Unlock()

	s.logger.Info(ctx, "Widget host listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown stops the HTTP server and the fixtures watcher.
func (s *Server) Shutdown(ctx context.Context) error {
	s.serverMu.Lock()
	srv, w := s.httpServer, s.watcher
	s.httpServer, s.watcher = nil, nil
	s.serverMu.Unlock()

	if w != nil {
		if err := w.Stop(); err != nil {
			s.logger.Warn(ctx, err, "Stopping fixtures watcher failed")
		}
	}
	if srv == nil {
		return nil
	}
	s.logger.Info(ctx, "Shutting down widget host")
	return srv.Shutdown(ctx)
}

// sweepInterval checks for idle sessions a few times per lifetime.
func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}
