// Package websocket streams widget events to browsers over websocket
// connections. A Hub fans events out to the clients of the session that
// produced them; session-less events reach every client.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/widgetkit/internal/logging"
)

const (
	writeTimeout  = 10 * time.Second
	clientBuffer  = 32
	eventsBuffer  = 256
	queueBuffer   = 32
	closeShutdown = "server shutting down"
)

// Event is one widget notification sent to the browser.
type Event struct {
	// Type is a dotted name such as "table.select" or "input.change".
	Type   string `json:"type"`
	Widget string `json:"widget,omitempty"`
	Data   any    `json:"data,omitempty"`
	// Session restricts delivery to the clients of one session. Empty
	// broadcasts to everyone.
	Session   string    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// OriginValidator decides whether a browser origin may connect.
type OriginValidator interface {
	IsAllowedOrigin(origin string) bool
}

// AllowedOrigins is an OriginValidator over a fixed list of origins. "*"
// allows any origin. Requests from the server's own host are always
// allowed by the handler.
type AllowedOrigins []string

// IsAllowedOrigin implements OriginValidator.
func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	for _, allowed := range a {
		if allowed == "*" || strings.EqualFold(strings.TrimSuffix(allowed, "/"), origin) {
			return true
		}
	}
	return false
}

// Client is one connected browser.
type Client struct {
	session string
	send    chan []byte
}

// Hub tracks connected clients and delivers events to them.
type Hub struct {
	clients   map[*Client]struct{}
	clientsMu sync.RWMutex

	register   chan *Client
	unregister chan *Client
	events     chan Event

	origins OriginValidator
	logger  logging.Logger
	done    chan struct{}
	running sync.Once
}

// NewHub creates a hub. Run must be called to start delivery.
func NewHub(origins OriginValidator, logger logging.Logger) *Hub {
	if origins == nil {
		origins = AllowedOrigins(nil)
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client, queueBuffer),
		unregister: make(chan *Client, queueBuffer),
		events:     make(chan Event, eventsBuffer),
		origins:    origins,
		logger:     logger.WithComponent("websocket"),
		done:       make(chan struct{}),
	}
}

// Run delivers events until ctx is done, then disconnects every client.
// Only the first call has any effect.
func (h *Hub) Run(ctx context.Context) {
	h.running.Do(func() { h.run(ctx) })
}

func (h *Hub) run(ctx context.Context) {
	defer close(h.done)
	defer h.dropAll()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clientsMu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.clientsMu.Unlock()
			h.logger.Debug(ctx, "WebSocket client connected", "clients", n)
		case c := <-h.unregister:
			h.drop(c)
		case ev := <-h.events:
			h.deliver(ctx, ev)
		}
	}
}

// Publish queues ev for delivery. It never blocks and reports false when
// the event was dropped.
func (h *Hub) Publish(ev Event) bool {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.events <- ev:
		return true
	default:
		return false
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) deliver(ctx context.Context, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error(ctx, err, "Failed to marshal widget event", "type", ev.Type)
		return
	}

	h.clientsMu.RLock()
	var slow []*Client
	for c := range h.clients {
		if ev.Session != "" && c.session != ev.Session {
			continue
		}
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.clientsMu.RUnlock()

	for _, c := range slow {
		h.logger.Warn(ctx, nil, "Dropping slow websocket client")
		h.drop(c)
	}
}

// drop removes c and closes its send channel. Only the hub goroutine calls
// it, so a channel is closed at most once.
func (h *Hub) drop(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) dropAll() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for c := range h.clients {
		close(c.send)
	}
	clear(h.clients)
}

func (h *Hub) allowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return h.origins.IsAllowedOrigin(origin)
}

// ServeClient upgrades the request and streams the events of session until
// the browser disconnects or the hub stops.
func (h *Hub) ServeClient(w http.ResponseWriter, r *http.Request, session string) {
	select {
	case <-h.done:
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	default:
	}

	if !h.allowed(r) {
		h.logger.Warn(r.Context(), nil, "WebSocket connection rejected", "origin", r.Header.Get("Origin"))
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// origin already checked above
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "WebSocket upgrade failed")
		return
	}

	c := &Client{session: session, send: make(chan []byte, clientBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close(websocket.StatusGoingAway, closeShutdown)
		return
	}
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	// browsers never send anything; CloseRead handles control frames
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, closeShutdown)
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				h.logger.Debug(ctx, "WebSocket write failed", "error", err.Error())
				return
			}
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		}
	}
}
