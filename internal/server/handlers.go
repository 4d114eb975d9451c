package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/conneroisu/widgetkit/internal/errors"
	"github.com/conneroisu/widgetkit/internal/logging"
	"github.com/conneroisu/widgetkit/internal/session"
	"github.com/conneroisu/widgetkit/internal/version"
)

// Handler returns the router of the demo host.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(s.cors)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/ws", s.handleWebSocket)

	r.Route(ActionPrefix, func(r chi.Router) {
		r.Use(s.requireSession)

		r.Route("/table", func(r chi.Router) {
			r.Post("/sort/{column}", s.handleSort)
			r.Post("/rows/toggle-all", s.handleToggleAll)
			r.Post("/rows/{position}/toggle", s.handleToggleRow)
		})
		r.Route("/inputs/{name}", func(r chi.Router) {
			r.Post("/change", s.handleInputChange)
			r.Post("/clear", s.handleInputClear)
			r.Post("/reveal", s.handleInputReveal)
		})
		r.Post("/carousel/{direction}", s.handleCarousel)
	})

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ws := s.ensureSession(w, r)

	var body strings.Builder
	err := ws.Do(func(v *session.View) error {
		return Page(v).Render(r.Context(), &body)
	})
	if err != nil {
		s.fail(w, r, errors.Wrap(err, errors.ErrCodeRenderFailed, "rendering page"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body.String()))
}

// action runs fn against the caller's workspace and answers with the
// fragment it returns. Rendering happens before the workspace is released
// so the fragment reflects exactly this interaction.
func (s *Server) action(w http.ResponseWriter, r *http.Request, widget, name string, fn func(v *session.View) (templ.Component, error)) {
	ws := workspaceFrom(r.Context())

	var body strings.Builder
	err := ws.Do(func(v *session.View) error {
		c, err := fn(v)
		if err != nil {
			return err
		}
		if err := c.Render(r.Context(), &body); err != nil {
			return errors.NewInternalError(errors.ErrCodeRenderFailed, "rendering fragment", err).
				WithWidget(widget)
		}
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.metrics.WidgetEvent(widget, name)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body.String()))
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")
	s.action(w, r, "table", "sort", func(v *session.View) (templ.Component, error) {
		if err := v.SortTable(column); err != nil {
			return nil, err
		}
		return v.Table().Component(), nil
	})
}

func (s *Server) handleToggleAll(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, "table", "toggle_all", func(v *session.View) (templ.Component, error) {
		v.ToggleAll()
		setSelectTrigger(w, len(v.Selected()))
		return v.Table().Component(), nil
	})
}

func (s *Server) handleToggleRow(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		s.fail(w, r, errors.NewValidationError(errors.ErrCodeRowOutOfRange, "row position must be a number").
			WithWidget("table").
			WithContext("position", chi.URLParam(r, "position")))
		return
	}
	s.action(w, r, "table", "toggle", func(v *session.View) (templ.Component, error) {
		if err := v.ToggleRow(position); err != nil {
			return nil, err
		}
		setSelectTrigger(w, len(v.Selected()))
		return v.Table().Component(), nil
	})
}

// setSelectTrigger raises a client side table:select event carrying the
// selection size.
func setSelectTrigger(w http.ResponseWriter, count int) {
	payload, _ := json.Marshal(map[string]any{"table:select": map[string]int{"count": count}})
	w.Header().Set("HX-Trigger", string(payload))
}

func (s *Server) handleInputChange(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, errors.NewValidationError(errors.ErrCodeActionRejected, "malformed form body").
			WithWidget("input:"+name))
		return
	}
	value, ok := r.Form[name]
	if !ok {
		value = r.Form["value"]
	}
	next := ""
	if len(value) > 0 {
		next = value[0]
	}

	s.logger.Debug(r.Context(), "Input changed", "input", name, "value", logging.SanitizeForLog(name, next))
	s.action(w, r, "input", "change", func(v *session.View) (templ.Component, error) {
		if err := v.ChangeInput(name, next); err != nil {
			return nil, err
		}
		return inputComponent(v, name)
	})
}

func (s *Server) handleInputClear(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.action(w, r, "input", "clear", func(v *session.View) (templ.Component, error) {
		if err := v.ClearInput(name); err != nil {
			return nil, err
		}
		return inputComponent(v, name)
	})
}

func (s *Server) handleInputReveal(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.action(w, r, "input", "reveal", func(v *session.View) (templ.Component, error) {
		if err := v.RevealInput(name); err != nil {
			return nil, err
		}
		return inputComponent(v, name)
	})
}

func inputComponent(v *session.View, name string) (templ.Component, error) {
	f, err := v.Input(name)
	if err != nil {
		return nil, err
	}
	return f.Component(), nil
}

func (s *Server) handleCarousel(w http.ResponseWriter, r *http.Request) {
	direction := chi.URLParam(r, "direction")
	s.action(w, r, "carousel", direction, func(v *session.View) (templ.Component, error) {
		if err := v.MoveCarousel(direction); err != nil {
			return nil, err
		}
		return v.Carousel().Component(), nil
	})
}

// handleWebSocket streams the events of the caller's session. Callers
// without a live session only receive broadcasts.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := ""
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if _, ok := s.store.Get(cookie.Value); ok {
			id = cookie.Value
		}
	}
	s.hub.ServeClient(w, r, id)
}

// HealthResponse is the document served at /health.
type HealthResponse struct {
	Status      string    `json:"status"`
	Version     string    `json:"version"`
	Sessions    int       `json:"sessions"`
	Clients     int       `json:"clients"`
	FixtureRows int       `json:"fixture_rows"`
	Timestamp   time.Time `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status:      "healthy",
		Version:     version.GetShortVersion(),
		Sessions:    s.store.Len(),
		Clients:     s.hub.Clients(),
		FixtureRows: len(s.document().Rows),
		Timestamp:   time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
