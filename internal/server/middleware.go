package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/conneroisu/widgetkit/internal/errors"
	"github.com/conneroisu/widgetkit/internal/logging"
	"github.com/conneroisu/widgetkit/internal/session"
)

type workspaceKey struct{}

// requestLogger logs every request and records its latency by route
// pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		perf := logging.StartOperation(s.logger, "http_request")
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		s.metrics.ObserveRequest(r.Method, route, status, time.Since(start))
		perf.End(r.Context(),
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// securityHeaders sets the headers every response carries.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// cors answers preflights and echoes allowed origins.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, HX-Request, HX-Target, HX-Trigger, HX-Current-URL")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.config.Server.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// requireSession resolves the session cookie of widget actions. Actions for
// unknown sessions are rejected: a session is only ever created by loading
// the page.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			s.fail(w, r, errors.NewNotFoundError(errors.ErrCodeSessionNotFound, "no session cookie"))
			return
		}
		ws, ok := s.store.Get(cookie.Value)
		if !ok {
			s.fail(w, r, errors.NewNotFoundError(errors.ErrCodeSessionNotFound, "session expired or unknown").
				WithContext("session", cookie.Value))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), workspaceKey{}, ws)))
	})
}

func workspaceFrom(ctx context.Context) *session.Workspace {
	ws, _ := ctx.Value(workspaceKey{}).(*session.Workspace)
	return ws
}

// ensureSession returns the caller's workspace, starting a session and
// setting its cookie when needed.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) *session.Workspace {
	id := ""
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		id = cookie.Value
	}
	ws, created := s.store.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     session.CookieName,
			Value:    ws.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		s.logger.Debug(r.Context(), "Session started", "session", ws.ID())
	}
	return ws
}

// fail logs err and answers with the status it maps to.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.errors.Handle(r.Context(), err)

	message := err.Error()
	if we := errors.Wrap(err, errors.ErrCodeRenderFailed, "request failed"); we != nil && we.Type != errors.ErrorTypeInternal {
		message = we.Message
	}
	http.Error(w, message, errors.HTTPStatus(err))
}
