package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/conneroisu/showcase/internal/errors"
	"github.com/conneroisu/showcase/internal/renderer"
	"github.com/conneroisu/showcase/internal/version"
)

func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	overlay := s.store.Failures().ErrorOverlay()
	templ.Handler(s.renderer.Index(s.store.List(), overlay)).ServeHTTP(w, r)
}

func (s *PreviewServer) handlePreview(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, err := s.store.Get(name)
	if errors.Is(err, errors.ErrFixtureNotFound) {
		http.Error(w, "fixture not found: "+name, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page := s.renderer.Page(f, renderer.ParseState(r.URL.Query()))
	templ.Handler(page).ServeHTTP(w, r)
}

func (s *PreviewServer) handleTokensCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write([]byte(s.currentTokens().Stylesheet())); err != nil {
		s.logger.Warn(r.Context(), err, "Failed to write stylesheet")
	}
}

func (s *PreviewServer) handleTailwindConfig(w http.ResponseWriter, r *http.Request) {
	data, err := s.currentTokens().TailwindConfig()
	if err != nil {
		s.logger.Error(r.Context(), err, "Failed to build tailwind config")
		http.Error(w, "tailwind config unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleHealth returns the server health status for health checks
func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := version.Get()
	failures := len(s.store.Failures().Entries())

	status := "healthy"
	if failures > 0 {
		status = "degraded"
	}

	health := map[string]interface{}{
		"status":     status,
		"timestamp":  time.Now().UTC(),
		"version":    info.Short(),
		"build_info": info,
		"checks": map[string]interface{}{
			"fixtures":  map[string]interface{}{"loaded": len(s.store.List()), "failed": failures},
			"websocket": map[string]interface{}{"clients": s.hub.ClientCount()},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(health); err != nil {
		s.logger.Warn(r.Context(), err, "Failed to encode health response")
	}
}

func (s *PreviewServer) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func (s *PreviewServer) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if s.isAllowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		} else if !s.config.IsProduction() {
			// Only allow wildcard in development
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *PreviewServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug(r.Context(), "Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// isAllowedOrigin checks if the origin is in the allowed origins list
func (s *PreviewServer) isAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range s.config.Server.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}
