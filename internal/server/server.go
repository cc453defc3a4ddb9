// Package server runs the preview server: fixture pages, the token
// stylesheet and a websocket that tells open pages to reload when fixtures
// or tokens change on disk.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/conneroisu/showcase/internal/config"
	"github.com/conneroisu/showcase/internal/fixtures"
	"github.com/conneroisu/showcase/internal/logging"
	"github.com/conneroisu/showcase/internal/renderer"
	"github.com/conneroisu/showcase/internal/tokens"
	"github.com/conneroisu/showcase/internal/validation"
	"github.com/conneroisu/showcase/internal/watcher"
)

// PreviewServer serves fixture previews with live reload
type PreviewServer struct {
	config   *config.Config
	store    *fixtures.Store
	renderer *renderer.Renderer
	logger   logging.Logger
	hub      *Hub
	watcher  *watcher.FileWatcher

	tokensMutex sync.RWMutex
	tokens      tokens.Tokens

	serverMutex  sync.RWMutex
	httpServer   *http.Server
	shutdownOnce sync.Once
}

// UpdateMessage is sent to connected browsers
type UpdateMessage struct {
	Type      string    `json:"type"`
	Target    string    `json:"target,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a preview server over an already loaded store. tok must be
// the token set r was created with.
func New(cfg *config.Config, store *fixtures.Store, r *renderer.Renderer, tok tokens.Tokens, logger logging.Logger) *PreviewServer {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.WithComponent("server")
	return &PreviewServer{
		config:   cfg,
		store:    store,
		renderer: r,
		logger:   logger,
		hub:      NewHub(logger),
		tokens:   tok,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *PreviewServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.securityHeaders)
	r.Use(s.cors)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/preview/{name}", s.handlePreview)
	r.Get("/tokens.css", s.handleTokensCSS)
	r.Get("/tailwind.config.json", s.handleTailwindConfig)
	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// Start serves until the listener fails or Shutdown is called.
func (s *PreviewServer) Start(ctx context.Context) error {
	if s.config.Development.HotReload {
		if err := s.startWatcher(ctx); err != nil {
			s.logger.Warn(ctx, err, "Live reload disabled")
		}
	}

	go s.hub.Run(ctx)

	addr := s.config.Addr()
	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	if s.config.Server.Open {
		go s.openBrowser(ctx, "http://"+addr)
	}

	s.logger.Info(ctx, "Preview server listening", "addr", "http://"+addr, "fixtures", len(s.store.List()))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *PreviewServer) startWatcher(ctx context.Context) error {
	fw, err := watcher.NewFileWatcher(300*time.Millisecond, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw.AddFilter(watcher.FixtureFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.NoBackupFilter)
	fw.AddFilter(watcher.NoGitFilter)
	fw.AddHandler(s.Reload)

	if err := fw.AddRecursive(s.store.Dir()); err != nil {
		fw.Stop()
		return fmt.Errorf("watch %s: %w", s.store.Dir(), err)
	}
	if file := s.config.Tokens.File; file != "" {
		if err := fw.AddPath(file); err != nil {
			s.logger.Warn(ctx, err, "Failed to watch tokens file", "path", file)
		}
	}

	s.serverMutex.Lock()
	s.watcher = fw
	s.serverMutex.Unlock()
	return fw.Start(ctx)
}

// Reload re-reads fixtures and the tokens file, then tells every connected
// page to reload. A broken tokens file keeps the previous tokens.
func (s *PreviewServer) Reload(events []watcher.ChangeEvent) error {
	ctx := context.Background()
	for _, e := range events {
		s.logger.Debug(ctx, "File changed", "path", e.Path, "type", e.Type.String())
	}

	if file := s.config.Tokens.File; file != "" {
		tok, err := tokens.LoadFile(file)
		if err != nil {
			s.logger.Error(ctx, err, "Keeping previous tokens")
		} else {
			s.SetTokens(tok)
		}
	}

	if err := s.store.Reload(); err != nil {
		return err
	}
	for _, e := range s.store.Failures().Entries() {
		s.logger.Warn(ctx, e.Err, "Fixture failed to load", "file", e.Fixture)
	}
	s.renderer.Forget()

	msg := UpdateMessage{Type: "full_reload", Timestamp: time.Now()}
	if len(events) == 1 {
		msg.Target = events[0].Path
	}
	s.hub.Broadcast(msg)
	return nil
}

// SetTokens swaps the served token set
func (s *PreviewServer) SetTokens(tok tokens.Tokens) {
	s.tokensMutex.Lock()
	s.tokens = tok
	s.tokensMutex.Unlock()
	s.renderer.SetTokens(tok)
}

func (s *PreviewServer) currentTokens() tokens.Tokens {
	s.tokensMutex.RLock()
	defer s.tokensMutex.RUnlock()
	return s.tokens
}

func (s *PreviewServer) openBrowser(ctx context.Context, target string) {
	time.Sleep(100 * time.Millisecond)

	if err := validation.ValidateURL(target); err != nil {
		s.logger.Warn(ctx, err, "Browser open failed due to invalid URL")
		return
	}

	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", target).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
	case "darwin":
		err = exec.Command("open", target).Start()
	default:
		err = fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
	if err != nil {
		s.logger.Warn(ctx, err, "Failed to open browser")
	}
}

// Shutdown stops the watcher and the HTTP server. Websocket clients are
// closed when the context passed to Start ends.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")

		s.serverMutex.RLock()
		fw, server := s.watcher, s.httpServer
		s.serverMutex.RUnlock()

		if fw != nil {
			if err := fw.Stop(); err != nil {
				s.logger.Warn(ctx, err, "Failed to stop watcher")
			}
		}
		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
	})
	return shutdownErr
}
