package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/showcase/internal/config"
	"github.com/conneroisu/showcase/internal/fixtures"
	"github.com/conneroisu/showcase/internal/renderer"
	"github.com/conneroisu/showcase/internal/tokens"
	"github.com/conneroisu/showcase/internal/watcher"
)

const plansFixture = `
title: Hosting plans
description: Compare the big three
sections:
  - id: plans
    kind: table
    table:
      columns:
        - {key: provider}
        - {key: price, type: number}
      rows:
        - {provider: Vercel, price: 20}
        - {provider: Netlify, price: 19}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestServer(t *testing.T) (*PreviewServer, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "plans.yml"), plansFixture)

	store := fixtures.NewStore(dir)
	require.NoError(t, store.Reload())

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:           "localhost",
			Port:           8080,
			AllowedOrigins: []string{"https://docs.example.com"},
			Environment:    "development",
		},
		Site: config.SiteConfig{Fixtures: dir, BaseURL: "/"},
	}
	tok := tokens.Default()
	r := renderer.New(renderer.Options{Tokens: tok, LiveReload: true})
	return New(cfg, store, r, tok, nil), dir
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	s, dir := newTestServer(t)
	writeFile(t, filepath.Join(dir, "broken.yml"), "title: [")
	require.NoError(t, s.store.Reload())

	rec := get(t, s.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, `href="/preview/plans"`)
	assert.Contains(t, body, "Hosting plans")
	assert.Contains(t, body, `id="showcase-error-overlay"`)
	assert.Contains(t, body, "broken.yml")
	assert.Contains(t, body, "new WebSocket")
}

func TestPreview(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/preview/plans?plans.sort=price&plans.dir=asc")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Hosting plans · Showcase</title>")
	assert.Less(t, strings.Index(body, "Netlify"), strings.Index(body, "Vercel"))
}

func TestPreviewNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/preview/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing")
}

func TestTokenRoutes(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := get(t, h, "/tokens.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "--color-accent: #0071e3;")

	rec = get(t, h, "/tailwind.config.json")
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Contains(t, cfg, "theme")
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var health struct {
		Status string `json:"status"`
		Checks struct {
			Fixtures struct {
				Loaded int `json:"loaded"`
				Failed int `json:"failed"`
			} `json:"fixtures"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 1, health.Checks.Fixtures.Loaded)
	assert.Zero(t, health.Checks.Fixtures.Failed)
}

func TestMiddleware(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	t.Run("security headers", func(t *testing.T) {
		rec := get(t, h, "/health")
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	})

	t.Run("allowed origin is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://docs.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "https://docs.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("production has no wildcard", func(t *testing.T) {
		s.config.Server.Environment = "production"
		defer func() { s.config.Server.Environment = "development" }()

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/tokens.css", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCheckOrigin(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"same host", "http://preview.local:9000", true},
		{"localhost on server port", "http://localhost:8080", true},
		{"loopback on server port", "http://127.0.0.1:8080", true},
		{"configured origin", "https://docs.example.com", true},
		{"missing origin", "", false},
		{"foreign host", "http://evil.example.com", false},
		{"other local port", "http://localhost:3000", false},
		{"javascript scheme", "javascript:alert(1)", false},
		{"file scheme", "file:///etc/passwd", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			req.Host = "preview.local:9000"
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, s.checkOrigin(req))
		})
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{ts.URL}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func TestReloadBroadcasts(t *testing.T) {
	s, dir := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go s.hub.Run(ctx)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dial(t, ctx, ts)
	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	writeFile(t, filepath.Join(dir, "extra.yml"), "title: Extra\nsections: []\n")
	events := []watcher.ChangeEvent{{Type: watcher.EventTypeCreated, Path: filepath.Join(dir, "extra.yml")}}
	require.NoError(t, s.Reload(events))

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg UpdateMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "full_reload", msg.Type)
	assert.Equal(t, events[0].Path, msg.Target)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `href="/preview/extra"`)
}

func TestHubClosesClientsOnShutdown(t *testing.T) {
	s, _ := newTestServer(t)
	hubCtx, stop := context.WithCancel(context.Background())
	go s.hub.Run(hubCtx)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn := dial(t, ctx, ts)
	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	stop()
	_, _, err := conn.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
	assert.Zero(t, s.hub.ClientCount())
}

func TestReloadTokens(t *testing.T) {
	s, dir := newTestServer(t)
	path := filepath.Join(dir, "tokens.toml")
	writeFile(t, path, "[colors]\naccent = \"#123456\"\n")
	s.config.Tokens.File = path

	require.NoError(t, s.Reload(nil))
	assert.Contains(t, get(t, s.Handler(), "/tokens.css").Body.String(), "--color-accent: #123456;")

	writeFile(t, path, "[colors\n")
	require.NoError(t, s.Reload(nil))
	assert.Contains(t, get(t, s.Handler(), "/tokens.css").Body.String(), "--color-accent: #123456;",
		"a broken tokens file keeps the previous tokens")
}
