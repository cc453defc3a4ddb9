package cmd

import (
	"context"
	"fmt"

	"github.com/conneroisu/showcase/internal/config"
	"github.com/conneroisu/showcase/internal/diagram"
	"github.com/conneroisu/showcase/internal/fixtures"
	"github.com/conneroisu/showcase/internal/logging"
	"github.com/conneroisu/showcase/internal/renderer"
	"github.com/conneroisu/showcase/internal/tokens"
)

// app holds the pieces every rendering command wires together
type app struct {
	config   *config.Config
	logger   logging.Logger
	tokens   tokens.Tokens
	store    *fixtures.Store
	engine   *diagram.Graphviz
	renderer *renderer.Renderer
}

// loadTokens returns the configured token set, or the defaults when no
// override file is set.
func loadTokens(cfg *config.Config) (tokens.Tokens, error) {
	if cfg.Tokens.File == "" {
		return tokens.Default(), nil
	}
	return tokens.LoadFile(cfg.Tokens.File)
}

// newApp loads tokens and fixtures and creates the diagram engine and the
// renderer. static selects file links and drops the reload script.
func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger, static bool) (*app, error) {
	tok, err := loadTokens(cfg)
	if err != nil {
		return nil, err
	}

	store := fixtures.NewStore(cfg.Site.Fixtures)
	if err := store.Reload(); err != nil {
		return nil, err
	}
	for _, e := range store.Failures().Entries() {
		logger.Warn(ctx, e.Err, "Fixture failed to load", "file", e.Fixture)
	}

	a := &app{config: cfg, logger: logger, tokens: tok, store: store}

	opts := renderer.Options{
		Tokens:     tok,
		Logger:     logger,
		SiteTitle:  cfg.Site.Title,
		BaseURL:    cfg.Site.BaseURL,
		Locale:     cfg.Site.Locale,
		LiveReload: cfg.Development.HotReload,
		Static:     static,
	}
	if cfg.Diagram.Enabled {
		engine, err := diagram.NewGraphviz(ctx, tok.Diagram)
		if err != nil {
			return nil, fmt.Errorf("failed to start diagram engine: %w", err)
		}
		a.engine = engine
		opts.Engine = engine
	}
	a.renderer = renderer.New(opts)
	return a, nil
}

func (a *app) Close() error {
	if a.engine != nil {
		return a.engine.Close()
	}
	return nil
}
