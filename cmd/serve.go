package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/showcase/internal/config"
	"github.com/conneroisu/showcase/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Preview fixtures with live reload",
	Long: `Start the preview server. Every fixture gets a page at /preview/<name>,
and pages reload when fixture or token files change.

Examples:
  showcase serve                  # Serve on localhost:8080
  showcase serve -p 3000 --open   # Serve on port 3000 and open a browser
  showcase serve --no-reload      # Serve without watching files`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	AddStandardFlags(serveCmd, "server")
	BindFlags(serveCmd, map[string]string{
		"port": "server.port",
		"host": "server.host",
		"open": "server.open",
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(cfg, a.store, a.renderer, a.tokens, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, err, "Error during server shutdown")
		}
	}()

	return srv.Start(ctx)
}
