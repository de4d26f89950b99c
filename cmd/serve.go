package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritas-news/veritas/internal/config"
	"github.com/veritas-news/veritas/internal/handlers"
	"github.com/veritas-news/veritas/internal/pipeline"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Starts the fake news detector web interface and JSON API.

The form at / accepts news text or a screenshot; POST /api/predict accepts
multipart uploads or JSON and returns the prediction.`,
		Example: `  # Start server on the port from PORT (default 5000)
  veritas serve

  # Start server on custom port
  veritas serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port == "" {
				port = cfg.Port
			}

			p, err := pipeline.Build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			handler := handlers.New(p.Service, p.History)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Veritas interface available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (defaults to PORT or 5000)")

	return cmd
}
