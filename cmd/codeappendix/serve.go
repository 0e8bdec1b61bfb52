package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gubarz/codeappendix/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the filter over HTTP",
	Long: `Starts an HTTP server accepting pandoc JSON documents:

  POST /v1/filter?to=html   transformed document in the response body
  GET  /health`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address")
	serveCmd.Flags().Int64("max-bytes", server.DefaultMaxBytes, "Maximum request body size")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	maxBytes, _ := cmd.Flags().GetInt64("max-bytes")

	if level.Level() > zapcore.InfoLevel {
		level.SetLevel(zapcore.InfoLevel)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(logger, maxBytes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.Int64("max_bytes", maxBytes))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
