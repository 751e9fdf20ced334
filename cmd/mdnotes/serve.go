package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mdnotes/internal/ratelimit"
	"mdnotes/internal/storage/fs"
	"mdnotes/internal/store"
	"mdnotes/internal/web"

	"github.com/spf13/cobra"
)

const (
	initTimeout     = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the notes HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host; overrides NOTES_HOST")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port; overrides NOTES_PORT")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort > 0 {
		cfg.Port = servePort
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("startup", "build_version", buildVersion())
	st, err := openStore(ctx, true)
	if err != nil {
		fatal("open store", err)
	}
	defer st.Close()

	uploads, err := fs.NewUploads(cfg.UploadsPath, cfg.MaxUploadBytes)
	if err != nil {
		fatal("open uploads", err)
	}
	limiter, closeLimiter, err := newLimiter(ctx)
	if err != nil {
		return err
	}
	defer closeLimiter()

	srv, err := web.NewServer(cfg, st, uploads, limiter)
	if err != nil {
		return err
	}
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening",
			"addr", httpSrv.Addr,
			"db", st.Dialect(),
			"uploads", uploads.Root(),
			"strict_ids", cfg.StrictIDs,
		)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore opens the configured database and, when migrate is set, brings
// the schema up to date.
func openStore(ctx context.Context, migrate bool) (*store.Store, error) {
	if err := os.MkdirAll(cfg.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	st, err := store.OpenWithOptions(cfg.DatabaseURL, store.OpenOptions{
		BusyTimeout: cfg.DBBusyTimeout,
		LockTimeout: cfg.DBLockTimeout,
	})
	if err != nil {
		return nil, err
	}
	if !migrate {
		return st, nil
	}
	initCtx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()
	if err := st.Init(initCtx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func newLimiter(ctx context.Context) (ratelimit.Limiter, func(), error) {
	if cfg.RedisURL == "" {
		slog.Info("rate limiter", "backend", "memory", "limit", cfg.RateLimit, "window", cfg.RateWindow.String())
		return ratelimit.NewMemory(cfg.RateLimit, cfg.RateWindow), func() {}, nil
	}
	rl, err := ratelimit.NewRedisFromURL(ctx, cfg.RedisURL, cfg.RateLimit, cfg.RateWindow)
	if err != nil {
		return nil, nil, fmt.Errorf("connect rate limit redis: %w", err)
	}
	slog.Info("rate limiter", "backend", "redis", "limit", cfg.RateLimit, "window", cfg.RateWindow.String())
	return rl, func() {
		if err := rl.Close(); err != nil {
			slog.Warn("close redis", "err", err)
		}
	}, nil
}
