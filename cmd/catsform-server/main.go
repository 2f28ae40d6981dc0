package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-catsform/components/catspage"
	"github.com/goliatone/go-catsform/internal/config"
	"github.com/goliatone/go-catsform/internal/logging"
	"github.com/goliatone/go-catsform/pkg/model"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults only if empty)")
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	closeLogs, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer func() { _ = closeLogs() }()
	logger := slog.Default()

	mux := http.NewServeMux()
	pattern, err := catspage.RegisterRoutes(mux, "",
		catspage.WithRoutePath(cfg.Server.BasePath),
		catspage.WithDefaultLocale(cfg.I18n.DefaultLocale),
		catspage.WithTheme(cfg.Theme.Name, cfg.Theme.Variant),
		catspage.WithPageCacheSize(cfg.Cache.Pages),
		catspage.WithLogger(logger),
		catspage.WithSubmitHook(logSubmission(logger)),
	)
	if err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}
	if pattern != "/" {
		mux.Handle("/", http.RedirectHandler(pattern, http.StatusFound))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "path", pattern)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}
}

// logSubmission records accepted submissions by field key. Submitted values
// carry the owner's email and stay out of the log.
func logSubmission(logger *slog.Logger) func([]model.FieldValue) {
	return func(values []model.FieldValue) {
		keys := make([]string, 0, len(values))
		for _, v := range values {
			keys = append(keys, v.Key)
		}
		logger.Info("cat added", "fields", keys)
	}
}
