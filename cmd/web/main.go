package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pierres.shop/app/internal/config"
	"pierres.shop/app/internal/database"
	apphttp "pierres.shop/app/internal/http"
	"pierres.shop/app/internal/mailer"
	"pierres.shop/app/internal/modules/auth"
	"pierres.shop/app/internal/storage"
)

func main() {
	// prod uses real env vars; a missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load(nil)
	if err != nil {
		slog.Error("config", slog.Any("err", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server_exit", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}

	st, err := storage.FromConfig(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	logger.Info("storage_ready", slog.String("driver", st.Driver))

	deps := apphttp.Deps{
		Logger:     logger,
		DB:         db,
		Storage:    st.Storage,
		Tokens:     auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
		AppBaseURL: cfg.AppBaseURL,
		Mailer:     mailer.FromConfig(cfg.SMTP, logger),
		MailFrom:   mailer.Sender{Name: cfg.SMTP.FromName, Address: cfg.SMTP.From},
	}
	if st.Driver == "local" {
		deps.MediaDir, deps.MediaPrefix = cfg.Storage.LocalDir, cfg.Storage.LocalURLPrefix
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apphttp.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http_listen", slog.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("http_shutdown")
	return srv.Shutdown(shutdownCtx)
}
