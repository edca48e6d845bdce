// Package config reads process configuration from the environment.
// cmd/web loads a .env file first when one is present.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr   string
	AppBaseURL string
	LogLevel   slog.Level

	DBDriver string
	DBDSN    string

	JWTSecret []byte
	JWTTTL    time.Duration

	Storage Storage
	SMTP    SMTP
}

// SMTP is unused when Host is empty; verification links are then logged.
type SMTP struct {
	Host          string
	Port          string
	User          string
	Pass          string
	TLSMode       string // "", "starttls" or "tls"
	SkipVerifyTLS bool
	From          string
	FromName      string
}

type Storage struct {
	Driver         string
	LocalDir       string
	LocalURLPrefix string
	S3Region       string
	S3Bucket       string
	S3Prefix       string
	S3PublicBase   string
}

// Load reads the environment through getenv (os.Getenv when nil).
func Load(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	env := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		HTTPAddr:   env("HTTP_ADDR", ":8080"),
		AppBaseURL: env("APP_BASE_URL", "http://localhost:3000"),
		DBDriver:   env("DB_DRIVER", "mysql"),
		DBDSN:      env("DB_DSN", ""),
		JWTSecret:  []byte(env("JWT_SECRET", "")),
		Storage: Storage{
			Driver:         env("STORAGE_DRIVER", "local"),
			LocalDir:       env("LOCAL_UPLOAD_DIR", "./storage/uploads"),
			LocalURLPrefix: env("LOCAL_UPLOAD_URL_PREFIX", "/media/images/products"),
			S3Region:       env("S3_REGION", ""),
			S3Bucket:       env("S3_BUCKET", ""),
			S3Prefix:       env("S3_PREFIX", "uploads"),
			S3PublicBase:   env("S3_PUBLIC_BASE_URL", ""),
		},
		SMTP: SMTP{
			Host:          env("SMTP_HOST", ""),
			Port:          env("SMTP_PORT", "1025"),
			User:          env("SMTP_USER", ""),
			Pass:          env("SMTP_PASS", ""),
			TLSMode:       strings.ToLower(env("SMTP_TLS_MODE", "")),
			SkipVerifyTLS: env("SMTP_SKIP_VERIFY_TLS", "") == "true",
			From:          env("MAIL_FROM", "no-reply@pierres.shop"),
			FromName:      env("MAIL_FROM_NAME", "Pierre's General Store"),
		},
	}

	var errs []error
	if cfg.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is required"))
	}
	if len(cfg.JWTSecret) == 0 {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	ttl, err := time.ParseDuration(env("JWT_TTL", "1h"))
	if err != nil || ttl <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL: invalid duration %q", getenv("JWT_TTL")))
	}
	cfg.JWTTTL = ttl

	if err := cfg.LogLevel.UnmarshalText([]byte(env("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if cfg.Storage.Driver == "s3" {
		s := cfg.Storage
		if s.S3Region == "" || s.S3Bucket == "" || s.S3PublicBase == "" {
			errs = append(errs, errors.New("S3 config missing: S3_REGION, S3_BUCKET, S3_PUBLIC_BASE_URL required"))
		}
	}

	switch cfg.SMTP.TLSMode {
	case "", "starttls", "tls":
	default:
		errs = append(errs, fmt.Errorf("SMTP_TLS_MODE: unknown mode %q", cfg.SMTP.TLSMode))
	}

	return cfg, errors.Join(errs...)
}
