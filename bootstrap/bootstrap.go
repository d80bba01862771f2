// Package bootstrap is the composition root: it creates the logger, connects the storage backend and
// attaches all middleware and routes to a new server.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
	"github.com/prior-it/crud/app"
	"github.com/prior-it/crud/config"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/postgres"
	"github.com/prior-it/crud/server"
	"github.com/prior-it/crud/smtp"
	"github.com/prior-it/crud/sqlite"
)

// Full creates a new server and initializes all default systems: logging, Sentry (if enabled in config),
// the configured storage backend, e-mail (if configured) and every route of the application.
//
// You can supply additional middleware if you want to.
//
// Note that this function will add routes before returning, which means it is not possible to add additional
// global middleware after calling this function.
func Full(
	ctx context.Context,
	cfg *config.Config,
	middlewares ...func(http.Handler) http.Handler,
) (*server.Server[*app.State], *app.State, error) {
	if cfg == nil {
		panic("You need to supply a config.Config value to bootstrap a new server")
	}

	logger := CreateLogger(cfg, os.Stdout)

	// Initialize Sentry
	if cfg.Sentry.Enabled {
		initSentry(logger, cfg)
	}

	storage, err := OpenStorage(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("could not initialize storage: %w", err)
	}

	var email core.EmailService
	if cfg.Email.Enabled() {
		service, err := smtp.NewEmailService(cfg.Email, logger)
		if err != nil {
			storage.Close()
			return nil, nil, fmt.Errorf("could not initialize e-mail: %w", err)
		}
		email = service
	} else {
		logger.Info("No smtp server configured, e-mails will not be sent")
	}

	state := app.NewState(cfg, logger, storage, email, time.Now)
	s := server.New(state, cfg).
		WithLogger(logger).
		WithPermissionService(storage.Permissions)

	s.AttachDefaultMiddleware()

	// Enable sentry middleware
	if cfg.Sentry.Enabled {
		sentryHandler := sentryhttp.New(sentryhttp.Options{
			Repanic:         true,
			WaitForDelivery: true,
			Timeout:         5 * time.Second, //nolint:mnd
		})
		s.UseStd(sentryHandler.Handle)
	}

	// Fully disable caching in debug mode
	if cfg.App.Debug {
		s.UseStd(middleware.NoCache)
	}

	s.UseStd(middlewares...)

	app.Routes(s, state)

	return s, state, nil
}

// OpenStorage connects to the configured database, migrates it and returns its repositories.
func OpenStorage(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (app.Storage, error) {
	switch cfg.Driver {
	case config.DatabaseDriverSQLite:
		db, err := sqlite.NewDB(ctx, cfg.URL)
		if err != nil {
			return app.Storage{}, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return app.Storage{}, err
		}
		return app.Storage{
			Countries:   sqlite.NewCountryRepository(db),
			Persons:     sqlite.NewPersonRepository(db),
			Users:       sqlite.NewUserRepository(db),
			Permissions: sqlite.NewPermissionService(db),
			Close: func() {
				if err := db.Close(); err != nil {
					logger.Error("Could not close sqlite database", "error", err)
				}
			},
		}, nil

	case config.DatabaseDriverPostgres, "":
		db, err := postgres.NewDB(ctx, cfg.URL, cfg.Schema)
		if err != nil {
			return app.Storage{}, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return app.Storage{}, err
		}
		return app.Storage{
			Countries:   postgres.NewCountryRepository(db),
			Persons:     postgres.NewPersonRepository(db),
			Users:       postgres.NewUserRepository(db),
			Permissions: postgres.NewPermissionService(db),
			Close:       db.Close,
		}, nil

	default:
		return app.Storage{}, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// CreateLogger returns the logger for the configured format and makes it the default logger.
func CreateLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var logger *slog.Logger
	loggerOptions := &slog.HandlerOptions{
		Level:     cfg.Log.Level.ToSlog(),
		AddSource: cfg.Log.Verbose && cfg.App.Debug,
	}
	switch cfg.Log.Format {
	case config.LogFormatPlaintext:
		{
			logger = slog.New(slog.NewTextHandler(w, loggerOptions))
		}
	case config.LogFormatTint:
		{
			logger = slog.New(tint.NewHandler(w, &tint.Options{
				Level:      loggerOptions.Level,
				AddSource:  loggerOptions.AddSource,
				TimeFormat: time.Kitchen,
			}))
		}
	default:
		{
			logger = slog.New(slog.NewJSONHandler(w, loggerOptions))
		}
	}
	slog.SetDefault(logger)
	return logger
}

func initSentry(logger *slog.Logger, cfg *config.Config) {
	logger.Debug("Trying to initialise Sentry")
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Debug:            cfg.App.Debug,
		AttachStacktrace: true,
		SampleRate:       cfg.Sentry.SampleRate,
		EnableTracing:    true,
		TracesSampleRate: cfg.Sentry.TracesRate,
		TracesSampler: sentry.TracesSampler(func(ctx sentry.SamplingContext) float64 {
			if ctx.Span.Name == "GET /ping" {
				return 0.0
			}
			return cfg.Sentry.TracesRate
		}),
		ProfilesSampleRate: cfg.Sentry.ProfilesRate,
		ServerName:         cfg.App.Name,
		Release:            cfg.App.Version,
		Environment:        string(cfg.App.Env),
	}); err != nil {
		logger.Error("Sentry initialization failed", "error", err)
	} else {
		logger.Debug("Sentry initialised")
	}
}
