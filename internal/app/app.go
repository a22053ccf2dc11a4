package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/alias-shortener/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/alias-shortener/internal/adapter/repository/postgres"
	"github.com/vadimbarashkov/alias-shortener/internal/config"
	"github.com/vadimbarashkov/alias-shortener/internal/usecase"
	"github.com/vadimbarashkov/alias-shortener/migrations"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/alias-shortener/internal/adapter/delivery/http"
	pgdb "github.com/vadimbarashkov/alias-shortener/pkg/postgres"
)

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := NewLogger(cfg, nil)

	urlUseCase, closeStorage, err := newURLUseCase(ctx, cfg, logger.Logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer closeStorage()

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        delivery.NewRouter(logger, urlUseCase, cfg.BaseURL),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			slog.String("addr", server.Addr),
			slog.String("env", cfg.Env),
			slog.String("storage", cfg.Storage),
		)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

// NewLogger builds the structured logger shared by the access log and the
// use case layer. A nil writer means stdout.
func NewLogger(cfg *config.Config, w io.Writer) *httplog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	return httplog.NewLogger("alias-shortener", httplog.Options{
		LogLevel: level,
		JSON:     cfg.Env == config.EnvProd,
		Concise:  cfg.Env == config.EnvDev,
		Writer:   w,
	})
}

func newURLUseCase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*usecase.URLUseCase, func(), error) {
	const op = "app.newURLUseCase"

	gen, err := usecase.NewAliasGenerator(cfg.Alias.Alphabet, cfg.Alias.Length)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	opts := []usecase.Option{
		usecase.WithAliasGenerator(gen),
		usecase.WithMaxRetries(cfg.Alias.MaxRetries),
		usecase.WithRateLimitThreshold(cfg.Redirect.RateLimitThreshold),
		usecase.WithFallbackURL(cfg.Redirect.FallbackURL),
		usecase.WithLogger(logger),
	}

	if cfg.Storage == config.StorageMemory {
		urlRepo := memory.NewURLRepository()
		usageRepo := memory.NewUsageRepository(urlRepo)

		return usecase.New(urlRepo, usageRepo, opts...), func() {}, nil
	}

	db, err := pgdb.New(
		ctx,
		cfg.Postgres.DSN(),
		pgdb.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		pgdb.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		pgdb.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		pgdb.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	if err := pgdb.RunMigrations(migrations.FS, cfg.Postgres.DSN()); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", slog.Group(op, slog.Any("err", err)))
		}
	}

	uc := usecase.New(postgres.NewURLRepository(db), postgres.NewUsageRepository(db), opts...)

	return uc, closeDB, nil
}
