// Package usecase implements the alias resolution and usage-accounting engine:
// alias assignment with uniqueness retries, the URL lifecycle, redirect
// resolution behind a hit-count gate, usage recording and statistics.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/alias-shortener/internal/entity"
)

const (
	// DefaultRateLimitThreshold is the hit count at which redirects are refused.
	DefaultRateLimitThreshold = 10
	// DefaultMaxRetries bounds alias regeneration after uniqueness collisions.
	DefaultMaxRetries = 5
)

type urlRepository interface {
	// Save inserts a new active URL with a zero hit count.
	// It returns entity.ErrAliasConflict when an active URL already holds the alias.
	Save(ctx context.Context, id uuid.UUID, alias, longURL string) (*entity.URL, error)
	RetrieveActiveByAlias(ctx context.Context, alias string) (*entity.URL, error)
	RetrieveByID(ctx context.Context, id uuid.UUID) (*entity.URL, error)
	RetrieveAllActive(ctx context.Context) ([]entity.URL, error)
	// IncrementHitCount atomically adds one to the hit count of an active URL.
	IncrementHitCount(ctx context.Context, id uuid.UUID) error
	// SoftDelete marks the URL deleted, keeping the first deletion timestamp.
	SoftDelete(ctx context.Context, id uuid.UUID) (*entity.URL, error)
}

type aliasGenerator interface {
	Generate() (string, error)
}

type URLUseCase struct {
	urlRepo            urlRepository
	usageRepo          usageRepository
	usage              *UsageRecorder
	aliases            aliasGenerator
	maxRetries         int
	rateLimitThreshold int64
	fallbackURL        string
	logger             *slog.Logger
}

type Option func(*URLUseCase)

func WithAliasGenerator(g aliasGenerator) Option {
	return func(uc *URLUseCase) {
		uc.aliases = g
	}
}

func WithMaxRetries(n int) Option {
	return func(uc *URLUseCase) {
		if n > 0 {
			uc.maxRetries = n
		}
	}
}

func WithRateLimitThreshold(n int64) Option {
	return func(uc *URLUseCase) {
		if n > 0 {
			uc.rateLimitThreshold = n
		}
	}
}

func WithFallbackURL(url string) Option {
	return func(uc *URLUseCase) {
		uc.fallbackURL = url
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(uc *URLUseCase) {
		if logger != nil {
			uc.logger = logger
		}
	}
}

func New(urlRepo urlRepository, usageRepo usageRepository, opts ...Option) *URLUseCase {
	gen, _ := NewAliasGenerator(DefaultAliasAlphabet, DefaultAliasLength)

	uc := &URLUseCase{
		urlRepo:            urlRepo,
		usageRepo:          usageRepo,
		usage:              NewUsageRecorder(usageRepo),
		aliases:            gen,
		maxRetries:         DefaultMaxRetries,
		rateLimitThreshold: DefaultRateLimitThreshold,
		logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// ShortenURL stores longURL under alias. An empty alias asks for a generated
// one, regenerated on collision up to the retry budget.
func (uc *URLUseCase) ShortenURL(ctx context.Context, longURL, alias string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ShortenURL"

	id := uuid.New()

	if alias != "" {
		url, err := uc.urlRepo.Save(ctx, id, alias, longURL)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, nil
	}

	for range uc.maxRetries {
		alias, err := uc.aliases.Generate()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate alias: %w", op, err)
		}

		url, err := uc.urlRepo.Save(ctx, id, alias, longURL)
		if err != nil {
			if errors.Is(err, entity.ErrAliasConflict) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, nil
	}

	uc.logger.Error(
		"alias generation retries exhausted",
		slog.Group(op, slog.Int("max_retries", uc.maxRetries)),
	)

	return nil, fmt.Errorf("%s: %w", op, entity.ErrAliasSpaceExhausted)
}

// GetURL looks a URL up by id whatever its lifecycle state.
func (uc *URLUseCase) GetURL(ctx context.Context, id uuid.UUID) (*entity.URL, error) {
	const op = "usecase.URLUseCase.GetURL"

	url, err := uc.urlRepo.RetrieveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url: %w", op, err)
	}

	return url, nil
}

// DeleteURL soft-deletes a URL. Deleting an already deleted URL is a no-op.
func (uc *URLUseCase) DeleteURL(ctx context.Context, id uuid.UUID) (*entity.URL, error) {
	const op = "usecase.URLUseCase.DeleteURL"

	url, err := uc.urlRepo.SoftDelete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to delete url: %w", op, err)
	}

	return url, nil
}
