package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vadimbarashkov/alias-shortener/internal/entity"
)

// ResolveAlias runs one redirect request through lookup, the hit-count gate
// and accounting. Not found and rate limited are outcomes, not errors; the
// returned error is reserved for storage failures.
//
// The gate compares the hit count observed at lookup, so concurrent
// requests may push the counter slightly past the threshold.
func (uc *URLUseCase) ResolveAlias(ctx context.Context, alias string, client entity.Client) (*entity.Resolution, error) {
	const op = "usecase.URLUseCase.ResolveAlias"

	url, err := uc.urlRepo.RetrieveActiveByAlias(ctx, alias)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			return uc.notFound(), nil
		}

		return nil, fmt.Errorf("%s: failed to look up alias: %w", op, err)
	}

	if url.HitCount >= uc.rateLimitThreshold {
		return &entity.Resolution{Outcome: entity.OutcomeRateLimited}, nil
	}

	if err := uc.urlRepo.IncrementHitCount(ctx, url.ID); err != nil {
		// deleted between lookup and increment
		if errors.Is(err, entity.ErrURLNotFound) {
			return uc.notFound(), nil
		}

		return nil, fmt.Errorf("%s: failed to increment hit count: %w", op, err)
	}

	if err := uc.usage.Record(ctx, url.ID, client); err != nil {
		uc.logger.Error(
			"failed to record url usage",
			slog.Group(op,
				slog.String("alias", alias),
				slog.String("url_id", url.ID.String()),
				slog.Any("err", err),
			),
		)
	}

	return &entity.Resolution{
		Outcome:  entity.OutcomeRedirect,
		Location: url.LongURL,
	}, nil
}

func (uc *URLUseCase) notFound() *entity.Resolution {
	return &entity.Resolution{
		Outcome:  entity.OutcomeNotFound,
		Location: uc.fallbackURL,
	}
}
