package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/alias-shortener/internal/entity"
)

type usageRepository interface {
	Save(ctx context.Context, event *entity.UsageEvent) error
	CountBySignature(ctx context.Context) ([]entity.SignatureCount, error)
}

// UsageRecorder appends one usage event per successful redirect.
type UsageRecorder struct {
	repo usageRepository
	now  func() time.Time
}

func NewUsageRecorder(repo usageRepository) *UsageRecorder {
	return &UsageRecorder{
		repo: repo,
		now:  time.Now,
	}
}

// Record stores a usage event stamped with the current time.
// Failures are wrapped with entity.ErrAccountingFailure.
func (r *UsageRecorder) Record(ctx context.Context, urlID uuid.UUID, client entity.Client) error {
	const op = "usecase.UsageRecorder.Record"

	event := &entity.UsageEvent{
		URLID:      urlID,
		AccessedAt: r.now().UTC(),
		Client:     client,
	}

	if err := r.repo.Save(ctx, event); err != nil {
		return fmt.Errorf("%s: %w: %w", op, entity.ErrAccountingFailure, err)
	}

	return nil
}
