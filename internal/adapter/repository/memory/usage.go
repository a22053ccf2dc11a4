package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/alias-shortener/internal/entity"
)

type signatureKey struct {
	urlID     uuid.UUID
	signature string
}

// UsageRepository stores usage events. Events may only reference URLs known
// to the backing URLRepository.
type UsageRepository struct {
	mu     sync.RWMutex
	urls   *URLRepository
	events []entity.UsageEvent
}

func NewUsageRepository(urls *URLRepository) *UsageRepository {
	return &UsageRepository{urls: urls}
}

func (r *UsageRepository) Save(_ context.Context, event *entity.UsageEvent) error {
	const op = "adapter.repository.memory.UsageRepository.Save"

	if !r.urls.exists(event.URLID) {
		return fmt.Errorf("%s: unknown url %s: %w", op, event.URLID, entity.ErrURLNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, *event)

	return nil
}

// Events returns a snapshot of every recorded usage event.
func (r *UsageRepository) Events() []entity.UsageEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]entity.UsageEvent, len(r.events))
	copy(events, r.events)

	return events
}

func (r *UsageRepository) CountBySignature(_ context.Context) ([]entity.SignatureCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[signatureKey]int64)
	var order []signatureKey
	for _, e := range r.events {
		k := signatureKey{urlID: e.URLID, signature: e.Signature}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}

	res := make([]entity.SignatureCount, 0, len(order))
	for _, k := range order {
		res = append(res, entity.SignatureCount{
			URLID:     k.urlID,
			Signature: k.signature,
			Count:     counts[k],
		})
	}

	return res, nil
}
