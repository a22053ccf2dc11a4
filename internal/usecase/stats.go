package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/alias-shortener/internal/entity"
)

// ComputeStatistics returns one entry per active URL, including URLs without
// any usage, with the total number of usage events and their breakdown by
// client signature. Totals are summed from the breakdown, so both come from
// the same read of the usage events.
func (uc *URLUseCase) ComputeStatistics(ctx context.Context) ([]entity.URLStats, error) {
	const op = "usecase.URLUseCase.ComputeStatistics"

	urls, err := uc.urlRepo.RetrieveAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get urls: %w", op, err)
	}

	signatures, err := uc.usageRepo.CountBySignature(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count usage by signature: %w", op, err)
	}

	breakdown := make(map[uuid.UUID]map[string]int64)
	totals := make(map[uuid.UUID]int64)
	for _, sc := range signatures {
		if sc.Count <= 0 {
			continue
		}

		m, ok := breakdown[sc.URLID]
		if !ok {
			m = make(map[string]int64)
			breakdown[sc.URLID] = m
		}
		m[sc.Signature] += sc.Count
		totals[sc.URLID] += sc.Count
	}

	stats := make([]entity.URLStats, 0, len(urls))
	for _, url := range urls {
		counts := breakdown[url.ID]
		if counts == nil {
			counts = map[string]int64{}
		}

		stats = append(stats, entity.URLStats{
			ID:               url.ID,
			Alias:            url.Alias,
			LongURL:          url.LongURL,
			HitCount:         url.HitCount,
			TotalAccessCount: totals[url.ID],
			SignatureCounts:  counts,
		})
	}

	return stats, nil
}
