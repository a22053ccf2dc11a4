package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/alias-shortener/internal/entity"
)

type signatureCountDB struct {
	URLID     uuid.UUID `db:"url_id"`
	Signature string    `db:"client_signature"`
	Total     int64     `db:"total"`
}

type UsageRepository struct {
	db *sqlx.DB
}

func NewUsageRepository(db *sqlx.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) Save(ctx context.Context, event *entity.UsageEvent) error {
	const op = "adapter.repository.postgres.UsageRepository.Save"
	const query = `INSERT INTO usage_events(url_id, accessed_at, client_ip, client_signature)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, event.URLID, event.AccessedAt, event.IP, event.Signature)
	if err != nil {
		return fmt.Errorf("%s: failed to insert into usage_events table: %w", op, err)
	}

	return nil
}

func (r *UsageRepository) CountBySignature(ctx context.Context) ([]entity.SignatureCount, error) {
	const op = "adapter.repository.postgres.UsageRepository.CountBySignature"
	const query = `SELECT url_id, client_signature, COUNT(*) AS total
		FROM usage_events
		GROUP BY url_id, client_signature`

	var rows []signatureCountDB

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: failed to count usage_events rows: %w", op, err)
	}

	counts := make([]entity.SignatureCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, entity.SignatureCount{
			URLID:     row.URLID,
			Signature: row.Signature,
			Count:     row.Total,
		})
	}

	return counts, nil
}
