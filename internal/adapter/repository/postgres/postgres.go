package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/alias-shortener/internal/entity"
)

const (
	uniqueViolationErrCode = "23505"
	activeAliasConstraint  = "urls_active_alias_idx"
)

// isAliasConflictError reports whether err is a unique violation of the
// active alias index. Other unique violations, such as a duplicate id, are not.
func isAliasConflictError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.SQLState() == uniqueViolationErrCode &&
		pgErr.ConstraintName == activeAliasConstraint
}

type urlDB struct {
	ID        uuid.UUID    `db:"id"`
	Alias     string       `db:"alias"`
	LongURL   string       `db:"long_url"`
	HitCount  int64        `db:"hit_count"`
	CreatedAt time.Time    `db:"created_at"`
	DeletedAt sql.NullTime `db:"deleted_at"`
}

func (u *urlDB) toEntity() *entity.URL {
	url := &entity.URL{
		ID:        u.ID,
		Alias:     u.Alias,
		LongURL:   u.LongURL,
		HitCount:  u.HitCount,
		CreatedAt: u.CreatedAt,
	}

	if u.DeletedAt.Valid {
		deletedAt := u.DeletedAt.Time
		url.DeletedAt = &deletedAt
	}

	return url
}

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

// Save relies on the partial unique index over active aliases, so concurrent
// inserts of the same alias cannot both succeed.
func (r *URLRepository) Save(ctx context.Context, id uuid.UUID, alias, longURL string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.Save"
	const query = `INSERT INTO urls(id, alias, long_url) VALUES ($1, $2, $3) RETURNING *`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, id, alias, longURL); err != nil {
		if isAliasConflictError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrAliasConflict)
		}

		return nil, fmt.Errorf("%s: failed to insert into urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) RetrieveActiveByAlias(ctx context.Context, alias string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveActiveByAlias"
	const query = `SELECT * FROM urls WHERE alias = $1 AND deleted_at IS NULL`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, alias); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) RetrieveByID(ctx context.Context, id uuid.UUID) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveByID"
	const query = `SELECT * FROM urls WHERE id = $1`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) RetrieveAllActive(ctx context.Context) ([]entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveAllActive"
	const query = `SELECT * FROM urls WHERE deleted_at IS NULL ORDER BY created_at`

	var rows []urlDB

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: failed to select from urls table: %w", op, err)
	}

	urls := make([]entity.URL, 0, len(rows))
	for i := range rows {
		urls = append(urls, *rows[i].toEntity())
	}

	return urls, nil
}

func (r *URLRepository) IncrementHitCount(ctx context.Context, id uuid.UUID) error {
	const op = "adapter.repository.postgres.URLRepository.IncrementHitCount"
	const query = `UPDATE urls SET hit_count = hit_count + 1 WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: failed to update urls table row: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return nil
}

func (r *URLRepository) SoftDelete(ctx context.Context, id uuid.UUID) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.SoftDelete"
	const query = `UPDATE urls SET deleted_at = COALESCE(deleted_at, now()) WHERE id = $1 RETURNING *`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update urls table row: %w", op, err)
	}

	return url.toEntity(), nil
}
