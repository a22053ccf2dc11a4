// Package memory provides in-process implementations of the URL and usage
// repositories. They keep the invariants of the Postgres schema: alias
// uniqueness among active URLs, atomic hit-count increments and idempotent
// soft deletes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/alias-shortener/internal/entity"
)

type URLRepository struct {
	mu     sync.RWMutex
	urls   map[uuid.UUID]*entity.URL
	active map[string]uuid.UUID // alias -> id of the active URL holding it
	now    func() time.Time
}

func NewURLRepository() *URLRepository {
	return &URLRepository{
		urls:   make(map[uuid.UUID]*entity.URL),
		active: make(map[string]uuid.UUID),
		now:    time.Now,
	}
}

func (r *URLRepository) Save(_ context.Context, id uuid.UUID, alias, longURL string) (*entity.URL, error) {
	const op = "adapter.repository.memory.URLRepository.Save"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.active[alias]; ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrAliasConflict)
	}
	if _, ok := r.urls[id]; ok {
		return nil, fmt.Errorf("%s: duplicate id %s", op, id)
	}

	url := &entity.URL{
		ID:        id,
		Alias:     alias,
		LongURL:   longURL,
		CreatedAt: r.now().UTC(),
	}
	r.urls[id] = url
	r.active[alias] = id

	return copyURL(url), nil
}

func (r *URLRepository) RetrieveActiveByAlias(_ context.Context, alias string) (*entity.URL, error) {
	const op = "adapter.repository.memory.URLRepository.RetrieveActiveByAlias"

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.active[alias]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return copyURL(r.urls[id]), nil
}

func (r *URLRepository) RetrieveByID(_ context.Context, id uuid.UUID) (*entity.URL, error) {
	const op = "adapter.repository.memory.URLRepository.RetrieveByID"

	r.mu.RLock()
	defer r.mu.RUnlock()

	url, ok := r.urls[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return copyURL(url), nil
}

func (r *URLRepository) RetrieveAllActive(_ context.Context) ([]entity.URL, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	urls := make([]entity.URL, 0, len(r.active))
	for _, id := range r.active {
		urls = append(urls, *copyURL(r.urls[id]))
	}

	sort.Slice(urls, func(i, j int) bool {
		return urls[i].CreatedAt.Before(urls[j].CreatedAt)
	})

	return urls, nil
}

func (r *URLRepository) IncrementHitCount(_ context.Context, id uuid.UUID) error {
	const op = "adapter.repository.memory.URLRepository.IncrementHitCount"

	r.mu.Lock()
	defer r.mu.Unlock()

	url, ok := r.urls[id]
	if !ok || !url.IsActive() {
		return fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	url.HitCount++

	return nil
}

func (r *URLRepository) SoftDelete(_ context.Context, id uuid.UUID) (*entity.URL, error) {
	const op = "adapter.repository.memory.URLRepository.SoftDelete"

	r.mu.Lock()
	defer r.mu.Unlock()

	url, ok := r.urls[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	if url.IsActive() {
		deletedAt := r.now().UTC()
		url.DeletedAt = &deletedAt
		delete(r.active, url.Alias)
	}

	return copyURL(url), nil
}

func (r *URLRepository) exists(id uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.urls[id]
	return ok
}

func copyURL(u *entity.URL) *entity.URL {
	c := *u
	if u.DeletedAt != nil {
		t := *u.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}
