package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/alias-shortener/internal/entity"
)

type mockURLUseCase struct {
	mock.Mock
}

func (m *mockURLUseCase) ShortenURL(ctx context.Context, longURL, alias string) (*entity.URL, error) {
	args := m.Called(ctx, longURL, alias)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLUseCase) ResolveAlias(ctx context.Context, alias string, client entity.Client) (*entity.Resolution, error) {
	args := m.Called(ctx, alias, client)
	res, _ := args.Get(0).(*entity.Resolution)
	return res, args.Error(1)
}

func (m *mockURLUseCase) GetURL(ctx context.Context, id uuid.UUID) (*entity.URL, error) {
	args := m.Called(ctx, id)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLUseCase) DeleteURL(ctx context.Context, id uuid.UUID) (*entity.URL, error) {
	args := m.Called(ctx, id)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLUseCase) ComputeStatistics(ctx context.Context) ([]entity.URLStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).([]entity.URLStats)
	return stats, args.Error(1)
}
