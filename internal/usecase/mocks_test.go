package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/alias-shortener/internal/entity"
)

type mockURLRepository struct {
	mock.Mock
}

func (m *mockURLRepository) Save(ctx context.Context, id uuid.UUID, alias, longURL string) (*entity.URL, error) {
	args := m.Called(ctx, id, alias, longURL)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLRepository) RetrieveActiveByAlias(ctx context.Context, alias string) (*entity.URL, error) {
	args := m.Called(ctx, alias)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLRepository) RetrieveByID(ctx context.Context, id uuid.UUID) (*entity.URL, error) {
	args := m.Called(ctx, id)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLRepository) RetrieveAllActive(ctx context.Context) ([]entity.URL, error) {
	args := m.Called(ctx)
	urls, _ := args.Get(0).([]entity.URL)
	return urls, args.Error(1)
}

func (m *mockURLRepository) IncrementHitCount(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockURLRepository) SoftDelete(ctx context.Context, id uuid.UUID) (*entity.URL, error) {
	args := m.Called(ctx, id)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

type mockUsageRepository struct {
	mock.Mock
}

func (m *mockUsageRepository) Save(ctx context.Context, event *entity.UsageEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockUsageRepository) CountBySignature(ctx context.Context) ([]entity.SignatureCount, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).([]entity.SignatureCount)
	return counts, args.Error(1)
}

type mockAliasGenerator struct {
	mock.Mock
}

func (m *mockAliasGenerator) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
