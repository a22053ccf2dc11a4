//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vadimbarashkov/alias-shortener/internal/config"
	"github.com/vadimbarashkov/alias-shortener/internal/entity"
	"github.com/vadimbarashkov/alias-shortener/migrations"

	pgdb "github.com/vadimbarashkov/alias-shortener/pkg/postgres"
)

func setupPostgres(t testing.TB) config.Postgres {
	t.Helper()

	ctx := context.Background()

	pgUser := "test"
	pgPassword := "test"
	pgDB := "alias_shortener"

	pgCont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "postgres:16-alpine",
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDB,
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgCont.Terminate(ctx); err != nil {
			t.Fatalf("Failed to terminate postgres container: %v", err)
		}
	})

	pgHost, err := pgCont.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	pgPort, err := pgCont.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return config.Postgres{
		User:     pgUser,
		Password: pgPassword,
		Host:     pgHost,
		Port:     pgPort.Int(),
		DB:       pgDB,
		SSLMode:  "disable",
	}
}

type IntegrationTestSuite struct {
	suite.Suite
	db    *sqlx.DB
	urls  *URLRepository
	usage *UsageRepository
}

func (suite *IntegrationTestSuite) SetupSuite() {
	cfg := setupPostgres(suite.T())

	if err := pgdb.RunMigrations(migrations.FS, cfg.DSN()); err != nil {
		suite.T().Fatalf("Failed to run migrations: %v", err)
	}

	db, err := pgdb.New(context.Background(), cfg.DSN())
	if err != nil {
		suite.T().Fatalf("Failed to connect to database: %v", err)
	}

	suite.db = db
	suite.urls = NewURLRepository(db)
	suite.usage = NewUsageRepository(db)
}

func (suite *IntegrationTestSuite) TearDownSuite() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *IntegrationTestSuite) SetupTest() {
	suite.db.MustExec(`TRUNCATE usage_events, urls`)
}

func (suite *IntegrationTestSuite) TestAliasLifecycle() {
	ctx := context.Background()

	first, err := suite.urls.Save(ctx, uuid.New(), "promo", "https://example.com/old")
	suite.Require().NoError(err)
	suite.True(first.IsActive())
	suite.False(first.CreatedAt.IsZero())

	_, err = suite.urls.Save(ctx, uuid.New(), "promo", "https://example.com/other")
	suite.ErrorIs(err, entity.ErrAliasConflict)

	_, err = suite.urls.Save(ctx, first.ID, "fresh", "https://example.com/other")
	suite.Error(err)
	suite.NotErrorIs(err, entity.ErrAliasConflict)

	deleted, err := suite.urls.SoftDelete(ctx, first.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(deleted.DeletedAt)

	again, err := suite.urls.SoftDelete(ctx, first.ID)
	suite.Require().NoError(err)
	suite.True(deleted.DeletedAt.Equal(*again.DeletedAt))

	_, err = suite.urls.RetrieveActiveByAlias(ctx, "promo")
	suite.ErrorIs(err, entity.ErrURLNotFound)

	err = suite.urls.IncrementHitCount(ctx, first.ID)
	suite.ErrorIs(err, entity.ErrURLNotFound)

	second, err := suite.urls.Save(ctx, uuid.New(), "promo", "https://example.com/new")
	suite.Require().NoError(err)

	active, err := suite.urls.RetrieveActiveByAlias(ctx, "promo")
	suite.Require().NoError(err)
	suite.Equal(second.ID, active.ID)

	all, err := suite.urls.RetrieveAllActive(ctx)
	suite.Require().NoError(err)
	suite.Len(all, 1)
}

func (suite *IntegrationTestSuite) TestConcurrentIncrements() {
	const n = 50

	ctx := context.Background()

	url, err := suite.urls.Save(ctx, uuid.New(), "hot", "https://example.com")
	suite.Require().NoError(err)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			suite.NoError(suite.urls.IncrementHitCount(ctx, url.ID))
		}()
	}
	wg.Wait()

	got, err := suite.urls.RetrieveByID(ctx, url.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(n), got.HitCount)
}

func (suite *IntegrationTestSuite) TestUsageCounts() {
	ctx := context.Background()

	url, err := suite.urls.Save(ctx, uuid.New(), "busy", "https://example.com")
	suite.Require().NoError(err)

	for _, sig := range []string{"curl/8.0", "curl/8.0", ""} {
		suite.Require().NoError(suite.usage.Save(ctx, &entity.UsageEvent{
			URLID:      url.ID,
			AccessedAt: time.Now().UTC(),
			Client:     entity.Client{IP: "10.0.0.1", Signature: sig},
		}))
	}

	err = suite.usage.Save(ctx, &entity.UsageEvent{URLID: uuid.New(), AccessedAt: time.Now().UTC()})
	suite.Error(err)

	counts, err := suite.usage.CountBySignature(ctx)
	suite.Require().NoError(err)
	suite.ElementsMatch([]entity.SignatureCount{
		{URLID: url.ID, Signature: "curl/8.0", Count: 2},
		{URLID: url.ID, Signature: "", Count: 1},
	}, counts)
}

func TestIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	suite.Run(t, new(IntegrationTestSuite))
}
