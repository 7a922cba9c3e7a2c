//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/davidleathers/phonenumbers-na/internal/domain/areacode"
	"github.com/davidleathers/phonenumbers-na/internal/domain/crosscheck"
	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
	"github.com/davidleathers/phonenumbers-na/internal/domain/values"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/config"
	"github.com/davidleathers/phonenumbers-na/internal/testutil/containers"
)

func setupDatabase(t *testing.T) *ConnectionPool {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	pg, err := containers.NewPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	require.NoError(t, MigrateUp(pg.ConnectionString, logger))

	pool, err := NewConnectionPool(&config.DatabaseConfig{
		URL:          pg.ConnectionString,
		MaxOpenConns: 5,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestMigrator_UpDown(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	pg, err := containers.NewPostgresContainer(ctx)
	require.NoError(t, err)
	defer pg.Terminate(ctx)

	m, err := NewMigrator(pg.ConnectionString, logger)
	require.NoError(t, err)
	defer m.Close()

	v, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.False(t, dirty)

	require.NoError(t, m.Up())
	v, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)

	// Already current.
	require.NoError(t, m.Up())

	require.NoError(t, m.Down())
	v, _, err = m.Version()
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestIngestRepository(t *testing.T) {
	pool := setupDatabase(t)
	repo := NewIngestRepository(pool.Pool())
	ctx := context.Background()

	batch := uuid.New()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	numbers := []values.IngestedNumber{
		values.NewIngestedNumber(values.MustNewPhoneNumber(206, 555, 1234, values.Local), "crm", batch, at),
		values.NewIngestedNumber(values.MustNewPhoneNumber(800, 576, 4377, values.Tollfree), "crm", batch, at.Add(time.Minute)),
		values.NewIngestedNumber(values.MustNewPhoneNumber(416, 555, 9999, values.Canada), "email", uuid.New(), at.Add(2*time.Minute)),
	}

	n, err := repo.Save(ctx, numbers)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.Save(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := repo.CountByBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	t.Run("all sources newest first", func(t *testing.T) {
		got, err := repo.Recent(ctx, "", 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "4165559999", got[0].DialedNumber)
		assert.Equal(t, values.Canada, got[0].Type)
		assert.Equal(t, "2065551234", got[2].DialedNumber)
		assert.Equal(t, at, got[2].DateIngested)
	})

	t.Run("single source", func(t *testing.T) {
		got, err := repo.Recent(ctx, "crm", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, values.Tollfree, got[0].Type)
		assert.Equal(t, batch, got[0].BatchID)
		assert.True(t, got[0].IsValid())
	})

	t.Run("limit", func(t *testing.T) {
		got, err := repo.Recent(ctx, "", 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestCrossCheckRepository(t *testing.T) {
	pool := setupDatabase(t)
	repo := NewCrossCheckRepository(pool.Pool())
	ctx := context.Background()

	_, err := repo.LatestResult(ctx)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	older := crosscheck.NewResult(time.Now().Add(-time.Hour))
	older.FinishedAt = older.StartedAt.Add(time.Second)
	require.NoError(t, repo.SaveResult(ctx, older))

	result := crosscheck.NewResult(time.Now())
	result.Sources = []crosscheck.SourceSummary{
		{Source: "nanpa-geographic", Reports: 1, Entries: 400, Discrepancies: 1},
		{Source: "cna", Error: "timeout"},
	}
	result.Discrepancies = []crosscheck.Discrepancy{
		{
			Source:   "nanpa-geographic",
			Set:      areacode.SetAll,
			Code:     999,
			Kind:     crosscheck.MissingFromTable,
			Metadata: map[string]string{"location": "nowhere"},
		},
	}
	result.FinishedAt = result.StartedAt.Add(2 * time.Second)
	require.NoError(t, pool.Ping(ctx))
	require.NoError(t, repo.SaveResult(ctx, result))

	latest, err := repo.LatestResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.RunID, latest.RunID)
	assert.Equal(t, result.Sources, latest.Sources)
	assert.Equal(t, result.Discrepancies, latest.Discrepancies)
	assert.Equal(t, 1, latest.SourceErrors())
	assert.WithinDuration(t, result.StartedAt, latest.StartedAt, time.Millisecond)
}

func TestMonitor_Stats(t *testing.T) {
	pool := setupDatabase(t)
	ctx := context.Background()

	_, err := NewIngestRepository(pool.Pool()).Save(ctx, []values.IngestedNumber{
		values.NewIngestedNumber(values.MustNewPhoneNumber(206, 555, 1234, values.Local), "crm", uuid.New(), time.Now()),
	})
	require.NoError(t, err)

	monitor := NewMonitor(pool.Pool(), zaptest.NewLogger(t), nil)

	tables, err := monitor.GetTableStats(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(tables))
	for _, tbl := range tables {
		names = append(names, tbl.TableName)
		assert.Positive(t, tbl.TotalSize)
	}
	assert.Equal(t, []string{"crosscheck_discrepancies", "crosscheck_runs", "phone_numbers"}, names)

	conns := monitor.GetConnectionStats()
	assert.Equal(t, int32(5), conns.MaxConns)

	stats, err := monitor.Stats(ctx)
	require.NoError(t, err)
	assert.Contains(t, stats, "tables")
	assert.Equal(t, true, stats["connection_healthy"])
}
