package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Monitor reports storage statistics for the phone number tables.
type Monitor struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	config *MonitorConfig
}

// MonitorConfig holds monitoring configuration
type MonitorConfig struct {
	// Tables limits table statistics to these relations.
	Tables []string
	// ConnectionThreshold is the saturation percentage reported as unhealthy.
	ConnectionThreshold float64
}

// TableStats represents table statistics
type TableStats struct {
	TableName      string     `json:"table"`
	TotalSize      int64      `json:"total_bytes"`
	IndexSize      int64      `json:"index_bytes"`
	LiveTuples     int64      `json:"live_rows"`
	DeadTuples     int64      `json:"dead_rows"`
	LastAutovacuum *time.Time `json:"last_autovacuum,omitempty"`
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	TotalConns      int32   `json:"total_conns"`
	AcquiredConns   int32   `json:"acquired_conns"`
	IdleConns       int32   `json:"idle_conns"`
	MaxConns        int32   `json:"max_conns"`
	AcquireCount    int64   `json:"acquire_count"`
	EmptyAcquires   int64   `json:"empty_acquire_count"`
	AcquireDuration string  `json:"acquire_duration"`
	Saturation      float64 `json:"saturation_pct"`
}

// NewMonitor creates a new database monitor
func NewMonitor(pool *pgxpool.Pool, logger *zap.Logger, config *MonitorConfig) *Monitor {
	if config == nil {
		config = &MonitorConfig{}
	}
	if len(config.Tables) == 0 {
		config.Tables = []string{"phone_numbers", "crosscheck_runs", "crosscheck_discrepancies"}
	}
	if config.ConnectionThreshold <= 0 {
		config.ConnectionThreshold = 80
	}
	return &Monitor{pool: pool, logger: logger, config: config}
}

// GetTableStats reads size and tuple counts for the configured tables.
func (m *Monitor) GetTableStats(ctx context.Context) ([]TableStats, error) {
	query := `
		SELECT
			relname,
			pg_total_relation_size(relid),
			pg_indexes_size(relid),
			n_live_tup,
			n_dead_tup,
			last_autovacuum
		FROM pg_stat_user_tables
		WHERE relname = ANY($1)
		ORDER BY relname
	`

	rows, err := m.pool.Query(ctx, query, m.config.Tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table stats: %w", err)
	}
	defer rows.Close()

	var stats []TableStats
	for rows.Next() {
		var s TableStats
		if err := rows.Scan(&s.TableName, &s.TotalSize, &s.IndexSize, &s.LiveTuples, &s.DeadTuples, &s.LastAutovacuum); err != nil {
			return nil, fmt.Errorf("failed to scan table stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetConnectionStats summarises the pool.
func (m *Monitor) GetConnectionStats() ConnectionStats {
	return connectionStats(m.pool.Stat())
}

func connectionStats(st *pgxpool.Stat) ConnectionStats {
	cs := ConnectionStats{
		TotalConns:      st.TotalConns(),
		AcquiredConns:   st.AcquiredConns(),
		IdleConns:       st.IdleConns(),
		MaxConns:        st.MaxConns(),
		AcquireCount:    st.AcquireCount(),
		EmptyAcquires:   st.EmptyAcquireCount(),
		AcquireDuration: st.AcquireDuration().String(),
	}
	if cs.MaxConns > 0 {
		cs.Saturation = float64(cs.AcquiredConns) / float64(cs.MaxConns) * 100
	}
	return cs
}

// Stats collects pool and table statistics for the admin API.
func (m *Monitor) Stats(ctx context.Context) (map[string]interface{}, error) {
	conns := m.GetConnectionStats()
	results := map[string]interface{}{
		"connections":        conns,
		"connection_healthy": conns.Saturation < m.config.ConnectionThreshold,
	}

	tables, err := m.GetTableStats(ctx)
	if err != nil {
		m.logger.Warn("failed to read table statistics", zap.Error(err))
		return nil, err
	}
	results["tables"] = tables

	var rows int64
	for _, t := range tables {
		if t.TableName == "phone_numbers" {
			rows = t.LiveTuples
		}
	}
	results["ingested_numbers_estimate"] = rows

	return results, nil
}
