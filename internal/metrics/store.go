package metrics

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"fridge-planner/internal/logger"
)

// RequestMetric records metadata for a single remote API call.
type RequestMetric struct {
	Method    string
	Endpoint  string
	Status    int // 0 when no response arrived
	LatencyMS int64
	Timestamp time.Time
}

// Store handles persistence of request metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(m RequestMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO request_metrics (method, endpoint, status, latency_ms, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		m.Method, m.Endpoint, m.Status, m.LatencyMS, ts)
	return err
}

// RecordRequest is the hook the API client calls after every remote request.
// Metric persistence is fire-and-forget; a failed insert only logs.
func (s *Store) RecordRequest(method, endpoint string, status int, latency time.Duration) {
	err := s.Record(RequestMetric{
		Method:    method,
		Endpoint:  endpoint,
		Status:    status,
		LatencyMS: latency.Milliseconds(),
	})
	if err != nil {
		logger.Warn("failed to record request metric", zap.Error(err))
	}
}

// DailyUsage represents request totals for a single day.
type DailyUsage struct {
	Date         string
	Requests     int
	Failures     int
	AvgLatencyMS float64
}

// GetDailyUsage retrieves usage for the last N days.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT date(timestamp) AS day,
		       COUNT(*),
		       SUM(CASE WHEN status >= 400 OR status = 0 THEN 1 ELSE 0 END),
		       AVG(latency_ms)
		FROM request_metrics
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day DESC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		var avg sql.NullFloat64
		if err := rows.Scan(&u.Date, &u.Requests, &u.Failures, &avg); err != nil {
			return nil, err
		}
		if avg.Valid {
			u.AvgLatencyMS = avg.Float64
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// returns how many were deleted.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := s.db.ExecContext(context.Background(),
		`DELETE FROM request_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
