package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradesentinel/screening-engine/pkg/models"
)

// schemaSQL is compiled into the binary at build time so schema init works
// inside the runtime image without shipping the .sql file alongside it.
//
//go:embed schema.sql
var schemaSQL string

type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect initializes the connection pool to PostgreSQL using pgx
func Connect(connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL for Screening Engine")
	return &PostgresStore{pool: pool}, nil
}

// Close gracefully closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema executes the embedded schema.sql DDL statements.
func (s *PostgresStore) InitSchema() error {
	_, err := s.pool.Exec(context.Background(), schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to execute schema migrations: %v", err)
	}

	log.Println("Screening report schema initialized")
	return nil
}

// SaveReport persists one completed screening run: the case snapshot, the
// verdict, and the confirmed findings. Re-screening the same report ID
// overwrites the verdict in place.
func (s *PostgresStore) SaveReport(ctx context.Context, c *models.Case, v *models.Verdict) error {
	caseJSON, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal case: %v", err)
	}
	verdictJSON, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %v", err)
	}

	sql := `
		INSERT INTO screening_reports
			(report_id, risk_level, risk_score, case_snapshot, verdict, screened_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (report_id) DO UPDATE SET
			risk_level = EXCLUDED.risk_level,
			risk_score = EXCLUDED.risk_score,
			verdict = EXCLUDED.verdict,
			screened_at = EXCLUDED.screened_at,
			rescreened_count = screening_reports.rescreened_count + 1;
	`
	_, err = s.pool.Exec(ctx, sql,
		v.ReportID, string(v.RiskLevel), v.RiskScore, caseJSON, verdictJSON, v.ScreenedAt)
	if err != nil {
		return fmt.Errorf("failed to insert screening report: %v", err)
	}
	return nil
}

// GetReport loads one stored verdict by report ID.
func (s *PostgresStore) GetReport(ctx context.Context, reportID string) (*models.Verdict, error) {
	var verdictJSON []byte
	sql := `SELECT verdict FROM screening_reports WHERE report_id = $1`
	if err := s.pool.QueryRow(ctx, sql, reportID).Scan(&verdictJSON); err != nil {
		return nil, err
	}
	var v models.Verdict
	if err := json.Unmarshal(verdictJSON, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored verdict: %v", err)
	}
	return &v, nil
}

// StoredCase pairs a report ID with its original case for re-screening.
type StoredCase struct {
	ReportID  string
	RiskLevel string
	Case      models.Case
}

// RecentCases loads the most recently screened cases, newest first. The
// monitoring worker re-screens these as registry data changes.
func (s *PostgresStore) RecentCases(ctx context.Context, since time.Time, limit int) ([]StoredCase, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	sql := `
		SELECT report_id, risk_level, case_snapshot
		FROM screening_reports
		WHERE screened_at >= $1
		ORDER BY screened_at DESC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, sql, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cases := make([]StoredCase, 0)
	for rows.Next() {
		var (
			sc       StoredCase
			caseJSON []byte
		)
		if err := rows.Scan(&sc.ReportID, &sc.RiskLevel, &caseJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(caseJSON, &sc.Case); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stored case %s: %v", sc.ReportID, err)
		}
		cases = append(cases, sc)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return cases, nil
}

// CountByLevel returns verdict counts per risk level for the stats endpoint.
func (s *PostgresStore) CountByLevel(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT risk_level, COUNT(*) FROM screening_reports GROUP BY risk_level`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			level string
			n     int
		)
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		counts[level] = n
	}
	return counts, rows.Err()
}

// GetPool exposes the connection pool for other subsystems
func (s *PostgresStore) GetPool() *pgxpool.Pool {
	return s.pool
}
