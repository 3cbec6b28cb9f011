package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cibercrimen/casetrack/internal/cybercase"
	"github.com/cibercrimen/casetrack/internal/stats"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CountCases(ctx context.Context) (int, error) {
	var count int

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cyber_cases`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting cases: %w", err)
	}

	return count, nil
}

// SumStolenAmount returns zero, not NULL, for an empty table.
func (s *Store) SumStolenAmount(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal

	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(stolen_amount), 0) FROM cyber_cases`,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing stolen amounts: %w", err)
	}

	return sum, nil
}

func (s *Store) CountByStatus(ctx context.Context, statuses []cybercase.Status) (int, error) {
	if len(statuses) == 0 {
		return 0, nil
	}

	values := make([]string, len(statuses))
	for i, st := range statuses {
		values[i] = string(st)
	}

	var count int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cyber_cases WHERE investigation_status = ANY($1)`,
		values,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting cases by status: %w", err)
	}

	return count, nil
}

// MonthlyCounts groups the given calendar year's cases by the month of
// their case date. Only months with at least one case appear in the map.
func (s *Store) MonthlyCounts(ctx context.Context, year int) (map[time.Month]int, error) {
	query := `
		SELECT EXTRACT(MONTH FROM case_date)::int AS month, COUNT(*)
		FROM cyber_cases
		WHERE EXTRACT(YEAR FROM case_date)::int = $1
		GROUP BY month
	`

	rows, err := s.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("counting monthly cases: %w", err)
	}
	defer rows.Close()

	counts := make(map[time.Month]int)

	for rows.Next() {
		var month, count int

		if err := rows.Scan(&month, &count); err != nil {
			return nil, fmt.Errorf("scanning monthly count: %w", err)
		}

		counts[time.Month(month)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating monthly counts: %w", err)
	}

	return counts, nil
}

// CrimeTypeCounts groups by the stored crime type string, so values
// outside the fixed catalog are counted under their literal value.
func (s *Store) CrimeTypeCounts(ctx context.Context) ([]stats.CrimeTypeCount, error) {
	query := `
		SELECT crime_type, COUNT(*)
		FROM cyber_cases
		GROUP BY crime_type
		ORDER BY COUNT(*) DESC, crime_type ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting crime types: %w", err)
	}
	defer rows.Close()

	var counts []stats.CrimeTypeCount

	for rows.Next() {
		var c stats.CrimeTypeCount

		if err := rows.Scan(&c.Type, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning crime type count: %w", err)
		}

		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating crime type counts: %w", err)
	}

	return counts, nil
}
