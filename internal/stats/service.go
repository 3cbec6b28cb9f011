package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cibercrimen/casetrack/internal/cybercase"
)

// Repository is the set of aggregate reads the dashboard needs. Each
// method is an independent query; under concurrent writes the
// sub-results may reflect slightly different points in time.
type Repository interface {
	CountCases(ctx context.Context) (int, error)
	SumStolenAmount(ctx context.Context) (decimal.Decimal, error)
	CountByStatus(ctx context.Context, statuses []cybercase.Status) (int, error)
	MonthlyCounts(ctx context.Context, year int) (map[time.Month]int, error)
	CrimeTypeCounts(ctx context.Context) ([]CrimeTypeCount, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var activeStatuses = []cybercase.Status{cybercase.StatusPending, cybercase.StatusInProgress}

var resolvedStatuses = []cybercase.Status{cybercase.StatusCompleted}

// Dashboard computes the summary over the whole table. The caller
// identity is accepted for parity with the rest of the API surface;
// statistics are global and never scoped to the caller.
func (s *Service) Dashboard(ctx context.Context, callerID string) (*Summary, error) {
	_ = callerID

	total, err := s.repo.CountCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting cases: %w", err)
	}

	amount, err := s.repo.SumStolenAmount(ctx)
	if err != nil {
		return nil, fmt.Errorf("summing stolen amounts: %w", err)
	}

	active, err := s.repo.CountByStatus(ctx, activeStatuses)
	if err != nil {
		return nil, fmt.Errorf("counting active cases: %w", err)
	}

	resolved, err := s.repo.CountByStatus(ctx, resolvedStatuses)
	if err != nil {
		return nil, fmt.Errorf("counting resolved cases: %w", err)
	}

	byMonth, err := s.repo.MonthlyCounts(ctx, time.Now().Year())
	if err != nil {
		return nil, fmt.Errorf("counting monthly cases: %w", err)
	}

	crimeTypes, err := s.repo.CrimeTypeCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting crime types: %w", err)
	}

	summary := &Summary{
		TotalCases:    total,
		TotalAmount:   amount,
		ActiveCases:   active,
		ResolvedCases: resolved,
		CrimeTypes:    sortCrimeTypes(crimeTypes),
	}

	// Months with no cases stay at zero; the histogram always has 12 buckets.
	for month, count := range byMonth {
		if month < time.January || month > time.December {
			continue
		}

		summary.MonthlyCases[month-time.January] = count
	}

	return summary, nil
}

// sortCrimeTypes orders by count descending, breaking ties by type name
// so the output is deterministic regardless of store ordering.
func sortCrimeTypes(counts []CrimeTypeCount) []CrimeTypeCount {
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}

		return counts[i].Type < counts[j].Type
	})

	return counts
}
