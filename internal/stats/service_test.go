package stats_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cibercrimen/casetrack/internal/cybercase"
	"github.com/cibercrimen/casetrack/internal/stats"
)

// Mock Repository
type mockRepo struct {
	countCasesFunc      func(ctx context.Context) (int, error)
	sumStolenAmountFunc func(ctx context.Context) (decimal.Decimal, error)
	countByStatusFunc   func(ctx context.Context, statuses []cybercase.Status) (int, error)
	monthlyCountsFunc   func(ctx context.Context, year int) (map[time.Month]int, error)
	crimeTypeCountsFunc func(ctx context.Context) ([]stats.CrimeTypeCount, error)
}

func (m *mockRepo) CountCases(ctx context.Context) (int, error) {
	if m.countCasesFunc != nil {
		return m.countCasesFunc(ctx)
	}

	return 0, nil
}

func (m *mockRepo) SumStolenAmount(ctx context.Context) (decimal.Decimal, error) {
	if m.sumStolenAmountFunc != nil {
		return m.sumStolenAmountFunc(ctx)
	}

	return decimal.Zero, nil
}

func (m *mockRepo) CountByStatus(ctx context.Context, statuses []cybercase.Status) (int, error) {
	if m.countByStatusFunc != nil {
		return m.countByStatusFunc(ctx, statuses)
	}

	return 0, nil
}

func (m *mockRepo) MonthlyCounts(ctx context.Context, year int) (map[time.Month]int, error) {
	if m.monthlyCountsFunc != nil {
		return m.monthlyCountsFunc(ctx, year)
	}

	return nil, nil
}

func (m *mockRepo) CrimeTypeCounts(ctx context.Context) ([]stats.CrimeTypeCount, error) {
	if m.crimeTypeCountsFunc != nil {
		return m.crimeTypeCountsFunc(ctx)
	}

	return nil, nil
}

func TestService_Dashboard_MergesAggregates(t *testing.T) {
	repo := &mockRepo{
		countCasesFunc: func(context.Context) (int, error) { return 42, nil },
		sumStolenAmountFunc: func(context.Context) (decimal.Decimal, error) {
			return decimal.RequireFromString("125000.75"), nil
		},
		countByStatusFunc: func(_ context.Context, statuses []cybercase.Status) (int, error) {
			// Active statuses come in as the two-element set, resolved as one.
			if len(statuses) == 2 {
				return 17, nil
			}

			return 9, nil
		},
		monthlyCountsFunc: func(_ context.Context, year int) (map[time.Month]int, error) {
			assert.Equal(t, time.Now().Year(), year)
			return map[time.Month]int{
				time.January: 3,
				time.March:   7,
				time.October: 1,
			}, nil
		},
		crimeTypeCountsFunc: func(context.Context) ([]stats.CrimeTypeCount, error) {
			return []stats.CrimeTypeCount{
				{Type: "Phishing", Count: 20},
				{Type: "Hacking", Count: 12},
				{Type: "Vishing", Count: 10},
			}, nil
		},
	}

	svc := stats.NewService(repo)

	got, err := svc.Dashboard(context.Background(), "analyst-7")
	require.NoError(t, err)

	assert.Equal(t, 42, got.TotalCases)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("125000.75")))
	assert.Equal(t, 17, got.ActiveCases)
	assert.Equal(t, 9, got.ResolvedCases)

	// Sparse months fill in as zeros; the histogram is always 12 long.
	want := [stats.MonthBuckets]int{3, 0, 7, 0, 0, 0, 0, 0, 0, 1, 0, 0}
	assert.Equal(t, want, got.MonthlyCases)

	// Unknown crime types keep their literal string.
	assert.Equal(t, "Vishing", got.CrimeTypes[2].Type)
}

func TestService_Dashboard_EmptyTable(t *testing.T) {
	svc := stats.NewService(&mockRepo{})

	got, err := svc.Dashboard(context.Background(), "analyst-7")
	require.NoError(t, err)

	assert.Equal(t, 0, got.TotalCases)
	assert.True(t, got.TotalAmount.IsZero())
	assert.Equal(t, [stats.MonthBuckets]int{}, got.MonthlyCases)
	assert.Empty(t, got.CrimeTypes)
}

func TestService_Dashboard_SortsCrimeTypeTies(t *testing.T) {
	repo := &mockRepo{
		crimeTypeCountsFunc: func(context.Context) ([]stats.CrimeTypeCount, error) {
			// Deliberately unordered, with a tie on the count.
			return []stats.CrimeTypeCount{
				{Type: "Ransomware", Count: 5},
				{Type: "Malware", Count: 5},
				{Type: "Phishing", Count: 8},
			}, nil
		},
	}

	svc := stats.NewService(repo)

	got, err := svc.Dashboard(context.Background(), "analyst-7")
	require.NoError(t, err)

	want := []stats.CrimeTypeCount{
		{Type: "Phishing", Count: 8},
		{Type: "Malware", Count: 5},
		{Type: "Ransomware", Count: 5},
	}
	assert.Equal(t, want, got.CrimeTypes)
}

func TestService_Dashboard_RepoError(t *testing.T) {
	repo := &mockRepo{
		countCasesFunc: func(context.Context) (int, error) {
			return 0, errors.New("connection refused")
		},
	}

	svc := stats.NewService(repo)

	_, err := svc.Dashboard(context.Background(), "analyst-7")
	assert.Error(t, err)
}

func TestService_Dashboard_IgnoresOutOfRangeMonths(t *testing.T) {
	repo := &mockRepo{
		monthlyCountsFunc: func(context.Context, int) (map[time.Month]int, error) {
			return map[time.Month]int{
				time.Month(0):  99,
				time.Month(13): 99,
				time.December:  2,
			}, nil
		},
	}

	svc := stats.NewService(repo)

	got, err := svc.Dashboard(context.Background(), "analyst-7")
	require.NoError(t, err)

	want := [stats.MonthBuckets]int{11: 2}
	assert.Equal(t, want, got.MonthlyCases)
}
