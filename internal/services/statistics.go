package services

import (
	"context"
	"math"
	"time"

	"github.com/motorepair/admin/internal/apperrors"
	"github.com/motorepair/admin/internal/cache"
)

// Trend is the direction of a metric between two periods
type Trend string

const (
	// TrendUp means the metric grew or stayed flat
	TrendUp Trend = "up"
	// TrendDown means the metric shrank
	TrendDown Trend = "down"
)

// Window is an inclusive time range
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonthWindow returns the calendar month containing t, from its first to its last
// instant, in t's location.
func MonthWindow(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

// PreviousMonthWindow returns the calendar month before the one containing t
func PreviousMonthWindow(t time.Time) Window {
	current := MonthWindow(t)
	return MonthWindow(current.Start.Add(-time.Nanosecond))
}

// PercentageChange returns the change from previous to current in percent, rounded
// to two decimals. Growth from zero counts as 100.
func PercentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return math.Round((current-previous)/previous*100*100) / 100
}

// TrendFor labels a percentage change
func TrendFor(change float64) Trend {
	if change >= 0 {
		return TrendUp
	}
	return TrendDown
}

// Metric is one dashboard figure compared with the previous month
type Metric struct {
	Value            float64 `json:"value"`
	PercentageChange float64 `json:"percentage_change"`
	Trend            Trend   `json:"trend"`
}

// NewMetric compares current with previous
func NewMetric(current, previous float64) Metric {
	change := PercentageChange(current, previous)
	return Metric{Value: current, PercentageChange: change, Trend: TrendFor(change)}
}

// Dashboard holds the month-over-month statistics
type Dashboard struct {
	Revenue       Metric `json:"revenue"`
	NewClients    Metric `json:"new_clients"`
	JobsCompleted Metric `json:"jobs_completed"`
	Period        Window `json:"period"`
}

// Statistics computes the dashboard metrics
type Statistics struct {
	jobs      RepairJobRepository
	customers CustomerRepository
	cache     *cache.Service
	ttl       time.Duration
	clock     Clock
}

// NewStatisticsService creates a new instance of Statistics
func NewStatisticsService(jobs RepairJobRepository, customers CustomerRepository, cacheService *cache.Service, ttl time.Duration, clock Clock) *Statistics {
	return &Statistics{jobs: jobs, customers: customers, cache: cacheService, ttl: ttl, clock: clock}
}

// Dashboard returns revenue, new clients and completed jobs for the current month
// against the previous one. The result is cached until a job changes or the ttl ends.
func (s *Statistics) Dashboard(ctx context.Context) (*Dashboard, error) {
	dashboard, err := cache.GetOrSet(ctx, s.cache, cache.StatisticsKey(), s.ttl, s.compute)
	return dashboard, apperrors.Boundary(err, "failed to compute statistics")
}

func (s *Statistics) compute(ctx context.Context) (*Dashboard, error) {
	now := s.clock.now()
	current := MonthWindow(now)
	previous := PreviousMonthWindow(now)

	currentJobs, err := s.jobs.CompletedTotalsBetween(ctx, current.Start, current.End)
	if err != nil {
		return nil, err
	}
	previousJobs, err := s.jobs.CompletedTotalsBetween(ctx, previous.Start, previous.End)
	if err != nil {
		return nil, err
	}
	currentClients, err := s.customers.CountCreatedBetween(ctx, current.Start, current.End)
	if err != nil {
		return nil, err
	}
	previousClients, err := s.customers.CountCreatedBetween(ctx, previous.Start, previous.End)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Revenue:       NewMetric(roundMoney(currentJobs.Revenue), roundMoney(previousJobs.Revenue)),
		NewClients:    NewMetric(float64(currentClients), float64(previousClients)),
		JobsCompleted: NewMetric(float64(currentJobs.Count), float64(previousJobs.Count)),
		Period:        current,
	}, nil
}
