package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorepair/admin/internal/cache"
	"github.com/motorepair/admin/internal/db/models"
	"github.com/motorepair/admin/test"
)

func TestPercentageChange(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{name: "growth from zero", current: 10, previous: 0, want: 100},
		{name: "nothing in either month", current: 0, previous: 0, want: 0},
		{name: "half again", current: 150, previous: 100, want: 50},
		{name: "halved", current: 50, previous: 100, want: -50},
		{name: "dropped to zero", current: 0, previous: 40, want: -100},
		{name: "rounded to two decimals", current: 2, previous: 3, want: -33.33},
		{name: "flat", current: 7, previous: 7, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PercentageChange(tt.current, tt.previous))
		})
	}
}

func TestTrendFor(t *testing.T) {
	assert.Equal(t, TrendUp, TrendFor(12.5))
	assert.Equal(t, TrendUp, TrendFor(0))
	assert.Equal(t, TrendDown, TrendFor(-0.01))

	metric := NewMetric(50, 100)
	assert.Equal(t, Metric{Value: 50, PercentageChange: -50, Trend: TrendDown}, metric)
}

func TestMonthWindows(t *testing.T) {
	now := time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)

	current := MonthWindow(now)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), current.Start)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.UTC), current.End)

	previous := PreviousMonthWindow(now)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), previous.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC), previous.End, "leap year february")

	january := PreviousMonthWindow(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), january.Start)
}

// seedTwoMonths stores one completed job and one customer in April, and two
// completed jobs plus noise in May
func seedTwoMonths(ts *TestSetup) {
	april := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)

	ts.SetNow(april)
	owner := ts.CreateCustomer("April Customer")
	motorcycle := ts.CreateMotorcycle(owner, "APR001")
	aprilJob := ts.CreateRepairJob(motorcycle, models.RepairJobStatusPending)
	ts.CompleteRepairJob(aprilJob, april, 100000)

	ts.SetNow(test.DefaultNow)
	ts.CreateCustomer("May Customer")
	ts.CreateCustomer("Another May Customer")

	first := ts.CreateRepairJob(motorcycle, models.RepairJobStatusPending)
	ts.CompleteRepairJob(first, time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC), 100000)
	second := ts.CreateRepairJob(motorcycle, models.RepairJobStatusPending)
	ts.CompleteRepairJob(second, time.Date(2024, 5, 14, 17, 0, 0, 0, time.UTC), 50000)

	cancelled := ts.CreateRepairJob(motorcycle, models.RepairJobStatusCancelled)
	cancelled.TotalCost = 999
	ts.Require().NoError(ts.RepairJobs.Save(ts.Context(), cancelled))
	ts.CreateRepairJob(motorcycle, models.RepairJobStatusInRepair)
}

func TestStatisticsService_Dashboard(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	seedTwoMonths(ts)

	dashboard, err := ts.StatisticsService.Dashboard(ts.ctx)
	require.NoError(t, err)

	assert.Equal(t, Metric{Value: 150000, PercentageChange: 50, Trend: TrendUp}, dashboard.Revenue)
	assert.Equal(t, Metric{Value: 2, PercentageChange: 100, Trend: TrendUp}, dashboard.NewClients)
	assert.Equal(t, Metric{Value: 2, PercentageChange: 100, Trend: TrendUp}, dashboard.JobsCompleted)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), dashboard.Period.Start)
}

func TestStatisticsService_DashboardTrendsDown(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	seedTwoMonths(ts)
	ts.SetNow(time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC))

	dashboard, err := ts.StatisticsService.Dashboard(ts.ctx)
	require.NoError(t, err)

	assert.Equal(t, Metric{Value: 0, PercentageChange: -100, Trend: TrendDown}, dashboard.Revenue)
	assert.Equal(t, Metric{Value: 0, PercentageChange: -100, Trend: TrendDown}, dashboard.NewClients)
	assert.Equal(t, Metric{Value: 0, PercentageChange: -100, Trend: TrendDown}, dashboard.JobsCompleted)
}

func TestStatisticsService_EmptyShop(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	dashboard, err := ts.StatisticsService.Dashboard(ts.ctx)
	require.NoError(t, err)
	assert.Equal(t, Metric{Trend: TrendUp}, dashboard.Revenue)
	assert.Equal(t, Metric{Trend: TrendUp}, dashboard.NewClients)
	assert.Equal(t, Metric{Trend: TrendUp}, dashboard.JobsCompleted)
}

func TestStatisticsService_CachedUntilJobChanges(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	customer := ts.CreateCustomer("Ana Torres")
	motorcycle := ts.CreateMotorcycle(customer, "ABC123")
	oil := ts.CreateService("Oil change", 50000)

	dashboard, err := ts.StatisticsService.Dashboard(ts.ctx)
	require.NoError(t, err)
	assert.Zero(t, dashboard.JobsCompleted.Value)
	assert.True(t, ts.cached(cache.StatisticsKey()))

	job, err := ts.RepairJobService.Create(ts.ctx, CreateRepairJobRequest{MotorcycleID: motorcycle.ID, ServiceIDs: []string{oil.ID}})
	require.NoError(t, err)
	assert.False(t, ts.cached(cache.StatisticsKey()))

	for _, status := range []models.RepairJobStatus{
		models.RepairJobStatusInRepair,
		models.RepairJobStatusReadyForPickup,
		models.RepairJobStatusCompleted,
	} {
		_, err = ts.RepairJobService.UpdateStatus(ts.ctx, job.ID, status)
		require.NoError(t, err)
	}

	dashboard, err = ts.StatisticsService.Dashboard(ts.ctx)
	require.NoError(t, err)
	assert.Equal(t, Metric{Value: 50000, PercentageChange: 100, Trend: TrendUp}, dashboard.Revenue)
	assert.Equal(t, 1.0, dashboard.JobsCompleted.Value)

	// Writes that bypass the services are not seen while the entry lives
	ts.CreateCustomer("Walk-in")
	cached, err := ts.StatisticsService.Dashboard(ts.ctx)
	require.NoError(t, err)
	assert.Equal(t, dashboard.NewClients, cached.NewClients)

	ts.Cache.Delete(ts.ctx, cache.StatisticsKey())
	fresh, err := ts.StatisticsService.Dashboard(ts.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, fresh.NewClients.Value)
}
