package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/motorepair/admin/internal/apperrors"
	"github.com/motorepair/admin/internal/cache"
	"github.com/motorepair/admin/internal/db/models"
	"github.com/motorepair/admin/internal/events"
	"github.com/motorepair/admin/internal/logger"
	"github.com/motorepair/admin/internal/workflow"
)

// complexWork matches service names that double the estimated duration
var complexWork = regexp.MustCompile(`(?i)motor|engine|transmisión|transmission|caja`)

// CreateRepairJobRequest opens a job for a motorcycle
type CreateRepairJobRequest struct {
	MotorcycleID        string     `json:"motorcycle_id"`
	ServiceIDs          []string   `json:"service_ids"`
	Notes               *string    `json:"notes,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
}

// UpdateRepairJobRequest changes the free-form fields of a job. Nil fields are kept.
type UpdateRepairJobRequest struct {
	Notes               *string    `json:"notes,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
}

// RepairJobPage is one page of a job listing
type RepairJobPage struct {
	Items []models.RepairJob `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// RepairJobWorkflow is the workflow view of a stored job
type RepairJobWorkflow struct {
	JobID string `json:"job_id"`
	workflow.Info
}

// RepairJob handles the repair job lifecycle
type RepairJob struct {
	jobs        RepairJobRepository
	motorcycles MotorcycleRepository
	catalog     ServiceRepository
	cache       *cache.Service
	listTTL     time.Duration
	clock       Clock
	events      *events.Bus
}

// NewRepairJobService creates a new instance of RepairJob
func NewRepairJobService(
	jobs RepairJobRepository,
	motorcycles MotorcycleRepository,
	catalog ServiceRepository,
	cacheService *cache.Service,
	listTTL time.Duration,
	clock Clock,
) *RepairJob {
	return &RepairJob{
		jobs:        jobs,
		motorcycles: motorcycles,
		catalog:     catalog,
		cache:       cacheService,
		listTTL:     listTTL,
		clock:       clock,
	}
}

// WithEvents makes the service publish a job event after every successful change
func (s *RepairJob) WithEvents(bus *events.Bus) *RepairJob {
	s.events = bus
	return s
}

// EstimateCompletion returns the default estimated completion for a job opened at now:
// one day per service, doubled when any service is complex work, at midnight of the
// resulting day.
func EstimateCompletion(now time.Time, services []models.Service) time.Time {
	multiplier := 1
	for _, service := range services {
		if complexWork.MatchString(service.Name) {
			multiplier = 2
			break
		}
	}

	due := now.AddDate(0, 0, len(services)*multiplier)
	return time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location())
}

// Create opens a PENDING job priced from the requested services
func (s *RepairJob) Create(ctx context.Context, req CreateRepairJobRequest) (*models.RepairJob, error) {
	job, err := s.create(ctx, req)
	return job, apperrors.Boundary(err, "failed to create repair job")
}

func (s *RepairJob) create(ctx context.Context, req CreateRepairJobRequest) (*models.RepairJob, error) {
	ids, err := uniqueIDs(req.ServiceIDs)
	if err != nil {
		return nil, err
	}

	if _, err := s.motorcycles.GetByID(ctx, req.MotorcycleID); err != nil {
		return nil, notFoundAs(err, "motorcycle", req.MotorcycleID)
	}

	services, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(services) != len(ids) {
		return nil, apperrors.BadRequest("one or more services do not exist: requested %d, found %d", len(ids), len(services))
	}

	var total float64
	for _, service := range services {
		total += service.Price
	}

	now := s.clock.now()
	estimated := req.EstimatedCompletion
	if estimated == nil {
		due := EstimateCompletion(now, services)
		estimated = &due
	}

	job := &models.RepairJob{
		MotorcycleID:        req.MotorcycleID,
		Status:              workflow.InitialStatus,
		Notes:               req.Notes,
		EstimatedCompletion: estimated,
		TotalCost:           roundMoney(total),
		Services:            services,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.events.Publish(events.Event{
		Type:         events.EventRepairJobCreated,
		JobID:        job.ID,
		MotorcycleID: job.MotorcycleID,
		To:           job.Status,
		At:           now,
	})

	logger.InfoWithFields("repair job created", map[string]interface{}{
		"job_id":     job.ID,
		"total_cost": job.TotalCost,
		"services":   len(services),
	})
	return s.reload(ctx, job)
}

// GetByID retrieves a job with its motorcycle and services
func (s *RepairJob) GetByID(ctx context.Context, id string) (*models.RepairJob, error) {
	job, err := s.get(ctx, id)
	return job, apperrors.Boundary(err, "failed to get repair job")
}

// Update changes the notes and estimated completion of a job
func (s *RepairJob) Update(ctx context.Context, id string, req UpdateRepairJobRequest) (*models.RepairJob, error) {
	job, err := s.mutate(ctx, id, func(job *models.RepairJob) error {
		if req.Notes != nil {
			job.Notes = req.Notes
		}
		if req.EstimatedCompletion != nil {
			job.EstimatedCompletion = req.EstimatedCompletion
		}
		return nil
	})
	return job, apperrors.Boundary(err, "failed to update repair job")
}

// UpdateStatus moves a job along the workflow
func (s *RepairJob) UpdateStatus(ctx context.Context, id string, target models.RepairJobStatus) (*models.RepairJob, error) {
	var from models.RepairJobStatus
	now := s.clock.now()
	job, err := s.mutate(ctx, id, func(job *models.RepairJob) error {
		from = job.Status
		return workflow.Transition(job, target, now)
	})
	if err != nil {
		return nil, apperrors.Boundary(err, "failed to update repair job status")
	}

	s.statusChanged(job, from, now)
	return job, nil
}

// Cancel cancels a job that has not reached pickup yet
func (s *RepairJob) Cancel(ctx context.Context, id string) (*models.RepairJob, error) {
	var from models.RepairJobStatus
	now := s.clock.now()
	job, err := s.mutate(ctx, id, func(job *models.RepairJob) error {
		from = job.Status
		return workflow.Cancel(job, now)
	})
	if err != nil {
		return nil, apperrors.Boundary(err, "failed to cancel repair job")
	}

	s.statusChanged(job, from, now)
	return job, nil
}

// Delete removes a PENDING or CANCELLED job
func (s *RepairJob) Delete(ctx context.Context, id string) error {
	return apperrors.Boundary(s.delete(ctx, id), "failed to delete repair job")
}

func (s *RepairJob) delete(ctx context.Context, id string) error {
	job, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := workflow.CheckDeletable(job); err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, job); err != nil {
		return notFoundAs(err, "repair job", id)
	}
	s.invalidate(ctx)
	s.events.Publish(events.Event{
		Type:         events.EventRepairJobDeleted,
		JobID:        job.ID,
		MotorcycleID: job.MotorcycleID,
		From:         job.Status,
		At:           s.clock.now(),
	})

	logger.InfoWithFields("repair job deleted", map[string]interface{}{"job_id": id, "status": job.Status})
	return nil
}

// GetAll lists active jobs, or the jobs in filter.Status when set. Pages are cached.
func (s *RepairJob) GetAll(ctx context.Context, filter models.RepairJobFilter, opts *models.ListOptions) (*RepairJobPage, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, apperrors.BadRequest("invalid repair job status: %s", *filter.Status)
	}

	page := opts.Normalized()
	key := cache.RepairJobsListKey(filter, page)
	result, err := cache.GetOrSet(ctx, s.cache, key, s.listTTL, func(ctx context.Context) (*RepairJobPage, error) {
		jobs, total, err := s.jobs.ListActive(ctx, filter, &page)
		if err != nil {
			return nil, err
		}
		return newRepairJobPage(jobs, total, page), nil
	})
	return result, apperrors.Boundary(err, "failed to list repair jobs")
}

// GetHistory lists COMPLETED and CANCELLED jobs by completion date
func (s *RepairJob) GetHistory(ctx context.Context, filter models.RepairJobHistoryFilter, opts *models.ListOptions) (*RepairJobPage, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperrors.BadRequest("history range starts after it ends")
	}
	switch filter.Order {
	case "", models.SortAsc, models.SortDesc:
	default:
		return nil, apperrors.BadRequest("invalid sort order: %s", filter.Order)
	}

	page := opts.Normalized()
	jobs, total, err := s.jobs.ListHistory(ctx, filter, &page)
	if err != nil {
		return nil, apperrors.Boundary(err, "failed to list repair job history")
	}
	return newRepairJobPage(jobs, total, page), nil
}

// GetWorkflow describes what can happen next to a stored job
func (s *RepairJob) GetWorkflow(ctx context.Context, id string) (*RepairJobWorkflow, error) {
	job, err := s.get(ctx, id)
	if err != nil {
		return nil, apperrors.Boundary(err, "failed to get repair job workflow")
	}
	return &RepairJobWorkflow{JobID: job.ID, Info: workflow.Describe(job.Status)}, nil
}

func (s *RepairJob) get(ctx context.Context, id string) (*models.RepairJob, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "repair job", id)
	}
	return job, nil
}

// mutate loads a job, applies change and saves it. The job list and statistics
// caches are invalidated only after the save succeeded.
func (s *RepairJob) mutate(ctx context.Context, id string, change func(job *models.RepairJob) error) (*models.RepairJob, error) {
	job, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(job); err != nil {
		return nil, err
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return job, nil
}

func (s *RepairJob) statusChanged(job *models.RepairJob, from models.RepairJobStatus, at time.Time) {
	logger.InfoWithFields("repair job status changed", map[string]interface{}{
		"job_id": job.ID,
		"from":   from,
		"to":     job.Status,
	})
	s.events.Publish(events.Event{
		Type:         events.EventRepairJobStatusChanged,
		JobID:        job.ID,
		MotorcycleID: job.MotorcycleID,
		From:         from,
		To:           job.Status,
		At:           at,
	})
}

func (s *RepairJob) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.RepairJobInvalidation())
}

// reload fetches the stored job with its relations; the job as written is returned
// if that read fails, since the write already succeeded
func (s *RepairJob) reload(ctx context.Context, job *models.RepairJob) (*models.RepairJob, error) {
	stored, err := s.jobs.GetByID(ctx, job.ID)
	if err != nil {
		logger.WarnWithFields("failed to reload repair job", map[string]interface{}{"job_id": job.ID, "error": err.Error()})
		return job, nil
	}
	return stored, nil
}

func newRepairJobPage(jobs []models.RepairJob, total int64, opts models.ListOptions) *RepairJobPage {
	if jobs == nil {
		jobs = []models.RepairJob{}
	}
	return &RepairJobPage{Items: jobs, Total: total, Page: opts.Page(), Limit: opts.Limit}
}

// uniqueIDs trims and de-duplicates ids, keeping the first occurrence order
func uniqueIDs(ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, apperrors.BadRequest("service id cannot be empty")
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, apperrors.BadRequest("a repair job needs at least one service")
	}
	return out, nil
}
