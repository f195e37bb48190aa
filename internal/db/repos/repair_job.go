package repos

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/motorepair/admin/internal/db/models"
)

// completionDateExpr is the date history rows are ordered and filtered by
const completionDateExpr = "COALESCE(repair_jobs.completed_at, repair_jobs.updated_at)"

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// RepairJobRepository handles database operations for repair jobs
type RepairJobRepository struct {
	db *gorm.DB
}

// NewRepairJobRepository creates a new instance of RepairJobRepository
func NewRepairJobRepository(db *gorm.DB) *RepairJobRepository {
	return &RepairJobRepository{
		db: db,
	}
}

func preloadRepairJob(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Motorcycle.Customer").
		Preload("Motorcycle.Model.Brand").
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") })
}

// Create inserts job and links it to job.Services, which must already exist
func (r *RepairJobRepository) Create(ctx context.Context, job *models.RepairJob) error {
	return r.db.WithContext(ctx).Omit("Motorcycle", "Services.*").Create(job).Error
}

// GetByID retrieves a job with its motorcycle, owner, model and services
func (r *RepairJobRepository) GetByID(ctx context.Context, id string) (*models.RepairJob, error) {
	var job models.RepairJob
	err := r.db.WithContext(ctx).
		Scopes(preloadRepairJob).
		Where(models.IDField+" = ?", id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Save writes every column of job; relations are left untouched
func (r *RepairJobRepository) Save(ctx context.Context, job *models.RepairJob) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(job).Error
}

// Delete removes job and its service links
func (r *RepairJobRepository) Delete(ctx context.Context, job *models.RepairJob) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(job).Association("Services").Clear(); err != nil {
			return err
		}
		result := tx.Where(models.IDField+" = ?", job.ID).Delete(&models.RepairJob{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListActive retrieves a page of jobs and the total number of matches. Without a
// status filter closed jobs are left out.
func (r *RepairJobRepository) ListActive(ctx context.Context, filter models.RepairJobFilter, opts *models.ListOptions) ([]models.RepairJob, int64, error) {
	page := opts.Normalized()
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Status != nil {
			db = db.Where(models.RepairJobStatusField+" = ?", *filter.Status)
		} else {
			db = db.Where(models.RepairJobStatusField+" NOT IN ?", models.ClosedRepairJobStatuses)
		}
		if filter.MotorcycleID != "" {
			db = db.Where(models.RepairJobMotorcycleIDField+" = ?", filter.MotorcycleID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.RepairJob{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.RepairJob
	err := r.db.WithContext(ctx).
		Scopes(scope, preloadRepairJob).
		Order(models.CreatedAtField + " DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// ListHistory retrieves a page of closed jobs and the total number of matches.
// Rows are ordered by completion date, falling back to the last update.
func (r *RepairJobRepository) ListHistory(ctx context.Context, filter models.RepairJobHistoryFilter, opts *models.ListOptions) ([]models.RepairJob, int64, error) {
	page := opts.Normalized()
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.
			Joins("JOIN motorcycles ON motorcycles.id = repair_jobs.motorcycle_id").
			Joins("JOIN customers ON customers.id = motorcycles.customer_id").
			Where("repair_jobs."+models.RepairJobStatusField+" IN ?", models.ClosedRepairJobStatuses)
		if filter.From != nil {
			db = db.Where(completionDateExpr+" >= ?", *filter.From)
		}
		if filter.To != nil {
			db = db.Where(completionDateExpr+" <= ?", *filter.To)
		}
		if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
			like := "%" + likeEscaper.Replace(search) + "%"
			db = db.Where(`(LOWER(customers.name) LIKE ? ESCAPE '\' OR LOWER(motorcycles.plate) LIKE ? ESCAPE '\')`, like, like)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.RepairJob{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := models.SortDesc
	if filter.Order == models.SortAsc {
		order = models.SortAsc
	}

	var jobs []models.RepairJob
	err := r.db.WithContext(ctx).
		Model(&models.RepairJob{}).
		Select("repair_jobs.*").
		Scopes(scope, preloadRepairJob).
		Order(completionDateExpr + " " + string(order)).
		Limit(page.Limit).Offset(page.Offset).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// CompletedTotals aggregates the jobs completed in a window
type CompletedTotals struct {
	Revenue float64
	Count   int64
}

// CompletedTotalsBetween sums the cost and counts the jobs completed in [from, to]
func (r *RepairJobRepository) CompletedTotalsBetween(ctx context.Context, from, to time.Time) (CompletedTotals, error) {
	var totals CompletedTotals
	err := r.db.WithContext(ctx).
		Model(&models.RepairJob{}).
		Select("COALESCE(SUM(total_cost), 0) AS revenue, COUNT(*) AS count").
		Where(models.RepairJobStatusField+" = ?", models.RepairJobStatusCompleted).
		Where(models.RepairJobCompletedAtField+" BETWEEN ? AND ?", from, to).
		Scan(&totals).Error
	return totals, err
}
