// Package services implements the repair shop operations: the repair job lifecycle,
// the cached catalog and the dashboard statistics.
package services

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/motorepair/admin/internal/apperrors"
	"github.com/motorepair/admin/internal/db"
	"github.com/motorepair/admin/internal/db/models"
	"github.com/motorepair/admin/internal/db/repos"
)

// Clock returns the current time
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// RepairJobRepository is the persistence the repair job and statistics services need
type RepairJobRepository interface {
	Create(ctx context.Context, job *models.RepairJob) error
	GetByID(ctx context.Context, id string) (*models.RepairJob, error)
	Save(ctx context.Context, job *models.RepairJob) error
	Delete(ctx context.Context, job *models.RepairJob) error
	ListActive(ctx context.Context, filter models.RepairJobFilter, opts *models.ListOptions) ([]models.RepairJob, int64, error)
	ListHistory(ctx context.Context, filter models.RepairJobHistoryFilter, opts *models.ListOptions) ([]models.RepairJob, int64, error)
	CompletedTotalsBetween(ctx context.Context, from, to time.Time) (repos.CompletedTotals, error)
}

// MotorcycleRepository resolves the motorcycle a job is opened for
type MotorcycleRepository interface {
	GetByID(ctx context.Context, id string) (*models.Motorcycle, error)
}

// CustomerRepository counts new customers for the statistics
type CustomerRepository interface {
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// ServiceRepository is the catalog service persistence
type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id string) (*models.Service, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Service, error)
	List(ctx context.Context, activeOnly bool, opts *models.ListOptions) ([]models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	CountJobs(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// BrandRepository is the brand persistence
type BrandRepository interface {
	Create(ctx context.Context, brand *models.Brand) error
	CreateWithModels(ctx context.Context, brand *models.Brand, modelNames []string) error
	GetByID(ctx context.Context, id string) (*models.Brand, error)
	GetByNormalizedName(ctx context.Context, name string) (*models.Brand, error)
	List(ctx context.Context, opts *models.ListOptions) ([]models.Brand, error)
	Update(ctx context.Context, brand *models.Brand) error
	Delete(ctx context.Context, id string) error
}

// MotorcycleModelRepository is the model persistence
type MotorcycleModelRepository interface {
	Create(ctx context.Context, model *models.MotorcycleModel) error
	GetByID(ctx context.Context, id string) (*models.MotorcycleModel, error)
	GetByNormalizedName(ctx context.Context, name string) (*models.MotorcycleModel, error)
	List(ctx context.Context, opts *models.ListOptions) ([]models.MotorcycleModel, error)
	ListByBrand(ctx context.Context, brandID string) ([]models.MotorcycleModel, error)
	Update(ctx context.Context, model *models.MotorcycleModel) error
	Delete(ctx context.Context, id string) error
}

// Ensure interface compliance
var (
	_ RepairJobRepository       = (*repos.RepairJobRepository)(nil)
	_ MotorcycleRepository      = (*repos.MotorcycleRepository)(nil)
	_ CustomerRepository        = (*repos.CustomerRepository)(nil)
	_ ServiceRepository         = (*repos.ServiceRepository)(nil)
	_ BrandRepository           = (*repos.BrandRepository)(nil)
	_ MotorcycleModelRepository = (*repos.MotorcycleModelRepository)(nil)
)

// CacheTTLs bounds how long each family of cached reads may be stale
type CacheTTLs struct {
	Catalog    time.Duration
	Statistics time.Duration
	Jobs       time.Duration
}

// DefaultCacheTTLs returns the TTLs used when none are configured
func DefaultCacheTTLs() CacheTTLs {
	return CacheTTLs{
		Catalog:    time.Hour,
		Statistics: 5 * time.Minute,
		Jobs:       time.Minute,
	}
}

// allCatalogRows is the page size used to load whole catalog collections
var allCatalogRows = &models.ListOptions{Limit: models.MaxLimit}

// notFoundAs turns a missing row into a NotFound error naming the entity
func notFoundAs(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("%s %s not found", entity, id)
	}
	return err
}

// duplicateAs turns a unique violation into a BadRequest error
func duplicateAs(err error, entity, name string) error {
	if db.IsDuplicateKeyError(err) {
		return apperrors.BadRequest("%s %q already exists", entity, name)
	}
	return err
}

// roundMoney rounds to cents
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// ignoreNotFound drops gorm.ErrRecordNotFound
func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
