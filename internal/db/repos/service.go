package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/motorepair/admin/internal/db/models"
)

// repairJobServicesTable is the join table between repair jobs and services
const repairJobServicesTable = "repair_job_services"

// ServiceRepository handles database operations for catalog services
type ServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new instance of ServiceRepository
func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{
		db: db,
	}
}

// Create creates a new service
func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

// GetByID retrieves a service by ID
func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).Where(models.IDField+" = ?", id).First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// GetByIDs retrieves the services whose IDs are in ids. Unknown IDs are skipped, so
// callers compare lengths to detect them.
func (r *ServiceRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Service, error) {
	var services []models.Service
	if len(ids) == 0 {
		return services, nil
	}
	err := r.db.WithContext(ctx).Where(models.IDField+" IN ?", ids).Order("name ASC").Find(&services).Error
	return services, err
}

// List retrieves services ordered by name, optionally only the active ones
func (r *ServiceRepository) List(ctx context.Context, activeOnly bool, opts *models.ListOptions) ([]models.Service, error) {
	page := opts.Normalized()
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var services []models.Service
	err := query.Order("name ASC").Limit(page.Limit).Offset(page.Offset).Find(&services).Error
	return services, err
}

// Update saves every column of service
func (r *ServiceRepository) Update(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Save(service).Error
}

// CountJobs returns how many repair jobs include the service
func (r *ServiceRepository) CountJobs(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(repairJobServicesTable).Where("service_id = ?", id).Count(&count).Error
	return count, err
}

// Delete removes a service
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where(models.IDField+" = ?", id).Delete(&models.Service{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
