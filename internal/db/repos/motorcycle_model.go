package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/motorepair/admin/internal/db/models"
)

// MotorcycleModelRepository handles database operations for motorcycle models
type MotorcycleModelRepository struct {
	db *gorm.DB
}

// NewMotorcycleModelRepository creates a new instance of MotorcycleModelRepository
func NewMotorcycleModelRepository(db *gorm.DB) *MotorcycleModelRepository {
	return &MotorcycleModelRepository{
		db: db,
	}
}

// Create creates a new model
func (r *MotorcycleModelRepository) Create(ctx context.Context, model *models.MotorcycleModel) error {
	return r.db.WithContext(ctx).Omit("Brand").Create(model).Error
}

// GetByID retrieves a model with its brand
func (r *MotorcycleModelRepository) GetByID(ctx context.Context, id string) (*models.MotorcycleModel, error) {
	var model models.MotorcycleModel
	err := r.db.WithContext(ctx).Preload("Brand").Where(models.IDField+" = ?", id).First(&model).Error
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// GetByNormalizedName retrieves a model by its normalized name
func (r *MotorcycleModelRepository) GetByNormalizedName(ctx context.Context, name string) (*models.MotorcycleModel, error) {
	var model models.MotorcycleModel
	err := r.db.WithContext(ctx).Where("normalized_name = ?", models.NormalizeName(name)).First(&model).Error
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// List retrieves models with their brand, ordered by name
func (r *MotorcycleModelRepository) List(ctx context.Context, opts *models.ListOptions) ([]models.MotorcycleModel, error) {
	page := opts.Normalized()
	var list []models.MotorcycleModel
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Order("name ASC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&list).Error
	return list, err
}

// ListByBrand retrieves every model of a brand ordered by name
func (r *MotorcycleModelRepository) ListByBrand(ctx context.Context, brandID string) ([]models.MotorcycleModel, error) {
	var list []models.MotorcycleModel
	err := r.db.WithContext(ctx).Where("brand_id = ?", brandID).Order("name ASC").Find(&list).Error
	return list, err
}

// Update saves every column of model
func (r *MotorcycleModelRepository) Update(ctx context.Context, model *models.MotorcycleModel) error {
	return r.db.WithContext(ctx).Omit("Brand").Save(model).Error
}

// Delete removes a model; motorcycles pointing at it keep a nil model
func (r *MotorcycleModelRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Motorcycle{}).Where("model_id = ?", id).Update("model_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where(models.IDField+" = ?", id).Delete(&models.MotorcycleModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
