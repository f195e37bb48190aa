package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/motorepair/admin/internal/db/models"
)

// BrandRepository handles database operations for brands
type BrandRepository struct {
	db *gorm.DB
}

// NewBrandRepository creates a new instance of BrandRepository
func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{
		db: db,
	}
}

// Create creates a new brand without touching its models
func (r *BrandRepository) Create(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Omit("Models").Create(brand).Error
}

// CreateWithModels creates a brand and its initial models in one transaction
func (r *BrandRepository) CreateWithModels(ctx context.Context, brand *models.Brand, modelNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Models").Create(brand).Error; err != nil {
			return err
		}

		brand.Models = make([]models.MotorcycleModel, 0, len(modelNames))
		for _, name := range modelNames {
			model := models.MotorcycleModel{BrandID: brand.ID, Name: name, IsActive: true}
			if err := tx.Omit("Brand").Create(&model).Error; err != nil {
				return err
			}
			brand.Models = append(brand.Models, model)
		}
		return nil
	})
}

// GetByID retrieves a brand with its models
func (r *BrandRepository) GetByID(ctx context.Context, id string) (*models.Brand, error) {
	var brand models.Brand
	err := r.db.WithContext(ctx).
		Preload("Models", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where(models.IDField+" = ?", id).
		First(&brand).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

// GetByNormalizedName retrieves a brand by its normalized name
func (r *BrandRepository) GetByNormalizedName(ctx context.Context, name string) (*models.Brand, error) {
	var brand models.Brand
	err := r.db.WithContext(ctx).Where("normalized_name = ?", models.NormalizeName(name)).First(&brand).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

// List retrieves brands ordered by name
func (r *BrandRepository) List(ctx context.Context, opts *models.ListOptions) ([]models.Brand, error) {
	page := opts.Normalized()
	var brands []models.Brand
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&brands).Error
	return brands, err
}

// Update saves every column of brand
func (r *BrandRepository) Update(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Omit("Models").Save(brand).Error
}

// Delete removes a brand and its models
func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var modelIDs []string
		if err := tx.Model(&models.MotorcycleModel{}).Where("brand_id = ?", id).Pluck(models.IDField, &modelIDs).Error; err != nil {
			return err
		}
		if len(modelIDs) > 0 {
			if err := tx.Model(&models.Motorcycle{}).Where("model_id IN ?", modelIDs).Update("model_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("brand_id = ?", id).Delete(&models.MotorcycleModel{}).Error; err != nil {
				return err
			}
		}

		result := tx.Where(models.IDField+" = ?", id).Delete(&models.Brand{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
