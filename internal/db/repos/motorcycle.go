package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/motorepair/admin/internal/db/models"
)

// MotorcycleRepository handles database operations for motorcycles
type MotorcycleRepository struct {
	db *gorm.DB
}

// NewMotorcycleRepository creates a new instance of MotorcycleRepository
func NewMotorcycleRepository(db *gorm.DB) *MotorcycleRepository {
	return &MotorcycleRepository{
		db: db,
	}
}

// Create creates a new motorcycle
func (r *MotorcycleRepository) Create(ctx context.Context, motorcycle *models.Motorcycle) error {
	return r.db.WithContext(ctx).Omit("Customer", "Model").Create(motorcycle).Error
}

// GetByID retrieves a motorcycle with its owner, model and brand
func (r *MotorcycleRepository) GetByID(ctx context.Context, id string) (*models.Motorcycle, error) {
	var motorcycle models.Motorcycle
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Model.Brand").
		Where(models.IDField+" = ?", id).
		First(&motorcycle).Error
	if err != nil {
		return nil, err
	}
	return &motorcycle, nil
}
