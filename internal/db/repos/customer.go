package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/motorepair/admin/internal/db/models"
)

// CustomerRepository handles database operations for customers
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{
		db: db,
	}
}

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Omit("Motorcycles").Create(customer).Error
}

// GetByID retrieves a customer with their motorcycles
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Preload("Motorcycles").Where(models.IDField+" = ?", id).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CountCreatedBetween counts customers created in [from, to]
func (r *CustomerRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where(models.CreatedAtField+" BETWEEN ? AND ?", from, to).
		Count(&count).Error
	return count, err
}
