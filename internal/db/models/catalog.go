package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Brand is a motorcycle manufacturer in the catalog
type Brand struct {
	Base
	Name           string            `json:"name" gorm:"not null"`
	NormalizedName string            `json:"-" gorm:"not null;uniqueIndex"`
	IsActive       bool              `json:"is_active" gorm:"not null"`
	Models         []MotorcycleModel `json:"models,omitempty" gorm:"foreignKey:BrandID;constraint:OnDelete:CASCADE"`
}

// BeforeSave is a GORM hook keeping the normalized name in sync
func (b *Brand) BeforeSave(_ *gorm.DB) error {
	b.NormalizedName = NormalizeName(b.Name)
	if b.NormalizedName == "" {
		return fmt.Errorf("brand name cannot be empty")
	}
	return nil
}

// MotorcycleModel is a model line that belongs to exactly one Brand
type MotorcycleModel struct {
	Base
	BrandID        string `json:"brand_id" gorm:"type:varchar(36);not null;index"`
	Brand          *Brand `json:"brand,omitempty"`
	Name           string `json:"name" gorm:"not null"`
	NormalizedName string `json:"-" gorm:"not null;uniqueIndex"`
	IsActive       bool   `json:"is_active" gorm:"not null"`
}

// BeforeSave is a GORM hook keeping the normalized name in sync
func (m *MotorcycleModel) BeforeSave(_ *gorm.DB) error {
	m.NormalizedName = NormalizeName(m.Name)
	if m.NormalizedName == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	return nil
}

// Service is a priced catalog item a repair job can include
type Service struct {
	Base
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description,omitempty" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"not null;default:0"`
	IsActive    bool    `json:"is_active" gorm:"not null"`
}

// Validate ensures that the service data is valid
func (s *Service) Validate() error {
	if NormalizeName(s.Name) == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if s.Price < 0 {
		return fmt.Errorf("service price cannot be negative")
	}
	return nil
}

// BeforeSave is a GORM hook that validates the service
func (s *Service) BeforeSave(_ *gorm.DB) error {
	return s.Validate()
}
