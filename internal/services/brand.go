package services

import (
	"context"
	"time"

	"github.com/motorepair/admin/internal/apperrors"
	"github.com/motorepair/admin/internal/cache"
	"github.com/motorepair/admin/internal/db/models"
)

// CreateBrandRequest creates a brand and, optionally, its first models
type CreateBrandRequest struct {
	Name       string   `json:"name"`
	ModelNames []string `json:"model_names,omitempty"`
	IsActive   *bool    `json:"is_active,omitempty"`
}

// UpdateBrandRequest changes a brand. Nil fields are kept.
type UpdateBrandRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Brand handles brand-related operations
type Brand struct {
	repo  BrandRepository
	cache *cache.Service
	ttl   time.Duration
}

// NewBrandService creates a new instance of Brand
func NewBrandService(repo BrandRepository, cacheService *cache.Service, ttl time.Duration) *Brand {
	return &Brand{repo: repo, cache: cacheService, ttl: ttl}
}

// List returns every brand
func (s *Brand) List(ctx context.Context) ([]models.Brand, error) {
	brands, err := cache.GetOrSet(ctx, s.cache, cache.BrandsAllKey(), s.ttl, func(ctx context.Context) ([]models.Brand, error) {
		return s.repo.List(ctx, allCatalogRows)
	})
	return brands, apperrors.Boundary(err, "failed to list brands")
}

// Get returns a brand with its models
func (s *Brand) Get(ctx context.Context, id string) (*models.Brand, error) {
	brand, err := cache.GetOrSet(ctx, s.cache, cache.BrandKey(id), s.ttl, func(ctx context.Context) (*models.Brand, error) {
		brand, err := s.repo.GetByID(ctx, id)
		return brand, notFoundAs(err, "brand", id)
	})
	return brand, apperrors.Boundary(err, "failed to get brand")
}

// Create stores a new brand with its initial models
func (s *Brand) Create(ctx context.Context, req CreateBrandRequest) (*models.Brand, error) {
	brand, err := s.create(ctx, req)
	return brand, apperrors.Boundary(err, "failed to create brand")
}

func (s *Brand) create(ctx context.Context, req CreateBrandRequest) (*models.Brand, error) {
	if models.NormalizeName(req.Name) == "" {
		return nil, apperrors.BadRequest("brand name cannot be empty")
	}
	if err := s.ensureNameFree(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	brand := &models.Brand{Name: req.Name, IsActive: true}
	if req.IsActive != nil {
		brand.IsActive = *req.IsActive
	}
	if err := s.repo.CreateWithModels(ctx, brand, req.ModelNames); err != nil {
		return nil, duplicateAs(err, "brand or model", req.Name)
	}
	s.cache.Invalidate(ctx, cache.BrandInvalidation(brand.ID))
	return brand, nil
}

// Update changes the name or active flag of a brand
func (s *Brand) Update(ctx context.Context, id string, req UpdateBrandRequest) (*models.Brand, error) {
	brand, err := s.update(ctx, id, req)
	return brand, apperrors.Boundary(err, "failed to update brand")
}

func (s *Brand) update(ctx context.Context, id string, req UpdateBrandRequest) (*models.Brand, error) {
	brand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "brand", id)
	}

	if req.Name != nil {
		if models.NormalizeName(*req.Name) == "" {
			return nil, apperrors.BadRequest("brand name cannot be empty")
		}
		if err := s.ensureNameFree(ctx, *req.Name, id); err != nil {
			return nil, err
		}
		brand.Name = *req.Name
	}
	if req.IsActive != nil {
		brand.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, brand); err != nil {
		return nil, duplicateAs(err, "brand", brand.Name)
	}
	s.cache.Invalidate(ctx, cache.BrandInvalidation(id))
	return brand, nil
}

// Delete removes a brand and its models
func (s *Brand) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if err == nil {
		s.cache.Invalidate(ctx, cache.BrandInvalidation(id))
	}
	return apperrors.Boundary(notFoundAs(err, "brand", id), "failed to delete brand")
}

// ensureNameFree fails when another brand than selfID already uses name
func (s *Brand) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.GetByNormalizedName(ctx, name)
	if err != nil {
		return ignoreNotFound(err)
	}
	if existing.ID != selfID {
		return apperrors.BadRequest("brand %q already exists", name)
	}
	return nil
}
