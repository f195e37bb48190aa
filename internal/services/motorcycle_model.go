package services

import (
	"context"
	"time"

	"github.com/motorepair/admin/internal/apperrors"
	"github.com/motorepair/admin/internal/cache"
	"github.com/motorepair/admin/internal/db/models"
)

// CreateMotorcycleModelRequest creates a model under an existing brand
type CreateMotorcycleModelRequest struct {
	BrandID  string `json:"brand_id"`
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// UpdateMotorcycleModelRequest changes a model. Nil fields are kept.
type UpdateMotorcycleModelRequest struct {
	BrandID  *string `json:"brand_id,omitempty"`
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// MotorcycleModel handles motorcycle model operations
type MotorcycleModel struct {
	repo   MotorcycleModelRepository
	brands BrandRepository
	cache  *cache.Service
	ttl    time.Duration
}

// NewMotorcycleModelService creates a new instance of MotorcycleModel
func NewMotorcycleModelService(repo MotorcycleModelRepository, brands BrandRepository, cacheService *cache.Service, ttl time.Duration) *MotorcycleModel {
	return &MotorcycleModel{repo: repo, brands: brands, cache: cacheService, ttl: ttl}
}

// List returns every model with its brand
func (s *MotorcycleModel) List(ctx context.Context) ([]models.MotorcycleModel, error) {
	list, err := cache.GetOrSet(ctx, s.cache, cache.ModelsAllKey(), s.ttl, func(ctx context.Context) ([]models.MotorcycleModel, error) {
		return s.repo.List(ctx, allCatalogRows)
	})
	return list, apperrors.Boundary(err, "failed to list motorcycle models")
}

// ListByBrand returns the models of a brand
func (s *MotorcycleModel) ListByBrand(ctx context.Context, brandID string) ([]models.MotorcycleModel, error) {
	list, err := cache.GetOrSet(ctx, s.cache, cache.ModelsByBrandKey(brandID), s.ttl, func(ctx context.Context) ([]models.MotorcycleModel, error) {
		if _, err := s.brands.GetByID(ctx, brandID); err != nil {
			return nil, notFoundAs(err, "brand", brandID)
		}
		return s.repo.ListByBrand(ctx, brandID)
	})
	return list, apperrors.Boundary(err, "failed to list motorcycle models")
}

// Get returns a model with its brand
func (s *MotorcycleModel) Get(ctx context.Context, id string) (*models.MotorcycleModel, error) {
	model, err := cache.GetOrSet(ctx, s.cache, cache.ModelKey(id), s.ttl, func(ctx context.Context) (*models.MotorcycleModel, error) {
		model, err := s.repo.GetByID(ctx, id)
		return model, notFoundAs(err, "motorcycle model", id)
	})
	return model, apperrors.Boundary(err, "failed to get motorcycle model")
}

// Create stores a new model
func (s *MotorcycleModel) Create(ctx context.Context, req CreateMotorcycleModelRequest) (*models.MotorcycleModel, error) {
	model, err := s.create(ctx, req)
	return model, apperrors.Boundary(err, "failed to create motorcycle model")
}

func (s *MotorcycleModel) create(ctx context.Context, req CreateMotorcycleModelRequest) (*models.MotorcycleModel, error) {
	if models.NormalizeName(req.Name) == "" {
		return nil, apperrors.BadRequest("model name cannot be empty")
	}
	if _, err := s.brands.GetByID(ctx, req.BrandID); err != nil {
		return nil, notFoundAs(err, "brand", req.BrandID)
	}
	if err := s.ensureNameFree(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	model := &models.MotorcycleModel{BrandID: req.BrandID, Name: req.Name, IsActive: true}
	if req.IsActive != nil {
		model.IsActive = *req.IsActive
	}
	if err := s.repo.Create(ctx, model); err != nil {
		return nil, duplicateAs(err, "model", req.Name)
	}
	s.cache.Invalidate(ctx, cache.ModelInvalidation(model.ID, model.BrandID))
	return model, nil
}

// Update changes a model. Moving it to another brand invalidates the model lists of
// both brands.
func (s *MotorcycleModel) Update(ctx context.Context, id string, req UpdateMotorcycleModelRequest) (*models.MotorcycleModel, error) {
	model, err := s.update(ctx, id, req)
	return model, apperrors.Boundary(err, "failed to update motorcycle model")
}

func (s *MotorcycleModel) update(ctx context.Context, id string, req UpdateMotorcycleModelRequest) (*models.MotorcycleModel, error) {
	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "motorcycle model", id)
	}
	previousBrandID := model.BrandID

	if req.BrandID != nil && *req.BrandID != model.BrandID {
		brand, err := s.brands.GetByID(ctx, *req.BrandID)
		if err != nil {
			return nil, notFoundAs(err, "brand", *req.BrandID)
		}
		model.BrandID = brand.ID
		model.Brand = nil
	}
	if req.Name != nil {
		if models.NormalizeName(*req.Name) == "" {
			return nil, apperrors.BadRequest("model name cannot be empty")
		}
		if err := s.ensureNameFree(ctx, *req.Name, id); err != nil {
			return nil, err
		}
		model.Name = *req.Name
	}
	if req.IsActive != nil {
		model.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, model); err != nil {
		return nil, duplicateAs(err, "model", model.Name)
	}
	s.cache.Invalidate(ctx, cache.ModelInvalidation(id, previousBrandID, model.BrandID))
	return model, nil
}

// Delete removes a model
func (s *MotorcycleModel) Delete(ctx context.Context, id string) error {
	return apperrors.Boundary(s.delete(ctx, id), "failed to delete motorcycle model")
}

func (s *MotorcycleModel) delete(ctx context.Context, id string) error {
	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "motorcycle model", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundAs(err, "motorcycle model", id)
	}
	s.cache.Invalidate(ctx, cache.ModelInvalidation(id, model.BrandID))
	return nil
}

func (s *MotorcycleModel) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.GetByNormalizedName(ctx, name)
	if err != nil {
		return ignoreNotFound(err)
	}
	if existing.ID != selfID {
		return apperrors.BadRequest("model %q already exists", name)
	}
	return nil
}
