package services

import (
	"context"
	"time"

	"github.com/motorepair/admin/internal/apperrors"
	"github.com/motorepair/admin/internal/cache"
	"github.com/motorepair/admin/internal/db/models"
)

// CreateServiceRequest adds a priced service to the catalog
type CreateServiceRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// UpdateServiceRequest changes a catalog service. Nil fields are kept.
// Price changes never reprice existing jobs.
type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// ServiceCatalog handles the catalog of services jobs are priced from
type ServiceCatalog struct {
	repo  ServiceRepository
	cache *cache.Service
	ttl   time.Duration
}

// NewServiceCatalog creates a new instance of ServiceCatalog
func NewServiceCatalog(repo ServiceRepository, cacheService *cache.Service, ttl time.Duration) *ServiceCatalog {
	return &ServiceCatalog{repo: repo, cache: cacheService, ttl: ttl}
}

// List returns the catalog, optionally only the active services
func (s *ServiceCatalog) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	key := cache.ServicesAllKey()
	if activeOnly {
		key = cache.ServicesActiveKey()
	}
	services, err := cache.GetOrSet(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]models.Service, error) {
		return s.repo.List(ctx, activeOnly, allCatalogRows)
	})
	return services, apperrors.Boundary(err, "failed to list services")
}

// Get returns a catalog service
func (s *ServiceCatalog) Get(ctx context.Context, id string) (*models.Service, error) {
	service, err := cache.GetOrSet(ctx, s.cache, cache.ServiceKey(id), s.ttl, func(ctx context.Context) (*models.Service, error) {
		service, err := s.repo.GetByID(ctx, id)
		return service, notFoundAs(err, "service", id)
	})
	return service, apperrors.Boundary(err, "failed to get service")
}

// Create adds a service to the catalog
func (s *ServiceCatalog) Create(ctx context.Context, req CreateServiceRequest) (*models.Service, error) {
	service := &models.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       roundMoney(req.Price),
		IsActive:    true,
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}
	if err := service.Validate(); err != nil {
		return nil, apperrors.BadRequest("%s", err.Error())
	}

	if err := s.repo.Create(ctx, service); err != nil {
		return nil, apperrors.Boundary(err, "failed to create service")
	}
	s.cache.Invalidate(ctx, cache.ServiceInvalidation(service.ID))
	return service, nil
}

// Update changes a catalog service
func (s *ServiceCatalog) Update(ctx context.Context, id string, req UpdateServiceRequest) (*models.Service, error) {
	service, err := s.update(ctx, id, req)
	return service, apperrors.Boundary(err, "failed to update service")
}

func (s *ServiceCatalog) update(ctx context.Context, id string, req UpdateServiceRequest) (*models.Service, error) {
	service, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "service", id)
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		service.Price = roundMoney(*req.Price)
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}
	if err := service.Validate(); err != nil {
		return nil, apperrors.BadRequest("%s", err.Error())
	}

	if err := s.repo.Update(ctx, service); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.ServiceInvalidation(id))
	return service, nil
}

// Delete removes a service no repair job uses. Used services can only be deactivated.
func (s *ServiceCatalog) Delete(ctx context.Context, id string) error {
	return apperrors.Boundary(s.delete(ctx, id), "failed to delete service")
}

func (s *ServiceCatalog) delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return notFoundAs(err, "service", id)
	}

	used, err := s.repo.CountJobs(ctx, id)
	if err != nil {
		return err
	}
	if used > 0 {
		return apperrors.BadRequest("service %s is used by %d repair jobs, deactivate it instead", id, used)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundAs(err, "service", id)
	}
	s.cache.Invalidate(ctx, cache.ServiceInvalidation(id))
	return nil
}
