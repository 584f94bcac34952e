package service

import (
	"context"

	"salonbook/internal/domain"
	"salonbook/internal/models"
)

// CatalogService exposes the service and provider catalog.
type CatalogService struct {
	repo domain.Repository
}

func NewCatalogService(repo domain.Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) GetService(ctx context.Context, id int64) (*models.Service, error) {
	return s.repo.GetService(ctx, id)
}

func (s *CatalogService) ListServices(ctx context.Context) ([]*models.Service, error) {
	return s.repo.ListServices(ctx)
}

func (s *CatalogService) GetProvider(ctx context.Context, id int64) (*models.ServiceProvider, error) {
	return s.repo.GetProvider(ctx, id)
}

func (s *CatalogService) ListProviders(ctx context.Context) ([]*models.ServiceProvider, error) {
	return s.repo.ListProviders(ctx)
}

func (s *CatalogService) ProvidersForService(ctx context.Context, serviceID int64) ([]*models.ServiceProvider, error) {
	return s.repo.GetProvidersForService(ctx, serviceID)
}

func (s *CatalogService) ProviderServices(ctx context.Context, providerID int64) ([]*models.Service, error) {
	return s.repo.GetProviderServices(ctx, providerID)
}
