package service

import (
	"context"
	"errors"
	"log"

	"github.com/ahmedmegahedd/modera-nado/internal/cache"
	"github.com/ahmedmegahedd/modera-nado/internal/domain"
	"github.com/ahmedmegahedd/modera-nado/internal/repository"
	"golang.org/x/sync/singleflight"
)

// CatalogService is the read path over the product catalog. Reads go through
// the cache; order validation bypasses it and reads the repository directly.
type CatalogService struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCatalogService(repo repository.ProductRepository, cache cache.ProductCache) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(productID, func() (interface{}, error) {

		product, err := s.cache.Get(ctx, productID)
		if err == nil {
			return product, nil // product is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		product, errGet := s.repo.FindByID(ctx, productID)
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), productID, product)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}
