package cache

import (
	"context"
	"errors"

	"github.com/ahmedmegahedd/modera-nado/internal/domain"
)

var ErrCacheMiss = errors.New("product not found in cache")

// ProductCache caches catalog reads. The order path only deletes entries
// (after a stock decrement); validation always reads the repository.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Set(ctx context.Context, productID string, product *domain.Product) error
	Delete(ctx context.Context, productID string) error
}
