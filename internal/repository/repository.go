package repository

import (
	"context"
	"errors"

	"github.com/ahmedmegahedd/modera-nado/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common errors returned by the repositories
var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")

	// ErrStockConflict means a conditional decrement matched the product but
	// not a stock entry with enough quantity left. A concurrent order got
	// there first.
	ErrStockConflict = errors.New("insufficient stock at adjustment time")
)

// ProductRepository is the catalog read interface plus the single stock
// mutation this core performs.
type ProductRepository interface {
	// FindByID resolves a product by its hex identifier
	FindByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns the full catalog, newest first
	List(ctx context.Context) ([]domain.Product, error)

	// Insert stores a new product (admin surface and test seeding)
	Insert(ctx context.Context, product *domain.Product) error

	// DecrementStock atomically consumes quantity from the stock entry
	// matching size. The update only applies if that entry still holds at
	// least quantity; otherwise ErrStockConflict is returned and no entry
	// changes. Entries for other sizes are never touched.
	DecrementStock(ctx context.Context, id string, size domain.Size, quantity int) error
}

type OrderRepository interface {
	// Insert persists a new order and assigns its identifier
	Insert(ctx context.Context, order *domain.Order) error

	// FindByID resolves an order by its hex identifier
	FindByID(ctx context.Context, id string) (*domain.Order, error)

	// ListByUser returns a user's orders, newest first
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// ListAll returns every order, newest first (admin surface)
	ListAll(ctx context.Context) ([]domain.Order, error)

	// UpdateStatus overwrites the status field and returns the updated order
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)

	// SetStockPending replaces the order's parked stock adjustments.
	// An empty list clears the field.
	SetStockPending(ctx context.Context, id primitive.ObjectID, pending []domain.StockAdjustment) error

	// ListStockPending returns up to limit orders that still owe stock
	// adjustments, oldest first
	ListStockPending(ctx context.Context, limit int) ([]domain.Order, error)
}
