package service

import (
	"errors"
	"fmt"

	"github.com/ahmedmegahedd/modera-nado/internal/domain"
)

var ErrEmptyOrder = errors.New("order must contain at least one item")

// ProductNotFoundError aborts order creation before any side effect.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError aborts order creation before any side effect. The
// message names the product and size so the shopper knows which line failed.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Size        domain.Size
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s in size %s", e.ProductName, e.Size)
}

// InvalidTransitionError is only returned when strict status transitions are
// enabled; the default behavior overwrites unconditionally.
type InvalidTransitionError struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("illegal order status transition from %s to %s", e.From, e.To)
}
