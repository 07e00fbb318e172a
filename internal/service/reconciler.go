package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ahmedmegahedd/modera-nado/internal/domain"
	"github.com/ahmedmegahedd/modera-nado/internal/repository"
)

const (
	// DefaultSweepInterval is how often the reconciler looks for orders that
	// still owe stock adjustments.
	DefaultSweepInterval = 30 * time.Second

	// DefaultSweepBatch caps how many such orders one sweep picks up.
	DefaultSweepBatch = 100
)

// Reconciler retries stock adjustments that lost a race at order placement.
// An adjustment that keeps failing on the quantity guard stays parked and is
// logged each sweep for operator attention; it is never forced through.
type Reconciler struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	interval time.Duration
	batch    int
}

func NewReconciler(orders repository.OrderRepository, products repository.ProductRepository) *Reconciler {
	return &Reconciler{
		orders:   orders,
		products: products,
		interval: DefaultSweepInterval,
		batch:    DefaultSweepBatch,
	}
}

func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Sweep runs one reconciliation pass.
func (r *Reconciler) Sweep(ctx context.Context) {
	orders, err := r.orders.ListStockPending(ctx, r.batch)
	if err != nil {
		log.Printf("failed to list orders with pending adjustments: %v", err)
		return
	}

	for _, order := range orders {
		r.reconcileOrder(ctx, &order)
	}
}

func (r *Reconciler) reconcileOrder(ctx context.Context, order *domain.Order) {
	var remaining []domain.StockAdjustment

	for _, adj := range order.StockPending {
		productID := adj.ProductID.Hex()
		err := r.products.DecrementStock(ctx, productID, adj.Size, adj.Quantity)
		switch {
		case err == nil:
			log.Printf("reconciled stock for order %s: product %s size %s qty %d",
				order.ID.Hex(), productID, adj.Size, adj.Quantity)
		case errors.Is(err, repository.ErrStockConflict):
			log.Printf("order %s still owes stock: product %s size %s qty %d",
				order.ID.Hex(), productID, adj.Size, adj.Quantity)
			remaining = append(remaining, adj)
		case errors.Is(err, repository.ErrProductNotFound):
			// Product was removed from the catalog; nothing left to decrement.
			log.Printf("dropping adjustment for order %s: product %s no longer exists",
				order.ID.Hex(), productID)
		default:
			log.Printf("failed to reconcile order %s: %v", order.ID.Hex(), err)
			remaining = append(remaining, adj)
		}
	}

	if len(remaining) == len(order.StockPending) {
		return
	}

	if err := r.orders.SetStockPending(ctx, order.ID, remaining); err != nil {
		log.Printf("failed to update pending adjustments for order %s: %v", order.ID.Hex(), err)
	}
}
