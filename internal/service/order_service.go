package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ahmedmegahedd/modera-nado/internal/cache"
	"github.com/ahmedmegahedd/modera-nado/internal/domain"
	"github.com/ahmedmegahedd/modera-nado/internal/events"
	"github.com/ahmedmegahedd/modera-nado/internal/repository"
)

// OrderLine is one requested line of a new order.
type OrderLine struct {
	ProductID string
	Size      domain.Size
	Quantity  int
}

type OrderService struct {
	products  repository.ProductRepository
	orders    repository.OrderRepository
	cache     cache.ProductCache
	publisher events.Publisher

	// strict rejects status transitions outside the fulfillment lifecycle.
	// Off by default: operators sometimes move orders backwards on purpose.
	strict bool
}

func NewOrderService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	productCache cache.ProductCache,
	publisher events.Publisher,
	strictTransitions bool,
) *OrderService {
	return &OrderService{
		products:  products,
		orders:    orders,
		cache:     productCache,
		publisher: publisher,
		strict:    strictTransitions,
	}
}

// PlaceOrder validates every requested line against live stock, persists the
// order with price snapshots, then decrements stock one line at a time.
//
// Validation holds a working copy of each product's per-size availability and
// decrements it as lines are accepted, so duplicate (product, size) lines are
// checked cumulatively against the pre-order quantity. Any validation failure
// aborts with no order and no stock change.
//
// Decrements happen only after the order is durably created. A decrement that
// loses a race against a concurrent order does not roll the order back: the
// owed adjustment is parked on the order for the reconciler and logged.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	userID string,
	lines []OrderLine,
	shippingAddress map[string]interface{},
	contactInfo map[string]interface{},
) (*domain.Order, error) {

	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	// Working availability per product and size, seeded from the ledger on
	// first lookup and drained as lines validate.
	resolved := make(map[string]*domain.Product)
	available := make(map[string]map[domain.Size]int)

	var total float64
	items := make([]domain.OrderItem, 0, len(lines))

	for _, line := range lines {
		product, ok := resolved[line.ProductID]
		if !ok {
			found, err := s.products.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return nil, &ProductNotFoundError{ProductID: line.ProductID}
				}
				return nil, err
			}
			product = found
			resolved[line.ProductID] = product

			sizes := make(map[domain.Size]int, len(product.Stock))
			for _, entry := range product.Stock {
				sizes[entry.Size] = entry.Quantity
			}
			available[line.ProductID] = sizes
		}

		remaining, ok := available[line.ProductID][line.Size]
		if !ok || remaining < line.Quantity {
			return nil, &InsufficientStockError{
				ProductID:   line.ProductID,
				ProductName: product.Name,
				Size:        line.Size,
			}
		}
		available[line.ProductID][line.Size] = remaining - line.Quantity

		total += product.Price * float64(line.Quantity)
		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
	}

	order := &domain.Order{
		UserID:          userID,
		Items:           items,
		Total:           total,
		ShippingAddress: shippingAddress,
		ContactInfo:     contactInfo,
		Status:          domain.OrderStatusPending,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}

	s.applyStockAdjustments(ctx, order)

	if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
		log.Printf("failed to publish order created event for %s: %v", order.ID.Hex(), err)
	}

	return order, nil
}

// applyStockAdjustments consumes stock for each line of a freshly created
// order. Each decrement is its own conditional update; the multi-line order
// is not all-or-nothing. Failures are parked on the order, never rolled back.
func (s *OrderService) applyStockAdjustments(ctx context.Context, order *domain.Order) {
	var pending []domain.StockAdjustment

	for _, item := range order.Items {
		productID := item.ProductID.Hex()
		err := s.products.DecrementStock(ctx, productID, item.Size, item.Quantity)
		if err != nil {
			log.Printf("stock adjustment failed for order %s, product %s size %s qty %d: %v",
				order.ID.Hex(), productID, item.Size, item.Quantity, err)
			pending = append(pending, domain.StockAdjustment{
				ProductID: item.ProductID,
				Size:      item.Size,
				Quantity:  item.Quantity,
			})
			continue
		}

		s.invalidateProduct(productID)
	}

	if len(pending) == 0 {
		return
	}

	order.StockPending = pending
	if err := s.orders.SetStockPending(ctx, order.ID, pending); err != nil {
		log.Printf("failed to record pending adjustments for order %s: %v", order.ID.Hex(), err)
	}
}

// UpdateStatus overwrites an order's status. By default any enumerated value
// is accepted for an existing order; with strict transitions on, moves the
// lifecycle does not admit fail with InvalidTransitionError.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	var from domain.OrderStatus

	if s.strict {
		current, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		from = current.Status
		if !from.CanTransitionTo(status) {
			return nil, &InvalidTransitionError{From: from, To: status}
		}
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishStatusChanged(ctx, order, from); err != nil {
		log.Printf("failed to publish status change event for %s: %v", order.ID.Hex(), err)
	}

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}

func (s *OrderService) invalidateProduct(productID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, productID); err != nil {
		log.Printf("cache invalidate error: %v \n", err)
	}
}
