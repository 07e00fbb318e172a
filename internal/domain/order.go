package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus validates a raw status string against the enumeration.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, status := range orderStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether the linear fulfillment lifecycle admits a
// move from s to target. Same-status transitions are allowed so that status
// updates stay idempotent; cancellation is allowed from any non-terminal
// state. Only enforced when strict transitions are enabled.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s == target {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing
	case OrderStatusProcessing:
		return target == OrderStatusShipped
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	default:
		return false
	}
}

// OrderItem is a line of an order. ProductName and UnitPrice are snapshots
// taken at order time and are never recomputed from the live catalog.
type OrderItem struct {
	ProductID   primitive.ObjectID `bson:"product_id" json:"product_id"`
	ProductName string             `bson:"product_name" json:"product_name"`
	Size        Size               `bson:"size" json:"size"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	UnitPrice   float64            `bson:"unit_price" json:"unit_price"`
}

// StockAdjustment is a stock decrement owed by an order. Adjustments that
// lose a race against a concurrent order at placement time are parked on the
// order for the reconciler to retry.
type StockAdjustment struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Size      Size               `bson:"size" json:"size"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

type Order struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID          string                 `bson:"user_id" json:"user_id"`
	Items           []OrderItem            `bson:"items" json:"items"`
	Total           float64                `bson:"total" json:"total"`
	ShippingAddress map[string]interface{} `bson:"shipping_address" json:"shipping_address"`
	ContactInfo     map[string]interface{} `bson:"contact_info" json:"contact_info"`
	Status          OrderStatus            `bson:"status" json:"status"`
	StockPending    []StockAdjustment      `bson:"stock_pending,omitempty" json:"stock_pending,omitempty"`
	CreatedAt       time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time              `bson:"updated_at" json:"updated_at"`
}
