package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ahmedmegahedd/modera-nado/internal/domain"
	"github.com/ahmedmegahedd/modera-nado/internal/service"
	"github.com/go-chi/chi/v5"
)

// OrderService is the slice of the order core the handlers need.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, lines []service.OrderLine, shippingAddress, contactInfo map[string]interface{}) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
	ListAllOrders(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
}

type OrderHandler struct {
	service OrderService
	timeout time.Duration
}

func NewOrderHandler(service OrderService, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		service: service,
		timeout: timeout,
	}
}

type OrderLineDTO struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type PlaceOrderRequestDTO struct {
	Items           []OrderLineDTO         `json:"items"`
	ShippingAddress map[string]interface{} `json:"shipping_address"`
	ContactInfo     map[string]interface{} `json:"contact_info"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

// POST /api/v1/orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ProductID == "" {
			respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
			return
		}
		size, ok := domain.ParseSize(item.Size)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid_size", "size must be one of XS, S, M, L, XL, XXL")
			return
		}
		if item.Quantity < 1 {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
			return
		}
		lines = append(lines, service.OrderLine{
			ProductID: item.ProductID,
			Size:      size,
			Quantity:  item.Quantity,
		})
	}

	if req.ShippingAddress == nil {
		respondError(w, http.StatusBadRequest, "invalid_shipping_address", "shipping_address is required")
		return
	}
	if req.ContactInfo == nil {
		respondError(w, http.StatusBadRequest, "invalid_contact_info", "contact_info is required")
		return
	}

	order, err := h.service.PlaceOrder(ctx, userID, lines, req.ShippingAddress, req.ContactInfo)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.service.ListOrders(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

// GET /api/v1/orders/all (admin only)
func (h *OrderHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if !isAdminFromContext(r.Context()) {
		respondError(w, http.StatusForbidden, "forbidden", "admin access required")
		return
	}

	orders, err := h.service.ListAllOrders(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

// GET /api/v1/orders/{order_id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	order, err := h.service.GetOrder(ctx, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// Only the owner or an admin may read an order.
	if order.UserID != userID && !isAdminFromContext(r.Context()) {
		respondError(w, http.StatusForbidden, "forbidden", "access denied")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// PATCH /api/v1/orders/{order_id}/status (admin only)
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if !isAdminFromContext(r.Context()) {
		respondError(w, http.StatusForbidden, "forbidden", "admin access required")
		return
	}

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_status", "status must be one of pending, processing, shipped, delivered, cancelled")
		return
	}

	order, err := h.service.UpdateStatus(ctx, orderID, status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}
