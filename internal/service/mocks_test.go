package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/ahmedmegahedd/modera-nado/internal/cache"
	"github.com/ahmedmegahedd/modera-nado/internal/domain"
	"github.com/ahmedmegahedd/modera-nado/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type decrementCall struct {
	ProductID string
	Size      domain.Size
	Quantity  int
}

// mockProductRepo keeps products in memory and applies decrements with the
// same quantity guard the Mongo repository enforces.
type mockProductRepo struct {
	m          sync.Mutex
	products   map[string]*domain.Product
	findCalls  int
	decrements []decrementCall

	// decrementErr forces the next decrement for product+size to fail
	decrementErr map[string]error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		products:     make(map[string]*domain.Product),
		decrementErr: make(map[string]error),
	}
}

func decrementKey(productID string, size domain.Size) string {
	return fmt.Sprintf("%s/%s", productID, size)
}

func (m *mockProductRepo) add(p *domain.Product) {
	m.m.Lock()
	defer m.m.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.products[p.ID.Hex()] = p
}

func (m *mockProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.findCalls++

	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	// Return a copy so callers see a point-in-time snapshot.
	cp := *p
	cp.Stock = append([]domain.StockEntry(nil), p.Stock...)
	return &cp, nil
}

func (m *mockProductRepo) List(context.Context) ([]domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProductRepo) Insert(_ context.Context, p *domain.Product) error {
	m.add(p)
	return nil
}

func (m *mockProductRepo) DecrementStock(_ context.Context, id string, size domain.Size, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()

	if err, ok := m.decrementErr[decrementKey(id, size)]; ok {
		return err
	}

	p, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}

	for i, entry := range p.Stock {
		if entry.Size == size {
			if entry.Quantity < quantity {
				return repository.ErrStockConflict
			}
			p.Stock[i].Quantity -= quantity
			m.decrements = append(m.decrements, decrementCall{ProductID: id, Size: size, Quantity: quantity})
			return nil
		}
	}

	return repository.ErrStockConflict
}

type mockOrderRepo struct {
	m         sync.Mutex
	orders    map[string]*domain.Order
	insertErr error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*domain.Order)}
}

func (m *mockOrderRepo) Insert(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	cp := *order
	m.orders[order.ID.Hex()] = &cp
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	var out []domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListAll(context.Context) ([]domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	var out []domain.Order
	for _, order := range m.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	order.Status = status
	cp := *order
	return &cp, nil
}

func (m *mockOrderRepo) SetStockPending(_ context.Context, id primitive.ObjectID, pending []domain.StockAdjustment) error {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.orders[id.Hex()]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.StockPending = pending
	return nil
}

func (m *mockOrderRepo) ListStockPending(_ context.Context, limit int) ([]domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	var out []domain.Order
	for _, order := range m.orders {
		if len(order.StockPending) > 0 && len(out) < limit {
			out = append(out, *order)
		}
	}
	return out, nil
}

type mockCache struct {
	m        sync.Mutex
	products map[string]*domain.Product
	deletes  []string
}

func newMockCache() *mockCache {
	return &mockCache{products: make(map[string]*domain.Product)}
}

func (m *mockCache) Get(_ context.Context, productID string) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return p, nil
}

func (m *mockCache) Set(_ context.Context, productID string, p *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[productID] = p
	return nil
}

func (m *mockCache) Delete(_ context.Context, productID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.products, productID)
	m.deletes = append(m.deletes, productID)
	return nil
}

type statusChange struct {
	OrderID string
	From    domain.OrderStatus
	To      domain.OrderStatus
}

type mockPublisher struct {
	m             sync.Mutex
	created       []string
	statusChanges []statusChange
	err           error
}

func (m *mockPublisher) PublishOrderCreated(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, order.ID.Hex())
	return nil
}

func (m *mockPublisher) PublishStatusChanged(_ context.Context, order *domain.Order, from domain.OrderStatus) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.statusChanges = append(m.statusChanges, statusChange{
		OrderID: order.ID.Hex(),
		From:    from,
		To:      order.Status,
	})
	return nil
}
