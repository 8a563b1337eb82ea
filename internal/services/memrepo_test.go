package services

import (
	"context"
	"sort"
	"sync"

	"salesorder-service/internal/domain"
	"salesorder-service/internal/repository"
)

// memRepo is an in-memory OrderRepository for round-trip tests.
type memRepo struct {
	mu     sync.Mutex
	nextID uint64
	orders map[uint64]domain.Order
	items  map[uint64]domain.LineItem
}

var _ repository.OrderRepository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		orders: make(map[uint64]domain.Order),
		items:  make(map[uint64]domain.LineItem),
	}
}

func (r *memRepo) id() uint64 {
	r.nextID++
	return r.nextID
}

func (r *memRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.ID = r.id()
	r.orders[order.ID] = *order
	return nil
}

func (r *memRepo) FindOrderByID(_ context.Context, id uint64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *memRepo) ListOrders(_ context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memRepo) UpdateOrderStatus(_ context.Context, id uint64, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	r.orders[id] = o
	return nil
}

func (r *memRepo) SaveLineItems(_ context.Context, items []*domain.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, li := range items {
		li.ID = r.id()
		r.items[li.ID] = *li
	}
	return nil
}

func (r *memRepo) ListLineItems(_ context.Context, orderID uint64) ([]domain.LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.LineItem{}
	for _, li := range r.items {
		if li.SalesOrderID == orderID {
			out = append(out, li)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) FindLineItem(_ context.Context, orderID, lineItemID uint64) (*domain.LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	li, ok := r.items[lineItemID]
	if !ok || li.SalesOrderID != orderID {
		return nil, nil
	}
	return &li, nil
}

func (r *memRepo) UpdateLineItem(_ context.Context, item *domain.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrLineItemNotFound
	}
	r.items[item.ID] = *item
	return nil
}
