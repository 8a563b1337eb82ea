package mocks

import (
	"context"
	"time"

	"salesorder-service/internal/domain"
	"salesorder-service/internal/infra"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

type MockExtractionClient struct {
	mock.Mock
}

type MockMatchingClient struct {
	mock.Mock
}

type MockCatalogReader struct {
	mock.Mock
}

type MockFileStore struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockCache struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

func (m *MockExtractionClient) Extract(ctx context.Context, filename string, content []byte) ([]map[string]any, error) {
	args := m.Called(ctx, filename, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

func (m *MockMatchingClient) MatchBatch(ctx context.Context, queries []string) (map[string][]infra.MatchCandidate, error) {
	args := m.Called(ctx, queries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]infra.MatchCandidate), args.Error(1)
}

func (m *MockCatalogReader) List(ctx context.Context) ([]domain.CatalogItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogReader) FindByName(ctx context.Context, name string) (*domain.CatalogItem, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogReader) FindByID(ctx context.Context, id string) (*domain.CatalogItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogItem), args.Error(1)
}

func (m *MockFileStore) Save(name string, content []byte) error {
	args := m.Called(name, content)
	return args.Error(0)
}

func (m *MockFileStore) Remove(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockFileStore) Path(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *MockCache) GetJSON(ctx context.Context, key string, dest any) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindOrderByID(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveLineItems(ctx context.Context, items []*domain.LineItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) ListLineItems(ctx context.Context, orderID uint64) ([]domain.LineItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockOrderRepository) FindLineItem(ctx context.Context, orderID, lineItemID uint64) (*domain.LineItem, error) {
	args := m.Called(ctx, orderID, lineItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LineItem), args.Error(1)
}

func (m *MockOrderRepository) UpdateLineItem(ctx context.Context, item *domain.LineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
