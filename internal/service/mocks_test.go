package service

import (
	"context"
	"database/sql"
	"sort"

	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

// Mock repositories for testing

type mockProductRepository struct {
	products  map[int64]*domain.Product
	nextID    int64
	updateErr error // injected failure for Update, e.g. a concurrency conflict
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[int64]*domain.Product),
		nextID:   1,
	}
}

func (m *mockProductRepository) WithTx(tx *sql.Tx) repository.ProductRepository {
	return m
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	product.ID = m.nextID
	product.Version = 1
	m.nextID++

	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, exists := m.products[product.ID]; !exists {
		return domain.NotFoundError(product.ID)
	}

	product.Version++
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	if _, exists := m.products[id]; !exists {
		return domain.NotFoundError(id)
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, domain.NotFoundError(id)
	}
	clone := *product
	return &clone, nil
}

func (m *mockProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	for _, product := range m.products {
		if product.Name == name {
			clone := *product
			return &clone, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(m.products))
	for _, product := range m.products {
		clone := *product
		products = append(products, &clone)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *mockProductRepository) ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error) {
	for _, product := range m.products {
		if product.Name != name {
			continue
		}
		if excludeID != nil && product.ID == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

type mockOrderRepository struct {
	orders []*domain.Order
	nextID int64
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{nextID: 1}
}

func (m *mockOrderRepository) WithTx(tx *sql.Tx) repository.OrderRepository {
	return m
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	order.ID = m.nextID
	m.nextID++

	clone := *order
	m.orders = append(m.orders, &clone)
	return nil
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	for _, order := range m.orders {
		if order.ID == id {
			clone := *order
			return &clone, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(m.orders))
	for _, order := range m.orders {
		clone := *order
		orders = append(orders, &clone)
	}
	// Newest first, matching the SQL ordering.
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *mockOrderRepository) HasOrdersForProduct(ctx context.Context, productID int64) (bool, error) {
	for _, order := range m.orders {
		if order.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// mockTxRunner runs the callback without a real transaction.
type mockTxRunner struct {
	calls int
}

func (m *mockTxRunner) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	m.calls++
	return fn(nil)
}
