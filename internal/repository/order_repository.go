package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"backoffice/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access. Orders are
// immutable history: there is no update or delete.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	HasOrdersForProduct(ctx context.Context, productID int64) (bool, error)
	WithTx(tx *sql.Tx) OrderRepository
}

type orderRepository struct {
	db Querier
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db Querier) OrderRepository {
	return &orderRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *orderRepository) WithTx(tx *sql.Tx) OrderRepository {
	return &orderRepository{db: tx}
}

// Create inserts a new order; storage assigns the ID.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (product_id, quantity, total, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		order.ProductID,
		order.Quantity,
		order.Total,
		order.CreatedAt,
	).Scan(&order.ID)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by ID.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT id, product_id, quantity, total, created_at
		FROM orders
		WHERE id = $1
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.ProductID,
		&order.Quantity,
		&order.Total,
		&order.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return order, nil
}

// GetAll retrieves every order, newest first. The id tiebreaker keeps the
// ordering stable when timestamps collide.
func (r *orderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT id, product_id, quantity, total, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		err := rows.Scan(
			&order.ID,
			&order.ProductID,
			&order.Quantity,
			&order.Total,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// HasOrdersForProduct reports whether any order references the product.
func (r *orderRepository) HasOrdersForProduct(ctx context.Context, productID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM orders WHERE product_id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check orders for product: %w", err)
	}

	return exists, nil
}
