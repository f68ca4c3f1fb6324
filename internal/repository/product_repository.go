package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"backoffice/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Querier is satisfied by *sql.DB and *sql.Tx so the same repository code runs
// inside and outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error)
	WithTx(tx *sql.Tx) ProductRepository
}

type productRepository struct {
	db Querier
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db Querier) ProductRepository {
	return &productRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *productRepository) WithTx(tx *sql.Tx) ProductRepository {
	return &productRepository{db: tx}
}

// Create inserts a new product; storage assigns the ID and the initial version.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, stock)
		VALUES ($1, $2, $3, $4)
		RETURNING id, version
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
	).Scan(&product.ID, &product.Version)

	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return domain.DuplicateError(product.Name)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update writes the product back with an optimistic version check. A row that
// was changed since it was read reports domain.ErrConcurrencyConflict.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $3, description = $4, price = $5, stock = $6, version = version + 1
		WHERE id = $1 AND version = $2
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Version,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
	)

	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return domain.DuplicateError(product.Name)
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Either the row is gone or the version is stale.
		if _, err := r.GetByID(ctx, product.ID); err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return domain.NotFoundError(product.ID)
			}
			return err
		}
		return domain.ErrConcurrencyConflict
	}

	product.Version++
	return nil
}

// Delete removes a product. The RESTRICT foreign key on orders is the storage
// backstop for the product-in-use rule.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return domain.InUseError(id)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NotFoundError(id)
	}

	return nil
}

// GetByID retrieves a product by ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, stock, version
		FROM products
		WHERE id = $1
	`

	return r.scanProduct(r.db.QueryRowContext(ctx, query, id), id)
}

// GetByName retrieves a product by its exact, case-sensitive name.
func (r *productRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, stock, version
		FROM products
		WHERE name = $1
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.Version,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by name: %w", err)
	}

	return product, nil
}

// GetAll retrieves every product in the catalog.
func (r *productRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, name, description, price, stock, version
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Stock,
			&product.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ExistsByName reports whether a product holds the exact name, optionally
// ignoring one ID (the product being updated).
func (r *productRepository) ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE name = $1)`
	args := []any{name}

	if excludeID != nil {
		query = `SELECT EXISTS (SELECT 1 FROM products WHERE name = $1 AND id <> $2)`
		args = append(args, *excludeID)
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check product name: %w", err)
	}

	return exists, nil
}

func (r *productRepository) scanProduct(row *sql.Row, id int64) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.Version,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError(id)
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
