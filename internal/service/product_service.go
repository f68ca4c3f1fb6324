package service

import (
	"context"
	"fmt"

	"backoffice/internal/domain"
	"backoffice/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductDTO is the flat projection of a product for external consumption.
type ProductDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// ProductInput carries the four writable product fields for create and update.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

// ProductService defines the application-level product operations.
type ProductService interface {
	GetAll(ctx context.Context) ([]ProductDTO, error)
	GetByID(ctx context.Context, id int64) (*ProductDTO, error)
	Create(ctx context.Context, input ProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id int64, input ProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewProductService creates a new instance of ProductService.
func NewProductService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) ProductService {
	return &productService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// GetAll returns every product. An empty catalog is an empty slice, not an error.
func (s *productService) GetAll(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}
	return dtos, nil
}

// GetByID returns a single product or domain.ErrProductNotFound.
func (s *productService) GetByID(ctx context.Context, id int64) (*ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := toProductDTO(product)
	return &dto, nil
}

// Create rejects duplicate names (case-sensitive exact match), then validates
// and persists the new product.
func (s *productService) Create(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	exists, err := s.productRepo.ExistsByName(ctx, input.Name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check product name: %w", err)
	}
	if exists {
		return nil, domain.DuplicateError(input.Name)
	}

	product, err := domain.NewProduct(input.Name, input.Description, input.Price, input.Stock)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	dto := toProductDTO(product)
	return &dto, nil
}

// Update loads the product, rejects a name already held by a different
// product, applies the validated field replacement and persists it. A stale
// version surfaces as domain.ErrConcurrencyConflict.
func (s *productService) Update(ctx context.Context, id int64, input ProductInput) (*ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsByName(ctx, input.Name, &id)
	if err != nil {
		return nil, fmt.Errorf("failed to check product name: %w", err)
	}
	if exists {
		return nil, domain.DuplicateError(input.Name)
	}

	if err := product.Update(input.Name, input.Description, input.Price, input.Stock); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	dto := toProductDTO(product)
	return &dto, nil
}

// Delete removes a product unless an order references it (restrict-on-delete).
func (s *productService) Delete(ctx context.Context, id int64) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		return err
	}

	inUse, err := s.orderRepo.HasOrdersForProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check orders for product: %w", err)
	}
	if inUse {
		return domain.InUseError(id)
	}

	return s.productRepo.Delete(ctx, id)
}

func toProductDTO(p *domain.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
	}
}
