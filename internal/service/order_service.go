package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderDTO is the flat projection of an order for external consumption.
type OrderDTO struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// OrderService defines the application-level order operations.
type OrderService interface {
	GetAll(ctx context.Context) ([]OrderDTO, error)
	Create(ctx context.Context, productID int64, quantity int) (*OrderDTO, error)
}

type orderService struct {
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	orderCreator domain.OrderService
	tx           repository.TxRunner
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	orderCreator domain.OrderService,
	tx repository.TxRunner,
) OrderService {
	return &orderService{
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		orderCreator: orderCreator,
		tx:           tx,
	}
}

// GetAll returns every order, newest first. No orders is an empty slice.
func (s *orderService) GetAll(ctx context.Context) ([]OrderDTO, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	dtos := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, toOrderDTO(o))
	}
	return dtos, nil
}

// Create places an order: load the product, let the domain service check
// stock and build the snapshot, then commit the new order and the decremented
// stock in a single transaction. A concurrent stock change since the read
// surfaces as domain.ErrConcurrencyConflict; the caller may safely re-read
// and resubmit, nothing is retried here.
func (s *orderService) Create(ctx context.Context, productID int64, quantity int) (*OrderDTO, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderCreator.CreateOrder(product, quantity)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.productRepo.WithTx(tx).Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	dto := toOrderDTO(order)
	return &dto, nil
}

func toOrderDTO(o *domain.Order) OrderDTO {
	return OrderDTO{
		ID:        o.ID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
	}
}
