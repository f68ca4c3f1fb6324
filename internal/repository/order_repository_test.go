package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"backoffice/internal/domain"

	"github.com/shopspring/decimal"
)

func TestOrderCreateAndGet(t *testing.T) {
	resetTables(t)
	productRepo := NewProductRepository(testDB)
	orderRepo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := mustNewProduct(t, "Laptop", 1500, 10)
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("Create product: %v", err)
	}

	order, err := domain.NewOrder(product.ID, 3, product.Price)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	if err := orderRepo.Create(ctx, order); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.ID == 0 {
		t.Fatal("storage did not assign an order id")
	}

	retrieved, err := orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if retrieved.ProductID != product.ID || retrieved.Quantity != 3 {
		t.Errorf("order fields wrong: %+v", retrieved)
	}
	if !retrieved.Total.Equal(decimal.NewFromInt(4500)) {
		t.Errorf("total = %s, want 4500", retrieved.Total)
	}
	// Postgres keeps microseconds, Go nanoseconds.
	if drift := retrieved.CreatedAt.Sub(order.CreatedAt); drift < -time.Millisecond || drift > time.Millisecond {
		t.Errorf("created_at = %v, want %v", retrieved.CreatedAt, order.CreatedAt)
	}

	_, err = orderRepo.GetByID(ctx, 404)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
}

func TestOrderGetAllNewestFirst(t *testing.T) {
	resetTables(t)
	productRepo := NewProductRepository(testDB)
	orderRepo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := mustNewProduct(t, "Laptop", 1500, 100)
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("Create product: %v", err)
	}

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 3; i++ {
		order, err := domain.NewOrder(product.ID, i+1, product.Price)
		if err != nil {
			t.Fatalf("NewOrder: %v", err)
		}
		order.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := orderRepo.Create(ctx, order); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	orders, err := orderRepo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	for i := 1; i < len(orders); i++ {
		if orders[i].CreatedAt.After(orders[i-1].CreatedAt) {
			t.Errorf("orders not newest-first: %v before %v", orders[i-1].CreatedAt, orders[i].CreatedAt)
		}
	}

	// Identical timestamps fall back to the id for a stable order.
	tie1, _ := domain.NewOrder(product.ID, 1, product.Price)
	tie2, _ := domain.NewOrder(product.ID, 2, product.Price)
	tieTime := base.Add(time.Hour)
	tie1.CreatedAt = tieTime
	tie2.CreatedAt = tieTime
	if err := orderRepo.Create(ctx, tie1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := orderRepo.Create(ctx, tie2); err != nil {
		t.Fatalf("Create: %v", err)
	}

	orders, err = orderRepo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if orders[0].ID != tie2.ID || orders[1].ID != tie1.ID {
		t.Errorf("tied timestamps not broken by id: got %d before %d", orders[0].ID, orders[1].ID)
	}
}

func TestHasOrdersForProduct(t *testing.T) {
	resetTables(t)
	productRepo := NewProductRepository(testDB)
	orderRepo := NewOrderRepository(testDB)
	ctx := context.Background()

	withOrder := mustNewProduct(t, "Laptop", 1500, 10)
	withoutOrder := mustNewProduct(t, "Mouse", 25, 10)
	for _, p := range []*domain.Product{withOrder, withoutOrder} {
		if err := productRepo.Create(ctx, p); err != nil {
			t.Fatalf("Create product: %v", err)
		}
	}

	order, err := domain.NewOrder(withOrder.ID, 1, withOrder.Price)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	if err := orderRepo.Create(ctx, order); err != nil {
		t.Fatalf("Create order: %v", err)
	}

	has, err := orderRepo.HasOrdersForProduct(ctx, withOrder.ID)
	if err != nil || !has {
		t.Fatalf("HasOrdersForProduct = %v, %v; want true", has, err)
	}

	has, err = orderRepo.HasOrdersForProduct(ctx, withoutOrder.ID)
	if err != nil || has {
		t.Fatalf("HasOrdersForProduct = %v, %v; want false", has, err)
	}
}

// A failed transaction leaves neither the order nor the stock change behind.
func TestTxRunnerRollsBackOnError(t *testing.T) {
	resetTables(t)
	productRepo := NewProductRepository(testDB)
	orderRepo := NewOrderRepository(testDB)
	runner := NewTxRunner(testDB)
	ctx := context.Background()

	product := mustNewProduct(t, "Laptop", 1500, 10)
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("Create product: %v", err)
	}

	order, err := domain.NewOrder(product.ID, 3, product.Price)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	if err := product.DecreaseStock(3); err != nil {
		t.Fatalf("DecreaseStock: %v", err)
	}

	failure := errors.New("forced failure")
	err = runner.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		if err := productRepo.WithTx(tx).Update(ctx, product); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected the forced failure, got: %v", err)
	}

	orders, err := orderRepo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("rolled-back order is visible")
	}

	retrieved, err := productRepo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if retrieved.Stock != 10 || retrieved.Version != 1 {
		t.Errorf("rolled-back stock change is visible: %+v", retrieved)
	}
}

// The happy path commits both writes atomically.
func TestTxRunnerCommits(t *testing.T) {
	resetTables(t)
	productRepo := NewProductRepository(testDB)
	orderRepo := NewOrderRepository(testDB)
	runner := NewTxRunner(testDB)
	ctx := context.Background()

	product := mustNewProduct(t, "Laptop", 1500, 10)
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("Create product: %v", err)
	}

	order, err := domain.NewOrder(product.ID, 3, product.Price)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	if err := product.DecreaseStock(3); err != nil {
		t.Fatalf("DecreaseStock: %v", err)
	}

	err = runner.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return productRepo.WithTx(tx).Update(ctx, product)
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	orders, err := orderRepo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}

	retrieved, err := productRepo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if retrieved.Stock != 7 || retrieved.Version != 2 {
		t.Errorf("committed write wrong: %+v", retrieved)
	}
}
