package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an immutable snapshot of a placed order. Total is computed once at
// creation from the unit price in effect at that moment and never recalculated.
// Orders are history: there is no update or delete.
type Order struct {
	ID        int64           `json:"id" db:"id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Total     decimal.Decimal `json:"total" db:"total"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// NewOrder validates quantity and unit price and returns the order snapshot.
// It performs no stock check; that is OrderService's responsibility.
func NewOrder(productID int64, quantity int, unitPrice decimal.Decimal) (*Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return nil, negativePriceError(unitPrice)
	}

	return &Order{
		ProductID: productID,
		Quantity:  quantity,
		Total:     unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt: time.Now().UTC(),
	}, nil
}
