package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain failure taxonomy. Callers classify with errors.Is; the wrapped
// messages carry the context the boundary reports to clients.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrProductNotFound     = errors.New("product not found")
	ErrDuplicateProduct    = errors.New("product with this name already exists")
	ErrProductInUse        = errors.New("product has existing orders and cannot be deleted")
	ErrConcurrencyConflict = errors.New("the product was modified by another transaction, please retry")
)

func invalidInputError(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func insufficientStockError(name string, available, requested int) error {
	return fmt.Errorf("%w for product %s: available %d, requested %d", ErrInsufficientStock, name, available, requested)
}

// NotFoundError reports a missing product by ID.
func NotFoundError(id int64) error {
	return fmt.Errorf("%w: id %d", ErrProductNotFound, id)
}

// DuplicateError reports a name uniqueness violation.
func DuplicateError(name string) error {
	return fmt.Errorf("%w: %s", ErrDuplicateProduct, name)
}

// InUseError reports a deletion blocked by referencing orders.
func InUseError(id int64) error {
	return fmt.Errorf("%w: id %d", ErrProductInUse, id)
}

func negativePriceError(price decimal.Decimal) error {
	return invalidInputError(fmt.Sprintf("price cannot be negative, got %s", price))
}
