package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MaxNameLength        = 200
	MaxDescriptionLength = 1000
)

// Product is a catalog item. ID and Version are assigned by storage; Version
// is the optimistic-concurrency token the repository checks on every update.
// Stock only moves through DecreaseStock/IncreaseStock, never by assignment.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	Version     int64           `json:"-" db:"version"`
}

// NewProduct validates all fields and returns a product ready to be persisted.
func NewProduct(name, description string, price decimal.Decimal, stock int) (*Product, error) {
	if err := validateProductFields(name, description, price, stock); err != nil {
		return nil, err
	}

	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
	}, nil
}

// Update replaces all four fields after validating every one of them.
// If any field is invalid the product is left untouched.
func (p *Product) Update(name, description string, price decimal.Decimal, stock int) error {
	if err := validateProductFields(name, description, price, stock); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.Stock = stock
	return nil
}

// DecreaseStock removes quantity units from stock. It never lets stock go negative.
func (p *Product) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if p.Stock < quantity {
		return insufficientStockError(p.Name, p.Stock, quantity)
	}

	p.Stock -= quantity
	return nil
}

// IncreaseStock adds quantity units to stock.
func (p *Product) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	p.Stock += quantity
	return nil
}

// HasSufficientStock reports whether stock covers quantity. Pure pre-check:
// no mutation, no sign validation.
func (p *Product) HasSufficientStock(quantity int) bool {
	return p.Stock >= quantity
}

func validateProductFields(name, description string, price decimal.Decimal, stock int) error {
	if strings.TrimSpace(name) == "" {
		return invalidInputError("product name is required")
	}
	if len(name) > MaxNameLength {
		return invalidInputError(fmt.Sprintf("product name exceeds %d characters", MaxNameLength))
	}
	if strings.TrimSpace(description) == "" {
		return invalidInputError("product description is required")
	}
	if len(description) > MaxDescriptionLength {
		return invalidInputError(fmt.Sprintf("product description exceeds %d characters", MaxDescriptionLength))
	}
	if price.IsNegative() {
		return negativePriceError(price)
	}
	if stock < 0 {
		return invalidInputError(fmt.Sprintf("product stock cannot be negative, got %d", stock))
	}
	return nil
}
