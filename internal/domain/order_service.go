package domain

// OrderService is the stateless domain service that creates an order against a
// product's current stock. It is the only caller of NewOrder.
type OrderService interface {
	CreateOrder(product *Product, quantity int) (*Order, error)
}

type orderService struct{}

// NewOrderService creates a new instance of OrderService.
func NewOrderService() OrderService {
	return &orderService{}
}

// CreateOrder enforces the no-oversell invariant, builds the order from the
// price in effect at the moment of the check, then decrements stock. It
// performs no persistence: the caller must commit the order and the updated
// product in a single transaction.
func (s *orderService) CreateOrder(product *Product, quantity int) (*Order, error) {
	if product == nil {
		return nil, invalidInputError("product is required")
	}

	if !product.HasSufficientStock(quantity) {
		return nil, insufficientStockError(product.Name, product.Stock, quantity)
	}

	order, err := NewOrder(product.ID, quantity, product.Price)
	if err != nil {
		return nil, err
	}

	if err := product.DecreaseStock(quantity); err != nil {
		return nil, err
	}

	return order, nil
}
