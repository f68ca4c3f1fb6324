package transport

import (
	"net/http"

	"backoffice/internal/middleware"
	"backoffice/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateOrderRequest represents the order placement payload
type CreateOrderRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
	})
}

// List returns all orders, newest first
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.GetAll(r.Context())
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Create places an order against current stock
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !decodeAndValidate(w, r, h.logger, &req) {
		return
	}

	order, err := h.orderService.Create(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("product_id", order.ProductID),
		zap.Int("quantity", order.Quantity),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}
