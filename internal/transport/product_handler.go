package transport

import (
	"errors"
	"net/http"
	"strconv"

	"backoffice/internal/domain"
	"backoffice/internal/middleware"
	"backoffice/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func init() {
	// The admin UI expects price and total as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// CreateProductRequest represents the create/update product payload. Price
// sign is validated by the domain, not by a tag: decimal.Decimal is opaque to
// the validator.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"required,max=1000"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns the whole catalog
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.GetAll(r.Context())
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetByID returns a single product
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create adds a new product to the catalog
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeAndValidate(w, r, h.logger, &req) {
		return
	}

	product, err := h.productService.Create(r.Context(), service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update replaces a product's fields
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req CreateProductRequest
	if !decodeAndValidate(w, r, h.logger, &req) {
		return
	}

	product, err := h.productService.Update(r.Context(), id, service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product updated", zap.Int64("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product with no referencing orders
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product deleted", zap.Int64("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return 0, false
	}
	return id, true
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// respondWithDomainError translates the domain failure taxonomy to transport
// statuses. Anything unclassified is a generic 500; the real error is logged,
// never sent.
func respondWithDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidQuantity):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateProduct),
		errors.Is(err, domain.ErrProductInUse),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrConcurrencyConflict):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("Unhandled error", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
