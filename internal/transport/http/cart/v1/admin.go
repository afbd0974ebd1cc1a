package v1

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/nikolayk812/nexus-cart/internal/domain"
)

type OrderService interface {
	OrderByID(ctx context.Context, id uuid.UUID) (domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	CompleteOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
}

type CatalogService interface {
	ProductByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type AdminHandler struct {
	orders  OrderService
	catalog CatalogService
}

func NewAdminHandler(orders OrderService, catalog CatalogService) *AdminHandler {
	return &AdminHandler{orders: orders, catalog: catalog}
}

func (h *AdminHandler) Routes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/{orderID}", h.GetOrder)
		r.Post("/{orderID}/complete", h.CompleteOrder)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/{productID}", h.GetProduct)
		r.Put("/{productID}", h.UpdateProduct)
		r.Delete("/{productID}", h.DeleteProduct)
	})
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, ok := limitParam(w, q.Get("limit"))
	if !ok {
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), domain.OrderFilter{
		OwnerID: q.Get("ownerId"),
		Status:  domain.OrderStatus(q.Get("status")),
		Limit:   uint64(limit),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(orders, func(o domain.Order, _ int) orderDTO {
		return orderToDTO(o)
	}))
}

func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := uuidParam(w, r, "orderID")
	if !ok {
		return
	}

	order, err := h.orders.OrderByID(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orderToDTO(order))
}

func (h *AdminHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := uuidParam(w, r, "orderID")
	if !ok {
		return
	}

	order, err := h.orders.CompleteOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orderToDTO(order))
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, ok := limitParam(w, q.Get("limit"))
	if !ok {
		return
	}

	products, err := h.catalog.ListProducts(r.Context(), domain.ProductFilter{
		Category: q.Get("category"),
		Search:   strings.TrimSpace(q.Get("q")),
		Limit:    int64(limit),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(products, func(p domain.Product, _ int) productDTO {
		return productToDTO(p)
	}))
}

func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "productID")
	if !ok {
		return
	}

	p, err := h.catalog.ProductByID(r.Context(), productID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, productToDTO(p))
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}

	id, err := h.catalog.CreateProduct(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]uuid.UUID{"id": id})
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "productID")
	if !ok {
		return
	}

	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	p.ID = productID

	if err := h.catalog.UpdateProduct(r.Context(), p); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "productID")
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), productID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (domain.Product, bool) {
	var dto productDTO
	if err := decodeJSON(r, &dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return domain.Product{}, false
	}

	p, err := productFromDTO(dto)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid product", err.Error())
		return domain.Product{}, false
	}

	return p, true
}

func limitParam(w http.ResponseWriter, raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid limit", raw)
		return 0, false
	}

	return limit, true
}
