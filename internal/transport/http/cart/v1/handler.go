package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/session"
)

type CartService interface {
	UnitPrice(ctx context.Context, productID uuid.UUID, selection domain.ConfigSelection) (domain.Money, error)
	Upsert(ctx context.Context, owner domain.Owner, productID uuid.UUID, selection domain.ConfigSelection, delta int) (domain.CartLine, error)
	LoadCart(ctx context.Context, owner domain.Owner) (domain.Cart, error)
	SetQuantity(ctx context.Context, owner domain.Owner, lineID uuid.UUID, qty int) error
	ChangeQuantity(ctx context.Context, owner domain.Owner, lineID uuid.UUID, delta int) (domain.CartLine, error)
	RemoveLine(ctx context.Context, owner domain.Owner, lineID uuid.UUID) error
	CartCount(ctx context.Context, owner domain.Owner) (int, error)
	ClearCart(ctx context.Context, owner domain.Owner) error
	Checkout(ctx context.Context, owner domain.Owner, params domain.CheckoutParams) (uuid.UUID, error)
}

type SessionTracker interface {
	SessionUsers
	Transition(ctx context.Context, ev session.AuthEvent) (session.Context, error)
}

type ProductReader interface {
	ProductByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
}

type Handler struct {
	cart     CartService
	sessions SessionTracker
	products ProductReader
}

func NewHandler(cart CartService, sessions SessionTracker, products ProductReader) *Handler {
	return &Handler{
		cart:     cart,
		sessions: sessions,
		products: products,
	}
}

// Routes mounts the storefront API. Every route runs behind OwnerMiddleware.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/products/{productID}", h.GetProduct)
	r.Get("/products/{productID}/price", h.GetUnitPrice)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Get("/count", h.GetCartCount)
		r.Post("/items", h.AddItem)
		r.Put("/items/{lineID}", h.SetQuantity)
		r.Patch("/items/{lineID}", h.ChangeQuantity)
		r.Delete("/items/{lineID}", h.RemoveItem)
	})

	r.Post("/session/login", h.Login)
	r.Post("/session/logout", h.Logout)
	r.Post("/checkout", h.Checkout)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "productID")
	if !ok {
		return
	}

	p, err := h.products.ProductByID(r.Context(), productID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, productToDTO(p))
}

// GetUnitPrice prices a configuration given as query parameters, one per
// category: ?gpu=RTX%20A&ram=32GB.
func (h *Handler) GetUnitPrice(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "productID")
	if !ok {
		return
	}

	names := make(map[string]string)
	for category, values := range r.URL.Query() {
		if len(values) > 0 {
			names[category] = values[0]
		}
	}

	price, err := h.cart.UnitPrice(r.Context(), productID, selectionFromDTO(names))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, priceResponse{
		ProductID: productID,
		Selection: names,
		UnitPrice: moneyToDTO(price),
	})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.LoadCart(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cartToDTO(cart))
}

func (h *Handler) GetCartCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.cart.CartCount(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, countResponse{Count: count})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty < 1 || qty > domain.MaxQuantity {
		writeJSONError(w, http.StatusBadRequest, "invalid request", fmt.Sprintf("quantity must be between 1 and %d", domain.MaxQuantity))
		return
	}

	line, err := h.cart.Upsert(r.Context(), ownerFrom(r.Context()), req.ProductID, selectionFromDTO(req.Selection), qty)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, lineToDTO(line))
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	lineID, ok := uuidParam(w, r, "lineID")
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Quantity > domain.MaxQuantity {
		writeJSONError(w, http.StatusBadRequest, "invalid request", fmt.Sprintf("quantity must not exceed %d", domain.MaxQuantity))
		return
	}

	if err := h.cart.SetQuantity(r.Context(), ownerFrom(r.Context()), lineID, req.Quantity); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangeQuantity applies a signed delta; a line reaching zero is removed
// and reported with quantity 0.
func (h *Handler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	lineID, ok := uuidParam(w, r, "lineID")
	if !ok {
		return
	}

	var req changeQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := domain.ValidateQuantityDelta(req.Delta); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	line, err := h.cart.ChangeQuantity(r.Context(), ownerFrom(r.Context()), lineID, req.Delta)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, lineToDTO(line))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID, ok := uuidParam(w, r, "lineID")
	if !ok {
		return
	}

	if err := h.cart.RemoveLine(r.Context(), ownerFrom(r.Context()), lineID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context(), ownerFrom(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Login signs the session in. The first sign-in merges the anonymous cart
// into the user's cart. The user id is taken as authenticated by the gateway.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.UserID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid request", "userId is required")
		return
	}

	h.transition(w, r, req.UserID)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "")
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, userID string) {
	out, err := h.sessions.Transition(r.Context(), session.AuthEvent{
		SessionID: sessionFrom(r.Context()),
		UserID:    userID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionToDTO(out))
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	orderID, err := h.cart.Checkout(r.Context(), ownerFrom(r.Context()), domain.CheckoutParams{
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		CustomerName:  req.CustomerName,
		Email:         req.Email,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{OrderID: orderID})
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid "+name, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
