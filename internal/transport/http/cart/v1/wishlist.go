package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/nikolayk812/nexus-cart/internal/domain"
)

type WishlistService interface {
	Add(ctx context.Context, owner domain.Owner, productID uuid.UUID) error
	Remove(ctx context.Context, owner domain.Owner, productID uuid.UUID) error
	List(ctx context.Context, owner domain.Owner) ([]domain.WishlistEntry, error)
}

type addWishlistRequest struct {
	ProductID uuid.UUID `json:"productId"`
}

type wishlistEntryDTO struct {
	ProductID uuid.UUID   `json:"productId"`
	AddedAt   time.Time   `json:"addedAt"`
	Product   *productDTO `json:"product,omitempty"`
	Missing   bool        `json:"missing,omitempty"`
}

type WishlistHandler struct {
	wishlist WishlistService
}

func NewWishlistHandler(wishlist WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

// Routes mounts the wishlist API behind OwnerMiddleware. Only signed-in
// users have a wishlist.
func (h *WishlistHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Add)
	r.Delete("/{productID}", h.Remove)
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.wishlist.List(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(entries, func(e domain.WishlistEntry, _ int) wishlistEntryDTO {
		dto := wishlistEntryDTO{ProductID: e.ProductID, AddedAt: e.AddedAt, Missing: e.Product == nil}
		if e.Product != nil {
			p := productToDTO(*e.Product)
			dto.Product = &p
		}
		return dto
	}))
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addWishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.wishlist.Add(r.Context(), ownerFrom(r.Context()), req.ProductID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "productID")
	if !ok {
		return
	}

	if err := h.wishlist.Remove(r.Context(), ownerFrom(r.Context()), productID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
