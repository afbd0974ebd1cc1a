package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/nexus-cart/internal/domain"
)

type WishlistRepository interface {
	// Add is idempotent; added reports whether the product was new to the list.
	Add(ctx context.Context, userID string, productID uuid.UUID) (added bool, err error)
	Remove(ctx context.Context, userID string, productID uuid.UUID) (removed bool, err error)
	// List returns the user's items, most recently added first.
	List(ctx context.Context, userID string) ([]domain.WishlistItem, error)
}
