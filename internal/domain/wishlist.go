package domain

import (
	"time"

	"github.com/google/uuid"
)

type WishlistItem struct {
	UserID    string
	ProductID uuid.UUID
	AddedAt   time.Time
}

// WishlistEntry is a wishlist item joined to its product. Product is nil
// when the product no longer exists.
type WishlistEntry struct {
	ProductID uuid.UUID
	AddedAt   time.Time
	Product   *Product
}
