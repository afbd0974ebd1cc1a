package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/logger"
	"github.com/nikolayk812/nexus-cart/internal/port"
)

const defaultTimeout = 5 * time.Second

type service struct {
	repo     port.WishlistRepository
	products port.ProductCatalog
	timeout  time.Duration
}

func NewWishlistService(repo port.WishlistRepository, products port.ProductCatalog, timeout time.Duration) *service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &service{repo: repo, products: products, timeout: timeout}
}

// Add puts an existing product on a signed-in user's wishlist. Adding a
// product twice keeps one entry.
func (svc *service) Add(ctx context.Context, owner domain.Owner, productID uuid.UUID) error {
	const op = "wishlist.service.Add"

	if err := requireUser(owner); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if productID == uuid.Nil {
		return fmt.Errorf("%s: %w: product id is empty", op, domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.timeout)
	defer cancel()

	if _, err := svc.products.ProductByID(ctx, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	added, err := svc.repo.Add(ctx, owner.UserID, productID)
	if err != nil {
		logger.Error(ctx, "add to wishlist", logger.String("product_id", productID.String()), logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if added {
		logger.Debug(ctx, "added to wishlist", logger.String("product_id", productID.String()))
	}

	return nil
}

// Remove is idempotent.
func (svc *service) Remove(ctx context.Context, owner domain.Owner, productID uuid.UUID) error {
	const op = "wishlist.service.Remove"

	if err := requireUser(owner); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.timeout)
	defer cancel()

	if _, err := svc.repo.Remove(ctx, owner.UserID, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// List returns the wishlist joined to the catalog. Entries whose product
// was deleted are kept with a nil Product.
func (svc *service) List(ctx context.Context, owner domain.Owner) ([]domain.WishlistEntry, error) {
	const op = "wishlist.service.List"

	if err := requireUser(owner); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.timeout)
	defer cancel()

	items, err := svc.repo.List(ctx, owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(items) == 0 {
		return []domain.WishlistEntry{}, nil
	}

	products, err := svc.products.ProductsByIDs(ctx, lo.Map(items, func(i domain.WishlistItem, _ int) uuid.UUID {
		return i.ProductID
	}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return lo.Map(items, func(i domain.WishlistItem, _ int) domain.WishlistEntry {
		entry := domain.WishlistEntry{ProductID: i.ProductID, AddedAt: i.AddedAt}
		if p, ok := products[i.ProductID]; ok {
			entry.Product = &p
		}
		return entry
	}), nil
}

func requireUser(owner domain.Owner) error {
	if owner.IsAnonymous() {
		return fmt.Errorf("%w: sign in to use the wishlist", domain.ErrUnauthorized)
	}
	return nil
}
