package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/nexus-cart/internal/domain"
)

type ProductCatalog interface {
	ProductByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
	// ProductsByIDs returns the products found; unknown IDs are absent from the map.
	ProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error)
}

type ProductRepository interface {
	ProductCatalog
	Create(ctx context.Context, p domain.Product) (uuid.UUID, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}
