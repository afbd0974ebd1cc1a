package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/nexus-cart/internal/domain"
)

type OrderRepository interface {
	// Place writes the order and deletes the owner's cart lines in the same
	// transaction. The order is written even when the lines cannot be deleted;
	// cartCleared is false then.
	Place(ctx context.Context, order domain.Order) (orderID uuid.UUID, cartCleared bool, err error)
	OrderByID(ctx context.Context, id uuid.UUID) (domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	Complete(ctx context.Context, id uuid.UUID, at time.Time) error
}

type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order domain.Order) error
}
