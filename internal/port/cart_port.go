package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/nexus-cart/internal/domain"
)

type CartRepository interface {
	GetLines(ctx context.Context, ownerID string) ([]domain.CartLine, error)
	GetLine(ctx context.Context, ownerID string, lineID uuid.UUID) (domain.CartLine, error)
	// UpsertLine applies a quantity delta to the line identified by
	// (owner, product, selection fingerprint), creating or deleting it as needed.
	UpsertLine(ctx context.Context, params domain.UpsertLineParams) (domain.UpsertResult, error)
	SetQuantity(ctx context.Context, ownerID string, lineID uuid.UUID, quantity int) (bool, error)
	DeleteLine(ctx context.Context, ownerID string, lineID uuid.UUID) (bool, error)
	DeleteAll(ctx context.Context, ownerID string) (int64, error)
	CountItems(ctx context.Context, ownerID string) (int, error)
}

// LocalCartStore keeps the anonymous cart of a session as an ordered list.
type LocalCartStore interface {
	Entries(ctx context.Context, sessionID string) ([]domain.LocalCartEntry, error)
	Save(ctx context.Context, sessionID string, entries []domain.LocalCartEntry) error
	// Update applies fn to the session's entries atomically with respect to
	// other writers of the same store. An error from fn leaves the entries unchanged.
	Update(ctx context.Context, sessionID string, fn func(entries []domain.LocalCartEntry) ([]domain.LocalCartEntry, error)) error
	Clear(ctx context.Context, sessionID string) error
}
