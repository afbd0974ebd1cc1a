package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/nexus-cart/internal/db"
	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetLines(ctx context.Context, ownerID string) ([]domain.CartLine, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.q.GetCart(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("q.GetCart: %w", err)
	}

	lines, err := mapGetCartRowsToDomain(ownerID, rows)
	if err != nil {
		return nil, fmt.Errorf("mapGetCartRowsToDomain: %w", err)
	}

	return lines, nil
}

func (r *cartRepository) GetLine(ctx context.Context, ownerID string, lineID uuid.UUID) (domain.CartLine, error) {
	if ownerID == "" {
		return domain.CartLine{}, fmt.Errorf("ownerID is empty")
	}

	item, err := r.q.GetCartItem(ctx, db.GetCartItemParams{OwnerID: ownerID, ID: lineID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CartLine{}, domain.ErrLineNotFound
		}
		return domain.CartLine{}, fmt.Errorf("q.GetCartItem: %w", err)
	}

	line, err := mapCartItemToDomain(item)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("mapCartItemToDomain: %w", err)
	}

	return line, nil
}

func (r *cartRepository) UpsertLine(ctx context.Context, params domain.UpsertLineParams) (domain.UpsertResult, error) {
	if params.OwnerID == "" {
		return domain.UpsertResult{}, fmt.Errorf("ownerID is empty")
	}
	if params.Delta < math.MinInt32 || params.Delta > math.MaxInt32 {
		return domain.UpsertResult{}, fmt.Errorf("%w: delta %d is out of range", domain.ErrValidation, params.Delta)
	}

	fingerprint := params.Selection.Fingerprint()

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.UpsertResult, error) {
		existing, err := q.GetCartItemForUpdate(ctx, db.GetCartItemForUpdateParams{
			OwnerID:              params.OwnerID,
			ProductID:            params.ProductID,
			SelectionFingerprint: fingerprint,
		})
		switch {
		case err == nil:
			return updateExisting(ctx, q, existing, params.Delta)
		case !errors.Is(err, pgx.ErrNoRows):
			return domain.UpsertResult{}, fmt.Errorf("q.GetCartItemForUpdate: %w", err)
		}

		if params.Delta <= 0 {
			return domain.UpsertResult{Outcome: domain.UpsertNoop}, nil
		}

		selection, err := marshalSelection(params.Selection)
		if err != nil {
			return domain.UpsertResult{}, fmt.Errorf("marshalSelection: %w", err)
		}

		// A concurrent insert of the same identity lands in ON CONFLICT and
		// adds to the quantity instead of creating a second line.
		row, err := q.AddItem(ctx, db.AddItemParams{
			OwnerID:              params.OwnerID,
			ProductID:            params.ProductID,
			Selection:            selection,
			SelectionFingerprint: fingerprint,
			Quantity:             int32(params.Delta),
			PriceAmount:          params.UnitBasePrice.Amount,
			PriceCurrency:        params.UnitBasePrice.Currency.String(),
		})
		if err != nil {
			if isNumericOverflow(err) {
				return domain.UpsertResult{}, fmt.Errorf("%w: quantity is out of range", domain.ErrValidation)
			}
			return domain.UpsertResult{}, fmt.Errorf("q.AddItem: %w", err)
		}

		line, err := mapCartItemToDomain(db.CartItem{
			ID:                   row.ID,
			OwnerID:              row.OwnerID,
			ProductID:            row.ProductID,
			Selection:            row.Selection,
			SelectionFingerprint: row.SelectionFingerprint,
			Quantity:             row.Quantity,
			PriceAmount:          row.PriceAmount,
			PriceCurrency:        row.PriceCurrency,
			CreatedAt:            row.CreatedAt,
			UpdatedAt:            row.UpdatedAt,
		})
		if err != nil {
			return domain.UpsertResult{}, fmt.Errorf("mapCartItemToDomain: %w", err)
		}

		outcome := domain.UpsertUpdated
		if row.Inserted {
			outcome = domain.UpsertCreated
		}

		return domain.UpsertResult{Line: line, Outcome: outcome}, nil
	})
}

func updateExisting(ctx context.Context, q *db.Queries, existing db.CartItem, delta int) (domain.UpsertResult, error) {
	newQuantity := int(existing.Quantity) + delta
	if newQuantity > math.MaxInt32 {
		return domain.UpsertResult{}, fmt.Errorf("%w: quantity %d is out of range", domain.ErrValidation, newQuantity)
	}

	if newQuantity <= 0 {
		if _, err := q.DeleteItem(ctx, db.DeleteItemParams{OwnerID: existing.OwnerID, ID: existing.ID}); err != nil {
			return domain.UpsertResult{}, fmt.Errorf("q.DeleteItem: %w", err)
		}

		line, err := mapCartItemToDomain(existing)
		if err != nil {
			return domain.UpsertResult{}, fmt.Errorf("mapCartItemToDomain: %w", err)
		}
		line.Quantity = 0

		return domain.UpsertResult{Line: line, Outcome: domain.UpsertDeleted}, nil
	}

	updated, err := q.UpdateItemQuantity(ctx, db.UpdateItemQuantityParams{
		OwnerID:  existing.OwnerID,
		ID:       existing.ID,
		Quantity: int32(newQuantity),
	})
	if err != nil {
		return domain.UpsertResult{}, fmt.Errorf("q.UpdateItemQuantity: %w", err)
	}

	line, err := mapCartItemToDomain(updated)
	if err != nil {
		return domain.UpsertResult{}, fmt.Errorf("mapCartItemToDomain: %w", err)
	}

	return domain.UpsertResult{Line: line, Outcome: domain.UpsertUpdated}, nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, ownerID string, lineID uuid.UUID, quantity int) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}
	if quantity < 1 {
		return false, fmt.Errorf("quantity must be positive")
	}
	if quantity > math.MaxInt32 {
		return false, fmt.Errorf("%w: quantity %d is out of range", domain.ErrValidation, quantity)
	}

	rowsAffected, err := r.q.SetItemQuantity(ctx, db.SetItemQuantityParams{
		OwnerID:  ownerID,
		ID:       lineID,
		Quantity: int32(quantity),
	})
	if err != nil {
		return false, fmt.Errorf("q.SetItemQuantity: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) DeleteLine(ctx context.Context, ownerID string, lineID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.DeleteItem(ctx, db.DeleteItemParams{
		OwnerID: ownerID,
		ID:      lineID,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteItem: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.DeleteCart(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("q.DeleteCart: %w", err)
	}

	return rowsAffected, nil
}

func (r *cartRepository) CountItems(ctx context.Context, ownerID string) (int, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("ownerID is empty")
	}

	count, err := r.q.CountItems(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("q.CountItems: %w", err)
	}

	return int(count), nil
}

// isNumericOverflow reports a quantity that no longer fits the column,
// which the ON CONFLICT increment can produce.
func isNumericOverflow(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22003"
}

func mapCartItemToDomain(item db.CartItem) (domain.CartLine, error) {
	return mapRowToDomain(item.OwnerID, item.ID, item.ProductID, item.Selection, item.SelectionFingerprint,
		item.Quantity, item.PriceAmount, item.PriceCurrency, item.CreatedAt, item.UpdatedAt)
}

func mapGetCartRowToDomain(ownerID string, row db.GetCartRow) (domain.CartLine, error) {
	return mapRowToDomain(ownerID, row.ID, row.ProductID, row.Selection, row.SelectionFingerprint,
		row.Quantity, row.PriceAmount, row.PriceCurrency, row.CreatedAt, row.UpdatedAt)
}

func mapGetCartRowsToDomain(ownerID string, rows []db.GetCartRow) ([]domain.CartLine, error) {
	lines := make([]domain.CartLine, 0, len(rows))

	for _, row := range rows {
		line, err := mapGetCartRowToDomain(ownerID, row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartRowToDomain: %w", err)
		}

		lines = append(lines, line)
	}

	return lines, nil
}

func mapRowToDomain(
	ownerID string,
	id, productID uuid.UUID,
	rawSelection []byte,
	fingerprint string,
	quantity int32,
	amount decimal.Decimal,
	rawCurrency string,
	createdAt, updatedAt time.Time,
) (domain.CartLine, error) {
	parsedCurrency, err := currency.ParseISO(rawCurrency)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("currency[%s] is not valid: %w", rawCurrency, err)
	}

	selection, err := unmarshalSelection(rawSelection)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("selection of line[%s] is not valid: %w", id, err)
	}

	return domain.CartLine{
		ID:            id,
		OwnerID:       ownerID,
		ProductID:     productID,
		Selection:     selection,
		Fingerprint:   fingerprint,
		Quantity:      int(quantity),
		UnitBasePrice: domain.Money{Amount: amount, Currency: parsedCurrency},
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}
