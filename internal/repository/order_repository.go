package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/nexus-cart/internal/db"
	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const defaultOrdersLimit = 50

var orderColumns = []string{
	"id", "owner_id", "items", "subtotal_amount", "tax_amount", "total_amount", "currency",
	"status", "payment_method", "customer_name", "email", "created_at", "completed_at",
}

type orderRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type orderItemEntity struct {
	ProductID uuid.UUID               `json:"productId"`
	Name      string                  `json:"name"`
	Selection map[string]optionEntity `json:"selection,omitempty"`
	Quantity  int                     `json:"quantity"`
	UnitPrice decimal.Decimal         `json:"unitConfiguredPrice"`
	Total     decimal.Decimal         `json:"total"`
}

// Place writes the order and, in a savepoint of the same transaction,
// deletes the owner's cart lines. A failed delete rolls back to the
// savepoint only, so the order still commits; cartCleared reports whether
// the lines went with it.
func (r *orderRepository) Place(ctx context.Context, order domain.Order) (_ uuid.UUID, cartCleared bool, txErr error) {
	if order.OwnerID == "" {
		return uuid.Nil, false, fmt.Errorf("ownerID is empty")
	}
	if len(order.Items) == 0 {
		return uuid.Nil, false, fmt.Errorf("order has no items")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	orderID, err := r.insert(ctx, tx, order)
	if err != nil {
		return uuid.Nil, false, err
	}

	cartCleared, err = clearCartInSavepoint(ctx, tx, order.OwnerID)
	if err != nil {
		return uuid.Nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, false, fmt.Errorf("tx.Commit: %w", err)
	}

	return orderID, cartCleared, nil
}

func (r *orderRepository) insert(ctx context.Context, tx pgx.Tx, order domain.Order) (uuid.UUID, error) {
	items, err := marshalOrderItems(order.Items)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshalOrderItems: %w", err)
	}

	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	q := r.sb.
		Insert("orders").
		Columns("owner_id", "items", "subtotal_amount", "tax_amount", "total_amount", "currency",
			"status", "payment_method", "customer_name", "email", "created_at").
		Values(order.OwnerID, items, order.Subtotal.Amount, order.Tax.Amount, order.Total.Amount,
			order.Total.Currency.String(), string(order.Status), string(order.PaymentMethod),
			order.CustomerName, order.Email, createdAt).
		Suffix("RETURNING id")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.ToSql: %w", err)
	}

	var orderID uuid.UUID
	if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&orderID); err != nil {
		return uuid.Nil, fmt.Errorf("tx.QueryRow: %w", err)
	}

	return orderID, nil
}

// clearCartInSavepoint returns an error only when the enclosing transaction
// can no longer commit.
func clearCartInSavepoint(ctx context.Context, tx pgx.Tx, ownerID string) (bool, error) {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("tx.Begin: %w", err)
	}

	if _, err := NewCartWithTx(sp).DeleteAll(ctx, ownerID); err != nil {
		if rollbackErr := sp.Rollback(ctx); rollbackErr != nil {
			return false, fmt.Errorf("sp.Rollback: %w", errors.Join(err, rollbackErr))
		}
		return false, nil
	}

	if err := sp.Commit(ctx); err != nil {
		return false, fmt.Errorf("sp.Commit: %w", err)
	}

	return true, nil
}

func (r *orderRepository) OrderByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	q := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.ToSql: %w", err)
	}

	row, err := scanOrder(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("scanOrder: %w", err)
	}

	order, err := mapOrderToDomain(row)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mapOrderToDomain: %w", err)
	}

	return order, nil
}

func (r *orderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	limit := filter.Limit
	if limit == 0 {
		limit = defaultOrdersLimit
	}

	where := sq.Eq{}
	if filter.OwnerID != "" {
		where["owner_id"] = filter.OwnerID
	}
	if filter.Status != "" {
		where["status"] = string(filter.Status)
	}

	q := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(where).
		OrderBy("created_at DESC", "id").
		Limit(limit)

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("q.ToSql: %w", err)
	}

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		row, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrder: %w", err)
		}

		order, err := mapOrderToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapOrderToDomain: %w", err)
		}

		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return orders, nil
}

// Complete moves a pending order to done. An order that is already done
// yields ErrOrderConflict.
func (r *orderRepository) Complete(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := r.sb.
		Update("orders").
		SetMap(sq.Eq{
			"status":       string(domain.OrderStatusDone),
			"completed_at": at,
		}).
		Where(sq.Eq{"id": id, "status": string(domain.OrderStatusPending)})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("q.ToSql: %w", err)
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if ct.RowsAffected() > 0 {
		return nil
	}

	if _, err := r.OrderByID(ctx, id); err != nil {
		return err
	}

	return domain.ErrOrderConflict
}

func scanOrder(row pgx.Row) (db.Order, error) {
	var o db.Order
	err := row.Scan(
		&o.ID,
		&o.OwnerID,
		&o.Items,
		&o.SubtotalAmount,
		&o.TaxAmount,
		&o.TotalAmount,
		&o.Currency,
		&o.Status,
		&o.PaymentMethod,
		&o.CustomerName,
		&o.Email,
		&o.CreatedAt,
		&o.CompletedAt,
	)
	return o, err
}

func marshalOrderItems(items []domain.OrderItem) ([]byte, error) {
	entities := make([]orderItemEntity, 0, len(items))
	for _, item := range items {
		selection := make(map[string]optionEntity, len(item.Selection))
		for category, opt := range item.Selection {
			selection[string(category)] = optionEntity{Name: opt.Name, Price: opt.Price}
		}

		entities = append(entities, orderItemEntity{
			ProductID: item.ProductID,
			Name:      item.Name,
			Selection: selection,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitConfiguredPrice.Amount,
			Total:     item.Total.Amount,
		})
	}

	return json.Marshal(entities)
}

func mapOrderToDomain(row db.Order) (domain.Order, error) {
	cur, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	var entities []orderItemEntity
	if err := json.Unmarshal(row.Items, &entities); err != nil {
		return domain.Order{}, fmt.Errorf("items of order[%s] are not valid: %w", row.ID, err)
	}

	items := make([]domain.OrderItem, 0, len(entities))
	for _, e := range entities {
		selection := make(domain.ConfigSelection, len(e.Selection))
		for category, opt := range e.Selection {
			selection[domain.Category(category)] = domain.ConfigOption{Name: opt.Name, Price: opt.Price}
		}

		items = append(items, domain.OrderItem{
			ProductID:           e.ProductID,
			Name:                e.Name,
			Selection:           selection,
			Quantity:            e.Quantity,
			UnitConfiguredPrice: domain.NewMoney(e.UnitPrice, cur),
			Total:               domain.NewMoney(e.Total, cur),
		})
	}

	return domain.Order{
		ID:            row.ID,
		OwnerID:       row.OwnerID,
		Items:         items,
		Subtotal:      domain.NewMoney(row.SubtotalAmount, cur),
		Tax:           domain.NewMoney(row.TaxAmount, cur),
		Total:         domain.NewMoney(row.TotalAmount, cur),
		Status:        domain.OrderStatus(row.Status),
		PaymentMethod: domain.PaymentMethod(row.PaymentMethod),
		CustomerName:  row.CustomerName,
		Email:         row.Email,
		CreatedAt:     row.CreatedAt,
		CompletedAt:   row.CompletedAt,
	}, nil
}
