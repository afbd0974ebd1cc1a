package domain

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

type (
	OrderStatus   string
	PaymentMethod string
)

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusDone    OrderStatus = "done"
)

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard:
		return true
	default:
		return false
	}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusDone:
		return true
	default:
		return false
	}
}

type OrderItem struct {
	ProductID           uuid.UUID
	Name                string
	Selection           ConfigSelection
	Quantity            int
	UnitConfiguredPrice Money
	Total               Money
}

// Order is an immutable snapshot of a cart taken at checkout.
type Order struct {
	ID      uuid.UUID
	OwnerID string
	Items   []OrderItem

	Subtotal Money
	Tax      Money
	Total    Money

	Status        OrderStatus
	PaymentMethod PaymentMethod
	CustomerName  string
	Email         string

	CreatedAt   time.Time
	CompletedAt *time.Time
}

type CheckoutParams struct {
	PaymentMethod PaymentMethod
	CustomerName  string
	Email         string
}

func (p CheckoutParams) Validate() error {
	if !p.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, p.PaymentMethod)
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return fmt.Errorf("%w: email: %w", ErrValidation, err)
		}
	}
	return nil
}

type OrderFilter struct {
	OwnerID string
	Status  OrderStatus
	Limit   uint64
}

// NewOrder snapshots the priced entries of a cart into a pending order.
func NewOrder(cart Cart, params CheckoutParams, now time.Time) Order {
	items := make([]OrderItem, 0, len(cart.Entries))
	for _, e := range cart.Entries {
		if e.Missing {
			continue
		}

		items = append(items, OrderItem{
			ProductID:           e.Line.ProductID,
			Name:                e.Product.Name,
			Selection:           e.Line.Selection,
			Quantity:            e.Line.Quantity,
			UnitConfiguredPrice: e.UnitPrice,
			Total:               e.LineTotal,
		})
	}

	return Order{
		OwnerID:       cart.Owner.Key(),
		Items:         items,
		Subtotal:      cart.Subtotal,
		Tax:           cart.Tax,
		Total:         cart.Total,
		Status:        OrderStatusPending,
		PaymentMethod: params.PaymentMethod,
		CustomerName:  params.CustomerName,
		Email:         params.Email,
		CreatedAt:     now,
	}
}

// OrderCreated is published once an order is durably written.
type OrderCreated struct {
	EventID       uuid.UUID
	OrderID       uuid.UUID
	OwnerID       string
	PaymentMethod PaymentMethod
	CustomerName  string
	Email         string
	Items         []OrderItem
	Total         Money
	CreatedAt     time.Time
}

func NewOrderCreated(o Order) OrderCreated {
	return OrderCreated{
		EventID:       uuid.New(),
		OrderID:       o.ID,
		OwnerID:       o.OwnerID,
		PaymentMethod: o.PaymentMethod,
		CustomerName:  o.CustomerName,
		Email:         o.Email,
		Items:         o.Items,
		Total:         o.Total,
		CreatedAt:     o.CreatedAt,
	}
}

type ReconcileResult struct {
	Merged int
	Failed int
}
