package converter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/nexus-cart/internal/domain"
)

const OrderCreatedEventType = "order.created.v1"

type orderCreatedRecord struct {
	EventID       string       `json:"eventId"`
	OrderID       string       `json:"orderId"`
	OwnerID       string       `json:"ownerId"`
	PaymentMethod string       `json:"paymentMethod"`
	CustomerName  string       `json:"customerName,omitempty"`
	Email         string       `json:"email,omitempty"`
	Items         []itemRecord `json:"items"`
	Total         string       `json:"total"`
	Currency      string       `json:"currency"`
	CreatedAt     time.Time    `json:"createdAt"`
}

type itemRecord struct {
	ProductID string            `json:"productId"`
	Name      string            `json:"name"`
	Selection map[string]string `json:"selection,omitempty"`
	Quantity  int               `json:"quantity"`
	UnitPrice string            `json:"unitPrice"`
	Total     string            `json:"total"`
}

type kafkaConverter struct{}

func NewKafkaConverter() *kafkaConverter { return &kafkaConverter{} }

func (c *kafkaConverter) OrderCreatedToPayload(e domain.OrderCreated) ([]byte, error) {
	items := make([]itemRecord, 0, len(e.Items))
	for _, item := range e.Items {
		var selection map[string]string
		if len(item.Selection) > 0 {
			selection = make(map[string]string, len(item.Selection))
			for category, name := range item.Selection.Names() {
				selection[string(category)] = name
			}
		}

		items = append(items, itemRecord{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Selection: selection,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitConfiguredPrice.Amount.StringFixed(2),
			Total:     item.Total.Amount.StringFixed(2),
		})
	}

	payload, err := json.Marshal(orderCreatedRecord{
		EventID:       e.EventID.String(),
		OrderID:       e.OrderID.String(),
		OwnerID:       e.OwnerID,
		PaymentMethod: string(e.PaymentMethod),
		CustomerName:  e.CustomerName,
		Email:         e.Email,
		Items:         items,
		Total:         e.Total.Amount.StringFixed(2),
		Currency:      e.Total.Currency.String(),
		CreatedAt:     e.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order created: %w", err)
	}

	return payload, nil
}

func (c *kafkaConverter) PayloadToOrderCreated(data []byte) (domain.OrderCreated, error) {
	var rec orderCreatedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.OrderCreated{}, fmt.Errorf("failed to unmarshal order created: %w", err)
	}

	eventID, err := uuid.Parse(rec.EventID)
	if err != nil {
		return domain.OrderCreated{}, fmt.Errorf("eventId: %w", err)
	}
	orderID, err := uuid.Parse(rec.OrderID)
	if err != nil {
		return domain.OrderCreated{}, fmt.Errorf("orderId: %w", err)
	}
	cur, err := currency.ParseISO(rec.Currency)
	if err != nil {
		return domain.OrderCreated{}, fmt.Errorf("currency: %w", err)
	}
	total, err := decimal.NewFromString(rec.Total)
	if err != nil {
		return domain.OrderCreated{}, fmt.Errorf("total: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(rec.Items))
	for i, r := range rec.Items {
		item, err := itemFromRecord(r, cur)
		if err != nil {
			return domain.OrderCreated{}, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, item)
	}

	return domain.OrderCreated{
		EventID:       eventID,
		OrderID:       orderID,
		OwnerID:       rec.OwnerID,
		PaymentMethod: domain.PaymentMethod(rec.PaymentMethod),
		CustomerName:  rec.CustomerName,
		Email:         rec.Email,
		Items:         items,
		Total:         domain.NewMoney(total, cur),
		CreatedAt:     rec.CreatedAt,
	}, nil
}

func itemFromRecord(r itemRecord, cur currency.Unit) (domain.OrderItem, error) {
	productID, err := uuid.Parse(r.ProductID)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("productId: %w", err)
	}
	unit, err := decimal.NewFromString(r.UnitPrice)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("unitPrice: %w", err)
	}
	total, err := decimal.NewFromString(r.Total)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("total: %w", err)
	}

	names := make(map[domain.Category]string, len(r.Selection))
	for category, name := range r.Selection {
		names[domain.Category(category)] = name
	}

	return domain.OrderItem{
		ProductID:           productID,
		Name:                r.Name,
		Selection:           domain.SelectionFromNames(names),
		Quantity:            r.Quantity,
		UnitConfiguredPrice: domain.NewMoney(unit, cur),
		Total:               domain.NewMoney(total, cur),
	}, nil
}
