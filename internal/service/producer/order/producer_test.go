package ordproducer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/nexus-cart/internal/converter"
	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/kafka/producer"
	"github.com/nikolayk812/nexus-cart/internal/logger"
)

func usd(s string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(s), currency.USD)
}

func placedOrder() domain.Order {
	return domain.Order{
		ID:      uuid.New(),
		OwnerID: "user-1",
		Items: []domain.OrderItem{{
			ProductID:           uuid.New(),
			Name:                "Nexus Workstation",
			Selection:           domain.SelectionFromNames(map[domain.Category]string{domain.CategoryGPU: "RTX A"}),
			Quantity:            2,
			UnitConfiguredPrice: usd("1200.00"),
			Total:               usd("2400.00"),
		}},
		Subtotal:      usd("2400.00"),
		Tax:           usd("72.00"),
		Total:         usd("2472.00"),
		Status:        domain.OrderStatusPending,
		PaymentMethod: domain.PaymentMethodCash,
		CustomerName:  "Ada",
		Email:         "ada@example.com",
		CreatedAt:     time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublishOrderCreated(t *testing.T) {
	order := placedOrder()
	conv := converter.NewKafkaConverter()

	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true

	sp := mocks.NewSyncProducer(t, cfg)
	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != order.ID.String() {
			return fmt.Errorf("key %s, want order id", key)
		}

		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		event, err := conv.PayloadToOrderCreated(value)
		if err != nil {
			return err
		}
		if event.OrderID != order.ID || !event.Total.Equal(usd("2472.00")) {
			return fmt.Errorf("unexpected event %+v", event)
		}
		if len(event.Items) != 1 || event.Items[0].Quantity != 2 {
			return errors.New("items not carried")
		}
		return nil
	})
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	svc := NewOrderProducer(producer.NewProducer(sp, "orders.created", logger.L()), conv)
	ctx := context.Background()

	require.NoError(t, svc.PublishOrderCreated(ctx, order))

	err := svc.PublishOrderCreated(ctx, order)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.NoError(t, sp.Close())
}

type failingConverter struct{}

func (failingConverter) OrderCreatedToPayload(domain.OrderCreated) ([]byte, error) {
	return nil, errors.New("unsupported currency")
}

type recordingProducer struct {
	sent int
}

func (p *recordingProducer) Send(context.Context, []byte, []byte, map[string]string) error {
	p.sent++
	return nil
}

func TestPublishOrderCreated_ConverterFailure(t *testing.T) {
	prod := &recordingProducer{}

	err := NewOrderProducer(prod, failingConverter{}).PublishOrderCreated(context.Background(), placedOrder())
	require.ErrorContains(t, err, "unsupported currency")
	assert.Zero(t, prod.sent)
}
