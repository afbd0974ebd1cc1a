package ordproducer

import (
	"context"
	"fmt"

	"github.com/nikolayk812/nexus-cart/internal/converter"
	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/kafka"
)

type Converter interface {
	OrderCreatedToPayload(e domain.OrderCreated) ([]byte, error)
}

type service struct {
	producer kafka.Producer
	conv     Converter
}

func NewOrderProducer(producer kafka.Producer, conv Converter) *service {
	return &service{producer: producer, conv: conv}
}

func (s *service) PublishOrderCreated(ctx context.Context, order domain.Order) error {
	event := domain.NewOrderCreated(order)

	payload, err := s.conv.OrderCreatedToPayload(event)
	if err != nil {
		return fmt.Errorf("converter order_created_to_payload error: %w", err)
	}

	headers := map[string]string{"event-type": converter.OrderCreatedEventType}
	if err := s.producer.Send(ctx, []byte(order.ID.String()), payload, headers); err != nil {
		return fmt.Errorf("producer to orders.created topic error: %w", err)
	}

	return nil
}
