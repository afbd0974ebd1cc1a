package occonsumer

import (
	"context"
	"fmt"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/kafka"
	"github.com/nikolayk812/nexus-cart/internal/logger"
)

type OrderCreatedConverter interface {
	PayloadToOrderCreated(data []byte) (domain.OrderCreated, error)
}

type OrderCreatedNotifier interface {
	NotifyOrderCreated(ctx context.Context, event domain.OrderCreated) error
}

type orderCreatedConsumer struct {
	consumer kafka.Consumer
	conv     OrderCreatedConverter
	svc      OrderCreatedNotifier
}

func NewOrderCreatedConsumer(
	consumer kafka.Consumer,
	conv OrderCreatedConverter,
	svc OrderCreatedNotifier,
) *orderCreatedConsumer {
	return &orderCreatedConsumer{
		consumer: consumer,
		conv:     conv,
		svc:      svc,
	}
}

func (s *orderCreatedConsumer) RunOrderCreatedConsume(ctx context.Context) error {
	logger.Info(ctx, "starting order created consumer")

	if err := s.consumer.Consume(ctx, s.orderCreatedHandler); err != nil {
		logger.Error(ctx, "consume from orders.created topic error", logger.ErrorF(err))
		return err
	}

	return nil
}

func (s *orderCreatedConsumer) orderCreatedHandler(ctx context.Context, msg kafka.Message) error {
	event, err := s.conv.PayloadToOrderCreated(msg.Value)
	if err != nil {
		logger.Error(ctx, "failed to decode order created", logger.ErrorF(err))
		return fmt.Errorf("converter payload_to_order_created error: %w", err)
	}

	if err := s.svc.NotifyOrderCreated(ctx, event); err != nil {
		return err
	}

	return nil
}
