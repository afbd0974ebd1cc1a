package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/logger"
	"github.com/nikolayk812/nexus-cart/internal/port"
)

const (
	maxListLimit   = 200
	defaultTimeout = 5 * time.Second
)

type service struct {
	repo         port.OrderRepository
	readTimeout  time.Duration
	writeTimeout time.Duration
	now          func() time.Time
}

func NewOrderService(repo port.OrderRepository, readTimeout, writeTimeout time.Duration) *service {
	if readTimeout <= 0 {
		readTimeout = defaultTimeout
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultTimeout
	}

	return &service{
		repo:         repo,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		now:          time.Now,
	}
}

func (svc *service) OrderByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	const op = "order.service.OrderByID"

	if id == uuid.Nil {
		return domain.Order{}, fmt.Errorf("%s: %w: order id is empty", op, domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.readTimeout)
	defer cancel()

	order, err := svc.repo.OrderByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	return order, nil
}

// ListOrders returns orders newest first.
func (svc *service) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	const op = "order.service.ListOrders"

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown status %q", op, domain.ErrValidation, filter.Status)
	}
	filter.Limit = min(filter.Limit, maxListLimit)

	ctx, cancel := context.WithTimeout(ctx, svc.readTimeout)
	defer cancel()

	orders, err := svc.repo.List(ctx, filter)
	if err != nil {
		logger.Error(ctx, "list orders", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

// CompleteOrder moves a pending order to done.
func (svc *service) CompleteOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	const op = "order.service.CompleteOrder"
	log := logger.With(logger.String("order_id", id.String()))

	if id == uuid.Nil {
		return domain.Order{}, fmt.Errorf("%s: %w: order id is empty", op, domain.ErrValidation)
	}

	wctx, cancel := context.WithTimeout(ctx, svc.writeTimeout)
	defer cancel()

	if err := svc.repo.Complete(wctx, id, svc.now().UTC()); err != nil {
		log.Warn(ctx, "complete order", logger.ErrorF(err))
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info(ctx, "order completed")

	return svc.OrderByID(ctx, id)
}
