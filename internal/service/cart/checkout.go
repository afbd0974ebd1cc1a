package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/logger"
)

// Checkout snapshots the owner's cart into an order and writes it together
// with the cart clear. The cart is never cleared without a durable order; a
// clear that did not commit with the order is retried and, if still
// failing, logged without undoing the order.
func (svc *service) Checkout(ctx context.Context, owner domain.Owner, params domain.CheckoutParams) (uuid.UUID, error) {
	const op = "cart.service.Checkout"
	log := logger.With(
		logger.String("owner", owner.Key()),
		logger.String("payment_method", string(params.PaymentMethod)),
	)

	if err := owner.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	if owner.IsAnonymous() {
		return uuid.Nil, fmt.Errorf("%s: %w: sign in to check out", op, domain.ErrUnauthorized)
	}
	if err := params.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	cart, err := svc.LoadCart(ctx, owner)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	if cart.IsEmpty() {
		return uuid.Nil, fmt.Errorf("%s: %w", op, domain.ErrEmptyCart)
	}

	order := domain.NewOrder(cart, params, svc.now().UTC())

	wctx, cancel := svc.writeCtx(ctx)
	defer cancel()

	orderID, cleared, err := svc.orders.Place(wctx, order)
	if err != nil {
		log.Error(ctx, "write order", logger.ErrorF(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	order.ID = orderID
	log = log.With(logger.String("order_id", orderID.String()))

	// The order is authoritative from here on; finish even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	if !cleared {
		log.Warn(ctx, "cart not cleared with the order, retrying")

		if err := svc.clearAfterCheckout(ctx, owner.UserID); err != nil {
			log.Error(ctx, "cart left with stale lines",
				logger.ErrorF(errors.Join(domain.ErrStaleCart, err)),
			)
		}
	}

	if err := svc.events.PublishOrderCreated(ctx, order); err != nil {
		log.Warn(ctx, "publish order created", logger.ErrorF(err))
	}

	log.Info(ctx, "order placed",
		logger.Int("items", len(order.Items)),
		logger.String("total", order.Total.String()),
	)

	return orderID, nil
}

func (svc *service) clearAfterCheckout(ctx context.Context, userID string) error {
	backoff := retry.WithMaxRetries(svc.cfg.ClearRetries, retry.NewExponential(svc.cfg.ClearBackoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		wctx, cancel := svc.writeCtx(ctx)
		defer cancel()

		if _, err := svc.carts.DeleteAll(wctx, userID); err != nil {
			logger.Warn(ctx, "clear cart attempt failed", logger.String("owner", userID), logger.ErrorF(err))
			return retry.RetryableError(err)
		}

		return nil
	})
}
