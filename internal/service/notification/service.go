package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/logger"
)

const (
	invoiceSubject = "Invoice for your order - Nexus Computing"

	// sentCacheSize bounds how many event IDs are remembered for dedup.
	sentCacheSize = 10_000
)

type Mailer interface {
	SendInvoice(ctx context.Context, inv domain.Invoice) error
}

type service struct {
	mailer Mailer

	// sent holds event IDs being sent or already sent.
	sent *lru.Cache[uuid.UUID, struct{}]
}

func NewNotificationService(mailer Mailer) *service {
	// lru.New fails only for a non-positive size.
	sent, _ := lru.New[uuid.UUID, struct{}](sentCacheSize)

	return &service{mailer: mailer, sent: sent}
}

// NotifyOrderCreated emails an invoice for cash orders. Other payment
// methods are ignored, and a redelivered event is sent at most once.
func (svc *service) NotifyOrderCreated(ctx context.Context, event domain.OrderCreated) error {
	const op = "notification.service.NotifyOrderCreated"
	log := logger.With(
		logger.String("order_id", event.OrderID.String()),
		logger.String("payment_method", string(event.PaymentMethod)),
	)

	if event.PaymentMethod != domain.PaymentMethodCash {
		log.Debug(ctx, "not a cash order, no invoice")
		return nil
	}
	if event.Email == "" {
		log.Warn(ctx, "cash order without email, no invoice")
		return nil
	}

	if found, _ := svc.sent.ContainsOrAdd(event.EventID, struct{}{}); found {
		log.Debug(ctx, "invoice already sent")
		return nil
	}

	if err := svc.mailer.SendInvoice(ctx, buildInvoice(event)); err != nil {
		svc.sent.Remove(event.EventID)
		log.Error(ctx, "send invoice", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info(ctx, "invoice sent", logger.String("email", event.Email))

	return nil
}

func buildInvoice(e domain.OrderCreated) domain.Invoice {
	var b strings.Builder
	for _, item := range e.Items {
		fmt.Fprintf(&b, "%d x %s", item.Quantity, item.Name)
		if names := item.Selection.Canonical(); names != "" {
			fmt.Fprintf(&b, " (%s)", names)
		}
		fmt.Fprintf(&b, ": %s\n", item.Total)
	}

	return domain.Invoice{
		OrderID:      e.OrderID.String(),
		ToEmail:      e.Email,
		Subject:      invoiceSubject,
		CustomerName: e.CustomerName,
		Items:        strings.TrimSuffix(b.String(), "\n"),
		Total:        e.Total.String(),
	}
}
