package mailer

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/nikolayk812/nexus-cart/internal/domain"
)

type Config struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

type client struct {
	rc  *resty.Client
	cfg Config
}

func NewClient(rc *resty.Client, cfg Config) *client {
	return &client{rc: rc, cfg: cfg}
}

// SendInvoice posts the invoice to an EmailJS-compatible send endpoint.
func (c *client) SendInvoice(ctx context.Context, inv domain.Invoice) error {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(sendRequest{
			ServiceID:  c.cfg.ServiceID,
			TemplateID: c.cfg.TemplateID,
			UserID:     c.cfg.PublicKey,
			TemplateParams: map[string]string{
				"order_id":      inv.OrderID,
				"to_email":      inv.ToEmail,
				"subject":       inv.Subject,
				"customer_name": inv.CustomerName,
				"items":         inv.Items,
				"total":         inv.Total,
			},
		}).
		Post(c.cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("rc.Post: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("mailer responded %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}
