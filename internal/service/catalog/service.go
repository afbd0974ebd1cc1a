package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/logger"
	"github.com/nikolayk812/nexus-cart/internal/port"
)

const defaultTimeout = 5 * time.Second

type service struct {
	repo     port.ProductRepository
	currency currency.Unit
	timeout  time.Duration
}

func NewCatalogService(repo port.ProductRepository, cur currency.Unit, timeout time.Duration) *service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &service{repo: repo, currency: cur, timeout: timeout}
}

func (svc *service) ProductByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	const op = "catalog.service.ProductByID"

	ctx, cancel := context.WithTimeout(ctx, svc.timeout)
	defer cancel()

	p, err := svc.repo.ProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (svc *service) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	const op = "catalog.service.ListProducts"

	if filter.Limit < 0 {
		return nil, fmt.Errorf("%s: %w: negative limit", op, domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.timeout)
	defer cancel()

	products, err := svc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return products, nil
}

func (svc *service) CreateProduct(ctx context.Context, p domain.Product) (uuid.UUID, error) {
	const op = "catalog.service.CreateProduct"

	if err := svc.validate(p); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.timeout)
	defer cancel()

	id, err := svc.repo.Create(ctx, p)
	if err != nil {
		logger.Error(ctx, "create product", logger.String("name", p.Name), logger.ErrorF(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info(ctx, "product created", logger.String("product_id", id.String()))

	return id, nil
}

func (svc *service) UpdateProduct(ctx context.Context, p domain.Product) error {
	const op = "catalog.service.UpdateProduct"

	if p.ID == uuid.Nil {
		return fmt.Errorf("%s: %w: product id is empty", op, domain.ErrValidation)
	}
	if err := svc.validate(p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.timeout)
	defer cancel()

	if err := svc.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteProduct removes a product. Cart lines that reference it are kept
// and show up as missing until the owner removes them.
func (svc *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	const op = "catalog.service.DeleteProduct"

	ctx, cancel := context.WithTimeout(ctx, svc.timeout)
	defer cancel()

	deleted, err := svc.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !deleted {
		return fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}

	logger.Info(ctx, "product deleted", logger.String("product_id", id.String()))

	return nil
}

func (svc *service) validate(p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Price.Currency != svc.currency {
		return fmt.Errorf("%w: product must be priced in %s", domain.ErrCurrencyMismatch, svc.currency)
	}
	return nil
}
