package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/logger"
	"github.com/nikolayk812/nexus-cart/internal/port"
)

const defaultClearBackoff = 50 * time.Millisecond

type Config struct {
	TaxRate  decimal.Decimal
	Currency currency.Unit

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ClearRetries bounds the retries of the cart clear step after an order
	// has been written.
	ClearRetries uint64
	ClearBackoff time.Duration
}

type service struct {
	carts    port.CartRepository
	local    port.LocalCartStore
	products port.ProductCatalog
	orders   port.OrderRepository
	events   port.OrderEventPublisher
	cfg      Config
	now      func() time.Time

	mu          sync.Mutex
	reconciling map[string]struct{}
}

func NewCartService(
	carts port.CartRepository,
	local port.LocalCartStore,
	products port.ProductCatalog,
	orders port.OrderRepository,
	events port.OrderEventPublisher,
	cfg Config,
) *service {
	if cfg.ClearBackoff <= 0 {
		cfg.ClearBackoff = defaultClearBackoff
	}

	return &service{
		carts:       carts,
		local:       local,
		products:    products,
		orders:      orders,
		events:      events,
		cfg:         cfg,
		now:         time.Now,
		reconciling: make(map[string]struct{}),
	}
}

// UnitPrice prices a product with the given option names selected.
func (svc *service) UnitPrice(ctx context.Context, productID uuid.UUID, selection domain.ConfigSelection) (domain.Money, error) {
	const op = "cart.service.UnitPrice"

	rctx, cancel := svc.readCtx(ctx)
	defer cancel()

	product, err := svc.products.ProductByID(rctx, productID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("%s: %w", op, err)
	}

	resolved, err := selection.Resolve(product)
	if err != nil {
		return domain.Money{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.LineUnitPrice(product, resolved), nil
}

// Upsert adds delta units of the (product, selection) configuration to the
// owner's cart, merging with an equal configuration when one exists.
func (svc *service) Upsert(
	ctx context.Context,
	owner domain.Owner,
	productID uuid.UUID,
	selection domain.ConfigSelection,
	delta int,
) (domain.CartLine, error) {
	const op = "cart.service.Upsert"
	log := logger.With(
		logger.String("owner", owner.Key()),
		logger.Bool("anonymous", owner.IsAnonymous()),
		logger.String("product_id", productID.String()),
		logger.Int("delta", delta),
	)

	if err := owner.Validate(); err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := domain.ValidateQuantityDelta(delta); err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	rctx, rcancel := svc.readCtx(ctx)
	defer rcancel()

	var basePrice domain.Money
	product, err := svc.products.ProductByID(rctx, productID)
	switch {
	case err == nil:
		if product.Price.Currency != svc.cfg.Currency {
			return domain.CartLine{}, fmt.Errorf("%s: %w: product priced in %s", op, domain.ErrCurrencyMismatch, product.Price.Currency)
		}

		resolved, err := selection.Resolve(product)
		if err != nil {
			log.Warn(ctx, "invalid selection", logger.ErrorF(err))
			return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
		}
		selection = resolved
		basePrice = product.Price
	case errors.Is(err, domain.ErrProductNotFound) && delta <= 0:
		// Decrementing a line whose product left the catalog only needs its identity.
		log.Debug(ctx, "product not found, decrement by identity")
	default:
		log.Error(ctx, "product by id", logger.ErrorF(err))
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	if owner.IsAnonymous() {
		line, err := svc.upsertLocal(ctx, owner, productID, selection, basePrice, delta)
		if err != nil {
			log.Error(ctx, "local upsert", logger.ErrorF(err))
			return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
		}
		return line, nil
	}

	wctx, wcancel := svc.writeCtx(ctx)
	defer wcancel()

	res, err := svc.carts.UpsertLine(wctx, domain.UpsertLineParams{
		OwnerID:       owner.UserID,
		ProductID:     productID,
		Selection:     selection,
		UnitBasePrice: basePrice,
		Delta:         delta,
	})
	if err != nil {
		log.Error(ctx, "repository upsert line", logger.ErrorF(err))
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug(ctx, "line upserted",
		logger.String("outcome", string(res.Outcome)),
		logger.Int("quantity", res.Line.Quantity),
	)

	return res.Line, nil
}

func (svc *service) upsertLocal(
	ctx context.Context,
	owner domain.Owner,
	productID uuid.UUID,
	selection domain.ConfigSelection,
	basePrice domain.Money,
	delta int,
) (domain.CartLine, error) {
	var entry domain.LocalCartEntry
	var changed bool

	err := svc.local.Update(ctx, owner.SessionID, func(entries []domain.LocalCartEntry) ([]domain.LocalCartEntry, error) {
		var updated []domain.LocalCartEntry
		updated, entry, changed = applyLocalDelta(entries, productID, selection, delta)
		return updated, nil
	})
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("local.Update: %w", err)
	}
	if !changed {
		return domain.CartLine{}, nil
	}

	return localLine(owner, entry, basePrice), nil
}

// applyLocalDelta adds delta to the entry equal to (productID, selection),
// appending or dropping it as needed. The returned entry has quantity zero
// when it was dropped; changed is false when nothing applied.
func applyLocalDelta(
	entries []domain.LocalCartEntry,
	productID uuid.UUID,
	selection domain.ConfigSelection,
	delta int,
) (_ []domain.LocalCartEntry, entry domain.LocalCartEntry, changed bool) {
	existing, idx, found := lo.FindIndexOf(entries, func(e domain.LocalCartEntry) bool {
		return e.ProductID == productID && e.Selection.Equal(selection)
	})

	switch {
	case found:
		entry = existing
		entry.Quantity += delta
		if entry.Quantity <= 0 {
			entry.Quantity = 0
			return append(entries[:idx], entries[idx+1:]...), entry, true
		}
		entries[idx] = entry
		return entries, entry, true
	case delta > 0:
		entry = domain.LocalCartEntry{ProductID: productID, Selection: selection, Quantity: delta}
		return append(entries, entry), entry, true
	default:
		return entries, domain.LocalCartEntry{}, false
	}
}

// LoadCart assembles the owner's cart from stored lines joined to products.
func (svc *service) LoadCart(ctx context.Context, owner domain.Owner) (domain.Cart, error) {
	const op = "cart.service.LoadCart"
	log := logger.With(
		logger.String("owner", owner.Key()),
		logger.Bool("anonymous", owner.IsAnonymous()),
	)

	if err := owner.Validate(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	rctx, cancel := svc.readCtx(ctx)
	defer cancel()

	lines, err := svc.lines(rctx, owner)
	if err != nil {
		log.Error(ctx, "read lines", logger.ErrorF(err))
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	ids := lo.Uniq(lo.Map(lines, func(l domain.CartLine, _ int) uuid.UUID { return l.ProductID }))

	products, err := svc.products.ProductsByIDs(rctx, ids)
	if err != nil {
		log.Error(ctx, "products by ids", logger.ErrorF(err))
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	if owner.IsAnonymous() {
		for i := range lines {
			if p, ok := products[lines[i].ProductID]; ok {
				lines[i].UnitBasePrice = p.Price
			}
		}
	}

	cart, err := domain.BuildCart(owner, lines, products, svc.cfg.TaxRate, svc.cfg.Currency)
	if err != nil {
		log.Error(ctx, "build cart", logger.ErrorF(err))
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	if len(cart.MissingProducts) > 0 {
		log.Warn(ctx, "cart references missing products",
			logger.Any("product_ids", cart.MissingProducts),
		)
	}
	if len(cart.DuplicateLines) > 0 {
		log.Warn(ctx, "duplicate cart lines for one configuration",
			logger.Any("line_ids", cart.DuplicateLines),
		)
	}

	return cart, nil
}

func (svc *service) lines(ctx context.Context, owner domain.Owner) ([]domain.CartLine, error) {
	if !owner.IsAnonymous() {
		return svc.carts.GetLines(ctx, owner.UserID)
	}

	entries, err := svc.local.Entries(ctx, owner.SessionID)
	if err != nil {
		return nil, err
	}

	return lo.Map(entries, func(e domain.LocalCartEntry, _ int) domain.CartLine {
		return localLine(owner, e, domain.ZeroMoney(svc.cfg.Currency))
	}), nil
}

// SetQuantity overwrites a line's quantity. Values below one are clamped to
// one; removal goes through RemoveLine or ChangeQuantity.
func (svc *service) SetQuantity(ctx context.Context, owner domain.Owner, lineID uuid.UUID, quantity int) error {
	const op = "cart.service.SetQuantity"
	log := logger.With(
		logger.String("owner", owner.Key()),
		logger.String("line_id", lineID.String()),
		logger.Int("quantity", quantity),
	)

	if err := owner.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if quantity > domain.MaxQuantity {
		return fmt.Errorf("%s: %w: quantity %d exceeds %d", op, domain.ErrValidation, quantity, domain.MaxQuantity)
	}
	quantity = max(quantity, 1)

	if owner.IsAnonymous() {
		if err := svc.mutateLocal(ctx, owner, lineID, func(e *domain.LocalCartEntry) bool {
			e.Quantity = quantity
			return true
		}); err != nil {
			log.Error(ctx, "local set quantity", logger.ErrorF(err))
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	wctx, cancel := svc.writeCtx(ctx)
	defer cancel()

	updated, err := svc.carts.SetQuantity(wctx, owner.UserID, lineID, quantity)
	if err != nil {
		log.Error(ctx, "repository set quantity", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if !updated {
		log.Debug(ctx, "line not found, nothing to update")
	}

	return nil
}

// ChangeQuantity adds delta to a line's quantity; a result of zero or less
// removes the line. An unknown line yields ErrLineNotFound.
func (svc *service) ChangeQuantity(ctx context.Context, owner domain.Owner, lineID uuid.UUID, delta int) (domain.CartLine, error) {
	const op = "cart.service.ChangeQuantity"
	log := logger.With(
		logger.String("owner", owner.Key()),
		logger.String("line_id", lineID.String()),
		logger.Int("delta", delta),
	)

	if err := owner.Validate(); err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := domain.ValidateQuantityDelta(delta); err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	if owner.IsAnonymous() {
		var entry domain.LocalCartEntry

		err := svc.local.Update(ctx, owner.SessionID, func(entries []domain.LocalCartEntry) ([]domain.LocalCartEntry, error) {
			found, ok := lo.Find(entries, func(e domain.LocalCartEntry) bool { return e.LineID() == lineID })
			if !ok {
				return nil, domain.ErrLineNotFound
			}

			var updated []domain.LocalCartEntry
			updated, entry, _ = applyLocalDelta(entries, found.ProductID, found.Selection, delta)
			return updated, nil
		})
		switch {
		case errors.Is(err, domain.ErrLineNotFound):
			return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
		case err != nil:
			log.Error(ctx, "local change quantity", logger.ErrorF(err))
			return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
		}

		return localLine(owner, entry, domain.ZeroMoney(svc.cfg.Currency)), nil
	}

	rctx, rcancel := svc.readCtx(ctx)
	defer rcancel()

	line, err := svc.carts.GetLine(rctx, owner.UserID, lineID)
	if err != nil {
		if !errors.Is(err, domain.ErrLineNotFound) {
			log.Error(ctx, "repository get line", logger.ErrorF(err))
		}
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	wctx, wcancel := svc.writeCtx(ctx)
	defer wcancel()

	res, err := svc.carts.UpsertLine(wctx, domain.UpsertLineParams{
		OwnerID:       owner.UserID,
		ProductID:     line.ProductID,
		Selection:     line.Selection,
		UnitBasePrice: line.UnitBasePrice,
		Delta:         delta,
	})
	if err != nil {
		log.Error(ctx, "repository upsert line", logger.ErrorF(err))
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	return res.Line, nil
}

// RemoveLine deletes a line; removing an absent line is not an error.
func (svc *service) RemoveLine(ctx context.Context, owner domain.Owner, lineID uuid.UUID) error {
	const op = "cart.service.RemoveLine"
	log := logger.With(
		logger.String("owner", owner.Key()),
		logger.String("line_id", lineID.String()),
	)

	if err := owner.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if owner.IsAnonymous() {
		if err := svc.mutateLocal(ctx, owner, lineID, func(*domain.LocalCartEntry) bool {
			return false
		}); err != nil {
			log.Error(ctx, "local remove line", logger.ErrorF(err))
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	wctx, cancel := svc.writeCtx(ctx)
	defer cancel()

	deleted, err := svc.carts.DeleteLine(wctx, owner.UserID, lineID)
	if err != nil {
		log.Error(ctx, "repository delete line", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if !deleted {
		log.Debug(ctx, "line already absent")
	}

	return nil
}

// CartCount is the total number of units in the owner's cart.
func (svc *service) CartCount(ctx context.Context, owner domain.Owner) (int, error) {
	const op = "cart.service.CartCount"

	if err := owner.Validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	rctx, cancel := svc.readCtx(ctx)
	defer cancel()

	if owner.IsAnonymous() {
		entries, err := svc.local.Entries(rctx, owner.SessionID)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		return lo.SumBy(entries, func(e domain.LocalCartEntry) int { return e.Quantity }), nil
	}

	count, err := svc.carts.CountItems(rctx, owner.UserID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

func (svc *service) ClearCart(ctx context.Context, owner domain.Owner) error {
	const op = "cart.service.ClearCart"

	if err := owner.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if owner.IsAnonymous() {
		if err := svc.local.Clear(ctx, owner.SessionID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	wctx, cancel := svc.writeCtx(ctx)
	defer cancel()

	deleted, err := svc.carts.DeleteAll(wctx, owner.UserID)
	if err != nil {
		logger.Error(ctx, "repository delete all", logger.String("owner", owner.Key()), logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Debug(ctx, "cart cleared", logger.String("owner", owner.Key()), logger.Int64("lines", deleted))

	return nil
}

// mutateLocal applies fn to the anonymous entry with the given line ID. When
// fn returns false the entry is dropped. An unknown line is a no-op.
func (svc *service) mutateLocal(
	ctx context.Context,
	owner domain.Owner,
	lineID uuid.UUID,
	fn func(e *domain.LocalCartEntry) bool,
) error {
	err := svc.local.Update(ctx, owner.SessionID, func(entries []domain.LocalCartEntry) ([]domain.LocalCartEntry, error) {
		_, idx, found := lo.FindIndexOf(entries, func(e domain.LocalCartEntry) bool { return e.LineID() == lineID })
		if !found {
			return entries, nil
		}

		if keep := fn(&entries[idx]); !keep {
			entries = append(entries[:idx], entries[idx+1:]...)
		}

		return entries, nil
	})
	if err != nil {
		return fmt.Errorf("local.Update: %w", err)
	}

	return nil
}

func (svc *service) readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if svc.cfg.ReadTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, svc.cfg.ReadTimeout)
}

func (svc *service) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if svc.cfg.WriteTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, svc.cfg.WriteTimeout)
}

func localLine(owner domain.Owner, e domain.LocalCartEntry, basePrice domain.Money) domain.CartLine {
	fingerprint := e.Selection.Fingerprint()

	return domain.CartLine{
		ID:            domain.LocalLineID(e.ProductID, fingerprint),
		OwnerID:       owner.Key(),
		ProductID:     e.ProductID,
		Selection:     e.Selection,
		Fingerprint:   fingerprint,
		Quantity:      e.Quantity,
		UnitBasePrice: basePrice,
	}
}
