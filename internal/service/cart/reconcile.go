package cart

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/logger"
)

// ReconcileOnLogin replays the anonymous cart of sessionID into the cart of
// userID, in list order, then removes the replayed entries from the
// anonymous cart. Entries that fail are logged and skipped. Only one
// reconciliation runs per session at a time.
func (svc *service) ReconcileOnLogin(ctx context.Context, sessionID, userID string) (domain.ReconcileResult, error) {
	const op = "cart.service.ReconcileOnLogin"
	log := logger.With(
		logger.String("session_id", sessionID),
		logger.String("user_id", userID),
	)

	if sessionID == "" || userID == "" {
		return domain.ReconcileResult{}, fmt.Errorf("%s: %w: session and user are required", op, domain.ErrValidation)
	}

	if !svc.beginReconcile(sessionID) {
		log.Warn(ctx, "reconciliation already running")
		return domain.ReconcileResult{}, fmt.Errorf("%s: %w", op, domain.ErrReconcileInProgress)
	}
	defer svc.endReconcile(sessionID)

	entries, err := svc.local.Entries(ctx, sessionID)
	if err != nil {
		log.Error(ctx, "read anonymous cart", logger.ErrorF(err))
		return domain.ReconcileResult{}, fmt.Errorf("%s: %w", op, err)
	}

	var res domain.ReconcileResult
	owner := domain.UserOwner(userID)

	for i, e := range entries {
		if e.Quantity <= 0 {
			continue
		}

		if _, err := svc.Upsert(ctx, owner, e.ProductID, e.Selection, e.Quantity); err != nil {
			res.Failed++
			log.Warn(ctx, "skip anonymous cart entry",
				logger.Int("position", i),
				logger.String("product_id", e.ProductID.String()),
				logger.ErrorF(err),
			)
			continue
		}
		res.Merged++
	}

	// Removed even after partial failure so the entries are never replayed
	// twice. Entries added while the replay ran are kept.
	err = svc.local.Update(ctx, sessionID, func(current []domain.LocalCartEntry) ([]domain.LocalCartEntry, error) {
		return withoutReplayed(current, entries), nil
	})
	if err != nil {
		log.Error(ctx, "clear anonymous cart", logger.ErrorF(err))
		return res, fmt.Errorf("%s: %w", op, err)
	}

	log.Info(ctx, "anonymous cart reconciled",
		logger.Int("merged", res.Merged),
		logger.Int("failed", res.Failed),
	)

	return res, nil
}

// withoutReplayed subtracts the replayed quantities from current and drops
// entries left with nothing.
func withoutReplayed(current, replayed []domain.LocalCartEntry) []domain.LocalCartEntry {
	for _, r := range replayed {
		_, idx, found := lo.FindIndexOf(current, func(e domain.LocalCartEntry) bool {
			return e.ProductID == r.ProductID && e.Selection.Equal(r.Selection)
		})
		if !found {
			continue
		}

		current[idx].Quantity -= max(r.Quantity, 0)
		if current[idx].Quantity <= 0 {
			current = append(current[:idx], current[idx+1:]...)
		}
	}

	return current
}

func (svc *service) beginReconcile(sessionID string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, running := svc.reconciling[sessionID]; running {
		return false
	}
	svc.reconciling[sessionID] = struct{}{}

	return true
}

func (svc *service) endReconcile(sessionID string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	delete(svc.reconciling, sessionID)
}
