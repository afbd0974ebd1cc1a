package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/logger"
)

type Reconciler interface {
	ReconcileOnLogin(ctx context.Context, sessionID, userID string) (domain.ReconcileResult, error)
}

type CartCounter interface {
	CartCount(ctx context.Context, owner domain.Owner) (int, error)
}

// AuthEvent reports the auth state of a browser session. An empty UserID
// means the session is signed out.
type AuthEvent struct {
	SessionID string
	UserID    string
}

// Context is what the UI needs after a transition: whose cart is active
// and how many units it holds.
type Context struct {
	Owner      domain.Owner
	CartCount  int
	Reconciled *domain.ReconcileResult
}

// Tracker remembers the signed-in user per session and reconciles the
// anonymous cart once per anonymous to authenticated transition.
// Transitions of one session run one at a time.
type Tracker struct {
	reconciler Reconciler
	counter    CartCounter

	mu    sync.Mutex
	users map[string]string
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewTracker(reconciler Reconciler, counter CartCounter) *Tracker {
	return &Tracker{
		reconciler: reconciler,
		counter:    counter,
		users:      make(map[string]string),
		locks:      make(map[string]*sessionLock),
	}
}

func (t *Tracker) lockSession(sessionID string) (unlock func()) {
	t.mu.Lock()
	l, ok := t.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		t.locks[sessionID] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, sessionID)
		}
		t.mu.Unlock()
	}
}

func (t *Tracker) Transition(ctx context.Context, ev AuthEvent) (Context, error) {
	const op = "session.Tracker.Transition"
	log := logger.With(
		logger.String("session_id", ev.SessionID),
		logger.String("user_id", ev.UserID),
	)

	if ev.SessionID == "" {
		return Context{}, fmt.Errorf("%s: %w: session id is empty", op, domain.ErrValidation)
	}

	unlock := t.lockSession(ev.SessionID)
	defer unlock()

	t.mu.Lock()
	prev := t.users[ev.SessionID]
	if ev.UserID == "" {
		delete(t.users, ev.SessionID)
	}
	t.mu.Unlock()

	var out Context

	switch {
	case ev.UserID == "":
		out.Owner = domain.AnonymousOwner(ev.SessionID)
		if prev != "" {
			log.Info(ctx, "signed out", logger.String("previous_user_id", prev))
		}
	case prev == ev.UserID:
		out.Owner = domain.UserOwner(ev.UserID)
	default:
		out.Owner = domain.UserOwner(ev.UserID)

		res, err := t.reconciler.ReconcileOnLogin(ctx, ev.SessionID, ev.UserID)
		switch {
		case errors.Is(err, domain.ErrReconcileInProgress):
			log.Warn(ctx, "reconciliation running elsewhere")
		case err != nil:
			return Context{}, fmt.Errorf("%s: %w", op, err)
		default:
			out.Reconciled = &res
		}

		t.mu.Lock()
		t.users[ev.SessionID] = ev.UserID
		t.mu.Unlock()
	}

	count, err := t.counter.CartCount(ctx, out.Owner)
	if err != nil {
		return Context{}, fmt.Errorf("%s: %w", op, err)
	}
	out.CartCount = count

	return out, nil
}

// UserOf returns the user signed in on the session, if any.
func (t *Tracker) UserOf(sessionID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	userID, ok := t.users[sessionID]
	return userID, ok
}
