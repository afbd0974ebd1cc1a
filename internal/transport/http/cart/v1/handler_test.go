package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/session"
)

const testCookie = "nexus_session-id"

type mockCartService struct {
	mock.Mock
}

func (m *mockCartService) UnitPrice(ctx context.Context, productID uuid.UUID, selection domain.ConfigSelection) (domain.Money, error) {
	args := m.Called(ctx, productID, selection)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *mockCartService) Upsert(ctx context.Context, owner domain.Owner, productID uuid.UUID, selection domain.ConfigSelection, delta int) (domain.CartLine, error) {
	args := m.Called(ctx, owner, productID, selection, delta)
	return args.Get(0).(domain.CartLine), args.Error(1)
}

func (m *mockCartService) LoadCart(ctx context.Context, owner domain.Owner) (domain.Cart, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *mockCartService) SetQuantity(ctx context.Context, owner domain.Owner, lineID uuid.UUID, qty int) error {
	return m.Called(ctx, owner, lineID, qty).Error(0)
}

func (m *mockCartService) ChangeQuantity(ctx context.Context, owner domain.Owner, lineID uuid.UUID, delta int) (domain.CartLine, error) {
	args := m.Called(ctx, owner, lineID, delta)
	return args.Get(0).(domain.CartLine), args.Error(1)
}

func (m *mockCartService) RemoveLine(ctx context.Context, owner domain.Owner, lineID uuid.UUID) error {
	return m.Called(ctx, owner, lineID).Error(0)
}

func (m *mockCartService) CartCount(ctx context.Context, owner domain.Owner) (int, error) {
	args := m.Called(ctx, owner)
	return args.Int(0), args.Error(1)
}

func (m *mockCartService) ClearCart(ctx context.Context, owner domain.Owner) error {
	return m.Called(ctx, owner).Error(0)
}

func (m *mockCartService) Checkout(ctx context.Context, owner domain.Owner, params domain.CheckoutParams) (uuid.UUID, error) {
	args := m.Called(ctx, owner, params)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type fakeTracker struct {
	users  map[string]string
	events []session.AuthEvent
	err    error
}

func (f *fakeTracker) UserOf(sessionID string) (string, bool) {
	u, ok := f.users[sessionID]
	return u, ok
}

func (f *fakeTracker) Transition(_ context.Context, ev session.AuthEvent) (session.Context, error) {
	f.events = append(f.events, ev)
	if f.err != nil {
		return session.Context{}, f.err
	}
	if ev.UserID == "" {
		return session.Context{Owner: domain.AnonymousOwner(ev.SessionID)}, nil
	}
	return session.Context{
		Owner:      domain.UserOwner(ev.UserID),
		CartCount:  3,
		Reconciled: &domain.ReconcileResult{Merged: 2},
	}, nil
}

type fakeProducts map[uuid.UUID]domain.Product

func (f fakeProducts) ProductByID(_ context.Context, id uuid.UUID) (domain.Product, error) {
	p, ok := f[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("q.ProductByID: %w", domain.ErrProductNotFound)
	}
	return p, nil
}

func usd(s string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(s), currency.USD)
}

func newTestRouter(svc CartService, tracker *fakeTracker, products ProductReader) http.Handler {
	h := NewHandler(svc, tracker, products)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(OwnerMiddleware(testCookie, tracker))
		h.Routes(r)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func withSession(id string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: testCookie, Value: id})
	}
}

func withUser(id string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set(userIDHeader, id)
	}
}

func TestOwnerMiddleware(t *testing.T) {
	tracker := &fakeTracker{users: map[string]string{"signed-in": "user-7"}}

	var got domain.Owner
	h := OwnerMiddleware(testCookie, tracker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ownerFrom(r.Context())
	}))

	t.Run("issues session cookie", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/", "")

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, testCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, domain.AnonymousOwner(cookies[0].Value), got)
	})

	t.Run("existing session stays anonymous", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/", "", withSession("s-1"))

		assert.Empty(t, rec.Result().Cookies())
		assert.Equal(t, domain.AnonymousOwner("s-1"), got)
	})

	t.Run("signed-in session", func(t *testing.T) {
		do(t, h, http.MethodGet, "/", "", withSession("signed-in"))
		assert.Equal(t, domain.UserOwner("user-7"), got)
	})

	t.Run("user header wins", func(t *testing.T) {
		do(t, h, http.MethodGet, "/", "", withSession("signed-in"), withUser("user-9"))
		assert.Equal(t, domain.UserOwner("user-9"), got)
	})
}

func TestAddItem(t *testing.T) {
	productID := uuid.New()
	owner := domain.AnonymousOwner("s-1")
	sel := domain.SelectionFromNames(map[domain.Category]string{domain.CategoryGPU: "RTX B"})

	line := domain.CartLine{
		ID:            uuid.New(),
		ProductID:     productID,
		Selection:     domain.ConfigSelection{domain.CategoryGPU: {Name: "RTX B", Price: decimal.NewFromInt(450)}},
		Quantity:      2,
		UnitBasePrice: usd("1000"),
	}

	tests := []struct {
		name       string
		body       string
		setup      func(m *mockCartService)
		wantStatus int
	}{
		{
			name: "added",
			body: fmt.Sprintf(`{"productId":%q,"selection":{"gpu":"RTX B"},"quantity":2}`, productID),
			setup: func(m *mockCartService) {
				m.On("Upsert", mock.Anything, owner, productID, sel, 2).Return(line, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "quantity defaults to one",
			body: fmt.Sprintf(`{"productId":%q,"selection":{"gpu":"RTX B"}}`, productID),
			setup: func(m *mockCartService) {
				m.On("Upsert", mock.Anything, owner, productID, sel, 1).Return(line, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "zero quantity",
			body:       fmt.Sprintf(`{"productId":%q,"quantity":0}`, productID),
			setup:      func(m *mockCartService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "quantity above the limit",
			body:       fmt.Sprintf(`{"productId":%q,"quantity":10001}`, productID),
			setup:      func(m *mockCartService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "quantity that would wrap at 32 bits",
			body:       fmt.Sprintf(`{"productId":%q,"quantity":4294967297}`, productID),
			setup:      func(m *mockCartService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"sku":"x"}`,
			setup:      func(m *mockCartService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid selection",
			body: fmt.Sprintf(`{"productId":%q,"selection":{"gpu":"RTX B"}}`, productID),
			setup: func(m *mockCartService) {
				m.On("Upsert", mock.Anything, owner, productID, sel, 1).
					Return(domain.CartLine{}, fmt.Errorf("cart.service.Upsert: %w", domain.ErrInvalidSelection)).Once()
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "product not found",
			body: fmt.Sprintf(`{"productId":%q,"selection":{"gpu":"RTX B"}}`, productID),
			setup: func(m *mockCartService) {
				m.On("Upsert", mock.Anything, owner, productID, sel, 1).
					Return(domain.CartLine{}, fmt.Errorf("cart.service.Upsert: %w", domain.ErrProductNotFound)).Once()
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCartService{}
			tt.setup(svc)
			r := newTestRouter(svc, &fakeTracker{}, fakeProducts{})

			rec := do(t, r, http.MethodPost, "/api/v1/cart/items", tt.body, withSession("s-1"))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			svc.AssertExpectations(t)

			if tt.wantStatus == http.StatusCreated {
				var got lineDTO
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, line.ID, got.ID)
				assert.Equal(t, "450.00", got.Selection["gpu"].Price)
				assert.Equal(t, moneyDTO{Amount: "1000.00", Currency: "USD"}, got.UnitBase)
			}
		})
	}
}

func TestGetUnitPrice(t *testing.T) {
	productID := uuid.New()
	sel := domain.SelectionFromNames(map[domain.Category]string{
		domain.CategoryGPU: "RTX B",
		domain.CategoryRAM: "32GB",
	})

	svc := &mockCartService{}
	svc.On("UnitPrice", mock.Anything, productID, sel).Return(usd("1540"), nil).Once()
	r := newTestRouter(svc, &fakeTracker{}, fakeProducts{})

	rec := do(t, r, http.MethodGet, "/api/v1/products/"+productID.String()+"/price?gpu=RTX+B&ram=32GB", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got priceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, moneyDTO{Amount: "1540.00", Currency: "USD"}, got.UnitPrice)
	assert.Equal(t, map[string]string{"gpu": "RTX B", "ram": "32GB"}, got.Selection)
	svc.AssertExpectations(t)
}

func TestGetProduct(t *testing.T) {
	p := domain.Product{
		ID:    uuid.New(),
		Name:  "Nexus Workstation",
		Price: usd("1000"),
		Configurations: domain.ConfigCatalog{
			domain.CategoryGPU: {
				{Name: "RTX A", Price: decimal.NewFromInt(200)},
				{Name: "RTX B", Price: decimal.NewFromInt(450)},
			},
		},
	}
	r := newTestRouter(&mockCartService{}, &fakeTracker{}, fakeProducts{p.ID: p})

	t.Run("found", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/api/v1/products/"+p.ID.String(), "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got productDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, map[string]string{"gpu": "RTX A"}, got.DefaultSelection)
		assert.Len(t, got.Configurations["gpu"], 2)
	})

	t.Run("not found", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/api/v1/products/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/api/v1/products/nope", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCartLineRoutes(t *testing.T) {
	owner := domain.UserOwner("user-1")
	lineID := uuid.New()
	target := "/api/v1/cart/items/" + lineID.String()

	t.Run("set quantity", func(t *testing.T) {
		svc := &mockCartService{}
		svc.On("SetQuantity", mock.Anything, owner, lineID, 4).Return(nil).Once()
		r := newTestRouter(svc, &fakeTracker{}, fakeProducts{})

		rec := do(t, r, http.MethodPut, target, `{"quantity":4}`, withUser("user-1"))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("change quantity removes line", func(t *testing.T) {
		svc := &mockCartService{}
		svc.On("ChangeQuantity", mock.Anything, owner, lineID, -1).
			Return(domain.CartLine{ID: lineID, Quantity: 0, UnitBasePrice: usd("0")}, nil).Once()
		r := newTestRouter(svc, &fakeTracker{}, fakeProducts{})

		rec := do(t, r, http.MethodPatch, target, `{"delta":-1}`, withUser("user-1"))
		require.Equal(t, http.StatusOK, rec.Code)

		var got lineDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Zero(t, got.Quantity)
		svc.AssertExpectations(t)
	})

	t.Run("change quantity of unknown line", func(t *testing.T) {
		svc := &mockCartService{}
		svc.On("ChangeQuantity", mock.Anything, owner, lineID, 1).
			Return(domain.CartLine{}, fmt.Errorf("cart.service.ChangeQuantity: %w", domain.ErrLineNotFound)).Once()
		r := newTestRouter(svc, &fakeTracker{}, fakeProducts{})

		rec := do(t, r, http.MethodPatch, target, `{"delta":1}`, withUser("user-1"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("quantities out of range never reach the service", func(t *testing.T) {
		svc := &mockCartService{}
		r := newTestRouter(svc, &fakeTracker{}, fakeProducts{})

		rec := do(t, r, http.MethodPut, target, `{"quantity":4294967297}`, withUser("user-1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, r, http.MethodPatch, target, `{"delta":-4294967297}`, withUser("user-1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		svc.AssertExpectations(t)
	})

	t.Run("remove unknown line", func(t *testing.T) {
		svc := &mockCartService{}
		svc.On("RemoveLine", mock.Anything, owner, lineID).
			Return(fmt.Errorf("cart.service.RemoveLine: %w", domain.ErrLineNotFound)).Once()
		r := newTestRouter(svc, &fakeTracker{}, fakeProducts{})

		rec := do(t, r, http.MethodDelete, target, "", withUser("user-1"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("count and clear", func(t *testing.T) {
		svc := &mockCartService{}
		svc.On("CartCount", mock.Anything, owner).Return(5, nil).Once()
		svc.On("ClearCart", mock.Anything, owner).Return(nil).Once()
		r := newTestRouter(svc, &fakeTracker{}, fakeProducts{})

		rec := do(t, r, http.MethodGet, "/api/v1/cart/count", "", withUser("user-1"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"count":5}`, rec.Body.String())

		rec = do(t, r, http.MethodDelete, "/api/v1/cart", "", withUser("user-1"))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestGetCart(t *testing.T) {
	owner := domain.AnonymousOwner("s-1")
	missing := uuid.New()

	cart := domain.Cart{
		Owner: owner,
		Entries: []domain.CartEntry{
			{
				Line:      domain.CartLine{ID: uuid.New(), ProductID: uuid.New(), Quantity: 2, UnitBasePrice: usd("1000")},
				Product:   &domain.Product{Name: "Nexus Workstation"},
				UnitPrice: usd("1200"),
				LineTotal: usd("2400"),
			},
			{
				Line:    domain.CartLine{ID: uuid.New(), ProductID: missing, Quantity: 1, UnitBasePrice: usd("0")},
				Missing: true,
			},
		},
		Subtotal:        usd("2400"),
		TaxRate:         decimal.RequireFromString("0.03"),
		Tax:             usd("72"),
		Total:           usd("2472"),
		ItemCount:       2,
		MissingProducts: []uuid.UUID{missing},
	}

	svc := &mockCartService{}
	svc.On("LoadCart", mock.Anything, owner).Return(cart, nil).Once()
	r := newTestRouter(svc, &fakeTracker{}, fakeProducts{})

	rec := do(t, r, http.MethodGet, "/api/v1/cart", "", withSession("s-1"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got cartDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.True(t, got.Anonymous)
	assert.Equal(t, "2472.00", got.Total.Amount)
	assert.Equal(t, "72.00", got.Tax.Amount)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "2400.00", got.Entries[0].LineTotal.Amount)
	assert.True(t, got.Entries[1].Missing)
	assert.Nil(t, got.Entries[1].LineTotal)
	assert.Equal(t, []uuid.UUID{missing}, got.MissingProducts)
	svc.AssertExpectations(t)
}

func TestSessionRoutes(t *testing.T) {
	tracker := &fakeTracker{}
	r := newTestRouter(&mockCartService{}, tracker, fakeProducts{})

	rec := do(t, r, http.MethodPost, "/api/v1/session/login", `{"userId":"user-1"}`, withSession("s-1"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t,
		`{"ownerId":"user-1","anonymous":false,"cartCount":3,"reconciled":{"merged":2,"failed":0}}`,
		rec.Body.String(),
	)

	rec = do(t, r, http.MethodPost, "/api/v1/session/logout", "", withSession("s-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []session.AuthEvent{
		{SessionID: "s-1", UserID: "user-1"},
		{SessionID: "s-1"},
	}, tracker.events)

	rec = do(t, r, http.MethodPost, "/api/v1/session/login", `{}`, withSession("s-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	tracker.err = fmt.Errorf("session.Tracker.Transition: %w", domain.ErrReconcileInProgress)
	rec = do(t, r, http.MethodPost, "/api/v1/session/login", `{"userId":"user-1"}`, withSession("s-2"))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckout(t *testing.T) {
	orderID := uuid.New()
	params := domain.CheckoutParams{
		PaymentMethod: domain.PaymentMethodCash,
		CustomerName:  "Ada Lovelace",
		Email:         "ada@example.com",
	}
	body := `{"paymentMethod":"cash","customerName":"Ada Lovelace","email":"ada@example.com"}`

	tests := []struct {
		name       string
		owner      domain.Owner
		opts       []func(*http.Request)
		err        error
		wantStatus int
	}{
		{
			name:       "placed",
			owner:      domain.UserOwner("user-1"),
			opts:       []func(*http.Request){withUser("user-1")},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "anonymous",
			owner:      domain.AnonymousOwner("s-1"),
			opts:       []func(*http.Request){withSession("s-1")},
			err:        domain.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty cart",
			owner:      domain.UserOwner("user-1"),
			opts:       []func(*http.Request){withUser("user-1")},
			err:        domain.ErrEmptyCart,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "storage failure",
			owner:      domain.UserOwner("user-1"),
			opts:       []func(*http.Request){withUser("user-1")},
			err:        fmt.Errorf("q.CreateOrder: connection reset"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCartService{}
			if tt.err != nil {
				svc.On("Checkout", mock.Anything, tt.owner, params).
					Return(uuid.Nil, fmt.Errorf("cart.service.Checkout: %w", tt.err)).Once()
			} else {
				svc.On("Checkout", mock.Anything, tt.owner, params).Return(orderID, nil).Once()
			}
			r := newTestRouter(svc, &fakeTracker{}, fakeProducts{})

			rec := do(t, r, http.MethodPost, "/api/v1/checkout", body, tt.opts...)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusCreated {
				assert.JSONEq(t, fmt.Sprintf(`{"orderId":%q}`, orderID), rec.Body.String())
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "connection reset")
			}
			svc.AssertExpectations(t)
		})
	}
}
