package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolayk812/nexus-cart/internal/domain"
)

type fakeOrders struct {
	orders  map[uuid.UUID]domain.Order
	filters []domain.OrderFilter
}

func (f *fakeOrders) OrderByID(_ context.Context, id uuid.UUID) (domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeOrders) ListOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	f.filters = append(f.filters, filter)
	out := make([]domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrders) CompleteOrder(_ context.Context, id uuid.UUID) (domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if o.Status == domain.OrderStatusDone {
		return domain.Order{}, fmt.Errorf("order.service.CompleteOrder: %w", domain.ErrOrderConflict)
	}
	now := time.Now().UTC()
	o.Status = domain.OrderStatusDone
	o.CompletedAt = &now
	f.orders[id] = o
	return o, nil
}

type fakeCatalog struct {
	filters []domain.ProductFilter
	created []domain.Product
	updated []domain.Product
	deleted []uuid.UUID
}

func (f *fakeCatalog) ProductByID(_ context.Context, _ uuid.UUID) (domain.Product, error) {
	return domain.Product{}, domain.ErrProductNotFound
}

func (f *fakeCatalog) ListProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	f.filters = append(f.filters, filter)
	return nil, nil
}

func (f *fakeCatalog) CreateProduct(_ context.Context, p domain.Product) (uuid.UUID, error) {
	if err := p.Validate(); err != nil {
		return uuid.Nil, err
	}
	f.created = append(f.created, p)
	return uuid.New(), nil
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, p domain.Product) error {
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakeCatalog) DeleteProduct(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newAdminRouter(orders OrderService, catalog CatalogService) http.Handler {
	r := chi.NewRouter()
	r.Route("/admin", NewAdminHandler(orders, catalog).Routes)
	return r
}

func TestAdminOrders(t *testing.T) {
	pending := domain.Order{
		ID:            uuid.New(),
		OwnerID:       "user-1",
		Status:        domain.OrderStatusPending,
		PaymentMethod: domain.PaymentMethodCash,
		Total:         usd("1236"),
		CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	orders := &fakeOrders{orders: map[uuid.UUID]domain.Order{pending.ID: pending}}
	r := newAdminRouter(orders, &fakeCatalog{})

	rec := do(t, r, http.MethodGet, "/admin/orders?ownerId=user-1&status=pending&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []domain.OrderFilter{{OwnerID: "user-1", Status: domain.OrderStatusPending, Limit: 10}}, orders.filters)

	rec = do(t, r, http.MethodGet, "/admin/orders?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodGet, "/admin/orders/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPost, "/admin/orders/"+pending.ID.String()+"/complete", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"done"`)

	rec = do(t, r, http.MethodPost, "/admin/orders/"+pending.ID.String()+"/complete", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminProducts(t *testing.T) {
	catalog := &fakeCatalog{}
	r := newAdminRouter(&fakeOrders{}, catalog)

	body := `{
		"name": "Nexus Workstation",
		"brand": "Nexus",
		"model": "NX-1",
		"price": {"amount": "1000", "currency": "USD"},
		"rating": "4.5",
		"features": ["Liquid cooling", " ", "Wi-Fi 7 "],
		"configurations": {"gpu": [{"name": "RTX A", "price": "200"}, {"name": "RTX B", "price": "450"}]}
	}`

	rec := do(t, r, http.MethodPost, "/admin/products", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, catalog.created, 1)

	created := catalog.created[0]
	assert.True(t, created.Price.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "Nexus", created.Brand)
	assert.Equal(t, "NX-1", created.Model)
	assert.True(t, created.Rating.Equal(decimal.RequireFromString("4.5")))
	assert.Equal(t, []string{"Liquid cooling", "Wi-Fi 7"}, created.Features)
	opt, ok := created.Configurations.Option(domain.CategoryGPU, "RTX B")
	require.True(t, ok)
	assert.True(t, opt.Price.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, "RTX A", created.Configurations[domain.CategoryGPU][0].Name)

	rec = do(t, r, http.MethodPost, "/admin/products", `{"name":"","price":{"amount":"1","currency":"USD"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/admin/products", `{"name":"x","price":{"amount":"abc","currency":"USD"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/admin/products", `{"name":"x","price":{"amount":"1","currency":"USD"},"rating":"7"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodGet, "/admin/products?q=+nexus+&category=workstations&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []domain.ProductFilter{{Category: "workstations", Search: "nexus", Limit: 5}}, catalog.filters)

	id := uuid.New()
	rec = do(t, r, http.MethodPut, "/admin/products/"+id.String(), body)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, catalog.updated, 1)
	assert.Equal(t, id, catalog.updated[0].ID)

	rec = do(t, r, http.MethodDelete, "/admin/products/"+id.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []uuid.UUID{id}, catalog.deleted)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrInvalidSelection, http.StatusBadRequest},
		{domain.ErrCurrencyMismatch, http.StatusBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrProductNotFound, http.StatusNotFound},
		{domain.ErrLineNotFound, http.StatusNotFound},
		{domain.ErrOrderNotFound, http.StatusNotFound},
		{domain.ErrOrderConflict, http.StatusConflict},
		{domain.ErrReconcileInProgress, http.StatusConflict},
		{domain.ErrEmptyCart, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, _ := statusOf(fmt.Errorf("op: %w", tt.err))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdminAuth(t *testing.T) {
	guarded := func(token string) http.Handler {
		r := chi.NewRouter()
		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuth(token))
			NewAdminHandler(&fakeOrders{orders: map[uuid.UUID]domain.Order{}}, &fakeCatalog{}).Routes(r)
		})
		return r
	}
	bearer := func(v string) func(*http.Request) {
		return func(r *http.Request) { r.Header.Set("Authorization", v) }
	}

	r := guarded("s3cret")

	rec := do(t, r, http.MethodGet, "/admin/orders", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")

	rec = do(t, r, http.MethodGet, "/admin/orders", "", bearer("Bearer wrong"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, r, http.MethodGet, "/admin/orders", "", bearer("s3cret"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, r, http.MethodGet, "/admin/orders", "", bearer("Bearer s3cret"))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodDelete, "/admin/products/"+uuid.NewString(), "", withUser("user-1"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, guarded(""), http.MethodGet, "/admin/orders", "", bearer("Bearer "))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
