package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolayk812/nexus-cart/internal/domain"
)

func TestSendInvoice(t *testing.T) {
	var got sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(resty.NewWithClient(srv.Client()), Config{
		Endpoint:   srv.URL,
		ServiceID:  "svc",
		TemplateID: "tpl",
		PublicKey:  "pub",
	})

	err := c.SendInvoice(context.Background(), domain.Invoice{
		ToEmail:      "ada@example.com",
		CustomerName: "Ada",
		Total:        "1236.00 USD",
	})
	require.NoError(t, err)

	assert.Equal(t, "svc", got.ServiceID)
	assert.Equal(t, "tpl", got.TemplateID)
	assert.Equal(t, "pub", got.UserID)
	assert.Equal(t, "ada@example.com", got.TemplateParams["to_email"])
	assert.Equal(t, "1236.00 USD", got.TemplateParams["total"])
}

func TestSendInvoice_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "template not found", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(resty.NewWithClient(srv.Client()), Config{Endpoint: srv.URL})

	err := c.SendInvoice(context.Background(), domain.Invoice{ToEmail: "ada@example.com"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "400")
	assert.ErrorContains(t, err, "template not found")
}
