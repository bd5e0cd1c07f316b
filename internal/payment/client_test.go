package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoice_FormEncodedRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "test-key", r.PostForm.Get("api_key"))
		assert.Equal(t, "2500", r.PostForm.Get("amount"))
		assert.Equal(t, "abc123", r.PostForm.Get("reference"))
		assert.Equal(t, "http://app/success", r.PostForm.Get("success_url"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pay_url":"https://pay.example.com/inv/INV42","paymentID":"INV42","amount":2500}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", false, time.Second)
	inv, err := client.CreateInvoice(context.Background(), InvoiceRequest{
		Reference:  "abc123",
		Amount:     2500,
		SuccessURL: "http://app/success",
		CancelURL:  "http://app/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "INV42", inv.PaymentID)
	assert.Equal(t, "https://pay.example.com/inv/INV42", inv.PayURL)
	assert.Equal(t, 2500, inv.Amount)
}

func TestCreateInvoice_ProviderErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad-key", false, time.Second)
	_, err := client.CreateInvoice(context.Background(), InvoiceRequest{Reference: "abc123", Amount: 100})
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "invalid api key", provErr.Message)
}

func TestCreateInvoice_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway busy", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", false, time.Second)
	_, err := client.CreateInvoice(context.Background(), InvoiceRequest{Reference: "abc123", Amount: 100})
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusBadGateway, provErr.Status)
}

func TestCreateInvoice_Sandbox(t *testing.T) {
	client := NewClient("", "", true, time.Second)
	inv, err := client.CreateInvoice(context.Background(), InvoiceRequest{
		Reference:  "abc123",
		Amount:     1500,
		SuccessURL: "http://app/success-payment",
	})
	require.NoError(t, err)
	assert.Equal(t, 1500, inv.Amount)
	assert.Contains(t, inv.PaymentID, "abc123")
	assert.Contains(t, inv.PayURL, "http://app/success-payment?paymentID=")
}
