package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePreference(t *testing.T) {
	var got PreferenceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Preference{ID: "pref-9", InitPoint: "https://pay.test/pref-9"})
	}))
	defer srv.Close()

	client := NewClient(Config{AccessToken: "test-token", BaseURL: srv.URL})

	pref, err := client.CreatePreference(context.Background(), &PreferenceRequest{
		Items:             []Item{{Title: "Acesso Mensal", Quantity: 1, UnitPrice: 59.90}},
		ExternalReference: "clinic_x_plan_y_z",
	})
	require.NoError(t, err)

	assert.Equal(t, "pref-9", pref.ID)
	assert.Equal(t, "https://pay.test/pref-9", pref.InitPoint)
	assert.Equal(t, "clinic_x_plan_y_z", got.ExternalReference)
	assert.Equal(t, 59.90, got.Items[0].UnitPrice)
}

func TestGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/42", r.URL.Path)
		json.NewEncoder(w).Encode(Payment{
			ID:                42,
			Status:            "approved",
			ExternalReference: "ref",
			TransactionAmount: 59.90,
		})
	}))
	defer srv.Close()

	client := NewClient(Config{AccessToken: "test-token", BaseURL: srv.URL})

	pmt, err := client.GetPayment(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), pmt.ID)
	assert.Equal(t, "approved", pmt.Status)
}

func TestGetPaymentErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(Config{AccessToken: "test-token", BaseURL: srv.URL})

	_, err := client.GetPayment(context.Background(), "42")
	assert.Error(t, err)
}
