package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://app/success", req.SuccessURL)
		assert.Equal(t, 3000, req.Amount)
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://pay.example/s/" + req.OrderID})
	}))
	defer srv.Close()

	c := NewClientWithHTTP(config.CheckoutConfig{Endpoint: srv.URL, SuccessURL: "https://app/success"}, srv.Client())
	url, err := c.CreateSession(context.Background(), SessionRequest{OrderID: "o-1", Amount: 3000})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/s/o-1", url)
}

func TestCreateSession_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClientWithHTTP(config.CheckoutConfig{Endpoint: srv.URL}, srv.Client())
	_, err := c.CreateSession(context.Background(), SessionRequest{OrderID: "o-2"})
	assert.ErrorIs(t, err, common.ErrCheckoutFailed)

	_, err = NewClientWithHTTP(config.CheckoutConfig{}, http.DefaultClient).CreateSession(context.Background(), SessionRequest{})
	assert.ErrorIs(t, err, common.ErrCheckoutFailed)
}

func TestVerify(t *testing.T) {
	body := []byte(`{"order_id":"o-1","status":"completed"}`)
	sig := Sign("s3cret", body)
	assert.True(t, Verify("s3cret", body, sig))
	assert.False(t, Verify("other", body, sig))
	assert.False(t, Verify("s3cret", []byte(`{}`), sig))
	assert.False(t, Verify("", body, sig))
	assert.False(t, Verify("s3cret", body, "zz"))
}
