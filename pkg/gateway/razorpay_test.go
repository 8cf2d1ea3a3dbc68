package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignMatchesKnownVector(t *testing.T) {
	sig := Sign("secret", "order_abc", "pay_xyz")
	assert.Len(t, sig, 64)
	assert.True(t, VerifySignature("secret", "order_abc", "pay_xyz", sig))
	assert.False(t, VerifySignature("other", "order_abc", "pay_xyz", sig))
	assert.False(t, VerifySignature("secret", "order_abc", "pay_xy", sig))
	assert.False(t, VerifySignature("secret", "order_abc", "pay_xyz", sig[:63]+"0"))
	assert.False(t, VerifySignature("secret", "order_abc", "pay_xyz", ""))
}

func TestCreateOrderSendsAuthAndAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "shh", pass)

		var in CreateOrderReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, int64(56500), in.Amount)
		assert.Equal(t, "INR", in.Currency)
		assert.Equal(t, "order_12", in.Receipt)

		_ = json.NewEncoder(w).Encode(Order{ID: "order_RZP1", Amount: in.Amount, Currency: in.Currency, Receipt: in.Receipt, Status: "created"})
	}))
	defer srv.Close()

	rp := NewRazorpay(Config{KeyID: "rzp_test_key", KeySecret: "shh", BaseURL: srv.URL + "/v1"})
	out, err := rp.CreateOrder(context.Background(), CreateOrderReq{Amount: 56500, Currency: "INR", Receipt: "order_12"})
	require.NoError(t, err)
	assert.Equal(t, "order_RZP1", out.ID)
	assert.Equal(t, "rzp_test_key", rp.KeyID())
}

func TestCreateOrderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer srv.Close()

	rp := NewRazorpay(Config{BaseURL: srv.URL})
	_, err := rp.CreateOrder(context.Background(), CreateOrderReq{Amount: 1})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "BAD_REQUEST_ERROR", apiErr.Code)
}

func TestCreateOrderTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	rp := NewRazorpay(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := rp.CreateOrder(context.Background(), CreateOrderReq{Amount: 100})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBreakerOpensAfterServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	rp := NewRazorpay(Config{BaseURL: srv.URL})
	for i := 0; i < 5; i++ {
		_, err := rp.CreateOrder(context.Background(), CreateOrderReq{Amount: 100})
		require.Error(t, err)
	}
	_, err := rp.CreateOrder(context.Background(), CreateOrderReq{Amount: 100})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.EqualValues(t, 5, calls.Load())
}

func TestFetchOrderReadsBackAmountAndReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/orders/order_RZP9", r.URL.Path)
		_, _, ok := r.BasicAuth()
		assert.True(t, ok)
		_ = json.NewEncoder(w).Encode(Order{ID: "order_RZP9", Amount: 14500, Currency: "INR", Receipt: "order_3", Status: "paid"})
	}))
	defer srv.Close()

	rp := NewRazorpay(Config{KeyID: "k", KeySecret: "s", BaseURL: srv.URL + "/v1"})
	out, err := rp.FetchOrder(context.Background(), "order_RZP9")
	require.NoError(t, err)
	assert.Equal(t, int64(14500), out.Amount)
	assert.Equal(t, "order_3", out.Receipt)
	assert.Equal(t, "paid", out.Status)
}

func TestFetchOrderUnknownID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`))
	}))
	defer srv.Close()

	rp := NewRazorpay(Config{BaseURL: srv.URL})
	_, err := rp.FetchOrder(context.Background(), "order_missing")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
