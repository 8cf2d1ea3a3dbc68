package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const DefaultBaseURL = "https://api.razorpay.com/v1"

type CreateOrderReq struct {
	Amount   int64             `json:"amount"` // minor units
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Gateway is the payment provider as seen by the payment service.
type Gateway interface {
	CreateOrder(ctx context.Context, req CreateOrderReq) (*Order, error)
	FetchOrder(ctx context.Context, id string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode  int
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

type Razorpay struct {
	cfg  Config
	http *http.Client
	cb   *gobreaker.CircuitBreaker
}

func NewRazorpay(cfg Config) *Razorpay {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "razorpay",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// client errors are the caller's fault, not an outage
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
	})
	return &Razorpay{cfg: cfg, http: &http.Client{}, cb: cb}
}

func (r *Razorpay) KeyID() string { return r.cfg.KeyID }

func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(r.cfg.KeySecret, orderID, paymentID, signature)
}

func (r *Razorpay) CreateOrder(ctx context.Context, req CreateOrderReq) (*Order, error) {
	return ExecuteWithBreaker(r.cb, func() (*Order, error) {
		var out Order
		if err := r.do(ctx, http.MethodPost, "/orders", req, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// FetchOrder reads a gateway order back, so settlement can check what was actually charged.
func (r *Razorpay) FetchOrder(ctx context.Context, id string) (*Order, error) {
	return ExecuteWithBreaker(r.cb, func() (*Order, error) {
		var out Order
		if err := r.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func (r *Razorpay) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(r.cfg.BaseURL, "/")+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(r.cfg.KeyID, r.cfg.KeySecret)

	res, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return err
	}
	if res.StatusCode/100 != 2 {
		var env struct {
			Error APIError `json:"error"`
		}
		_ = json.Unmarshal(raw, &env)
		env.Error.StatusCode = res.StatusCode
		return &env.Error
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("razorpay: decode order: %w", err)
	}
	return nil
}
