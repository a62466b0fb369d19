// Package checkout creates sessions on the payment server and verifies its webhooks.
package checkout

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/config"
	"github.com/damoang/eventhub-backend/pkg/tracing"
)

// SignatureHeader carries the hex HMAC-SHA256 of the webhook body
const SignatureHeader = "X-Checkout-Signature"

// Item is one paid line
type Item struct {
	Offering string `json:"offering"`
	Name     string `json:"name"`
	Amount   int    `json:"amount"`
}

// SessionRequest is sent to the payment server
type SessionRequest struct {
	OrderID    string `json:"order_id"`
	UserID     uint64 `json:"user_id"`
	EventID    uint64 `json:"event_id"`
	Items      []Item `json:"items"`
	Amount     int    `json:"amount"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

type sessionResponse struct {
	URL string `json:"url"`
}

// Client talks to the payment server
type Client struct {
	cfg    config.CheckoutConfig
	client *http.Client
}

// NewClient 생성자
func NewClient(cfg config.CheckoutConfig) *Client {
	return &Client{cfg: cfg, client: tracing.NewHTTPClient(cfg.Timeout)}
}

// NewClientWithHTTP lets tests inject a client
func NewClientWithHTTP(cfg config.CheckoutConfig, hc *http.Client) *Client {
	return &Client{cfg: cfg, client: hc}
}

// CreateSession returns the checkout page URL. Every failure wraps ErrCheckoutFailed.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	if c.cfg.Endpoint == "" {
		return "", fmt.Errorf("checkout endpoint not configured: %w", common.ErrCheckoutFailed)
	}
	if req.SuccessURL == "" {
		req.SuccessURL = c.cfg.SuccessURL
	}
	if req.CancelURL == "" {
		req.CancelURL = c.cfg.CancelURL
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, common.ErrCheckoutFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("payment server status %d: %w", resp.StatusCode, common.ErrCheckoutFailed)
	}
	var out sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode session: %v: %w", err, common.ErrCheckoutFailed)
	}
	if out.URL == "" {
		return "", fmt.Errorf("empty redirect url: %w", common.ErrCheckoutFailed)
	}
	return out.URL, nil
}

// Sign computes the webhook signature of body
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a webhook signature. An empty secret rejects everything.
func Verify(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	want, err := hex.DecodeString(Sign(secret, body))
	if err != nil {
		return false
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(want, got)
}
