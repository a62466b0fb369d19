// Package video requests direct-upload tickets from the external video host.
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/config"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/pkg/tracing"
)

type ticketRequest struct {
	Name           string `json:"name"`
	Size           int64  `json:"size"`
	MaxDurationSec int    `json:"max_duration_seconds"`
}

type ticketResponse struct {
	UID       string    `json:"uid"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Client of the video host
type Client struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewClient 생성자
func NewClient(cfg config.VideoConfig) *Client {
	return &Client{endpoint: cfg.Endpoint, token: cfg.Token, client: tracing.NewHTTPClient(cfg.Timeout)}
}

// NewClientWithHTTP lets tests inject a client
func NewClientWithHTTP(cfg config.VideoConfig, hc *http.Client) *Client {
	return &Client{endpoint: cfg.Endpoint, token: cfg.Token, client: hc}
}

// Configured reports whether an endpoint is set
func (c *Client) Configured() bool { return c != nil && c.endpoint != "" }

// CreateTicket asks for a resumable direct-upload URL. The browser uploads
// the bytes straight to the host; this service never proxies them.
func (c *Client) CreateTicket(ctx context.Context, name string, size int64) (*domain.VideoTicket, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("video host not configured: %w", common.ErrDownstream)
	}
	body, err := json.Marshal(ticketRequest{Name: name, Size: size, MaxDurationSec: 6 * 60 * 60})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, common.ErrDownstream)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("video host status %d: %w", resp.StatusCode, common.ErrDownstream)
	}
	var out ticketResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode ticket: %v: %w", err, common.ErrDownstream)
	}
	return &domain.VideoTicket{VideoID: out.UID, UploadURL: out.UploadURL, ExpiresAt: out.ExpiresAt}, nil
}
