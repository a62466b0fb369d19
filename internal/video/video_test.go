package video

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTicket(t *testing.T) {
	exp := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(ticketResponse{UID: "v1", UploadURL: "https://upload/v1", ExpiresAt: exp})
	}))
	defer srv.Close()

	c := NewClientWithHTTP(config.VideoConfig{Endpoint: srv.URL, Token: "tok"}, srv.Client())
	ticket, err := c.CreateTicket(context.Background(), "talk.mp4", 1<<30)
	require.NoError(t, err)
	assert.Equal(t, "v1", ticket.VideoID)
	assert.True(t, ticket.ExpiresAt.Equal(exp))
}

func TestCreateTicket_NotConfigured(t *testing.T) {
	c := NewClientWithHTTP(config.VideoConfig{}, http.DefaultClient)
	_, err := c.CreateTicket(context.Background(), "a.mp4", 1)
	assert.ErrorIs(t, err, common.ErrDownstream)
}
