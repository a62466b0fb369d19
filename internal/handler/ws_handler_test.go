package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/damoang/eventhub-backend/internal/middleware"
	"github.com/damoang/eventhub-backend/internal/realtime"
	"github.com/damoang/eventhub-backend/internal/ws"
	"github.com/damoang/eventhub-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"https://admin.example.com"}
	assert.True(t, originAllowed(allowed, ""))
	assert.True(t, originAllowed(allowed, "https://admin.example.com"))
	assert.False(t, originAllowed(allowed, "https://evil.example.com"))
	assert.True(t, originAllowed(nil, "https://anything.example.com"))
	assert.True(t, originAllowed([]string{"*"}, "https://anything.example.com"))
}

func pushServer(t *testing.T) (*ws.Hub, *jwt.Manager, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := ws.NewHub(nil, zerolog.Nop())
	go hub.Run()
	t.Cleanup(hub.Stop)

	manager := jwt.NewManager("test-secret", 600, 1200)
	r := gin.New()
	staff := r.Group("/api/admin", middleware.JWTAuth(manager), middleware.RequireAdmin())
	staff.GET("/ws", NewWSHandler(hub, []string{"https://admin.example.com"}).Connect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, manager, "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/admin/ws"
}

func TestWSHandler_PushesInvalidateFrames(t *testing.T) {
	hub, manager, url := pushServer(t)
	token, err := manager.GenerateAccessToken("1", "staff", jwt.RoleAdmin)
	require.NoError(t, err)

	header := http.Header{"Origin": []string{"https://admin.example.com"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url+"?token="+token, header)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.BroadcastToAdmins(realtime.InvalidateMessage{
		Type:     "invalidate",
		Kind:     realtime.KindThreadTagsChanged,
		Scopes:   []realtime.Scope{realtime.ScopeThreadList, realtime.ScopeThreadMeta},
		ThreadID: 9,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"invalidate","kind":"thread.tags_changed","scopes":["thread_list","thread_meta"],"thread_id":9}`, string(data))

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWSHandler_RejectsForeignOriginAndMembers(t *testing.T) {
	_, manager, url := pushServer(t)

	staffToken, err := manager.GenerateAccessToken("1", "staff", jwt.RoleAdmin)
	require.NoError(t, err)
	_, resp, err := websocket.DefaultDialer.Dial(url+"?token="+staffToken,
		http.Header{"Origin": []string{"https://evil.example.com"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	memberToken, err := manager.GenerateAccessToken("2", "member", jwt.RolePartner)
	require.NoError(t, err)
	_, resp, err = websocket.DefaultDialer.Dial(url+"?token="+memberToken, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
