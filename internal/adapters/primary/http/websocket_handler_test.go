package http

import (
	"context"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wsAdapter "github.com/lorrc/hackathon-hub/internal/adapters/primary/websocket"
	"github.com/lorrc/hackathon-hub/internal/auth"
	"github.com/lorrc/hackathon-hub/internal/config"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
)

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"hub.example.com", "*.hackathon.dev"}

	tests := map[string]struct {
		origin string
		want   bool
	}{
		"no origin":         {"", true},
		"exact host":        {"https://hub.example.com", true},
		"wildcard sub":      {"https://teams.hackathon.dev", true},
		"wildcard apex":     {"https://hackathon.dev", true},
		"suffix lookalike":  {"https://evilhackathon.dev", false},
		"other host":        {"https://example.org", false},
		"unparseable":       {"://bad", false},
		"host with port":    {"http://hub.example.com:3000", false},
		"scheme only match": {"https://", false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, originAllowed(tc.origin, allowed))
		})
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(stdhttp.MethodGet, "/ws?token=abc", nil)
	req.Header.Set("Authorization", "Bearer header")
	assert.Equal(t, "abc", bearerToken(req))

	req = httptest.NewRequest(stdhttp.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer header")
	assert.Equal(t, "header", bearerToken(req))

	req.Header.Set("Authorization", "Basic header")
	assert.Empty(t, bearerToken(req))
}

func TestWebSocketHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tm := auth.NewTokenManager("ws-secret", time.Hour)

	hub := wsAdapter.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	cfg := &config.Config{
		App:       config.AppConfig{Environment: "production"},
		WebSocket: config.WebSocketConfig{AllowedOrigins: []string{"hub.example.com"}},
	}
	r := chi.NewRouter()
	NewWebSocketHandler(hub, tm, cfg, logger).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	t.Run("missing token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=nope", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
	})

	token, err := tm.GenerateToken(&domain.User{ID: "vol-1", Name: "Vi", Role: domain.RoleVolunteer})
	require.NoError(t, err)

	t.Run("foreign origin", func(t *testing.T) {
		header := stdhttp.Header{"Origin": {"https://example.org"}}
		_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, header)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, stdhttp.StatusForbidden, resp.StatusCode)
	})

	t.Run("connects", func(t *testing.T) {
		header := stdhttp.Header{"Origin": {"https://hub.example.com"}}
		conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, header)
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })

		require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	})
}
