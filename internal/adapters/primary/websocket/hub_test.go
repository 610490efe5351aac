package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/eventbus"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

type gaugeObserver struct {
	open atomic.Int64
}

func (g *gaugeObserver) ConnectionOpened() { g.open.Add(1) }
func (g *gaugeObserver) ConnectionClosed() { g.open.Add(-1) }

type received struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func startHub(t *testing.T, opts ...HubOption) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(hub, conn, r.URL.Query().Get("user"), domain.RoleParticipant).Start()
	}))

	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return hub, srv
}

func dial(t *testing.T, hub *Hub, srv *httptest.Server, user string) *websocket.Conn {
	t.Helper()

	before := hub.ClientCount()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + user
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount() > before }, time.Second, 5*time.Millisecond)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func publish(t *testing.T, bus *eventbus.Bus, eventType domain.EventType, payload any) {
	t.Helper()
	evt, err := domain.NewEvent(eventType, payload)
	require.NoError(t, err)
	bus.Publish(context.Background(), evt)
}

func TestHub_ForwardsBusEvents(t *testing.T) {
	observer := &gaugeObserver{}
	hub, srv := startHub(t, WithConnectionObserver(observer))
	bus := eventbus.New()
	hub.Attach(bus)

	first := dial(t, hub, srv, "ana")
	second := dial(t, hub, srv, "ben")
	assert.EqualValues(t, 2, observer.open.Load())

	publish(t, bus, domain.EventTeamCreated, map[string]string{"id": "t1"})

	for _, conn := range []*websocket.Conn{first, second} {
		msg := read(t, conn)
		assert.Equal(t, string(domain.EventTeamCreated), msg.Type)
		assert.JSONEq(t, `{"id":"t1"}`, string(msg.Payload))
	}
}

func TestHub_SubscribeFilter(t *testing.T) {
	hub, srv := startHub(t)
	bus := eventbus.New()
	hub.Attach(bus)

	conn := dial(t, hub, srv, "ana")
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "SUBSCRIBE",
		"payload": map[string]any{"types": []string{"HELP_REQUESTED", "NOT_A_TYPE"}},
	}))

	ack := read(t, conn)
	require.Equal(t, MessageSubscribed, ack.Type)
	assert.JSONEq(t, `{"types":["HELP_REQUESTED"],"rejected":["NOT_A_TYPE"]}`, string(ack.Payload))

	publish(t, bus, domain.EventTeamUpdated, map[string]string{"id": "t1"})
	publish(t, bus, domain.EventHelpRequested, map[string]string{"id": "h1"})

	msg := read(t, conn)
	assert.Equal(t, string(domain.EventHelpRequested), msg.Type)
}

func TestHub_PingPong(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, hub, srv, "ana")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "PING"}))
	assert.Equal(t, MessagePong, read(t, conn).Type)
}

func TestHub_ShowNotification(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, hub, srv, "ana")

	hub.ShowNotification(context.Background(), "Urgent announcement", ports.NotificationOptions{
		Body:     "Lunch moved",
		Tag:      "announcement-a1",
		Renotify: true,
		Vibrate:  []int{200, 100, 200},
	})

	msg := read(t, conn)
	require.Equal(t, MessageNotification, msg.Type)

	var payload notificationPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "Urgent announcement", payload.Title)
	assert.Equal(t, "announcement-a1", payload.Tag)
	assert.True(t, payload.Renotify)
	assert.Equal(t, []int{200, 100, 200}, payload.Vibrate)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	observer := &gaugeObserver{}
	hub, srv := startHub(t, WithConnectionObserver(observer))

	conn := dial(t, hub, srv, "ana")
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 0, observer.open.Load())
}

func TestHub_StopClosesClients(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, hub, srv, "ana")

	hub.Stop()
	hub.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.False(t, hub.Register(&Client{}))
}

func TestClient_SetFilter(t *testing.T) {
	c := &Client{filter: map[domain.EventType]struct{}{}}
	assert.True(t, c.Accepts(domain.EventTeamUpdated))

	accepted, rejected := c.SetFilter([]domain.EventType{domain.EventScoreUpdated, domain.EventScoreUpdated, "BOGUS"})
	assert.Equal(t, []domain.EventType{domain.EventScoreUpdated}, accepted)
	assert.Equal(t, []domain.EventType{"BOGUS"}, rejected)
	assert.True(t, c.Accepts(domain.EventScoreUpdated))
	assert.False(t, c.Accepts(domain.EventTeamUpdated))

	accepted, _ = c.SetFilter([]domain.EventType{domain.EventWildcard})
	assert.Equal(t, []domain.EventType{domain.EventWildcard}, accepted)
	assert.True(t, c.Accepts(domain.EventTeamUpdated))
}

type dropCounter struct {
	broadcast atomic.Int64
	direct    atomic.Int64
}

func (d *dropCounter) MessageDropped(channel string) {
	switch channel {
	case "broadcast":
		d.broadcast.Add(1)
	case "direct":
		d.direct.Add(1)
	}
}

func TestHub_FullQueueReportsDrops(t *testing.T) {
	drops := &dropCounter{}
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithEnqueueWait(time.Millisecond),
		WithDropObserver(drops),
	)

	evt := domain.Event{Type: domain.EventTeamUpdated, Payload: json.RawMessage(`{}`)}
	for range cap(hub.broadcast) + 5 {
		require.NoError(t, hub.Broadcast(evt))
	}

	assert.Len(t, hub.broadcast, cap(hub.broadcast))
	assert.Equal(t, int64(5), drops.broadcast.Load())

	for range cap(hub.direct) + 1 {
		hub.sendTo(&Client{UserID: "u-1"}, []byte(`{}`))
	}
	assert.Equal(t, int64(1), drops.direct.Load())
}

func TestHub_FullQueueWaitsForRoom(t *testing.T) {
	drops := &dropCounter{}
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithEnqueueWait(time.Second),
		WithDropObserver(drops),
	)

	evt := domain.Event{Type: domain.EventTeamUpdated, Payload: json.RawMessage(`{}`)}
	for range cap(hub.broadcast) {
		require.NoError(t, hub.Broadcast(evt))
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		<-hub.broadcast
	}()

	require.NoError(t, hub.Broadcast(evt))
	assert.Len(t, hub.broadcast, cap(hub.broadcast))
	assert.Zero(t, drops.broadcast.Load())
}
