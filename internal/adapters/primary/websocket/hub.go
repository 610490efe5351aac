// Package websocket bridges the event bus to browser contexts.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// Control message types sent by the hub alongside domain events.
const (
	MessagePong         = "PONG"
	MessageNotification = "NOTIFICATION"
	MessageSubscribed   = "SUBSCRIBED"
)

// ConnectionObserver is told about every client that joins or leaves.
type ConnectionObserver interface {
	ConnectionOpened()
	ConnectionClosed()
}

// DropObserver is told about every frame the hub had to drop. channel is
// "broadcast" or "direct".
type DropObserver interface {
	MessageDropped(channel string)
}

type nopObserver struct{}

func (nopObserver) ConnectionOpened()     {}
func (nopObserver) ConnectionClosed()     {}
func (nopObserver) MessageDropped(string) {}

// defaultEnqueueWait bounds how long a publisher waits for broadcast buffer
// space before the frame is dropped.
const defaultEnqueueWait = 250 * time.Millisecond

type directMessage struct {
	client *Client
	data   []byte
}

// outbound is one encoded frame. Control frames have an empty eventType and
// bypass client filters.
type outbound struct {
	eventType domain.EventType
	data      []byte
}

// Hub maintains the set of active Clients and broadcasts messages to them.
//
// Frames reach every client in publish order while the broadcast buffer has
// room. When it stays full for longer than the enqueue wait, the frame is
// dropped for all clients and reported to the DropObserver, so those clients
// miss that event until their views refetch.
type Hub struct {
	clients map[*Client]struct{}

	broadcast  chan outbound
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	// mu protects clients for readers outside the run loop
	mu sync.RWMutex

	pingInterval time.Duration
	pongWait     time.Duration
	observer     ConnectionObserver
	drops        DropObserver
	enqueueWait  time.Duration
	logger       *slog.Logger
}

var _ ports.Notifier = (*Hub)(nil)

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithKeepalive sets the ping period and the read deadline extended by every pong.
func WithKeepalive(pingInterval, pongWait time.Duration) HubOption {
	return func(h *Hub) {
		if pingInterval > 0 && pongWait > pingInterval {
			h.pingInterval = pingInterval
			h.pongWait = pongWait
		}
	}
}

// WithConnectionObserver reports connection counts, typically to metrics.
func WithConnectionObserver(o ConnectionObserver) HubOption {
	return func(h *Hub) {
		if o != nil {
			h.observer = o
		}
	}
}

// WithDropObserver counts dropped frames, typically to metrics.
func WithDropObserver(o DropObserver) HubOption {
	return func(h *Hub) {
		if o != nil {
			h.drops = o
		}
	}
}

// WithEnqueueWait sets how long Broadcast waits for buffer space.
func WithEnqueueWait(d time.Duration) HubOption {
	return func(h *Hub) {
		if d >= 0 {
			h.enqueueWait = d
		}
	}
}

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		clients:      make(map[*Client]struct{}),
		broadcast:    make(chan outbound, 256),
		direct:       make(chan directMessage, 64),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		done:         make(chan struct{}),
		pingInterval: (defaultPongWait * 9) / 10,
		pongWait:     defaultPongWait,
		observer:     nopObserver{},
		drops:        nopObserver{},
		enqueueWait:  defaultEnqueueWait,
		logger:       logger.With("component", "websocket_hub"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Attach forwards every bus event to the connected clients. Each connection
// is a context of its own; the hub holds a single wildcard subscription for
// all of them.
func (h *Hub) Attach(subscriber ports.EventSubscriber) func() {
	return subscriber.Subscribe(domain.EventWildcard, func(_ context.Context, evt domain.Event) error {
		return h.Broadcast(evt)
	})
}

// Broadcast queues an event for every client whose filter accepts it.
func (h *Hub) Broadcast(evt domain.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	h.enqueue(outbound{eventType: evt.Type, data: data})
	return nil
}

// ShowNotification pushes a notification request to every client; the
// browser decides whether it may show it.
func (h *Hub) ShowNotification(_ context.Context, title string, opts ports.NotificationOptions) {
	data, err := encodeControl(MessageNotification, notificationPayload{
		Title:    title,
		Body:     opts.Body,
		Tag:      opts.Tag,
		Renotify: opts.Renotify,
		Icon:     opts.Icon,
		Badge:    opts.Badge,
		Vibrate:  opts.Vibrate,
	})
	if err != nil {
		h.logger.Error("failed to encode notification", "error", err)
		return
	}
	h.enqueue(outbound{data: data})
}

func (h *Hub) enqueue(msg outbound) {
	select {
	case h.broadcast <- msg:
		return
	case <-h.done:
		return
	default:
	}

	timer := time.NewTimer(h.enqueueWait)
	defer timer.Stop()
	select {
	case h.broadcast <- msg:
	case <-h.done:
	case <-timer.C:
		h.drops.MessageDropped("broadcast")
		h.logger.Warn("broadcast channel full, dropping message", "event_type", msg.eventType)
	}
}

// sendTo queues a frame for a single client. Dropped when the hub is busy.
func (h *Hub) sendTo(c *Client, data []byte) {
	select {
	case h.direct <- directMessage{client: c, data: data}:
	case <-h.done:
	default:
		h.drops.MessageDropped("direct")
		h.logger.Warn("direct channel full, dropping reply", "user_id", c.UserID)
	}
}

// Run starts the hub's event loop until ctx is cancelled or Stop is called.
// Remaining clients are disconnected on exit.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			h.Stop()
			return
		case <-h.done:
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.fanOut(msg)

		case msg := <-h.direct:
			h.deliverDirect(msg)
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register adds a client. It returns false when the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	h.observer.ConnectionOpened()
	h.logger.Info("client registered",
		"user_id", client.UserID,
		"total_connections", total,
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if !ok {
		return
	}
	client.closeSend()
	h.observer.ConnectionClosed()
	h.logger.Info("client unregistered", "user_id", client.UserID)
}

// fanOut runs on the hub goroutine, so it may drop slow clients directly.
func (h *Hub) fanOut(msg outbound) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		if msg.eventType == "" || client.Accepts(msg.eventType) {
			clients = append(clients, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- msg.data:
		default:
			h.logger.Warn("client send buffer full, unregistering", "user_id", client.UserID)
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) deliverDirect(msg directMessage) {
	h.mu.RLock()
	_, ok := h.clients[msg.client]
	h.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case msg.client.send <- msg.data:
	default:
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for client := range clients {
		client.closeSend()
		h.observer.ConnectionClosed()
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

type controlMessage struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type notificationPayload struct {
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Renotify bool   `json:"renotify,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Badge    string `json:"badge,omitempty"`
	Vibrate  []int  `json:"vibrate,omitempty"`
}

func encodeControl(msgType string, payload any) ([]byte, error) {
	return json.Marshal(controlMessage{Type: msgType, Payload: payload, Timestamp: time.Now().UTC()})
}
