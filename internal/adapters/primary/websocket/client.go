package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Default time allowed to read the next pong message from the peer.
	defaultPongWait = 60 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	sendBufferSize = 256
)

// Client is a middleman between the websocket connection and the hub. Each
// client is one browser context.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Buffered channel of encoded outbound frames.
	send chan []byte

	UserID string
	Role   domain.Role

	// filter holds the event types the client asked for; empty means all.
	filter map[domain.EventType]struct{}
	mu     sync.RWMutex

	closeOnce sync.Once
	logger    *slog.Logger
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn *websocket.Conn, userID string, role domain.Role) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		UserID: userID,
		Role:   role,
		filter: make(map[domain.EventType]struct{}),
		logger: hub.logger.With("user_id", userID),
	}
}

// Start registers the client and runs its pumps. It returns false when the
// hub is no longer running; the connection is closed in that case.
func (c *Client) Start() bool {
	if !c.hub.Register(c) {
		_ = c.conn.Close()
		return false
	}
	go c.writePump()
	go c.readPump()
	return true
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// Accepts reports whether events of eventType pass the client's filter.
func (c *Client) Accepts(eventType domain.EventType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.filter) == 0 {
		return true
	}
	_, ok := c.filter[eventType]
	return ok
}

// SetFilter replaces the filter. Unknown types are dropped and returned.
func (c *Client) SetFilter(types []domain.EventType) (accepted, rejected []domain.EventType) {
	next := make(map[domain.EventType]struct{}, len(types))
	for _, t := range types {
		if t == domain.EventWildcard {
			next = map[domain.EventType]struct{}{}
			accepted = []domain.EventType{domain.EventWildcard}
			break
		}
		if !t.IsValid() {
			rejected = append(rejected, t)
			continue
		}
		if _, dup := next[t]; !dup {
			next[t] = struct{}{}
			accepted = append(accepted, t)
		}
	}

	c.mu.Lock()
	c.filter = next
	c.mu.Unlock()
	return accepted, rejected
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	pongWait := c.hub.pongWait
	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			return
		}

		c.handleIncomingMessage(message)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// ClientMessage is the structure for messages sent from the client.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SubscribePayload narrows the events a client receives.
type SubscribePayload struct {
	Types []domain.EventType `json:"types"`
}

type subscribedPayload struct {
	Types    []domain.EventType `json:"types"`
	Rejected []domain.EventType `json:"rejected,omitempty"`
}

func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("failed to unmarshal client message", "error", err)
		return
	}

	switch msg.Type {
	case "SUBSCRIBE":
		var p SubscribePayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				c.logger.Warn("failed to unmarshal subscribe payload", "error", err)
				return
			}
		}
		accepted, rejected := c.SetFilter(p.Types)
		if accepted == nil {
			accepted = []domain.EventType{}
		}
		c.reply(MessageSubscribed, subscribedPayload{Types: accepted, Rejected: rejected})

	case "UNSUBSCRIBE":
		c.SetFilter(nil)
		c.reply(MessageSubscribed, subscribedPayload{Types: []domain.EventType{}})

	case "PING":
		c.reply(MessagePong, nil)

	default:
		c.logger.Debug("received unknown message type", "type", msg.Type)
	}
}

// reply queues a control frame for this client only.
func (c *Client) reply(msgType string, payload any) {
	data, err := encodeControl(msgType, payload)
	if err != nil {
		c.logger.Error("failed to encode reply", "type", msgType, "error", err)
		return
	}
	c.hub.sendTo(c, data)
}
