package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// Transport fans events out over Redis pub/sub. Redis echoes a publisher's
// own messages back to it; the bus drops them by origin id.
type Transport struct {
	client goredis.UniversalClient
	logger *slog.Logger
}

var _ ports.Transport = (*Transport)(nil)

func NewTransport(client goredis.UniversalClient, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		client: client,
		logger: logger.With("component", "redis_transport"),
	}
}

// Join subscribes to topic and returns once the subscription is confirmed.
func (t *Transport) Join(ctx context.Context, topic string, receive func(domain.Event)) (ports.Channel, error) {
	sub := t.client.Subscribe(ctx, topic)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	ch := &channel{
		client: t.client,
		topic:  topic,
		sub:    sub,
		logger: t.logger.With("topic", topic),
		done:   make(chan struct{}),
	}
	go ch.listen(receive)
	return ch, nil
}

type channel struct {
	client goredis.UniversalClient
	topic  string
	sub    *goredis.PubSub
	logger *slog.Logger
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error
}

func (c *channel) listen(receive func(domain.Event)) {
	defer close(c.done)

	for msg := range c.sub.Channel() {
		var evt domain.Event
		if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
			c.logger.Warn("Dropping malformed event", "error", err)
			continue
		}
		if !evt.Type.IsValid() {
			c.logger.Warn("Dropping event of unknown type", "event_type", evt.Type)
			continue
		}
		receive(evt)
	}
}

func (c *channel) Send(ctx context.Context, evt domain.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := c.client.Publish(ctx, c.topic, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", c.topic, err)
	}
	return nil
}

func (c *channel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.sub.Close()
		<-c.done
	})
	return c.closeErr
}
