// Package eventbus fans domain events out to in-process listeners and, when a
// transport is attached, to every other context joined to the same topic.
package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// DefaultTopic is the transport topic joined when none is configured.
const DefaultTopic = "hackathon-events"

// Delivery sources reported to the Recorder.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Recorder observes bus activity. Implementations must be safe for
// concurrent use.
type Recorder interface {
	EventPublished(eventType domain.EventType)
	EventDelivered(eventType domain.EventType, source string)
	HandlerFailed(eventType domain.EventType)
	TransportFailed(op string)
}

type nopRecorder struct{}

func (nopRecorder) EventPublished(domain.EventType)         {}
func (nopRecorder) EventDelivered(domain.EventType, string) {}
func (nopRecorder) HandlerFailed(domain.EventType)          {}
func (nopRecorder) TransportFailed(string)                  {}

type subscription struct {
	id        uint64
	eventType domain.EventType
	handler   ports.EventHandler
}

// Bus is a publish/subscribe hub for domain events. One Bus represents one
// context; construct it once per process and pass it where needed.
type Bus struct {
	originID  string
	topic     string
	transport ports.Transport
	logger    *slog.Logger
	recorder  Recorder
	now       func() time.Time

	mu     sync.RWMutex
	subs   map[domain.EventType][]*subscription
	nextID uint64

	lifecycle sync.Mutex
	channelMu sync.RWMutex
	channel   ports.Channel
	remoteCtx context.Context
}

var _ ports.EventBus = (*Bus)(nil)

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used for delivery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTransport attaches a cross-context transport, joined on Open.
func WithTransport(t ports.Transport) Option {
	return func(b *Bus) {
		b.transport = t
	}
}

// WithTopic overrides DefaultTopic.
func WithTopic(topic string) Option {
	return func(b *Bus) {
		if topic != "" {
			b.topic = topic
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(b *Bus) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithClock sets the clock used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

// WithOriginID fixes the origin id instead of generating one.
func WithOriginID(id string) Option {
	return func(b *Bus) {
		if id != "" {
			b.originID = id
		}
	}
}

// New creates a Bus. It delivers locally until Open joins the transport.
func New(opts ...Option) *Bus {
	b := &Bus{
		originID: uuid.NewString(),
		topic:    DefaultTopic,
		logger:   slog.Default(),
		recorder: nopRecorder{},
		now:      time.Now,
		subs:     make(map[domain.EventType][]*subscription),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("component", "event_bus", "origin_id", b.originID)
	return b
}

// OriginID identifies this context on the transport.
func (b *Bus) OriginID() string {
	return b.originID
}

// Open joins the transport topic. Calling Open on an open bus, or on a bus
// without a transport, is a no-op.
func (b *Bus) Open(ctx context.Context) error {
	b.lifecycle.Lock()
	defer b.lifecycle.Unlock()

	if b.transport == nil {
		return nil
	}

	b.channelMu.RLock()
	opened := b.channel != nil
	b.channelMu.RUnlock()
	if opened {
		return nil
	}

	b.channelMu.Lock()
	b.remoteCtx = context.WithoutCancel(ctx)
	b.channelMu.Unlock()

	ch, err := b.transport.Join(ctx, b.topic, b.receive)
	if err != nil {
		b.recorder.TransportFailed("join")
		return fmt.Errorf("join topic %q: %w", b.topic, err)
	}

	b.channelMu.Lock()
	b.channel = ch
	b.channelMu.Unlock()

	b.logger.Info("Event bus opened", "topic", b.topic)
	return nil
}

// Close leaves the transport topic. Local subscribers keep receiving events
// published in this context after Close.
func (b *Bus) Close() error {
	b.lifecycle.Lock()
	defer b.lifecycle.Unlock()

	b.channelMu.Lock()
	ch := b.channel
	b.channel = nil
	b.channelMu.Unlock()

	if ch == nil {
		return nil
	}
	if err := ch.Close(); err != nil {
		b.recorder.TransportFailed("close")
		return fmt.Errorf("leave topic %q: %w", b.topic, err)
	}

	b.logger.Info("Event bus closed", "topic", b.topic)
	return nil
}

// Subscribe registers handler for eventType, or every type when eventType is
// domain.EventWildcard. Handlers of one type run in registration order.
func (b *Bus) Subscribe(eventType domain.EventType, handler ports.EventHandler) func() {
	if handler == nil || !eventType.IsSubscribable() {
		b.logger.Warn("Ignoring subscription", "event_type", eventType)
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	sub := &subscription{id: b.nextID, eventType: eventType, handler: handler}
	b.subs[eventType] = append(b.subs[eventType], sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(sub) })
	}
}

func (b *Bus) unsubscribe(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[sub.eventType]
	for i, s := range list {
		if s.id == sub.id {
			// Copy so snapshots taken by in-flight deliveries stay intact.
			next := make([]*subscription, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			b.subs[sub.eventType] = next
			break
		}
	}
	if len(b.subs[sub.eventType]) == 0 {
		delete(b.subs, sub.eventType)
	}
}

// Publish stamps evt, delivers it to local listeners and then sends it to the
// transport when the bus is open. It returns the stamped event.
func (b *Bus) Publish(ctx context.Context, evt domain.Event) domain.Event {
	if evt.OriginID == "" {
		evt.OriginID = b.originID
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = b.now().UTC()
	}

	b.recorder.EventPublished(evt.Type)
	b.deliver(ctx, evt, SourceLocal)

	b.channelMu.RLock()
	ch := b.channel
	b.channelMu.RUnlock()

	if ch != nil {
		if err := ch.Send(ctx, evt); err != nil {
			b.recorder.TransportFailed("send")
			b.logger.Error("Failed to send event to transport",
				"event_type", evt.Type,
				"topic", b.topic,
				"error", err,
			)
		}
	}

	return evt
}

// receive is the transport callback. Remote events are delivered locally and
// never re-sent.
func (b *Bus) receive(evt domain.Event) {
	if evt.OriginID == b.originID {
		return
	}

	b.channelMu.RLock()
	ctx := b.remoteCtx
	b.channelMu.RUnlock()
	if ctx == nil {
		ctx = context.Background()
	}
	b.deliver(ctx, evt, SourceRemote)
}

func (b *Bus) deliver(ctx context.Context, evt domain.Event, source string) {
	for _, sub := range b.listeners(evt.Type) {
		b.invoke(ctx, sub, evt)
	}
	b.recorder.EventDelivered(evt.Type, source)
}

// listeners returns exact-type subscribers followed by wildcard subscribers.
func (b *Bus) listeners(eventType domain.EventType) []*subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	exact := b.subs[eventType]
	wildcard := b.subs[domain.EventWildcard]
	if eventType == domain.EventWildcard {
		wildcard = nil
	}

	out := make([]*subscription, 0, len(exact)+len(wildcard))
	out = append(out, exact...)
	out = append(out, wildcard...)
	return out
}

func (b *Bus) invoke(ctx context.Context, sub *subscription, evt domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.recorder.HandlerFailed(evt.Type)
			b.logger.Error("Event handler panicked",
				"event_type", evt.Type,
				"subscription", sub.eventType,
				"panic", r,
			)
		}
	}()

	if err := sub.handler(ctx, evt); err != nil {
		b.recorder.HandlerFailed(evt.Type)
		b.logger.Error("Event handler failed",
			"event_type", evt.Type,
			"subscription", sub.eventType,
			"error", err,
		)
	}
}
