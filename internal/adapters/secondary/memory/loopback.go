package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// ErrChannelClosed is returned when sending on a channel that left its topic.
var ErrChannelClosed = errors.New("loopback channel closed")

// Loopback is an in-process broker of named topics. Send delivers
// synchronously, in call order, to every other channel joined to the topic.
// Several buses joined to one Loopback behave like several contexts.
type Loopback struct {
	mu     sync.RWMutex
	topics map[string][]*loopbackChannel
}

var _ ports.Transport = (*Loopback)(nil)

// NewLoopback creates an empty broker.
func NewLoopback() *Loopback {
	return &Loopback{topics: make(map[string][]*loopbackChannel)}
}

// Join attaches receive to topic.
func (l *Loopback) Join(_ context.Context, topic string, receive func(domain.Event)) (ports.Channel, error) {
	ch := &loopbackChannel{broker: l, topic: topic, receive: receive}

	l.mu.Lock()
	l.topics[topic] = append(l.topics[topic], ch)
	l.mu.Unlock()

	return ch, nil
}

// Members reports how many channels are joined to topic.
func (l *Loopback) Members(topic string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.topics[topic])
}

func (l *Loopback) peers(sender *loopbackChannel) []*loopbackChannel {
	l.mu.RLock()
	defer l.mu.RUnlock()

	members := l.topics[sender.topic]
	out := make([]*loopbackChannel, 0, len(members))
	for _, m := range members {
		if m != sender {
			out = append(out, m)
		}
	}
	return out
}

func (l *Loopback) leave(ch *loopbackChannel) {
	l.mu.Lock()
	defer l.mu.Unlock()

	members := l.topics[ch.topic]
	next := make([]*loopbackChannel, 0, len(members))
	for _, m := range members {
		if m != ch {
			next = append(next, m)
		}
	}
	if len(next) == 0 {
		delete(l.topics, ch.topic)
		return
	}
	l.topics[ch.topic] = next
}

type loopbackChannel struct {
	broker  *Loopback
	topic   string
	receive func(domain.Event)

	mu     sync.Mutex
	closed bool
}

func (c *loopbackChannel) Send(_ context.Context, evt domain.Event) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrChannelClosed
	}

	for _, peer := range c.broker.peers(c) {
		peer.receive(evt)
	}
	return nil
}

func (c *loopbackChannel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.broker.leave(c)
	return nil
}
