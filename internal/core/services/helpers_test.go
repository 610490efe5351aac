package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lorrc/hackathon-hub/internal/adapters/secondary/memory"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/eventbus"
	"github.com/lorrc/hackathon-hub/internal/core/services"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testStart}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type eventLog struct {
	mu     sync.Mutex
	events []domain.Event
}

func (l *eventLog) handle(_ context.Context, evt domain.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
	return nil
}

func (l *eventLog) types() []domain.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.EventType, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}

func (l *eventLog) last(t *testing.T) domain.Event {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	require.NotEmpty(t, l.events)
	return l.events[len(l.events)-1]
}

func (l *eventLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

type harness struct {
	deps   services.Dependencies
	store  *services.DocumentStore
	blobs  *memory.BlobStore
	bus    *eventbus.Bus
	clock  *fakeClock
	events *eventLog
}

// newHarness wires services over an in-memory store and a real bus whose
// wildcard subscriber records every published event.
func newHarness(t *testing.T) *harness {
	t.Helper()

	clock := newFakeClock()
	blobs := memory.NewBlobStore()
	store := services.NewDocumentStore(blobs, services.WithStoreClock(clock.Now))
	bus := eventbus.New(eventbus.WithClock(clock.Now))
	events := &eventLog{}
	bus.Subscribe(domain.EventWildcard, events.handle)

	return &harness{
		deps: services.Dependencies{
			Store:     store,
			Publisher: bus,
			Now:       clock.Now,
		},
		store:  store,
		blobs:  blobs,
		bus:    bus,
		clock:  clock,
		events: events,
	}
}

func (h *harness) load(t *testing.T) *domain.Document {
	t.Helper()
	doc, err := h.store.Load(context.Background())
	require.NoError(t, err)
	return doc
}

func (h *harness) team(t *testing.T, id string) domain.Team {
	t.Helper()
	team, ok := h.load(t).FindTeam(id)
	require.True(t, ok, "team %s not found", id)
	return *team
}
