// Package realtime keeps eventually consistent local copies of domain
// collections: a full fetch on start, incremental events afterwards and an
// optional periodic refresh.
package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// Fetcher returns the full collection.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Reducer applies one event to a collection and returns the new collection.
// It must not modify items in place.
type Reducer[T any] func(items []T, evt domain.Event) []T

// View caches one collection.
type View[T any] struct {
	name         string
	subscriber   ports.EventSubscriber
	fetch        Fetcher[T]
	reduce       Reducer[T]
	eventTypes   []domain.EventType
	pollInterval time.Duration
	logger       *slog.Logger
	onChange     func([]T)

	mu    sync.RWMutex
	items []T

	lifecycle    sync.Mutex
	started      bool
	unsubscribes []func()
	cancel       context.CancelFunc
	done         chan struct{}
}

// ViewOption configures a View.
type ViewOption func(*viewOptions)

type viewOptions struct {
	pollInterval time.Duration
	logger       *slog.Logger
}

// WithPollInterval enables a periodic full refresh.
func WithPollInterval(d time.Duration) ViewOption {
	return func(o *viewOptions) {
		o.pollInterval = d
	}
}

// WithViewLogger sets the view logger.
func WithViewLogger(logger *slog.Logger) ViewOption {
	return func(o *viewOptions) {
		o.logger = logger
	}
}

// NewView creates a view. A nil reduce makes the view poll-only.
func NewView[T any](name string, subscriber ports.EventSubscriber, fetch Fetcher[T], reduce Reducer[T], eventTypes []domain.EventType, opts ...ViewOption) *View[T] {
	o := viewOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return &View[T]{
		name:         name,
		subscriber:   subscriber,
		fetch:        fetch,
		reduce:       reduce,
		eventTypes:   eventTypes,
		pollInterval: o.pollInterval,
		logger:       o.logger.With("component", "view", "view", name),
	}
}

// OnChange registers fn to be called with a copy of the items after every
// change. Call before Start.
func (v *View[T]) OnChange(fn func([]T)) {
	v.onChange = fn
}

// Start performs the initial fetch and subscribes. A failed initial fetch is
// returned, and the view stays stopped.
func (v *View[T]) Start(ctx context.Context) error {
	v.lifecycle.Lock()
	defer v.lifecycle.Unlock()

	if v.started {
		return nil
	}
	if err := v.Refresh(ctx); err != nil {
		return err
	}

	if v.reduce != nil && v.subscriber != nil {
		for _, eventType := range v.eventTypes {
			v.unsubscribes = append(v.unsubscribes, v.subscriber.Subscribe(eventType, v.apply))
		}
	}

	if v.pollInterval > 0 {
		pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		v.cancel = cancel
		v.done = make(chan struct{})
		go v.poll(pollCtx, v.done)
	}

	v.started = true
	return nil
}

// Stop unsubscribes and halts polling. Safe to call more than once.
func (v *View[T]) Stop() {
	v.lifecycle.Lock()
	defer v.lifecycle.Unlock()

	if !v.started {
		return
	}
	for _, unsubscribe := range v.unsubscribes {
		unsubscribe()
	}
	v.unsubscribes = nil

	if v.cancel != nil {
		v.cancel()
		<-v.done
		v.cancel = nil
		v.done = nil
	}
	v.started = false
}

// Refresh replaces the cache with a full fetch.
func (v *View[T]) Refresh(ctx context.Context) error {
	items, err := v.fetch(ctx)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.items = append([]T(nil), items...)
	snapshot := append([]T(nil), v.items...)
	v.mu.Unlock()

	v.notify(snapshot)
	return nil
}

// Items returns a copy of the cached collection.
func (v *View[T]) Items() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]T(nil), v.items...)
}

func (v *View[T]) apply(_ context.Context, evt domain.Event) error {
	v.mu.Lock()
	v.items = v.reduce(v.items, evt)
	snapshot := append([]T(nil), v.items...)
	v.mu.Unlock()

	v.notify(snapshot)
	return nil
}

func (v *View[T]) notify(items []T) {
	if v.onChange != nil {
		v.onChange(items)
	}
}

func (v *View[T]) poll(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(v.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := v.Refresh(ctx); err != nil && ctx.Err() == nil {
				v.logger.Warn("View refresh failed", "error", err)
			}
		}
	}
}
