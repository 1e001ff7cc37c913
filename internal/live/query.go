// Package live implements reactive read queries over the record store.
//
// A Query owns one value. Triggers (change notifications, the manual
// refresh signal, a poll ticker) ask it to re-fetch; every fetch gets a
// generation number and only the result of the latest dispatched
// generation is applied. Older results are dropped even if they arrive
// later. Fetch errors keep the previous value and set Err beside it.
package live

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var ErrClosed = errors.New("query closed")

type FetchFunc[T any] func(ctx context.Context) (T, error)

// Snapshot is what a consumer renders. Loaded is false until the first
// successful fetch, so "loading" and "loaded but empty" stay distinct.
type Snapshot[T any] struct {
	Value      T
	Loaded     bool
	Err        error
	Generation uint64
	UpdatedAt  time.Time
}

func (s Snapshot[T]) Loading() bool { return !s.Loaded }

type Query[T any] struct {
	name  string
	fetch FetchFunc[T]
	log   zerolog.Logger

	mu         sync.Mutex
	snap       Snapshot[T]
	dispatched uint64
	inflight   context.CancelFunc
	changed    chan struct{}
	triggers   map[int]func()
	nextTrig   int
	closed     bool

	ctx    context.Context
	cancel context.CancelFunc
}

func newQuery[T any](name string, fetch FetchFunc[T], log zerolog.Logger) *Query[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Query[T]{
		name:     name,
		fetch:    fetch,
		log:      log.With().Str("query", name).Logger(),
		changed:  make(chan struct{}),
		triggers: make(map[int]func()),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// NewQuery mounts a query: it starts the triggers and dispatches the first
// fetch. Close unmounts it.
func NewQuery[T any](name string, fetch FetchFunc[T], log zerolog.Logger, triggers ...Trigger) *Query[T] {
	q := newQuery(name, fetch, log)
	for _, t := range triggers {
		q.AddTrigger(t)
	}
	q.Invalidate()
	return q
}

func (q *Query[T]) Name() string { return q.name }

// AddTrigger starts t and returns a func that stops it again.
func (q *Query[T]) AddTrigger(t Trigger) (remove func()) {
	stop := t.Start(q.Invalidate)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		stop()
		return func() {}
	}
	id := q.nextTrig
	q.nextTrig++
	q.triggers[id] = stop
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		s, ok := q.triggers[id]
		delete(q.triggers, id)
		q.mu.Unlock()
		if ok {
			s()
		}
	}
}

// Invalidate dispatches a new generation. Any fetch still in flight is
// superseded and its result will be discarded.
func (q *Query[T]) Invalidate() { q.dispatch(false) }

// Reset is Invalidate that also drops the current value, putting the query
// back into the loading state. Used when the query's input changes.
func (q *Query[T]) Reset() { q.dispatch(true) }

func (q *Query[T]) dispatch(reset bool) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	if q.inflight != nil {
		q.inflight()
	}
	q.dispatched++
	gen := q.dispatched
	ctx, cancel := context.WithCancel(q.ctx)
	q.inflight = cancel
	if reset {
		q.snap = Snapshot[T]{Generation: q.snap.Generation}
		q.notifyLocked()
	}
	q.mu.Unlock()

	go q.run(ctx, cancel, gen)
}

func (q *Query[T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64) {
	defer cancel()
	v, err := q.fetch(ctx)
	q.apply(gen, v, err)
}

func (q *Query[T]) apply(gen uint64, v T, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	if gen != q.dispatched {
		q.log.Debug().Uint64("generation", gen).Uint64("latest", q.dispatched).Msg("superseded result discarded")
		return
	}
	q.inflight = nil

	if err != nil {
		q.log.Warn().Err(err).Uint64("generation", gen).Bool("stale", q.snap.Loaded).Msg("fetch failed")
		q.snap.Err = err
		q.snap.Generation = gen
	} else {
		q.snap = Snapshot[T]{
			Value:      v,
			Loaded:     true,
			Generation: gen,
			UpdatedAt:  time.Now(),
		}
	}
	q.notifyLocked()
}

func (q *Query[T]) notifyLocked() {
	close(q.changed)
	q.changed = make(chan struct{})
}

func (q *Query[T]) Snapshot() Snapshot[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snap
}

// Watch returns the current snapshot and a channel closed on the next
// change to it.
func (q *Query[T]) Watch() (Snapshot[T], <-chan struct{}) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snap, q.changed
}

// Done is closed once the query is unmounted.
func (q *Query[T]) Done() <-chan struct{} { return q.ctx.Done() }

// Wait blocks until cond holds for the current snapshot.
func (q *Query[T]) Wait(ctx context.Context, cond func(Snapshot[T]) bool) (Snapshot[T], error) {
	for {
		snap, changed := q.Watch()
		if cond(snap) {
			return snap, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return snap, ctx.Err()
		case <-q.Done():
			return snap, ErrClosed
		}
	}
}

// Close unmounts the query: triggers stop and in-flight fetches are
// cancelled with their results silently dropped.
func (q *Query[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.cancel()
	stops := make([]func(), 0, len(q.triggers))
	for _, s := range q.triggers {
		stops = append(stops, s)
	}
	q.triggers = nil
	q.mu.Unlock()

	for _, s := range stops {
		s()
	}
}

// Loaded is a Wait condition.
func Loaded[T any](s Snapshot[T]) bool { return s.Loaded }

// After returns a Wait condition satisfied once generation gen or a later
// one has been applied.
func After[T any](gen uint64) func(Snapshot[T]) bool {
	return func(s Snapshot[T]) bool { return s.Generation >= gen && (s.Loaded || s.Err != nil) }
}
