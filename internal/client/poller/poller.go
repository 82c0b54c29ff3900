// Package poller periodically refreshes a collection from the backend.
//
// A Poller fetches once when started and then once per interval. A
// successful result is handed to Apply; a failure is logged and the poller
// simply waits for the next tick. Stop cancels the in-flight fetch, waits
// for the loop to exit and guarantees that Apply is not called afterwards,
// even for a fetch that completed concurrently with Stop.
//
// Pollers of the same collection do not coordinate. Apply functions are
// expected to be idempotent merges.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/WAVY91/front-project/internal/logging"
)

// DefaultInterval replaces a non-positive interval given to New.
const DefaultInterval = 30 * time.Second

type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    func(ctx context.Context) (T, error)
	apply    func(ctx context.Context, v T)
	onResult func(err error)
	log      logging.Logger

	mu      sync.Mutex
	gen     uint64
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

type Option[T any] func(*Poller[T])

// WithResultHook registers fn to be told about every completed fetch that
// was still current. err is nil on success.
func WithResultHook[T any](fn func(err error)) Option[T] {
	return func(p *Poller[T]) { p.onResult = fn }
}

func New[T any](name string, interval time.Duration, fetch func(ctx context.Context) (T, error), apply func(ctx context.Context, v T), log logging.Logger, opts ...Option[T]) *Poller[T] {
	p := &Poller[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		apply:    apply,
		log:      log.With("poller", name),
	}
	if p.interval <= 0 {
		p.log.Warn(context.Background(), "non-positive poll interval, using default", "interval", interval.String(), "default", DefaultInterval.String())
		p.interval = DefaultInterval
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Poller[T]) Name() string { return p.name }

func (p *Poller[T]) Interval() time.Duration { return p.interval }

func (p *Poller[T]) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Start launches the loop. Starting a running poller restarts it.
func (p *Poller[T]) Start(ctx context.Context) {
	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	p.gen++
	p.running = true
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.loop(ctx, p.gen, p.done)
	p.log.Debug(ctx, "poller started", "interval", p.interval.String())
}

// Stop ends the loop and waits for it. It is safe to call at any time.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.gen++
	p.running = false
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done
	p.log.Debug(context.Background(), "poller stopped")
}

func (p *Poller[T]) loop(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx, gen)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx, gen)
		}
	}
}

func (p *Poller[T]) tick(ctx context.Context, gen uint64) {
	v, err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != gen {
		p.log.Debug(ctx, "discarding result of stopped poller")
		return
	}
	if err != nil {
		p.log.Warn(ctx, "refresh failed, keeping last good state", "error", err)
	} else {
		p.apply(ctx, v)
	}
	if p.onResult != nil {
		p.onResult(err)
	}
}

// Runner is the part of a Poller that a Group needs.
type Runner interface {
	Start(ctx context.Context)
	Stop()
}

// Group owns the pollers of one view so they can be stopped together.
type Group struct {
	mu      sync.Mutex
	members []Runner
}

func (g *Group) Add(p Runner) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.members = append(g.members, p)
}

func (g *Group) Start(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.members {
		p.Start(ctx)
	}
}

func (g *Group) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.members {
		p.Stop()
	}
}
