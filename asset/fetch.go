package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ErrFetchFailed is the terminal per-asset fetch failure. It is never
// retried silently; retry is user-initiated through the cancel/retry
// affordance.
var ErrFetchFailed = errors.New("asset: fetch failed")

// Fetcher performs the blocking retrieval and decode of one
// representation. Implementations live in the network layer and may be
// called from any worker goroutine.
type Fetcher interface {
	Fetch(ctx context.Context, id ID, t Tier) (image.Image, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, id ID, t Tier) (image.Image, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, id ID, t Tier) (image.Image, error) {
	return f(ctx, id, t)
}

// TierListener observes tier availability for one asset.
type TierListener func(t Tier)

type tierListener struct {
	id int
	fn TierListener
}

// Dispatcher schedules background tier fetches and crosses the results
// back onto the UI goroutine as discrete, serialized callbacks.
//
// Want, Listen and Drain must be called from the UI goroutine. Fetch
// work runs on the configured Scheduler.
type Dispatcher struct {
	// Fetcher retrieves representations. Required.
	Fetcher Fetcher
	// Scheduler distributes blocking work. Defaults to a fixed pool.
	Scheduler Scheduler
	// Invalidator triggers a new frame so the UI drains pending
	// completions. May be nil.
	Invalidator func()
	// Log receives fetch diagnostics. Defaults to a disabled logger.
	Log zerolog.Logger

	// init allows a useful zero value by lazily allocating on first use.
	init sync.Once

	// group collapses concurrent fetches of the same representation.
	group singleflight.Group

	// updates carries apply closures from workers to the UI goroutine.
	updates chan func()

	listeners map[ID][]tierListener
	nextSub   int
}

func (d *Dispatcher) initialize() {
	if d.Scheduler == nil {
		d.Scheduler = &FixedWorkerPool{}
	}
	d.updates = make(chan func(), 64)
	d.listeners = make(map[ID][]tierListener)
	d.Log = d.Log.With().Str("component", "asset.dispatcher").Logger()
}

// Updates exposes the completion channel. Select on it in the event
// loop and pass received closures to Drain, or call the closure
// directly from the UI goroutine.
func (d *Dispatcher) Updates() <-chan func() {
	d.init.Do(d.initialize)
	return d.updates
}

// Drain runs every completion queued so far on the calling goroutine.
// Call from the UI goroutine once per frame.
func (d *Dispatcher) Drain() {
	d.init.Do(d.initialize)
	for {
		select {
		case apply := <-d.updates:
			apply()
		default:
			return
		}
	}
}

// Listen subscribes to tier-ready notifications for one asset. The
// returned cancel detaches synchronously: after it returns, fn is never
// invoked again, even for completions already in flight.
func (d *Dispatcher) Listen(id ID, fn TierListener) (cancel func()) {
	d.init.Do(d.initialize)
	d.nextSub++
	sub := tierListener{id: d.nextSub, fn: fn}
	d.listeners[id] = append(d.listeners[id], sub)
	return func() {
		subs := d.listeners[id]
		for i := range subs {
			if subs[i].id == sub.id {
				d.listeners[id] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Want requests tier t for a. Requesting a tier that is already
// present, already in flight, or terminally failed is a no-op, so
// renderers may call this on every paint.
func (d *Dispatcher) Want(ctx context.Context, a *Asset, t Tier) {
	d.init.Do(d.initialize)
	if t == TierNone || t >= tierCount {
		return
	}
	if a.Image(t) != nil || a.tierPending(t) || a.failed {
		return
	}
	a.markPending(t)
	// Only the full-quality fetch is a user-visible transfer; preview
	// tiers must not raise the cancel affordance.
	if t == TierLarge {
		a.loading = true
	}
	id := a.ID()
	key := fmt.Sprintf("%d/%d", id, t)
	d.Scheduler.Schedule(func() {
		img, err, _ := d.group.Do(key, func() (interface{}, error) {
			return d.Fetcher.Fetch(ctx, id, t)
		})
		if err != nil {
			d.Log.Debug().
				Int64("asset", int64(id)).
				Stringer("tier", t).
				Err(err).
				Msg("tier fetch failed")
			d.deliver(func() {
				a.clearPending(t)
				if t == TierLarge {
					a.loading = false
				}
				a.failed = true
			})
			return
		}
		d.deliver(func() {
			a.clearPending(t)
			if t == TierLarge {
				a.loading = false
			}
			previous := a.highest
			a.setImage(t, img.(image.Image))
			if t == TierLarge {
				a.loadOffset = a.info.Size
			}
			// Never announce a lower tier after a higher one has
			// already been shown.
			if t > previous {
				d.notify(a.ID(), t)
			}
		})
	})
}

// deliver queues an apply closure for the UI goroutine and wakes the
// window.
func (d *Dispatcher) deliver(apply func()) {
	d.updates <- apply
	if d.Invalidator != nil {
		d.Invalidator()
	}
}

func (d *Dispatcher) notify(id ID, t Tier) {
	// Snapshot so a listener may cancel re-entrantly.
	subs := d.listeners[id]
	snapshot := make([]tierListener, len(subs))
	copy(snapshot, subs)
	for _, sub := range snapshot {
		if d.subscribed(id, sub.id) {
			sub.fn(t)
		}
	}
}

func (d *Dispatcher) subscribed(id ID, subID int) bool {
	for _, sub := range d.listeners[id] {
		if sub.id == subID {
			return true
		}
	}
	return false
}
