package health

import (
	"context"
	"sync"
	"time"

	"github.com/Ak-9647/financial-MAS-Project/domain"
)

// Prober issues one full probe cycle.
type Prober interface {
	PollAll(ctx context.Context) domain.Snapshot
}

// Poller drives recurring poll cycles. It is an owned handle: whoever
// starts it is responsible for stopping it. All cycles run on a single
// goroutine, so two cycles never overlap; a tick that fires while a cycle
// is still outstanding coalesces into at most one queued cycle.
type Poller struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.RWMutex
	latest domain.Snapshot
}

// StartPoller begins polling at the given interval, running one cycle
// immediately. onUpdate, if non-nil, is called with each completed
// snapshot from the polling goroutine.
func StartPoller(prober Prober, interval time.Duration, onUpdate func(domain.Snapshot)) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go p.run(ctx, prober, interval, onUpdate)
	return p
}

func (p *Poller) run(ctx context.Context, prober Prober, interval time.Duration, onUpdate func(domain.Snapshot)) {
	defer close(p.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.cycle(ctx, prober, onUpdate)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A tick may already be queued when Stop races the ticker.
			if ctx.Err() != nil {
				return
			}
			p.cycle(ctx, prober, onUpdate)
		}
	}
}

func (p *Poller) cycle(ctx context.Context, prober Prober, onUpdate func(domain.Snapshot)) {
	snapshot := prober.PollAll(ctx)
	if ctx.Err() != nil {
		// Owner stopped mid-cycle; discard the partial-context result.
		return
	}

	p.mu.Lock()
	p.latest = snapshot
	p.mu.Unlock()

	if onUpdate != nil {
		onUpdate(snapshot)
	}
}

// Latest returns the snapshot from the most recent completed cycle, or nil
// if no cycle has completed yet.
func (p *Poller) Latest() domain.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Stop cancels polling and waits for the polling goroutine to exit. No
// further cycles start after Stop returns.
func (p *Poller) Stop() {
	p.cancel()
	<-p.done
}
