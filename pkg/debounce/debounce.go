// Package debounce delays work until input has been quiet for a while.
//
// Every Trigger cancels the pending call and starts a new quiet period.
// Calls are numbered, so a caller that finished slow work can check with
// Latest whether a newer call has started meanwhile.
package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned by Call.Wait when a newer call replaced it.
var ErrSuperseded = errors.New("debounce: superseded by a newer call")

// Debouncer is safe for concurrent use.
type Debouncer struct {
	pending *Call
	delay   time.Duration
	seq     uint64
	mu      sync.Mutex
	stopped bool
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Call is one scheduled invocation.
type Call struct {
	timer     *time.Timer
	fn        func()
	fired     chan struct{}
	cancelled chan struct{}
	seq       uint64
	once      sync.Once
}

// Seq is the call's sequence number, starting at 1.
func (c *Call) Seq() uint64 { return c.seq }

// Wait blocks until the quiet period passed (nil), a newer call replaced
// this one (ErrSuperseded) or ctx is done.
func (c *Call) Wait(ctx context.Context) error {
	select {
	case <-c.fired:
		return nil
	case <-c.cancelled:
		return ErrSuperseded
	case <-ctx.Done():
		return ctx.Err()
	}
}

// resolve closes ch unless the call was already resolved.
func (c *Call) resolve(ch chan struct{}) bool {
	resolved := false
	c.once.Do(func() {
		close(ch)
		resolved = true
	})
	return resolved
}

func (c *Call) cancel() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.resolve(c.cancelled)
}

// Trigger starts a new quiet period. Use the returned Call to wait for it.
func (d *Debouncer) Trigger() *Call {
	return d.schedule(nil)
}

// Schedule runs fn once the quiet period passes, unless another
// Trigger or Schedule comes first.
func (d *Debouncer) Schedule(fn func()) *Call {
	return d.schedule(fn)
}

func (d *Debouncer) schedule(fn func()) *Call {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.cancel()
		d.pending = nil
	}

	d.seq++
	c := &Call{
		seq:       d.seq,
		fn:        fn,
		fired:     make(chan struct{}),
		cancelled: make(chan struct{}),
	}

	if d.stopped {
		c.cancel()
		return c
	}

	c.timer = time.AfterFunc(d.delay, func() { d.fire(c) })
	d.pending = c
	return c
}

func (d *Debouncer) fire(c *Call) {
	d.mu.Lock()
	if d.pending != c {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.mu.Unlock()

	if c.resolve(c.fired) && c.fn != nil {
		c.fn()
	}
}

// Latest reports whether seq belongs to the most recent call.
func (d *Debouncer) Latest(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq == seq
}

// Pending reports whether a call is waiting for its quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels the pending call. Later calls are cancelled immediately.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.pending != nil {
		d.pending.cancel()
		d.pending = nil
	}
}
