// Package clock drives a Ticker at a fixed cadence on a single goroutine and
// serializes outside calls onto that goroutine.
package clock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/ember/core"
	"github.com/lixenwraith/ember/status"
)

// Ticker advances by dt seconds per call
type Ticker interface {
	Tick(dt float64)
}

// commandBuffer bounds queued calls before Do blocks
const commandBuffer = 64

// Scheduler owns the only goroutine allowed to touch its Ticker
// Everything else reaches the Ticker through Do or Call
type Scheduler struct {
	target   Ticker
	interval time.Duration
	source   TimeSource
	onFrame  func()

	lastTick time.Time
	ticks    atomic.Uint64
	statTick *atomic.Int64

	commands chan func()
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	running  atomic.Bool
}

// NewScheduler creates a scheduler ticking target every interval
func NewScheduler(target Ticker, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Second / 60
	}
	src := NewTimeProvider()
	return &Scheduler{
		target:   target,
		interval: interval,
		source:   src,
		lastTick: src.Now(),
		commands: make(chan func(), commandBuffer),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// SetTimeSource replaces the clock used to measure steps, must be called before Start
func (s *Scheduler) SetTimeSource(src TimeSource) {
	s.source = src
	s.lastTick = src.Now()
}

// OnFrame registers fn to run after every tick, on the scheduler goroutine
func (s *Scheduler) OnFrame(fn func()) {
	s.onFrame = fn
}

// SetMetrics publishes the tick count to reg
func (s *Scheduler) SetMetrics(reg *status.Registry) {
	s.statTick = reg.Ints.Get("clock.ticks")
}

// Interval returns the tick period
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Ticks returns the number of completed ticks
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}

// Start launches the loop; it ends when ctx is cancelled or Stop is called
func (s *Scheduler) Start(ctx context.Context) {
	if s.running.CompareAndSwap(false, true) {
		s.lastTick = s.source.Now()
		core.Go(func() { s.loop(ctx) })
	}
}

// Stop requests loop exit without waiting, safe to call from a queued command
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// Wait blocks until a started loop has exited
func (s *Scheduler) Wait() {
	if s.running.Load() {
		<-s.done
	}
}

// Done is closed when the loop exits
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Do queues fn to run on the scheduler goroutine before the next tick
// Returns false once the scheduler is stopped
func (s *Scheduler) Do(fn func()) bool {
	select {
	case <-s.stopChan:
		return false
	default:
	}
	select {
	case s.commands <- fn:
		return true
	case <-s.stopChan:
		return false
	}
}

// Call runs fn on the scheduler goroutine and waits for it to finish
// Returns false if the loop stopped before fn ran
func (s *Scheduler) Call(fn func()) bool {
	finished := make(chan struct{})
	if !s.Do(func() {
		fn()
		close(finished)
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-s.done:
		select {
		case <-finished:
			return true
		default:
			return false
		}
	}
}

// Step drains queued commands and runs one tick with dt measured from the time source
// The loop calls it on every deadline; tests call it directly
func (s *Scheduler) Step() {
	s.drain()

	now := s.source.Now()
	dt := now.Sub(s.lastTick).Seconds()
	s.lastTick = now

	s.target.Tick(dt)
	n := s.ticks.Add(1)
	if s.statTick != nil {
		s.statTick.Store(int64(n))
	}
	if s.onFrame != nil {
		s.onFrame()
	}
}

func (s *Scheduler) drain() {
	for {
		select {
		case fn := <-s.commands:
			fn()
		default:
			return
		}
	}
}

// loop ticks on drift-corrected deadlines and runs commands between ticks
func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()
	deadline := time.Now().Add(s.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case fn := <-s.commands:
			fn()
			continue
		case <-timer.C:
		}

		s.Step()

		now := time.Now()
		deadline = deadline.Add(s.interval)
		// fall back to the current time when too far behind
		if now.Sub(deadline) > s.interval*2 {
			deadline = now.Add(s.interval)
		}
		timer.Reset(max(0, deadline.Sub(now)))
	}
}
