package clock

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/ember/status"
)

type recordingTicker struct {
	mu  sync.Mutex
	dts []float64
}

func (r *recordingTicker) Tick(dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dts = append(r.dts, dt)
}

func (r *recordingTicker) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dts)
}

func TestStepMeasuresFromTimeSource(t *testing.T) {
	tk := &recordingTicker{}
	s := NewScheduler(tk, 10*time.Millisecond)
	mock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s.SetTimeSource(mock)

	mock.Advance(16 * time.Millisecond)
	s.Step()
	mock.Advance(40 * time.Millisecond)
	s.Step()

	if len(tk.dts) != 2 {
		t.Fatalf("Expected 2 ticks, got %d", len(tk.dts))
	}
	if math.Abs(tk.dts[0]-0.016) > 1e-9 || math.Abs(tk.dts[1]-0.04) > 1e-9 {
		t.Errorf("Expected dts [0.016 0.04], got %v", tk.dts)
	}
	if s.Ticks() != 2 {
		t.Errorf("Expected tick count 2, got %d", s.Ticks())
	}
}

func TestCommandsRunBeforeTick(t *testing.T) {
	var order []string
	tk := tickFunc(func(float64) { order = append(order, "tick") })
	s := NewScheduler(tk, time.Millisecond)
	s.SetTimeSource(NewMockTimeProvider(time.Unix(0, 0)))

	s.Do(func() { order = append(order, "a") })
	s.Do(func() { order = append(order, "b") })
	s.OnFrame(func() { order = append(order, "frame") })
	s.Step()

	want := []string{"a", "b", "tick", "frame"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, order)
			break
		}
	}
}

type tickFunc func(float64)

func (f tickFunc) Tick(dt float64) { f(dt) }

func TestSchedulerLoopTicksAndStops(t *testing.T) {
	tk := &recordingTicker{}
	s := NewScheduler(tk, 2*time.Millisecond)
	reg := status.NewRegistry()
	s.SetMetrics(reg)
	s.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for tk.count() < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if tk.count() < 5 {
		t.Fatalf("Expected at least 5 ticks, got %d", tk.count())
	}

	ran := s.Call(func() {})
	if !ran {
		t.Error("Expected Call to run on a live scheduler")
	}

	s.Stop()
	s.Wait()
	if s.Do(func() {}) {
		t.Error("Expected Do to refuse after Stop")
	}
	if reg.Ints.Get("clock.ticks").Load() == 0 {
		t.Error("Expected tick metric to be published")
	}
}

func TestSchedulerContextCancel(t *testing.T) {
	s := NewScheduler(&recordingTicker{}, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Expected loop to exit on context cancel")
	}
}

func TestStopFromQueuedCommand(t *testing.T) {
	s := NewScheduler(&recordingTicker{}, time.Millisecond)
	s.Start(context.Background())
	s.Do(s.Stop)
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Expected Stop from the scheduler goroutine to not deadlock")
	}
}

func TestMockTimeProvider(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	if !mock.Now().Equal(start) {
		t.Errorf("Expected initial time %v, got %v", start, mock.Now())
	}
	mock.Advance(90 * time.Minute)
	if want := start.Add(90 * time.Minute); !mock.Now().Equal(want) {
		t.Errorf("Expected %v after Advance, got %v", want, mock.Now())
	}
}
