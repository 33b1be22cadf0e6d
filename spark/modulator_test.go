package spark

import (
	"math"
	"testing"

	"github.com/lixenwraith/ember/parameter"
	"github.com/lixenwraith/ember/vmath"
)

func TestWindEasesAndRetargets(t *testing.T) {
	rng := vmath.NewFastRand(1)
	w := Wind{From: 10, To: 20, Value: 10, Duration: 4}

	w = w.step(2, 1, rng)
	if math.Abs(w.Value-15) > 1e-9 {
		t.Errorf("Expected eased midpoint 15, got %v", w.Value)
	}

	w = w.step(2, 0, rng)
	if w.From != 15 {
		t.Errorf("Expected retarget to start from current value 15, got %v", w.From)
	}
	if w.To != 0 {
		t.Errorf("Expected zero strength to zero the target, got %v", w.To)
	}
	if w.Elapsed != 0 || w.Duration < parameter.WindDurationMin || w.Duration >= parameter.WindDurationMax {
		t.Errorf("Expected fresh window in range, got %+v", w)
	}
}

func TestWindStrengthScalesTargetOnly(t *testing.T) {
	rng := vmath.NewFastRand(2)
	w := newWind(rng)
	for range 20 {
		w = w.step(1, 2.5, rng)
		if w.To > parameter.WindTargetMax*2.5 {
			t.Fatalf("Expected target <= %v, got %v", parameter.WindTargetMax*2.5, w.To)
		}
		lo, hi := math.Min(w.From, w.To), math.Max(w.From, w.To)
		if w.Value < lo-1e-9 || w.Value > hi+1e-9 {
			t.Fatalf("Expected value between %v and %v, got %v", lo, hi, w.Value)
		}
	}
}

func TestBurstEmitsWholeCount(t *testing.T) {
	rng := vmath.NewFastRand(3)
	b := Burst{Cooldown: 0.01}

	b, spawns, armed := b.step(frameStep, rng)
	if !armed || spawns != 0 || !b.Active {
		t.Fatalf("Expected arming frame without spawns, got armed=%v spawns=%d", armed, spawns)
	}
	if b.Remain < 10 || b.Remain > 30 {
		t.Errorf("Expected remain in [10, 30], got %d", b.Remain)
	}
	if b.Cooldown < parameter.BurstCooldownMin || b.Cooldown >= parameter.BurstCooldownMax {
		t.Errorf("Expected next cooldown in range, got %v", b.Cooldown)
	}

	want := b.Remain
	total := 0
	for i := 0; b.Active && i < 100; i++ {
		b, spawns, _ = b.step(frameStep, rng)
		total += spawns
	}
	if b.Active {
		t.Fatal("Expected burst to finish")
	}
	if total != want {
		t.Errorf("Expected %d spawns, got %d", want, total)
	}
}

func TestBurstCooldownCountsDown(t *testing.T) {
	rng := vmath.NewFastRand(4)
	b := Burst{Cooldown: 1}
	b, _, armed := b.step(0.4, rng)
	if armed || math.Abs(b.Cooldown-0.6) > 1e-9 {
		t.Errorf("Expected cooldown 0.6 and idle, got %+v", b)
	}
}

func TestVortexLifecycle(t *testing.T) {
	rng := vmath.NewFastRand(5)
	v := Vortex{Cooldown: 0.01}

	armed := false
	for i := 0; i < 200 && !armed; i++ {
		v, armed = v.step(frameStep, 1000, 500, rng)
		if !armed && !v.Active && v.Cooldown > parameter.VortexRetryCooldownMax {
			t.Fatalf("Expected retry cooldown <= %v, got %v", parameter.VortexRetryCooldownMax, v.Cooldown)
		}
		if !armed {
			v.Cooldown = math.Min(v.Cooldown, 0.01)
		}
	}
	if !armed {
		t.Fatal("Expected vortex to arm")
	}
	if v.X < 380 || v.X > 640 || v.Y < 160 || v.Y > 310 || v.Radius < 90 || v.Radius > 180 {
		t.Errorf("Expected placement inside window, got %+v", v)
	}

	steps := 0
	for v.Active {
		v, _ = v.step(0.1, 1000, 500, rng)
		steps++
	}
	if steps < 12 || steps > 24 {
		t.Errorf("Expected 1.2-2.4s lifetime, got %d steps of 0.1s", steps)
	}
}

func TestVortexSwirl(t *testing.T) {
	v := Vortex{Active: true, X: 0, Y: 0, Radius: 10, Strength: 30, Duration: 2, Elapsed: 0.5}

	tx, ty, falloff, ok := v.swirl(5, 0)
	if !ok {
		t.Fatal("Expected point inside radius")
	}
	// tangent is perpendicular to the radius vector
	if math.Abs(tx*5+ty*0) > 1e-9 || math.Abs(math.Hypot(tx, ty)-1) > 1e-9 {
		t.Errorf("Expected unit tangent, got (%v, %v)", tx, ty)
	}
	if math.Abs(falloff-0.5) > 1e-9 {
		t.Errorf("Expected falloff 0.5, got %v", falloff)
	}
	if math.Abs(v.fade()-0.75) > 1e-9 {
		t.Errorf("Expected fade 0.75, got %v", v.fade())
	}

	if _, _, _, ok := v.swirl(20, 0); ok {
		t.Error("Expected no swirl outside radius")
	}
	v.Active = false
	if _, _, _, ok := v.swirl(1, 1); ok {
		t.Error("Expected no swirl while idle")
	}
}
