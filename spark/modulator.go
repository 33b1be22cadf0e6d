package spark

import (
	"math"

	"github.com/lixenwraith/ember/parameter"
	"github.com/lixenwraith/ember/vmath"
)

// Wind is a scalar rightward push eased between random targets
type Wind struct {
	From, To float64
	Value    float64
	Elapsed  float64
	Duration float64
}

func newWind(rng *vmath.FastRand) Wind {
	return Wind{
		From:     parameter.WindInitialFrom,
		To:       parameter.WindInitialTo,
		Value:    parameter.WindInitialValue,
		Duration: rng.Range(parameter.WindInitialDurationMin, parameter.WindInitialDurationMax),
	}
}

// step advances the easing; on expiry the current value becomes the new origin and
// strength scales only the freshly drawn target
func (w Wind) step(dt, strength float64, rng *vmath.FastRand) Wind {
	w.Elapsed += dt
	if w.Elapsed >= w.Duration {
		w.Elapsed = 0
		w.From = w.Value
		w.To = rng.Range(parameter.WindTargetMin, parameter.WindTargetMax) * strength
		w.Duration = rng.Range(parameter.WindDurationMin, parameter.WindDurationMax)
	}
	w.Value = vmath.Mix(w.From, w.To, vmath.Smoothstep(0, 1, w.Elapsed/w.Duration))
	return w
}

// Burst emits a short spike of extra embers after a cooldown
type Burst struct {
	Active      bool
	Remain      int
	Elapsed     float64
	Duration    float64
	Accumulator float64
	Cooldown    float64
}

func newBurst(rng *vmath.FastRand) Burst {
	return Burst{
		Cooldown: rng.Range(parameter.BurstInitialCooldownMin, parameter.BurstInitialCooldownMax),
	}
}

// arm opens an emission window and schedules the next cooldown
func (b Burst) arm(rng *vmath.FastRand) Burst {
	b.Active = true
	b.Remain = int(math.Round(rng.Range(parameter.BurstCountMin, parameter.BurstCountMax)))
	b.Duration = rng.Range(parameter.BurstDurationMin, parameter.BurstDurationMax)
	b.Elapsed = 0
	b.Accumulator = 0
	b.Cooldown = rng.Range(parameter.BurstCooldownMin, parameter.BurstCooldownMax)
	return b
}

// step returns the updated state, the number of spawns due this frame, and
// whether the burst armed this frame. Arming frames emit nothing
func (b Burst) step(dt float64, rng *vmath.FastRand) (Burst, int, bool) {
	if !b.Active {
		b.Cooldown -= dt
		if b.Cooldown <= 0 {
			return b.arm(rng), 0, true
		}
		return b, 0, false
	}

	b.Elapsed += dt
	// spread what remains over the time left, including this frame
	rate := float64(b.Remain) / math.Max(0.001, b.Duration-b.Elapsed+dt)
	b.Accumulator += rate * dt
	spawns := 0
	for b.Accumulator >= 1 && b.Remain > 0 {
		b.Accumulator--
		b.Remain--
		spawns++
	}
	if b.Elapsed >= b.Duration {
		// rounding can strand a spawn on the closing frame
		spawns += b.Remain
		b.Remain = 0
	}
	if b.Remain <= 0 {
		b.Active = false
	}
	return b, spawns, false
}

// Vortex is a transient rotational force field
type Vortex struct {
	Active   bool
	X, Y     float64
	Radius   float64
	Strength float64
	Elapsed  float64
	Duration float64
	Cooldown float64
}

func newVortex(rng *vmath.FastRand) Vortex {
	return Vortex{
		Cooldown: rng.Range(parameter.VortexInitialCooldownMin, parameter.VortexInitialCooldownMax),
	}
}

// arm places a vortex inside the viewport and schedules the next cooldown
func (v Vortex) arm(width, height float64, rng *vmath.FastRand) Vortex {
	v.Active = true
	v.Elapsed = 0
	v.Duration = rng.Range(parameter.VortexDurationMin, parameter.VortexDurationMax)
	v.X = width * rng.Range(parameter.VortexXMin, parameter.VortexXMax)
	v.Y = height * rng.Range(parameter.VortexYMin, parameter.VortexYMax)
	v.Radius = width * rng.Range(parameter.VortexRadiusMin, parameter.VortexRadiusMax)
	v.Strength = rng.Range(parameter.VortexStrengthMin, parameter.VortexStrengthMax)
	v.Cooldown = rng.Range(parameter.VortexCooldownMin, parameter.VortexCooldownMax)
	return v
}

// step returns the updated state and whether the vortex armed this frame
// An expired cooldown that loses the arm roll is redrawn from the shorter retry range
func (v Vortex) step(dt, width, height float64, rng *vmath.FastRand) (Vortex, bool) {
	if !v.Active {
		v.Cooldown -= dt
		if v.Cooldown <= 0 {
			if rng.Float64() < parameter.VortexArmChance {
				return v.arm(width, height, rng), true
			}
			v.Cooldown = rng.Range(parameter.VortexRetryCooldownMin, parameter.VortexRetryCooldownMax)
		}
		return v, false
	}
	v.Elapsed += dt
	if v.Elapsed >= v.Duration {
		v.Active = false
	}
	return v, false
}

// swirl returns the unit tangent around the center at (x, y) and the radial
// falloff 1 - d/r. ok is false outside the radius or while idle
func (v Vortex) swirl(x, y float64) (tx, ty, falloff float64, ok bool) {
	if !v.Active {
		return 0, 0, 0, false
	}
	dx, dy := x-v.X, y-v.Y
	d := math.Hypot(dx, dy)
	if d >= v.Radius {
		return 0, 0, 0, false
	}
	inv := 1.0
	if d > 0 {
		inv = 1 / d
	}
	return -dy * inv, dx * inv, 1 - d/v.Radius, true
}

// fade is the remaining-life fraction of an active vortex
func (v Vortex) fade() float64 {
	if v.Duration <= 0 {
		return 0
	}
	return 1 - v.Elapsed/v.Duration
}
