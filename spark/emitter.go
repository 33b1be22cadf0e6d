package spark

import (
	"math"

	"github.com/lixenwraith/ember/parameter"
	"github.com/lixenwraith/ember/vmath"
)

const tau = 2 * math.Pi

// ParticleCap is the admission cap for embers at intensity i
func ParticleCap(i float64) int {
	return int(math.Round((parameter.ParticleCapBase + i*parameter.ParticleCapPerIntensity) * parameter.ParticleCapHeadroom))
}

// StreakCap is the admission cap for streaks at intensity i
func StreakCap(i float64) int {
	return int(math.Round((parameter.StreakCapBase + i*parameter.StreakCapPerIntensity) * parameter.StreakCapHeadroom))
}

// pickLayer maps a uniform draw to a layer index by cumulative weight
// Residual probability lands on the last layer
func pickLayer(r float64) int {
	acc := 0.0
	for i := 0; i < len(parameter.Layers)-1; i++ {
		acc += parameter.Layers[i].Weight
		if r < acc {
			return i
		}
	}
	return len(parameter.Layers) - 1
}

// emit accumulates fractional spawns; embers drain the accumulator, streaks spawn at most once per frame
func (e *Engine) emit(dt float64) {
	e.emitAccumulator += parameter.EmitRatePerIntensity * e.intensity * parameter.EmitRateBoost * dt
	for e.emitAccumulator >= 1 {
		e.emitAccumulator--
		e.spawnParticle(false)
	}

	e.streakAccumulator += parameter.StreakRatePerIntensity * e.intensity * dt
	if e.streakAccumulator >= 1 {
		e.streakAccumulator--
		e.spawnStreak(false)
	}
}

// emitBurst spawns burst embers, each with a small chance of a boosted streak
func (e *Engine) emitBurst(n int) {
	for range n {
		e.spawnParticle(true)
		if e.rng.Float64() < parameter.BurstStreakChance {
			e.spawnStreak(true)
		}
	}
}

// spawnParticle activates one ember near the plume source, dropped silently at cap
func (e *Engine) spawnParticle(fromBurst bool) bool {
	_, p, ok := e.particles.Acquire(ParticleCap(e.intensity))
	if !ok {
		return false
	}
	r := e.rng
	w, h := e.vp.Width, e.vp.Height

	layerIndex := pickLayer(r.Float64())
	layer := parameter.Layers[layerIndex]
	popChance := layer.PopChance
	if fromBurst {
		popChance *= parameter.BurstPopMultiplier
	}
	pop := r.Float64() < popChance

	meander := e.nf.Noise3D(e.time*0.06, 14.7, 3.1) * w * 0.06 * parameter.FlameAreaScale
	sourceRadius := w * (0.04 + 0.012*e.intensity) * parameter.FlameAreaScale
	sourceX := w*parameter.SourceXBase + meander + r.Norm()*sourceRadius
	sourceY := r.Range(h*0.915, h*1.03)

	speed := r.Range(layer.SpeedMin, layer.SpeedMax) * 1.22
	if pop {
		speed *= r.Range(1.9, 2.8)
	}
	lean := vmath.Clamp(e.wind.Value*0.002, 0.08, 0.35)
	angle := r.Range(-1.25, -0.95) + lean

	*p = Particle{
		Layer:  layerIndex,
		Pop:    pop,
		X:      sourceX,
		Y:      sourceY,
		VX:     math.Cos(angle) * speed,
		VY:     math.Sin(angle) * speed,
		StartY: sourceY,

		Size:     r.Range(layer.SizeMin, layer.SizeMax),
		Halo:     r.Range(layer.HaloMin, layer.HaloMax),
		Alpha:    r.Range(layer.AlphaMin, layer.AlphaMax),
		Drag:     layer.Drag,
		Buoyancy: layer.Buoyancy,
		Flow:     layer.Flow,

		Rotation:  r.Range(0, tau),
		Spin:      r.Range(-1.4, 1.4),
		Aspect:    r.Range(0.7, 1.35),
		Chip:      r.Range(0.14, 0.52),
		Skew:      r.Range(-0.35, 0.35),
		RectBaseW: r.Range(0.28, 0.82),
		RectBaseH: r.Range(0.95, 2.25),
		Roundness: r.Range(0.02, 0.18),

		MorphSpeed:   r.Range(1.9, 5.1),
		MorphPhase:   r.Range(0, tau),
		FlickerHz:    r.Range(6, 12),
		FlickerPhase: r.Range(0, tau),
		CoolCurve:    r.Range(0.88, 1.42),
		RampIn:       r.Range(0.04, 0.11),
		Seed:         r.Range(0, 1024),
	}
	if pop {
		p.Life = r.Range(0.55, 1.45)
	} else {
		p.Life = r.Range(3.2, 6.8)
	}

	p.BaseHeat = vmath.Clamp(r.Range(0.56+float64(layerIndex)*0.12, 0.98), 0.42, 1)
	p.CoolingRate = r.Range(0.72, 1.24)
	if pop {
		p.BaseHeat = vmath.Clamp(p.BaseHeat+0.16, 0, 1)
	}

	p.TonguePhase = r.Range(0, tau)
	p.TongueAmp = r.Range(w*0.01, w*0.035) * parameter.FlameAreaScale
	p.TongueFreq = r.Range(0.8, 1.9)

	if pop {
		p.PopLen = r.Range(10, 24)
		p.PopAlpha = r.Range(0.2, 0.5)
		e.metrics.pops.Add(1)
		e.observer.OnPop(layerIndex)
	}
	return true
}

// spawnStreak activates one flash streak somewhere along the source-to-target channel
func (e *Engine) spawnStreak(fromBurst bool) bool {
	_, s, ok := e.streaks.Acquire(StreakCap(e.intensity))
	if !ok {
		return false
	}
	r := e.rng
	w, h := e.vp.Width, e.vp.Height

	meander := e.nf.Noise3D(e.time*0.055, 28.3, 4.7) * w * 0.058 * parameter.FlameAreaScale
	sourceCenter := w*parameter.SourceXBase + meander
	midTarget := e.midTargetX()

	progress := math.Pow(r.Float64(), 0.8) * 0.76
	channel := vmath.Mix(sourceCenter, midTarget, progress)
	lateral := w * vmath.Mix(0.018, 0.09, progress)
	vertical := h * vmath.Mix(0.012, 0.04, progress)
	x := channel + r.Norm()*lateral
	y := h*vmath.Mix(0.95, 0.38, progress) + r.Norm()*vertical

	boost := 1.0
	if fromBurst {
		boost = r.Range(1.2, 1.75)
	}
	speed := r.Range(170, 310) * boost
	lean := vmath.Clamp(e.wind.Value*0.0018, 0.05, 0.22)
	angle := r.Range(-1.07, -0.69) + lean

	*s = Streak{
		X:      x,
		Y:      y,
		VX:     math.Cos(angle) * speed,
		VY:     math.Sin(angle) * speed,
		StartY: y,

		Life:   r.Range(0.34, 1.05) / boost,
		Length: r.Range(18, 46) * boost,
		Width:  r.Range(0.9, 1.95),
		Alpha:  r.Range(0.24, 0.7),

		Drag:      r.Range(0.98, 0.991),
		Flow:      r.Range(14, 26),
		RiseBoost: r.Range(34, 76),

		Rotation:     r.Range(0, tau),
		Spin:         r.Range(-1.8, 1.8),
		FlickerHz:    r.Range(7.5, 12.6),
		FlickerPhase: r.Range(0, tau),
		Heat:         r.Range(0.72, 1),
		Seed:         r.Range(0, 1024),
		PopBoost:     boost,
	}
	return true
}

// midTargetX is the meandering downstream target the plume bends toward
func (e *Engine) midTargetX() float64 {
	w := e.vp.Width
	return w*parameter.TargetXBase + e.nf.Noise3D(e.time*0.05, 7.6, 24.9)*w*0.05*parameter.FlameAreaScale
}
