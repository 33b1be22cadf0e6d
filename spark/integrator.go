package spark

import (
	"math"

	"github.com/lixenwraith/ember/noise"
	"github.com/lixenwraith/ember/parameter"
	"github.com/lixenwraith/ember/vmath"
)

// frame holds values shared by every entity during one tick
type frame struct {
	time float64

	width, height float64
	topFadeStart  float64
	topFadeEnd    float64

	plumeCenter float64
	midTarget   float64

	wind   float64
	vortex Vortex
}

func (e *Engine) newFrame() frame {
	w, h := e.vp.Width, e.vp.Height
	return frame{
		time:         e.time,
		width:        w,
		height:       h,
		topFadeStart: h * parameter.TopFadeStart,
		topFadeEnd:   h * parameter.TopFadeEnd,
		plumeCenter:  w*parameter.SourceXBase + e.nf.Noise3D(e.time*0.07, 12.2, 91.3)*w*0.08*parameter.FlameAreaScale,
		midTarget:    e.midTargetX(),
		wind:         e.wind.Value,
		vortex:       e.vortex,
	}
}

// riseFraction is normalized progress from the spawn height toward the fade-out height
func riseFraction(startY, y, topFadeEnd float64) float64 {
	span := startY - topFadeEnd
	if span <= 0 {
		return 1
	}
	return vmath.Clamp((startY-y)/span, 0, 1)
}

// topFade is 1 below start, 0 above end, linear between
func topFade(y, start, end float64) float64 {
	if y >= start {
		return 1
	}
	if y <= end {
		return 0
	}
	return (y - end) / (start - end)
}

func (f frame) particleOut(x, y float64) bool {
	return x < f.width*parameter.ParticleBoundLeft ||
		x > f.width*parameter.ParticleBoundRight ||
		y < f.topFadeEnd-parameter.ParticleBoundTopPad
}

func (f frame) streakOut(x, y float64) bool {
	return x < f.width*parameter.StreakBoundLeft ||
		x > f.width*parameter.StreakBoundRight ||
		y < f.topFadeEnd-parameter.StreakBoundTopPad
}

// particleAccel sums every force acting on p, rise is taken before the move
func (f frame) particleAccel(p *Particle, rise float64, nf noise.Field) (ax, ay float64) {
	t := f.time
	lifeT := p.LifeT()
	spread := vmath.Mix(0.22, 1.2, rise)
	layer := float64(p.Layer)

	curlX, curlY := noise.Curl(nf, p.X*0.0023, p.Y*0.0021, t*0.18+p.Seed*0.0017, 0.0012)

	// flame tongue: channel slides from source to target and sways until near the top
	progress := vmath.Smoothstep(0.04, 0.78, rise)
	envelope := 1 - vmath.Smoothstep(0.62, 0.96, rise)
	sway := math.Sin(t*p.TongueFreq+p.TonguePhase+rise*4.2) * p.TongueAmp * envelope
	channel := vmath.Mix(f.plumeCenter, f.midTarget, progress) + sway
	pull := (channel - p.X) * vmath.Mix(0.18, 0.07, rise)

	wander := math.Sin(t*(1+layer*0.4)+p.Seed*0.4) * (1.6 + spread*4.3) * (0.4 + envelope)
	rightBias := 11 + 9*spread
	pulse := math.Sin(t*(2.1+layer*0.25)+p.TonguePhase) * 24 * envelope

	ax = pull + f.wind*(0.2+spread*0.37) + curlX*p.Flow*spread + wander + rightBias
	ay = -p.Buoyancy*vmath.Mix(1.45, 0.46, vmath.Pow(lifeT, 0.68)) + curlY*p.Flow*0.3 + pulse

	if tx, ty, falloff, ok := f.vortex.swirl(p.X, p.Y); ok {
		s := f.vortex.Strength * falloff * f.vortex.fade()
		ax += tx * s
		ay += ty * s
	}
	return ax, ay
}

// streakAccel is the reduced force set for streaks, without channel or tongue terms
func (f frame) streakAccel(s *Streak, rise float64, nf noise.Field) (ax, ay float64) {
	curlX, curlY := noise.Curl(nf, s.X*0.0021, s.Y*0.0018, f.time*0.2+s.Seed*0.002, 0.0013)

	ax = f.wind*vmath.Mix(0.26, 0.36, rise) + 18 + 16*rise + curlX*s.Flow
	ay = -s.RiseBoost*vmath.Mix(1.55, 0.7, s.LifeT()) + curlY*s.Flow*0.22

	if tx, ty, falloff, ok := f.vortex.swirl(s.X, s.Y); ok {
		sw := f.vortex.Strength * falloff * parameter.VortexStreakScale
		ax += tx * sw
		ay += ty * sw
	}
	return ax, ay
}

// integrateParticles ages, advances and retires embers
// Velocity integrates first, then drag, then position; vertical drag is slightly stronger
func (e *Engine) integrateParticles(dt float64, f frame) {
	pool := e.particles
	for i := 0; i < pool.Cap(); i++ {
		if !pool.IsActive(i) {
			continue
		}
		p := pool.At(i)
		p.Age += dt
		if p.Age >= p.Life {
			pool.Release(i)
			continue
		}

		rise := riseFraction(p.StartY, p.Y, f.topFadeEnd)
		ax, ay := f.particleAccel(p, rise, e.nf)

		p.VX += ax * dt
		p.VY += ay * dt
		p.VX *= p.Drag
		p.VY *= p.Drag * 0.996
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.Rotation += p.Spin * dt

		if f.particleOut(p.X, p.Y) || !vmath.Finite(p.X) || !vmath.Finite(p.Y) {
			pool.Release(i)
		}
	}
}

// integrateStreaks ages, advances and retires streaks
func (e *Engine) integrateStreaks(dt float64, f frame) {
	pool := e.streaks
	for i := 0; i < pool.Cap(); i++ {
		if !pool.IsActive(i) {
			continue
		}
		s := pool.At(i)
		s.Age += dt
		if s.Age >= s.Life {
			pool.Release(i)
			continue
		}

		rise := riseFraction(s.StartY, s.Y, f.topFadeEnd)
		ax, ay := f.streakAccel(s, rise, e.nf)

		s.VX += ax * dt
		s.VY += ay * dt
		s.VX *= s.Drag
		s.VY *= s.Drag * 0.994
		s.X += s.VX * dt
		s.Y += s.VY * dt
		s.Rotation += s.Spin * dt

		if f.streakOut(s.X, s.Y) || !vmath.Finite(s.X) || !vmath.Finite(s.Y) {
			pool.Release(i)
		}
	}
}
