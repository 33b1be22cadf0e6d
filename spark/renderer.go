package spark

import (
	"math"

	"github.com/lixenwraith/ember/noise"
	"github.com/lixenwraith/ember/parameter"
	"github.com/lixenwraith/ember/surface"
	"github.com/lixenwraith/ember/vmath"
)

// draw clears the surface and redraws every live entity additively
func (e *Engine) draw(f frame) {
	ctx := e.ctx
	ctx.ClearRect(0, 0, f.width, f.height)
	ctx.SetCompositeOp(surface.Lighter)

	for i := 0; i < e.particles.Cap(); i++ {
		if !e.particles.IsActive(i) {
			continue
		}
		p := e.particles.At(i)
		alpha, size := particleAppearance(p, f, e.nf)
		if alpha <= parameter.MinVisibleAlpha || size <= parameter.MinVisibleSize {
			continue
		}
		drawEmber(ctx, p, alpha, size, f.time, e.nf)
	}

	for i := 0; i < e.streaks.Cap(); i++ {
		if !e.streaks.IsActive(i) {
			continue
		}
		s := e.streaks.At(i)
		alpha := streakAlpha(s, f, e.nf)
		if alpha <= parameter.MinStreakAlpha {
			continue
		}
		drawStreak(ctx, s, alpha)
	}

	ctx.SetCompositeOp(surface.SourceOver)
}

// particleAppearance derives alpha and size purely from age, height and time
func particleAppearance(p *Particle, f frame, nf noise.Field) (alpha, size float64) {
	lifeT := p.LifeT()
	rise := riseFraction(p.StartY, p.Y, f.topFadeEnd)

	ramp := vmath.Smoothstep(0, p.RampIn, lifeT)
	cool := vmath.Pow(1-lifeT*0.84, p.CoolCurve)
	fade := topFade(p.Y, f.topFadeStart, f.topFadeEnd)
	disperse := 1 - vmath.Smoothstep(0.72, 0.985, rise)
	flicker := 1 +
		math.Sin(f.time*p.FlickerHz*tau+p.FlickerPhase)*0.08 +
		nf.Noise3D(p.Seed*0.01, f.time*0.8, 3.2)*0.05

	alpha = vmath.Clamp(p.Alpha*ramp*cool*fade*disperse*flicker, 0, 1)
	size = p.Size * vmath.Mix(1.05, 0.78, lifeT) * parameter.EmberSizeScale
	return alpha, size
}

// particleHeat is the cooling heat at time t, before ramp offsets
func particleHeat(p *Particle, t float64) float64 {
	shimmer := 0.985 + math.Sin(t*(7.2+float64(p.Layer)*1.1)+p.FlickerPhase)*0.03
	return vmath.Clamp(p.BaseHeat*vmath.Pow(math.Max(0, 1-p.LifeT()*0.98), p.CoolingRate)*shimmer, 0, 1)
}

// drawEmber paints an ember as four nested rounded rectangles: soft glow, mid glow,
// core and an offset chip, plus a trailing mark for fast young pops
func drawEmber(ctx surface.Context, p *Particle, alpha, size, t float64, nf noise.Field) {
	speed := math.Hypot(p.VX, p.VY)
	lifeT := p.LifeT()
	haloAlpha := alpha * (0.16 + float64(p.Layer)*0.04)
	coolT := vmath.Pow(lifeT, 0.72)
	morph := math.Sin(t*p.MorphSpeed + p.MorphPhase)
	flow := nf.Noise3D(p.Seed*0.017, t*0.95, 2.8)
	stretch := vmath.Clamp(speed/220, 0, 1)

	rectW := size * p.RectBaseW * (1 + morph*0.2 + flow*0.12 - stretch*0.06 + p.Skew*0.14)
	rectH := size * p.RectBaseH * (1 - morph*0.12 + flow*0.07 + stretch*0.44 - coolT*0.15)
	round := math.Min(rectW, rectH) * vmath.Clamp(p.Roundness+morph*0.03+flow*0.03+coolT*0.04, 0.015, 0.22)
	tilt := math.Atan2(p.VY, p.VX) + math.Pi*0.5

	heat := particleHeat(p, t)
	haloRGB := HeatColor(math.Max(0, heat-0.25))
	midRGB := HeatColor(math.Max(0, heat-0.1))
	coreRGB := HeatColor(math.Min(1, heat+0.06))
	chipRGB := HeatColor(math.Min(1, heat+0.14))

	ctx.Save()
	ctx.Translate(p.X, p.Y)
	ctx.Rotate(p.Rotation*0.72 + tilt*0.28)
	ctx.Scale(p.Aspect, 1/p.Aspect)

	ctx.SetShadow(surface.RGBA(haloRGB, haloAlpha*0.95), size*(2.2+p.Halo*0.85))
	ctx.FillRoundedRect(p.Skew*size*0.14, 0, rectW*1.22, rectH*1.14, round*1.05,
		surface.SolidPaint(surface.RGBA(haloRGB, haloAlpha*0.62)))
	ctx.SetShadow(surface.Color{}, 0)

	ctx.FillRoundedRect(p.Skew*size*0.12, -size*0.01, rectW*1.05, rectH*1.02, round*0.92,
		surface.SolidPaint(surface.RGBA(midRGB, haloAlpha)))

	ctx.FillRoundedRect(size*0.04, -size*0.02, rectW*0.78, rectH*0.76, round*0.62,
		surface.SolidPaint(surface.RGBA(coreRGB, alpha*0.92)))

	ctx.FillRoundedRect(-rectW*(0.28+p.Chip*0.18), rectH*(0.1+p.Chip*0.06), rectW*0.24, rectH*0.14,
		math.Min(rectW, rectH)*0.03,
		surface.SolidPaint(surface.RGBA(chipRGB, alpha*0.68)))
	ctx.Restore()

	if p.Pop && speed > parameter.PopTrailMinSpeed && p.Age < p.Life*parameter.PopTrailMaxLifeT {
		dx, dy := p.VX/speed, p.VY/speed
		length := p.PopLen + math.Min(28, speed*0.038)
		tailX, tailY := p.X-dx*length, p.Y-dy*length
		trail := HeatColor(math.Min(1, heat+0.12))
		grad := &surface.LinearGradient{
			X0: tailX, Y0: tailY, X1: p.X, Y1: p.Y,
			Stops: []surface.GradientStop{
				{Offset: 0, Color: surface.RGBA(trail, 0)},
				{Offset: 0.55, Color: surface.RGBA(trail, alpha*p.PopAlpha*0.55)},
				{Offset: 1, Color: surface.RGBA(trail, alpha*p.PopAlpha)},
			},
		}
		ctx.StrokeLine(tailX, tailY, p.X, p.Y, math.Max(0.7, size*1.35), surface.GradientPaint(grad))
	}
}

// streakAlpha is the flash envelope times the top and rise fades, before flicker
func streakAlpha(s *Streak, f frame, nf noise.Field) float64 {
	lifeT := s.LifeT()
	rise := riseFraction(s.StartY, s.Y, f.topFadeEnd)
	fade := topFade(s.Y, f.topFadeStart, f.topFadeEnd)
	riseFade := 1 - vmath.Smoothstep(0.69, 0.985, rise)
	flash := vmath.Pow(math.Sin(math.Pi*lifeT), 0.45)
	base := vmath.Clamp(s.Alpha*flash*fade*riseFade, 0, 1)

	flicker := 1 +
		math.Sin(f.time*s.FlickerHz*tau+s.FlickerPhase)*0.11 +
		nf.Noise3D(s.Seed*0.013, f.time*0.92, 6.4)*0.08
	return vmath.Clamp(base*flicker, 0, 1)
}

// drawStreak paints a glow body, a gradient along the motion axis and a leading highlight
func drawStreak(ctx surface.Context, s *Streak, alpha float64) {
	speed := math.Hypot(s.VX, s.VY)
	speedFactor := vmath.Clamp(speed/340, 0.65, 1.45)
	ember := HeatColor(vmath.Clamp(s.Heat, 0, 1))
	bright := HeatColor(vmath.Clamp(s.Heat+0.1, 0, 1))
	length := s.Length * speedFactor
	width := s.Width * vmath.Mix(1.24, 0.74, s.LifeT())
	r := math.Min(width*0.35, 0.9)

	ctx.Save()
	ctx.Translate(s.X, s.Y)
	ctx.Rotate(math.Atan2(s.VY, s.VX) + s.Rotation*0.12)

	ctx.SetShadow(surface.RGBA(ember, alpha*0.95), length*0.3)
	ctx.FillRoundedRect(-length*0.12, 0, length, width*1.45, r,
		surface.SolidPaint(surface.RGBA(ember, alpha*0.4)))
	ctx.SetShadow(surface.Color{}, 0)

	grad := &surface.LinearGradient{
		X0: -length * 0.5, X1: length * 0.45,
		Stops: []surface.GradientStop{
			{Offset: 0, Color: surface.RGBA(ember, 0)},
			{Offset: 0.18, Color: surface.RGBA(ember, alpha*0.26)},
			{Offset: 0.62, Color: surface.RGBA(bright, alpha*0.78)},
			{Offset: 1, Color: surface.RGBA(bright, alpha)},
		},
	}
	ctx.FillRoundedRect(-length*0.06, 0, length*0.82, width, r, surface.GradientPaint(grad))

	ctx.FillRoundedRect(length*0.18, 0, length*0.26, math.Max(0.4, width*0.46), r*0.7,
		surface.SolidPaint(surface.RGBA(bright, alpha*0.95)))
	ctx.Restore()
}
