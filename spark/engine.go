// Package spark is the ember effect engine: pooled embers and flash streaks
// advected by a curl-noise field, shaped by wind, burst and vortex modulators
// and drawn additively onto a surface.Canvas.
//
// The engine is single-threaded. A driver calls Tick at its own cadence from one
// goroutine and routes every other call through that same goroutine.
package spark

import (
	"log"
	"math"
	"time"

	"github.com/lixenwraith/ember/noise"
	"github.com/lixenwraith/ember/parameter"
	"github.com/lixenwraith/ember/status"
	"github.com/lixenwraith/ember/surface"
	"github.com/lixenwraith/ember/vmath"
)

// Viewport is the drawing area in device-independent pixels
type Viewport struct {
	Width, Height float64
	// DPR is device pixels per viewport pixel, capped at parameter.MaxDPR
	DPR float64
}

// Normalized clamps dimensions to at least one pixel and sanitizes DPR
func (v Viewport) Normalized() Viewport {
	if !vmath.Finite(v.Width) || v.Width < 1 {
		v.Width = 1
	}
	if !vmath.Finite(v.Height) || v.Height < 1 {
		v.Height = 1
	}
	if !vmath.Finite(v.DPR) || v.DPR <= 0 {
		v.DPR = 1
	}
	v.DPR = math.Min(v.DPR, parameter.MaxDPR)
	return v
}

// DeviceSize is the backing store size in device pixels for the normalized viewport
func (v Viewport) DeviceSize() (width, height int) {
	n := v.Normalized()
	return int(math.Round(n.Width * n.DPR)), int(math.Round(n.Height * n.DPR))
}

// Modulators is a bit set selecting environment modulators
type Modulators uint8

const (
	ModBurst Modulators = 1 << iota
	ModVortex
	ModWind
)

// Options configures a new engine
type Options struct {
	Intensity    float64
	WindStrength float64
	AutoStart    bool

	// Seed drives every random draw, zero picks a time-based seed
	Seed uint64
	// Noise overrides the default simplex field seeded from Seed
	Noise noise.Field

	Observer Observer
	// Metrics receives live counters, a private registry is used when nil
	Metrics *status.Registry

	// DisableModulators stops the selected modulators from arming on their own
	// Manual triggers still work
	DisableModulators Modulators
}

// DefaultOptions returns intensity 1, wind strength 1, auto-start on
func DefaultOptions() Options {
	return Options{
		Intensity:    parameter.IntensityDefault,
		WindStrength: parameter.WindStrengthDefault,
		AutoStart:    true,
	}
}

// Stats is a point-in-time view of the simulation
type Stats struct {
	ActiveParticles int
	ActiveStreaks   int
	ParticleCap     int
	StreakCap       int
	Wind            float64
	BurstActive     bool
	VortexActive    bool
	Time            float64
}

// Engine owns all simulation state and the drawing context
type Engine struct {
	canvas surface.Canvas
	ctx    surface.Context

	inert     bool
	destroyed bool
	running   bool
	// resumed makes the next frame use the default step
	resumed bool

	intensity    float64
	windStrength float64

	vp      Viewport
	pending *Viewport

	time float64
	rng  *vmath.FastRand
	nf   noise.Field

	particles *Pool[Particle]
	streaks   *Pool[Streak]

	emitAccumulator   float64
	streakAccumulator float64

	wind     Wind
	burst    Burst
	vortex   Vortex
	disabled Modulators

	observer Observer
	metrics  *metrics
	cleanups []func()
}

// New builds an engine drawing onto canvas
// A nil canvas or one without a 2D context yields an inert engine whose
// operations are all no-ops
func New(canvas surface.Canvas, vp Viewport, opts Options) *Engine {
	e := &Engine{
		intensity:    vmath.Clamp(opts.Intensity, parameter.IntensityMin, parameter.IntensityMax),
		windStrength: vmath.Clamp(opts.WindStrength, parameter.WindStrengthMin, parameter.WindStrengthMax),
		vp:           vp.Normalized(),
		observer:     opts.Observer,
		disabled:     opts.DisableModulators,
	}
	if e.observer == nil {
		e.observer = NopObserver{}
	}
	e.metrics = newMetrics(opts.Metrics)

	if canvas == nil {
		log.Printf("spark: no canvas, engine inert")
		e.inert = true
		e.metrics.state.Store("inert")
		return e
	}
	ctx, err := canvas.Context2D()
	if err != nil {
		log.Printf("spark: engine inert: %v", err)
		e.inert = true
		e.metrics.state.Store("inert")
		return e
	}
	e.canvas = canvas
	e.ctx = ctx

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	e.rng = vmath.NewFastRand(seed)
	e.nf = opts.Noise
	if e.nf == nil {
		e.nf = noise.NewSimplex(uint32(e.rng.Next() >> 32))
	}

	e.particles = NewPool[Particle](parameter.MaxParticles)
	e.streaks = NewPool[Streak](parameter.MaxStreaks)
	e.wind = newWind(e.rng)
	e.burst = newBurst(e.rng)
	e.vortex = newVortex(e.rng)

	e.applyViewport(e.vp)
	e.running = opts.AutoStart
	e.publish(0)
	return e
}

// Inert reports whether the engine was built without a usable context
func (e *Engine) Inert() bool {
	return e.inert
}

// Start resumes simulation, the first frame after a pause uses the default step
func (e *Engine) Start() {
	if e.inert || e.destroyed || e.running {
		return
	}
	e.running = true
	e.resumed = true
	e.metrics.running.Store(true)
	e.metrics.state.Store("running")
}

// Stop pauses simulation; ticks keep clearing the surface until Start
func (e *Engine) Stop() {
	if e.inert || e.destroyed {
		return
	}
	e.running = false
	e.metrics.running.Store(false)
	e.metrics.state.Store("stopped")
}

// SetIntensity clamps v to [0.2, 2.8], caps and rates follow on the next frame
func (e *Engine) SetIntensity(v float64) {
	if e.inert || e.destroyed {
		return
	}
	if math.IsNaN(v) {
		return
	}
	e.intensity = vmath.Clamp(v, parameter.IntensityMin, parameter.IntensityMax)
	e.metrics.intensity.Set(e.intensity)
}

// SetWindStrength clamps v to [0, 2.5]; it scales future wind targets only
func (e *Engine) SetWindStrength(v float64) {
	if e.inert || e.destroyed {
		return
	}
	if math.IsNaN(v) {
		return
	}
	e.windStrength = vmath.Clamp(v, parameter.WindStrengthMin, parameter.WindStrengthMax)
	e.metrics.windStrength.Set(e.windStrength)
}

// Intensity returns the clamped intensity
func (e *Engine) Intensity() float64 {
	return e.intensity
}

// WindStrength returns the clamped wind strength
func (e *Engine) WindStrength() float64 {
	return e.windStrength
}

// Running reports whether ticks advance the simulation
func (e *Engine) Running() bool {
	return e.running && !e.inert && !e.destroyed
}

// Destroyed reports whether Destroy has run
func (e *Engine) Destroyed() bool {
	return e.destroyed
}

// AddCleanup registers fn to run on Destroy, hooks run last-registered first
func (e *Engine) AddCleanup(fn func()) {
	if e.destroyed || fn == nil {
		return
	}
	e.cleanups = append(e.cleanups, fn)
}

// Destroy runs cleanup hooks, clears the surface and releases the context
// Later calls and ticks do nothing
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.running = false

	for i := len(e.cleanups) - 1; i >= 0; i-- {
		e.cleanups[i]()
	}
	e.cleanups = nil

	if e.inert {
		return
	}
	e.ctx.ClearRect(0, 0, e.vp.Width, e.vp.Height)
	e.particles.Reset()
	e.streaks.Reset()
	e.ctx = nil
	e.canvas = nil
	e.pending = nil
	e.metrics.running.Store(false)
	e.metrics.state.Store("destroyed")
	log.Printf("spark: engine destroyed at t=%.2fs", e.time)
}

// Resize records a new viewport, applied at the start of the next Tick
func (e *Engine) Resize(vp Viewport) {
	if e.inert || e.destroyed {
		return
	}
	n := vp.Normalized()
	e.pending = &n
}

// Viewport returns the viewport currently in effect
func (e *Engine) Viewport() Viewport {
	return e.vp
}

func (e *Engine) applyViewport(vp Viewport) {
	e.vp = vp
	e.canvas.SetBackingSize(vp.DeviceSize())
	e.ctx.SetTransform(vp.DPR, 0, 0, vp.DPR, 0, 0)
}

// frameDt sanitizes a host-supplied step
func (e *Engine) frameDt(dt float64) float64 {
	if e.resumed {
		e.resumed = false
		return parameter.DefaultFrameDt
	}
	if !vmath.Finite(dt) || dt <= 0 {
		return parameter.DefaultFrameDt
	}
	return math.Min(dt, parameter.MaxFrameDt)
}

// Tick advances one frame of dt seconds and redraws the surface
// Modulators update before emission, emission before integration, integration before drawing
func (e *Engine) Tick(dt float64) {
	if e.inert || e.destroyed {
		return
	}
	started := time.Now()

	if e.pending != nil {
		e.applyViewport(*e.pending)
		e.pending = nil
		log.Printf("spark: resized to %.0fx%.0f @%.3g", e.vp.Width, e.vp.Height, e.vp.DPR)
	}

	if !e.running {
		e.ctx.ClearRect(0, 0, e.vp.Width, e.vp.Height)
		e.resumed = true
		return
	}

	dt = e.frameDt(dt)
	e.time += dt

	e.updateModulators(dt)
	e.emit(dt)

	f := e.newFrame()
	e.integrateParticles(dt, f)
	e.integrateStreaks(dt, f)

	e.draw(f)
	e.metrics.frames.Add(1)
	e.publish(time.Since(started))
}

// updateModulators steps wind, burst and vortex; disabled modulators stay idle
// unless triggered manually
func (e *Engine) updateModulators(dt float64) {
	if e.disabled&ModWind == 0 {
		e.wind = e.wind.step(dt, e.windStrength, e.rng)
	}

	if e.burst.Active || e.disabled&ModBurst == 0 {
		var spawns int
		var armed bool
		e.burst, spawns, armed = e.burst.step(dt, e.rng)
		if armed {
			e.metrics.bursts.Add(1)
			e.observer.OnBurst(e.burst.Remain)
		}
		e.emitBurst(spawns)
	}

	if e.vortex.Active || e.disabled&ModVortex == 0 {
		var armed bool
		e.vortex, armed = e.vortex.step(dt, e.vp.Width, e.vp.Height, e.rng)
		if armed {
			e.metrics.vortices.Add(1)
			e.observer.OnVortex(e.vortex.X, e.vortex.Y, e.vortex.Radius)
		}
	}
}

// TriggerBurst arms a burst immediately unless one is running
func (e *Engine) TriggerBurst() {
	if e.inert || e.destroyed || e.burst.Active {
		return
	}
	e.burst = e.burst.arm(e.rng)
	e.metrics.bursts.Add(1)
	e.observer.OnBurst(e.burst.Remain)
}

// TriggerVortex arms a vortex immediately unless one is running
func (e *Engine) TriggerVortex() {
	if e.inert || e.destroyed || e.vortex.Active {
		return
	}
	e.vortex = e.vortex.arm(e.vp.Width, e.vp.Height, e.rng)
	e.metrics.vortices.Add(1)
	e.observer.OnVortex(e.vortex.X, e.vortex.Y, e.vortex.Radius)
}

// Stats returns counters for HUDs and tests
func (e *Engine) Stats() Stats {
	s := Stats{
		ParticleCap:  min(ParticleCap(e.intensity), parameter.MaxParticles),
		StreakCap:    min(StreakCap(e.intensity), parameter.MaxStreaks),
		Wind:         e.wind.Value,
		BurstActive:  e.burst.Active,
		VortexActive: e.vortex.Active,
		Time:         e.time,
	}
	if e.particles != nil {
		s.ActiveParticles = e.particles.Count()
		s.ActiveStreaks = e.streaks.Count()
	}
	return s
}

// Wind returns the current wind state
func (e *Engine) Wind() Wind {
	return e.wind
}

// Burst returns the current burst state
func (e *Engine) Burst() Burst {
	return e.burst
}

// Vortex returns the current vortex state
func (e *Engine) Vortex() Vortex {
	return e.vortex
}

// Metrics returns the registry the engine publishes to
func (e *Engine) Metrics() *status.Registry {
	return e.metrics.registry
}

// ForEachParticle calls fn with a copy of every active particle
func (e *Engine) ForEachParticle(fn func(slot int, p Particle)) {
	if e.particles == nil {
		return
	}
	for i := 0; i < e.particles.Cap(); i++ {
		if e.particles.IsActive(i) {
			fn(i, *e.particles.At(i))
		}
	}
}

// ForEachStreak calls fn with a copy of every active streak
func (e *Engine) ForEachStreak(fn func(slot int, s Streak)) {
	if e.streaks == nil {
		return
	}
	for i := 0; i < e.streaks.Cap(); i++ {
		if e.streaks.IsActive(i) {
			fn(i, *e.streaks.At(i))
		}
	}
}
