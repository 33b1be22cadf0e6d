package spark

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/ember/status"
)

// metrics caches registry pointers so Tick never touches the map locks
type metrics struct {
	registry *status.Registry

	particles   *atomic.Int64
	streaks     *atomic.Int64
	particleCap *atomic.Int64
	streakCap   *atomic.Int64
	frames      *atomic.Int64
	bursts      *atomic.Int64
	vortices    *atomic.Int64
	pops        *atomic.Int64

	wind         *status.Float
	intensity    *status.Float
	windStrength *status.Float
	frameMs      *status.Float
	simTime      *status.Float

	burstActive  *atomic.Bool
	vortexActive *atomic.Bool
	running      *atomic.Bool

	state *status.Label
}

func newMetrics(reg *status.Registry) *metrics {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &metrics{
		registry:     reg,
		particles:    reg.Ints.Get(status.KeyParticles),
		streaks:      reg.Ints.Get(status.KeyStreaks),
		particleCap:  reg.Ints.Get(status.KeyParticleCap),
		streakCap:    reg.Ints.Get(status.KeyStreakCap),
		frames:       reg.Ints.Get(status.KeyFrames),
		bursts:       reg.Ints.Get(status.KeyBursts),
		vortices:     reg.Ints.Get(status.KeyVortices),
		pops:         reg.Ints.Get(status.KeyPops),
		wind:         reg.Floats.Get(status.KeyWind),
		intensity:    reg.Floats.Get(status.KeyIntensity),
		windStrength: reg.Floats.Get(status.KeyWindStrength),
		frameMs:      reg.Floats.Get(status.KeyFrameMs),
		simTime:      reg.Floats.Get(status.KeySimTime),
		burstActive:  reg.Bools.Get(status.KeyBurstActive),
		vortexActive: reg.Bools.Get(status.KeyVortexActive),
		running:      reg.Bools.Get(status.KeyRunning),
		state:        reg.Labels.Get(status.KeyState),
	}
}

// publish copies the end-of-frame state into the registry
func (e *Engine) publish(frame time.Duration) {
	m := e.metrics
	s := e.Stats()
	m.particles.Store(int64(s.ActiveParticles))
	m.streaks.Store(int64(s.ActiveStreaks))
	m.particleCap.Store(int64(s.ParticleCap))
	m.streakCap.Store(int64(s.StreakCap))
	m.wind.Set(s.Wind)
	m.intensity.Set(e.intensity)
	m.windStrength.Set(e.windStrength)
	m.simTime.Set(s.Time)
	m.burstActive.Store(s.BurstActive)
	m.vortexActive.Store(s.VortexActive)
	m.running.Store(e.running)
	m.frameMs.Set(float64(frame.Microseconds()) / 1000)
	if e.running {
		m.state.Store("running")
	} else {
		m.state.Store("stopped")
	}
}
