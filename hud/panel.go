// Package hud holds the interactive control panel shared by the local drivers.
package hud

import (
	"fmt"
	"sync/atomic"

	"github.com/lixenwraith/ember/parameter"
	"github.com/lixenwraith/ember/spark"
	"github.com/lixenwraith/ember/status"
	"github.com/lixenwraith/ember/vmath"
)

// Control represents a tunable engine setting
type Control struct {
	Name     string
	Get      func() float64
	Set      func(float64)
	Min, Max float64
	Step     float64
}

// Action is what a key asks the driver to do
type Action int

const (
	ActionNone Action = iota
	ActionHandled
	ActionQuit
)

// Line is one HUD row, Selected marks the active control
type Line struct {
	Text     string
	Selected bool
}

// Panel binds key presses to an engine
type Panel struct {
	engine   *spark.Engine
	controls []Control
	selected int

	frameMs *status.Float
	frames  *atomic.Int64
}

// NewPanel exposes intensity and wind strength of e
func NewPanel(e *spark.Engine) *Panel {
	return &Panel{
		engine: e,
		controls: []Control{
			{"Intensity", e.Intensity, e.SetIntensity, parameter.IntensityMin, parameter.IntensityMax, 0.1},
			{"Wind", e.WindStrength, e.SetWindStrength, parameter.WindStrengthMin, parameter.WindStrengthMax, 0.1},
		},
		frameMs: e.Metrics().Floats.Get(status.KeyFrameMs),
		frames:  e.Metrics().Ints.Get(status.KeyFrames),
	}
}

// Selected returns the index of the active control
func (p *Panel) Selected() int {
	return p.selected
}

// Controls returns the control list
func (p *Panel) Controls() []Control {
	return p.controls
}

// Move shifts the selection by delta, wrapping around
func (p *Panel) Move(delta int) {
	n := len(p.controls)
	p.selected = ((p.selected+delta)%n + n) % n
}

// Adjust steps the active control by dir steps, clamped to its range
func (p *Panel) Adjust(dir float64) {
	c := p.controls[p.selected]
	c.Set(vmath.Clamp(c.Get()+dir*c.Step, c.Min, c.Max))
}

// HandleRune applies the key bindings, must run on the goroutine that ticks the engine
func (p *Panel) HandleRune(r rune) Action {
	switch r {
	case 'q', 'Q':
		return ActionQuit
	case ' ':
		if p.engine.Running() {
			p.engine.Stop()
		} else {
			p.engine.Start()
		}
	case 'w', 'W':
		p.Move(-1)
	case 's', 'S':
		p.Move(1)
	case 'a', 'A':
		p.Adjust(-1)
	case 'd', 'D':
		p.Adjust(1)
	case 'b', 'B':
		p.engine.TriggerBurst()
	case 'v', 'V':
		p.engine.TriggerVortex()
	default:
		return ActionNone
	}
	return ActionHandled
}

// Lines renders the panel and engine stats as text rows
func (p *Panel) Lines() []Line {
	st := p.engine.Stats()
	state := "running"
	if !p.engine.Running() {
		state = "paused"
	}

	lines := []Line{
		{Text: fmt.Sprintf("ember %s  t=%.1fs  frame %d %.2fms", state, st.Time, p.frames.Load(), p.frameMs.Get())},
		{Text: fmt.Sprintf("embers %d/%d  streaks %d/%d", st.ActiveParticles, st.ParticleCap, st.ActiveStreaks, st.StreakCap)},
		{Text: fmt.Sprintf("wind %5.1f  burst %s  vortex %s", st.Wind, onOff(st.BurstActive), onOff(st.VortexActive))},
	}
	for i, c := range p.controls {
		lines = append(lines, Line{
			Text:     fmt.Sprintf("%-10s %4.2f", c.Name, c.Get()),
			Selected: i == p.selected,
		})
	}
	lines = append(lines, Line{Text: "spc pause  w/s select  a/d adjust  b burst  v vortex  q quit"})
	return lines
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
