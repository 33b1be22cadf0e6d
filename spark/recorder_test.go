package spark

import (
	"github.com/lixenwraith/ember/surface"
)

// recordingCanvas counts every surface call without rasterizing
type recordingCanvas struct {
	fail bool

	backingW, backingH int
	resizes            int

	calls  int
	clears int
	fills  int
	lines  int
	ops    []surface.CompositeOp
}

func (r *recordingCanvas) Context2D() (surface.Context, error) {
	if r.fail {
		return nil, surface.ErrNoContext
	}
	return r, nil
}

func (r *recordingCanvas) SetBackingSize(w, h int) {
	r.backingW, r.backingH = w, h
	r.resizes++
	r.calls++
}

func (r *recordingCanvas) Save() {
	r.calls++
}

func (r *recordingCanvas) Restore() {
	r.calls++
}

func (r *recordingCanvas) SetTransform(_, _, _, _, _, _ float64) {
	r.calls++
}

func (r *recordingCanvas) Translate(_, _ float64) {
	r.calls++
}

func (r *recordingCanvas) Rotate(float64) {
	r.calls++
}

func (r *recordingCanvas) Scale(_, _ float64) {
	r.calls++
}

func (r *recordingCanvas) SetShadow(surface.Color, float64) {
	r.calls++
}

func (r *recordingCanvas) ClearRect(_, _, _, _ float64) {
	r.calls++
	r.clears++
}

func (r *recordingCanvas) SetCompositeOp(op surface.CompositeOp) {
	r.calls++
	r.ops = append(r.ops, op)
}

func (r *recordingCanvas) FillRoundedRect(_, _, _, _, _ float64, _ surface.Paint) {
	r.calls++
	r.fills++
}

func (r *recordingCanvas) StrokeLine(_, _, _, _, _ float64, _ surface.Paint) {
	r.calls++
	r.lines++
}

// recordingObserver captures engine events
type recordingObserver struct {
	bursts   []int
	vortices int
	pops     int
}

func (o *recordingObserver) OnBurst(n int) {
	o.bursts = append(o.bursts, n)
}

func (o *recordingObserver) OnVortex(float64, float64, float64) {
	o.vortices++
}

func (o *recordingObserver) OnPop(int) {
	o.pops++
}
