package raster

import (
	"math"

	"github.com/lixenwraith/ember/render"
	"github.com/lixenwraith/ember/surface"
)

// roundedBox is the signed distance from (x, y) to a box of half extents
// (hw, hh) with corner radius r, centered on the origin
func roundedBox(x, y, hw, hh, r float64) float64 {
	qx := math.Abs(x) - (hw - r)
	qy := math.Abs(y) - (hh - r)
	outside := math.Hypot(math.Max(qx, 0), math.Max(qy, 0))
	inside := math.Min(math.Max(qx, qy), 0)
	return outside + inside - r
}

// capsule is the signed distance from (x, y) to a segment inflated by r
func capsule(x, y, x0, y0, x1, y1, r float64) float64 {
	dx, dy := x1-x0, y1-y0
	px, py := x-x0, y-y0
	l2 := dx*dx + dy*dy
	t := 0.0
	if l2 > 0 {
		t = math.Max(0, math.Min(1, (px*dx+py*dy)/l2))
	}
	return math.Hypot(px-dx*t, py-dy*t) - r
}

// sample evaluates a paint at a local-space point
func sample(p surface.Paint, x, y float64) surface.Color {
	g := p.Gradient
	if g == nil || len(g.Stops) == 0 {
		return p.Solid
	}
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	l2 := dx*dx + dy*dy
	t := 0.0
	if l2 > 0 {
		t = ((x-g.X0)*dx + (y-g.Y0)*dy) / l2
	}
	return gradientAt(g.Stops, t)
}

// gradientAt interpolates sorted stops, clamping outside the first and last offsets
func gradientAt(stops []surface.GradientStop, t float64) surface.Color {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		b := stops[i]
		if t > b.Offset {
			continue
		}
		a := stops[i-1]
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		f := (t - a.Offset) / span
		return surface.Color{
			RGB: render.Lerp(a.Color.RGB, b.Color.RGB, f),
			A:   a.Color.A + (b.Color.A-a.Color.A)*f,
		}
	}
	return last.Color
}
