// Package surface defines the drawing contract the spark engine renders through.
// It mirrors the subset of a 2D raster context the effect needs: an affine
// transform stack, rounded-rect fills, capsule strokes, a shadow glow and two
// composite operators.
package surface

import (
	"errors"

	"github.com/lixenwraith/ember/render"
)

// ErrNoContext is returned by canvases that cannot provide a 2D context
var ErrNoContext = errors.New("surface: 2d context unavailable")

// CompositeOp selects how fills combine with existing pixels
type CompositeOp uint8

const (
	// SourceOver is normal alpha compositing
	SourceOver CompositeOp = iota
	// Lighter adds source light to the destination, overlaps intensify
	Lighter
)

// Color is an RGB color with straight alpha in [0, 1]
type Color struct {
	render.RGB
	A float64
}

// RGBA builds a Color, alpha is clamped to [0, 1]
func RGBA(c render.RGB, alpha float64) Color {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return Color{RGB: c, A: alpha}
}

// GradientStop is one color stop of a linear gradient, Offset in [0, 1]
type GradientStop struct {
	Offset float64
	Color  Color
}

// LinearGradient interpolates stops along the segment (X0,Y0)-(X1,Y1),
// expressed in the local coordinate space active when the shape is drawn
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []GradientStop
}

// Paint is either a solid color or a linear gradient
// A nil Gradient means Solid is used
type Paint struct {
	Solid    Color
	Gradient *LinearGradient
}

// SolidPaint wraps a color
func SolidPaint(c Color) Paint {
	return Paint{Solid: c}
}

// GradientPaint wraps a gradient
func GradientPaint(g *LinearGradient) Paint {
	return Paint{Gradient: g}
}

// Canvas is the host-provided drawing surface
type Canvas interface {
	// Context2D returns the drawing context, an error means the surface is unusable
	Context2D() (Context, error)
	// SetBackingSize resizes the backing store in device pixels, clearing it
	SetBackingSize(width, height int)
}

// Context is a 2D drawing context with a save/restore state stack.
// State covers the transform, composite op and shadow settings
type Context interface {
	Save()
	Restore()

	// SetTransform replaces the current matrix with [a c e; b d f]
	SetTransform(a, b, c, d, e, f float64)
	Translate(x, y float64)
	Rotate(angle float64)
	Scale(sx, sy float64)

	// ClearRect zeroes pixels under the rectangle in current user space
	ClearRect(x, y, width, height float64)

	SetCompositeOp(op CompositeOp)

	// SetShadow configures a glow drawn under subsequent fills, blur <= 0 disables it
	SetShadow(c Color, blur float64)

	// FillRoundedRect fills a rounded rectangle centered on (cx, cy);
	// radius is clamped to half the shorter side
	FillRoundedRect(cx, cy, width, height, radius float64, p Paint)

	// StrokeLine draws a round-capped segment of the given width
	StrokeLine(x0, y0, x1, y1, width float64, p Paint)
}
