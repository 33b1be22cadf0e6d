package raster

import (
	"math"
	"slices"

	"github.com/lixenwraith/ember/render"
	"github.com/lixenwraith/ember/surface"
)

// state is the save/restore unit
type state struct {
	m      matrix
	op     surface.CompositeOp
	shadow surface.Color
	blur   float64
}

type context struct {
	r     *Raster
	st    state
	stack []state
}

func newContext(r *Raster) *context {
	return &context{
		r:     r,
		st:    state{m: identity},
		stack: make([]state, 0, 8),
	}
}

func (c *context) Save() {
	c.stack = append(c.stack, c.st)
}

// Restore pops the last saved state, unbalanced calls are ignored
func (c *context) Restore() {
	n := len(c.stack)
	if n == 0 {
		return
	}
	c.st = c.stack[n-1]
	c.stack = c.stack[:n-1]
}

func (c *context) SetTransform(a, b, cc, d, e, f float64) {
	c.st.m = matrix{a: a, b: b, c: cc, d: d, e: e, f: f}
}

func (c *context) Translate(x, y float64) {
	c.st.m = c.st.m.mul(matrix{a: 1, d: 1, e: x, f: y})
}

func (c *context) Rotate(angle float64) {
	sin, cos := math.Sincos(angle)
	c.st.m = c.st.m.mul(matrix{a: cos, b: sin, c: -sin, d: cos})
}

func (c *context) Scale(sx, sy float64) {
	c.st.m = c.st.m.mul(matrix{a: sx, d: sy})
}

func (c *context) SetCompositeOp(op surface.CompositeOp) {
	c.st.op = op
}

func (c *context) SetShadow(col surface.Color, blur float64) {
	c.st.shadow = col
	c.st.blur = blur
}

// ClearRect zeroes the device bounding box of the transformed rectangle
func (c *context) ClearRect(x, y, width, height float64) {
	img := c.r.img
	x0, y0, x1, y1 := c.st.m.bounds(x, y, x+width, y+height)
	minX, minY, maxX, maxY, ok := c.clip(x0, y0, x1, y1)
	if !ok {
		return
	}
	touched := false
	for py := minY; py < maxY; py++ {
		row := img.PixOffset(minX, py)
		seg := img.Pix[row : row+(maxX-minX)*4]
		if !touched && slices.ContainsFunc(seg, func(b uint8) bool { return b != 0 }) {
			touched = true
		}
		if touched {
			clear(seg)
		}
	}
	// revision moves only when visible pixels changed
	if touched {
		c.r.revision++
	}
}

func (c *context) FillRoundedRect(cx, cy, width, height, radius float64, p surface.Paint) {
	hw := math.Max(width, 0) / 2
	hh := math.Max(height, 0) / 2
	if hw == 0 || hh == 0 {
		return
	}
	rad := math.Min(math.Max(radius, 0), math.Min(hw, hh))
	sdf := func(x, y float64) float64 {
		return roundedBox(x-cx, y-cy, hw, hh, rad)
	}
	c.fill(sdf, cx-hw, cy-hh, cx+hw, cy+hh, width*height, p)
}

func (c *context) StrokeLine(x0, y0, x1, y1, width float64, p surface.Paint) {
	hw := math.Max(width, 0) / 2
	if hw == 0 {
		return
	}
	sdf := func(x, y float64) float64 {
		return capsule(x, y, x0, y0, x1, y1, hw)
	}
	length := math.Hypot(x1-x0, y1-y0)
	area := length*width + math.Pi*hw*hw
	c.fill(sdf, math.Min(x0, x1)-hw, math.Min(y0, y1)-hw, math.Max(x0, x1)+hw, math.Max(y0, y1)+hw, area, p)
}

// clip converts a device-space float box to integer pixel bounds inside the image
func (c *context) clip(x0, y0, x1, y1 float64) (minX, minY, maxX, maxY int, ok bool) {
	b := c.r.img.Bounds()
	if math.IsNaN(x0) || math.IsNaN(y0) || math.IsNaN(x1) || math.IsNaN(y1) {
		return 0, 0, 0, 0, false
	}
	minX = max(int(math.Floor(math.Max(x0, float64(b.Min.X)))), b.Min.X)
	minY = max(int(math.Floor(math.Max(y0, float64(b.Min.Y)))), b.Min.Y)
	maxX = min(int(math.Ceil(math.Min(x1, float64(b.Max.X)))), b.Max.X)
	maxY = min(int(math.Ceil(math.Min(y1, float64(b.Max.Y)))), b.Max.Y)
	return minX, minY, maxX, maxY, minX < maxX && minY < maxY
}

// fill rasterizes a shape given by its local-space distance field and bounding box.
// area is the local shape area, used to cap the glow peak of shapes smaller than the blur
func (c *context) fill(sdf func(x, y float64) float64, lx0, ly0, lx1, ly1, area float64, p surface.Paint) {
	m := c.st.m
	inv, ok := m.invert()
	if !ok {
		return
	}
	scale := m.scale()
	if scale == 0 {
		return
	}
	aa := 1 / scale

	sigma := 0.0
	shadowA := 0.0
	if c.st.blur > 0 && c.st.shadow.A > 0 {
		sigma = c.st.blur / 2
		shadowA = c.st.shadow.A
	}
	pad := aa + 3*sigma

	x0, y0, x1, y1 := m.bounds(lx0-pad, ly0-pad, lx1+pad, ly1+pad)
	minX, minY, maxX, maxY, ok := c.clip(x0, y0, x1, y1)
	if !ok {
		return
	}

	glowPeak := 1.0
	if sigma > 0 {
		glowPeak = math.Min(1, area/(2*math.Pi*sigma*sigma))
	}

	img := c.r.img
	op := c.st.op
	touched := false
	for py := minY; py < maxY; py++ {
		for px := minX; px < maxX; px++ {
			lx, ly := inv.apply(float64(px)+0.5, float64(py)+0.5)
			d := sdf(lx, ly)
			i := img.PixOffset(px, py)

			if shadowA > 0 {
				g := math.Min(0.5*math.Erfc(d/(sigma*math.Sqrt2)), glowPeak)
				if a := shadowA * g; a > 1.0/512 {
					composite(img.Pix[i:i+4], c.st.shadow.RGB, a, op)
					touched = true
				}
			}

			cov := 0.5 - d*scale
			if cov <= 0 {
				continue
			}
			if cov > 1 {
				cov = 1
			}
			col := sample(p, lx, ly)
			if a := col.A * cov; a > 1.0/512 {
				composite(img.Pix[i:i+4], col.RGB, a, op)
				touched = true
			}
		}
	}
	if touched {
		c.r.revision++
	}
}

// composite blends straight color src with alpha into a premultiplied RGBA pixel
func composite(px []uint8, src render.RGB, alpha float64, op surface.CompositeOp) {
	dst := render.RGB{R: px[0], G: px[1], B: px[2]}
	da := float64(px[3])
	var out render.RGB
	switch op {
	case surface.Lighter:
		out = render.Add(dst, src, alpha)
		da = math.Min(255, da+alpha*255)
	default:
		out = render.Blend(dst, src, alpha)
		da = alpha*255 + da*(1-alpha)
	}
	px[0], px[1], px[2] = out.R, out.G, out.B
	px[3] = uint8(math.Min(255, da+0.5))
}
