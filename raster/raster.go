// Package raster is a software implementation of surface.Canvas backed by an
// image.RGBA. Shapes are rasterized from signed distance fields with one
// device pixel of antialiasing, which is enough for the soft ember sprites.
package raster

import (
	"image"
	"image/color"

	"github.com/lixenwraith/ember/render"
	"github.com/lixenwraith/ember/surface"
)

// Raster owns the pixel buffer and its single drawing context
type Raster struct {
	img      *image.RGBA
	ctx      *context
	revision uint64
}

// New allocates a cleared raster of the given device size
func New(width, height int) *Raster {
	r := &Raster{}
	r.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	r.ctx = newContext(r)
	return r
}

// Context2D implements surface.Canvas
func (r *Raster) Context2D() (surface.Context, error) {
	return r.ctx, nil
}

// SetBackingSize implements surface.Canvas, reallocating only on size change
func (r *Raster) SetBackingSize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	b := r.img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		clear(r.img.Pix)
	} else {
		r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	r.revision++
}

// Image returns the backing image, valid until the next resize
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// Width returns the device width
func (r *Raster) Width() int {
	return r.img.Bounds().Dx()
}

// Height returns the device height
func (r *Raster) Height() int {
	return r.img.Bounds().Dy()
}

// Revision increases on every pixel-changing call
func (r *Raster) Revision() uint64 {
	return r.revision
}

// Pixel returns the color at (x, y) composited over black
func (r *Raster) Pixel(x, y int) render.RGB {
	if !(image.Point{x, y}.In(r.img.Bounds())) {
		return render.RGBBlack
	}
	i := r.img.PixOffset(x, y)
	return render.RGB{R: r.img.Pix[i], G: r.img.Pix[i+1], B: r.img.Pix[i+2]}
}

// Alpha returns the coverage stored at (x, y)
func (r *Raster) Alpha(x, y int) uint8 {
	if !(image.Point{x, y}.In(r.img.Bounds())) {
		return 0
	}
	return r.img.Pix[r.img.PixOffset(x, y)+3]
}

// Fill paints the whole buffer, ignoring the context state
func (r *Raster) Fill(c render.RGB) {
	col := color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	b := r.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r.img.SetRGBA(x, y, col)
		}
	}
	r.revision++
}

// Unavailable is a canvas whose context can never be acquired
type Unavailable struct{}

// Context2D always fails
func (Unavailable) Context2D() (surface.Context, error) {
	return nil, surface.ErrNoContext
}

// SetBackingSize is a no-op
func (Unavailable) SetBackingSize(int, int) {}
