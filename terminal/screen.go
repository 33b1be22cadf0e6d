package terminal

import (
	"context"
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/ember/core"
	"github.com/lixenwraith/ember/render"
)

// HalfBlock is the upper half block, its fg paints the upper pixel
const HalfBlock = '▀'

// Screen wraps a tcell screen with half-block raster output
type Screen struct {
	screen     tcell.Screen
	mode       ColorMode
	background render.RGB
}

// New opens the real terminal and registers crash restoration
func New(mode ColorMode, background render.RGB) (*Screen, error) {
	sc, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	s, err := NewWithScreen(sc, mode, background)
	if err != nil {
		return nil, err
	}
	core.OnCrash(s.Fini)
	return s, nil
}

// NewWithScreen initializes an existing tcell screen, tests pass a simulation screen
func NewWithScreen(sc tcell.Screen, mode ColorMode, background render.RGB) (*Screen, error) {
	if err := sc.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s := &Screen{screen: sc, mode: mode, background: background}
	sc.SetStyle(s.style(background, background))
	sc.HideCursor()
	sc.Clear()
	return s, nil
}

// Fini restores the terminal, safe to call more than once
func (s *Screen) Fini() {
	s.screen.Fini()
}

// Size returns columns and rows
func (s *Screen) Size() (cols, rows int) {
	return s.screen.Size()
}

// Mode returns the active color mode
func (s *Screen) Mode() ColorMode {
	return s.mode
}

// Show flushes pending cell changes
func (s *Screen) Show() {
	s.screen.Show()
}

// Sync forces a full redraw, used after resize
func (s *Screen) Sync() {
	s.screen.Sync()
}

// Tcell exposes the underlying screen
func (s *Screen) Tcell() tcell.Screen {
	return s.screen
}

func (s *Screen) style(fg, bg render.RGB) tcell.Style {
	return tcell.StyleDefault.
		Foreground(TcellColor(fg, s.mode)).
		Background(TcellColor(bg, s.mode))
}

// over composites a premultiplied pixel onto the background
func (s *Screen) over(pix []uint8) render.RGB {
	inv := 255 - int(pix[3])
	return render.RGB{
		R: uint8(min(int(pix[0])+int(s.background.R)*inv/255, 255)),
		G: uint8(min(int(pix[1])+int(s.background.G)*inv/255, 255)),
		B: uint8(min(int(pix[2])+int(s.background.B)*inv/255, 255)),
	}
}

func (s *Screen) pixel(img *image.RGBA, x, y int) render.RGB {
	if !(image.Point{x, y}.In(img.Bounds())) {
		return s.background
	}
	i := img.PixOffset(x, y)
	return s.over(img.Pix[i : i+4])
}

// Blit draws img with its top-left pixel at cell (x0, y0), two pixel rows per cell row
// Cells outside the screen are clipped
func (s *Screen) Blit(img *image.RGBA, x0, y0 int) {
	cols, rows := s.screen.Size()
	b := img.Bounds()
	cellRows := (b.Dy() + 1) / 2

	for cy := 0; cy < cellRows; cy++ {
		ty := y0 + cy
		if ty < 0 || ty >= rows {
			continue
		}
		for cx := 0; cx < b.Dx(); cx++ {
			tx := x0 + cx
			if tx < 0 || tx >= cols {
				continue
			}
			upper := s.pixel(img, b.Min.X+cx, b.Min.Y+2*cy)
			lower := s.pixel(img, b.Min.X+cx, b.Min.Y+2*cy+1)
			s.screen.SetContent(tx, ty, HalfBlock, nil, s.style(upper, lower))
		}
	}
}

// Text writes a single line starting at (x, y), clipped to the screen width
func (s *Screen) Text(x, y int, text string, fg, bg render.RGB) {
	cols, rows := s.screen.Size()
	if y < 0 || y >= rows {
		return
	}
	st := s.style(fg, bg)
	for _, r := range text {
		if x >= cols {
			return
		}
		if x >= 0 {
			s.screen.SetContent(x, y, r, nil, st)
		}
		x++
	}
}

// FillRow paints row y with bg
func (s *Screen) FillRow(y int, bg render.RGB) {
	cols, _ := s.screen.Size()
	st := s.style(bg, bg)
	for x := 0; x < cols; x++ {
		s.screen.SetContent(x, y, ' ', nil, st)
	}
}

// Events polls input on a recovered goroutine until ctx ends or the screen closes
func (s *Screen) Events(ctx context.Context) <-chan tcell.Event {
	ch := make(chan tcell.Event, 16)
	core.Go(func() {
		defer close(ch)
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	})
	return ch
}
