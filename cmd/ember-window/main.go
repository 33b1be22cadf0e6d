package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/lixenwraith/ember/audio"
	"github.com/lixenwraith/ember/config"
	"github.com/lixenwraith/ember/core"
	"github.com/lixenwraith/ember/hud"
	"github.com/lixenwraith/ember/raster"
	"github.com/lixenwraith/ember/spark"
)

var (
	configPath = flag.String("config", "", "TOML config file")
	seedFlag   = flag.Uint64("seed", 0, "Random seed, 0 picks one from the clock")
	audioFlag  = flag.Bool("audio", false, "Enable sound effects")
	hudFlag    = flag.Bool("hud", true, "Show the control panel")
)

// keyBindings maps window keys onto the shared panel runes
var keyBindings = []struct {
	key ebiten.Key
	r   rune
}{
	{ebiten.KeySpace, ' '},
	{ebiten.KeyW, 'w'}, {ebiten.KeyArrowUp, 'w'},
	{ebiten.KeyS, 's'}, {ebiten.KeyArrowDown, 's'},
	{ebiten.KeyA, 'a'}, {ebiten.KeyArrowLeft, 'a'},
	{ebiten.KeyD, 'd'}, {ebiten.KeyArrowRight, 'd'},
	{ebiten.KeyB, 'b'},
	{ebiten.KeyV, 'v'},
	{ebiten.KeyQ, 'q'}, {ebiten.KeyEscape, 'q'},
}

// window runs the engine on ebiten's update goroutine
type window struct {
	engine *spark.Engine
	canvas *raster.Raster
	panel  *hud.Panel
	frame  *ebiten.Image
	last   time.Time
	hud    bool

	layoutW, layoutH int
	scale            float64
}

func (w *window) Update() error {
	for _, kb := range keyBindings {
		if inpututil.IsKeyJustPressed(kb.key) {
			if w.panel.HandleRune(kb.r) == hud.ActionQuit {
				return ebiten.Termination
			}
		}
	}

	now := time.Now()
	dt := now.Sub(w.last).Seconds()
	w.last = now
	w.engine.Tick(dt)
	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	img := w.canvas.Image()
	b := img.Bounds()
	if w.frame == nil || w.frame.Bounds().Dx() != b.Dx() || w.frame.Bounds().Dy() != b.Dy() {
		if w.frame != nil {
			w.frame.Deallocate()
		}
		w.frame = ebiten.NewImage(b.Dx(), b.Dy())
	}
	w.frame.WritePixels(img.Pix)
	screen.DrawImage(w.frame, nil)

	if w.hud {
		var sb strings.Builder
		for _, line := range w.panel.Lines() {
			if line.Selected {
				sb.WriteString("> ")
			} else {
				sb.WriteString("  ")
			}
			sb.WriteString(line.Text)
			sb.WriteByte('\n')
		}
		ebitenutil.DebugPrint(screen, sb.String())
	}
}

// Layout reports the device size and resizes the engine when it changes
func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	vp := spark.Viewport{Width: float64(outsideWidth), Height: float64(outsideHeight), DPR: scale}
	if outsideWidth != w.layoutW || outsideHeight != w.layoutH || scale != w.scale {
		w.layoutW, w.layoutH, w.scale = outsideWidth, outsideHeight, scale
		w.engine.Resize(vp)
	}
	// screen size follows the engine backing store, whose DPR is capped
	return vp.DeviceSize()
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Spark.Seed = *seedFlag
		case "audio":
			cfg.Audio.Enabled = *audioFlag
		}
	})

	logFile, err := core.SetupLogging(cfg.Log.Dir, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	opts := cfg.Spark.EngineOptions()
	if cfg.Audio.Enabled {
		sm := audio.NewSoundManager(cfg.Audio.Volume)
		if err := sm.Initialize(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			defer sm.Cleanup()
			opts.Observer = sm
		}
	}

	width, height := cfg.Display.Width, cfg.Display.Height
	if width <= 0 || height <= 0 {
		width, height = 960, 540
	}
	width = int(float64(width) * cfg.Display.Scale)
	height = int(float64(height) * cfg.Display.Scale)

	canvas := raster.New(width, height)
	engine := spark.New(canvas, spark.Viewport{Width: float64(width), Height: float64(height), DPR: 1}, opts)
	defer engine.Destroy()

	w := &window{
		engine: engine,
		canvas: canvas,
		panel:  hud.NewPanel(engine),
		last:   time.Now(),
		hud:    *hudFlag,
	}

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("ember")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Display.FPS)

	log.Printf("ember-window: %dx%d at %d tps", width, height, cfg.Display.FPS)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
