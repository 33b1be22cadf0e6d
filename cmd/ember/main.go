package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/ember/audio"
	"github.com/lixenwraith/ember/clock"
	"github.com/lixenwraith/ember/config"
	"github.com/lixenwraith/ember/core"
	"github.com/lixenwraith/ember/hud"
	"github.com/lixenwraith/ember/raster"
	"github.com/lixenwraith/ember/render"
	"github.com/lixenwraith/ember/spark"
	"github.com/lixenwraith/ember/terminal"
)

// One cell is 8x16 logical pixels and two raster pixels tall
const (
	cellWidth  = 8
	cellHeight = 16
	cellDPR    = 1.0 / cellWidth
)

var (
	configPath = flag.String("config", "", "TOML config file")
	colorFlag  = flag.String("color", config.ColorAuto, "Color mode: auto, truecolor, 256")
	seedFlag   = flag.Uint64("seed", 0, "Random seed, 0 picks one from the clock")
	noiseFlag  = flag.String("noise", "", "Noise field: simplex or perlin")
	audioFlag  = flag.Bool("audio", false, "Enable sound effects")
	debugFlag  = flag.Bool("debug", false, "Write a debug log")
)

var (
	background = render.RGB{R: 8, G: 5, B: 10}
	hudBg      = render.RGB{R: 18, G: 12, B: 16}
	hudFg      = render.RGB{R: 170, G: 150, B: 135}
	hudSel     = render.RGB{R: 255, G: 170, B: 80}
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logFile, err := core.SetupLogging(cfg.Log.Dir, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// applyFlags lets explicitly set flags override the config
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "color":
			cfg.Display.Color = *colorFlag
		case "seed":
			cfg.Spark.Seed = *seedFlag
		case "noise":
			cfg.Spark.Noise = *noiseFlag
		case "audio":
			cfg.Audio.Enabled = *audioFlag
		case "debug":
			cfg.Log.Debug = *debugFlag
		}
	})
}

// viewport maps the screen above the HUD to engine coordinates
func viewport(cols, rows, hudRows int) (spark.Viewport, int) {
	simRows := max(rows-hudRows, 1)
	return spark.Viewport{
		Width:  float64(cols * cellWidth),
		Height: float64(simRows * cellHeight),
		DPR:    cellDPR,
	}, simRows
}

func run(cfg *config.Config) error {
	mode, err := terminal.ResolveColorMode(cfg.Display.Color, os.Getenv)
	if err != nil {
		return err
	}
	screen, err := terminal.New(mode, background)
	if err != nil {
		return err
	}
	defer screen.Fini()

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

	cols, rows := screen.Size()
	hudRows := 6
	vp, simRows := viewport(cols, rows, hudRows)
	canvas := raster.New(cols, simRows*2)

	engine := spark.New(canvas, vp, opts)
	if engine.Inert() {
		return fmt.Errorf("engine has no drawing context")
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	engine.AddCleanup(cancel)

	panel := hud.NewPanel(engine)
	hudRows = len(panel.Lines())
	vp, simRows = viewport(cols, rows, hudRows)
	engine.Resize(vp)

	sched := clock.NewScheduler(engine, time.Second/time.Duration(cfg.Display.FPS))
	sched.SetMetrics(engine.Metrics())
	sched.OnFrame(func() {
		screen.Blit(canvas.Image(), 0, 0)
		_, rows := screen.Size()
		lines := panel.Lines()
		top := rows - len(lines)
		for i, line := range lines {
			fg := hudFg
			if line.Selected {
				fg = hudSel
			}
			screen.FillRow(top+i, hudBg)
			screen.Text(1, top+i, line.Text, fg, hudBg)
		}
		screen.Show()
	})

	log.Printf("ember: terminal %dx%d, %d fps", cols, rows, cfg.Display.FPS)
	sched.Start(ctx)
	events := screen.Events(ctx)

	for running := true; running; {
		select {
		case <-ctx.Done():
			running = false
		case <-sched.Done():
			running = false
		case ev, ok := <-events:
			if !ok {
				running = false
				break
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				cols, rows := screen.Size()
				sched.Do(func() {
					vp, _ := viewport(cols, rows, hudRows)
					engine.Resize(vp)
				})
			case *tcell.EventKey:
				r, quit := keyRune(ev)
				if quit {
					running = false
					break
				}
				if r == 0 {
					break
				}
				sched.Do(func() {
					if panel.HandleRune(r) == hud.ActionQuit {
						cancel()
					}
				})
			}
		}
	}

	sched.Stop()
	sched.Wait()
	engine.Destroy()
	log.Printf("ember: exit")
	return nil
}

// keyRune maps arrows onto the letter bindings
func keyRune(ev *tcell.EventKey) (r rune, quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return 0, true
	case tcell.KeyUp:
		return 'w', false
	case tcell.KeyDown:
		return 's', false
	case tcell.KeyLeft:
		return 'a', false
	case tcell.KeyRight:
		return 'd', false
	case tcell.KeyRune:
		return ev.Rune(), false
	}
	return 0, false
}
