// Package stream serves a running engine to browsers: PNG frames and periodic
// stats over a websocket, control commands back from the page.
package stream

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/ember/clock"
	"github.com/lixenwraith/ember/core"
	"github.com/lixenwraith/ember/raster"
	"github.com/lixenwraith/ember/spark"
	"github.com/lixenwraith/ember/status"
)

//go:embed web
var webFS embed.FS

// StatsInterval is the cadence of stats messages
const StatsInterval = time.Second

// Config describes the served engine
type Config struct {
	Address   string
	FrameRate int
	Width     int
	Height    int
	Options   spark.Options
}

// Server owns an engine, its raster and the scheduler that ticks both
type Server struct {
	cfg    Config
	raster *raster.Raster
	engine *spark.Engine
	sched  *clock.Scheduler
	hub    *Hub
	reg    *status.Registry
	http   *http.Server

	encoder      png.Encoder
	buf          bytes.Buffer
	lastRevision uint64
	frames       uint64
}

// NewServer builds the engine and wiring, nothing runs until Run
func NewServer(cfg Config) (*Server, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FrameRate <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", cfg.FrameRate)
	}

	s := &Server{
		cfg:     cfg,
		raster:  raster.New(cfg.Width, cfg.Height),
		reg:     cfg.Options.Metrics,
		encoder: png.Encoder{CompressionLevel: png.BestSpeed},
	}
	if s.reg == nil {
		s.reg = status.NewRegistry()
	}
	opts := cfg.Options
	opts.Metrics = s.reg

	s.engine = spark.New(s.raster, spark.Viewport{Width: float64(cfg.Width), Height: float64(cfg.Height), DPR: 1}, opts)
	if s.engine.Inert() {
		return nil, errors.New("engine has no drawing context")
	}

	s.sched = clock.NewScheduler(s.engine, time.Second/time.Duration(cfg.FrameRate))
	s.sched.SetMetrics(s.reg)
	s.sched.OnFrame(s.publishFrame)

	s.hub = NewHub(func(cmd Command) {
		s.sched.Do(func() {
			if err := cmd.Apply(s.engine); err != nil {
				log.Printf("stream: %v", err)
			}
		})
	})

	s.engine.AddCleanup(s.hub.Close)

	s.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Engine returns the served engine, touch it only through Scheduler
func (s *Server) Engine() *spark.Engine {
	return s.engine
}

// Scheduler returns the goroutine owner of the engine
func (s *Server) Scheduler() *clock.Scheduler {
	return s.sched
}

// Hub returns the client hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler routes the page, the websocket and a stats endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	page, _ := fs.Sub(webFS, "web")
	mux.Handle("/", http.FileServer(http.FS(page)))
	mux.Handle("/ws", s.hub)
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.reg.Snapshot())
	})
	return mux
}

// publishFrame runs on the scheduler goroutine after each tick
func (s *Server) publishFrame() {
	if s.hub.Len() == 0 {
		return
	}
	rev := s.raster.Revision()
	if rev == s.lastRevision && s.frames > 0 {
		return
	}
	s.lastRevision = rev

	s.buf.Reset()
	if err := s.encoder.Encode(&s.buf, s.raster.Image()); err != nil {
		log.Printf("stream: encode frame: %v", err)
		return
	}
	frame := make([]byte, s.buf.Len())
	copy(frame, s.buf.Bytes())
	s.frames++
	s.hub.Broadcast(websocket.BinaryMessage, frame)
}

// statsMessage is the text frame clients receive every StatsInterval
type statsMessage struct {
	Type  string         `json:"type"`
	Stats map[string]any `json:"stats"`
}

// PublishStats sends the registry snapshot to every client
func (s *Server) PublishStats() {
	data, err := json.Marshal(statsMessage{Type: "stats", Stats: s.reg.Snapshot()})
	if err != nil {
		log.Printf("stream: encode stats: %v", err)
		return
	}
	s.hub.Broadcast(websocket.TextMessage, data)
}

// Run ticks the engine and serves HTTP until ctx ends
func (s *Server) Run(ctx context.Context) error {
	s.sched.Start(ctx)

	core.Go(func() {
		ticker := time.NewTicker(StatsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.sched.Done():
				return
			case <-ticker.C:
				s.PublishStats()
			}
		}
	})

	errCh := make(chan error, 1)
	core.Go(func() {
		log.Printf("stream: serving on %s at %d fps", s.cfg.Address, s.cfg.FrameRate)
		errCh <- s.http.ListenAndServe()
	})

	var err error
	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.http.Shutdown(shutdownCtx)

	s.sched.Stop()
	s.sched.Wait()
	// Destroy closes the hub through its cleanup hook
	s.engine.Destroy()

	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return err
}
