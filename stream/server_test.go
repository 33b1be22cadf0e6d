package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/ember/spark"
	"github.com/lixenwraith/ember/status"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	opts := spark.DefaultOptions()
	opts.Seed = 11
	s, err := NewServer(Config{Address: "127.0.0.1:0", FrameRate: 30, Width: 64, Height: 48, Options: opts})
	if err != nil {
		t.Fatalf("Expected server, got %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Hub().Close()
		ts.Close()
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Expected websocket dial, got %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	if _, err := NewServer(Config{FrameRate: 30}); err == nil {
		t.Error("Expected error for zero size")
	}
	if _, err := NewServer(Config{Width: 10, Height: 10}); err == nil {
		t.Error("Expected error for zero frame rate")
	}
}

func TestServerStreamsPNGFrames(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)
	waitFor(t, "client registration", func() bool { return s.Hub().Len() == 1 })

	s.Scheduler().Step()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Expected frame, got %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("Expected binary message, got %d", kind)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Expected PNG frame, got %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("Expected 64x48 frame, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestServerSkipsEncodingWithoutClients(t *testing.T) {
	s, _ := newTestServer(t)

	s.Scheduler().Step()
	if s.frames != 0 {
		t.Errorf("Expected no encoded frames, got %d", s.frames)
	}
}

func TestPausedServerSendsNoRepeatFrames(t *testing.T) {
	s, ts := newTestServer(t)
	s.Engine().Stop()
	dial(t, ts)
	waitFor(t, "client registration", func() bool { return s.Hub().Len() == 1 })

	for range 6 {
		s.Scheduler().Step()
	}
	if s.frames != 1 {
		t.Errorf("Expected a single frame while paused, got %d", s.frames)
	}
}

func TestServerAppliesCommandsOnScheduler(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)

	if err := conn.WriteJSON(Command{Op: OpStop}); err != nil {
		t.Fatalf("Expected write, got %v", err)
	}
	waitFor(t, "stop command", func() bool {
		s.Scheduler().Step()
		return !s.Engine().Running()
	})

	conn.WriteJSON(Command{Op: OpIntensity, Value: 1.5})
	waitFor(t, "intensity command", func() bool {
		s.Scheduler().Step()
		return s.Engine().Intensity() == 1.5
	})
}

func TestServerPublishesStats(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)
	waitFor(t, "client registration", func() bool { return s.Hub().Len() == 1 })

	s.PublishStats()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Expected stats message, got %v", err)
		}
		if kind != websocket.TextMessage {
			continue
		}
		var msg struct {
			Type  string         `json:"type"`
			Stats map[string]any `json:"stats"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Expected JSON stats, got %v", err)
		}
		if msg.Type != "stats" {
			t.Errorf("Expected type stats, got %q", msg.Type)
		}
		if _, ok := msg.Stats[status.KeyParticles]; !ok {
			t.Errorf("Expected %s in stats, got %v", status.KeyParticles, msg.Stats)
		}
		return
	}
}

func TestStatsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/stats")
	if err != nil {
		t.Fatalf("Expected response, got %v", err)
	}
	defer resp.Body.Close()

	var snap map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("Expected JSON, got %v", err)
	}
	if snap[status.KeyState] != "running" {
		t.Errorf("Expected state running, got %v", snap[status.KeyState])
	}
}

func TestIndexPageServed(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("Expected response, got %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "<canvas") {
		t.Error("Expected page with a canvas")
	}
}

func TestHubDropsForSlowClients(t *testing.T) {
	h := NewHub(nil)
	c := &client{send: make(chan message, sendBuffer)}
	h.clients[c] = struct{}{}

	for i := 0; i < sendBuffer+3; i++ {
		h.Broadcast(websocket.BinaryMessage, []byte{byte(i)})
	}

	if h.Dropped() != 3 {
		t.Errorf("Expected 3 dropped, got %d", h.Dropped())
	}
	if len(c.send) != sendBuffer {
		t.Errorf("Expected full queue of %d, got %d", sendBuffer, len(c.send))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	opts := spark.DefaultOptions()
	opts.Seed = 5
	s, err := NewServer(Config{Address: "127.0.0.1:0", FrameRate: 60, Width: 32, Height: 32, Options: opts})
	if err != nil {
		t.Fatalf("Expected server, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	waitFor(t, "ticks", func() bool { return s.Scheduler().Ticks() > 2 })
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !s.Engine().Destroyed() {
		t.Error("Expected engine destroyed after Run")
	}
}

func TestDestroyClosesHub(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)
	waitFor(t, "client registration", func() bool { return s.Hub().Len() == 1 })

	s.Engine().Destroy()

	if s.Hub().Len() != 0 {
		t.Errorf("Expected no clients after destroy, got %d", s.Hub().Len())
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			t.Error("Expected the server to close the connection")
		}
		break
	}
}
