package stream

import (
	"testing"

	"github.com/lixenwraith/ember/raster"
	"github.com/lixenwraith/ember/spark"
)

func newCommandEngine(t *testing.T) *spark.Engine {
	t.Helper()
	opts := spark.DefaultOptions()
	opts.Seed = 3
	e := spark.New(raster.New(64, 48), spark.Viewport{Width: 64, Height: 48, DPR: 1}, opts)
	if e.Inert() {
		t.Fatal("Expected live engine")
	}
	return e
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"op":"intensity","value":2.1}`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cmd.Op != OpIntensity || cmd.Value != 2.1 {
		t.Errorf("Expected intensity 2.1, got %+v", cmd)
	}

	if _, err := ParseCommand([]byte(`{"op":"explode"}`)); err == nil {
		t.Error("Expected error for unknown op")
	}
	if _, err := ParseCommand([]byte(`not json`)); err == nil {
		t.Error("Expected error for malformed message")
	}
}

func TestCommandApply(t *testing.T) {
	e := newCommandEngine(t)

	if err := (Command{Op: OpStop}).Apply(e); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if e.Running() {
		t.Error("Expected engine stopped")
	}

	Command{Op: OpStart}.Apply(e)
	if !e.Running() {
		t.Error("Expected engine running")
	}

	Command{Op: OpIntensity, Value: 9}.Apply(e)
	if e.Intensity() != 2.8 {
		t.Errorf("Expected clamped intensity 2.8, got %f", e.Intensity())
	}

	Command{Op: OpWind, Value: -1}.Apply(e)
	if e.WindStrength() != 0 {
		t.Errorf("Expected clamped wind strength 0, got %f", e.WindStrength())
	}

	Command{Op: OpBurst}.Apply(e)
	if !e.Burst().Active {
		t.Error("Expected burst armed")
	}

	Command{Op: OpVortex}.Apply(e)
	if !e.Vortex().Active {
		t.Error("Expected vortex armed")
	}

	if err := (Command{Op: "nope"}).Apply(e); err == nil {
		t.Error("Expected error for unknown op")
	}
}
