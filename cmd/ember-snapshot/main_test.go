package main

import (
	"testing"

	"github.com/lixenwraith/ember/spark"
)

func testSnapshot() snapshot {
	opts := spark.DefaultOptions()
	opts.Seed = 21
	return snapshot{
		seconds:  1,
		viewport: spark.Viewport{Width: 160, Height: 90, DPR: 2},
		options:  opts,
		opaque:   true,
	}
}

func TestCaptureSizeFollowsDPR(t *testing.T) {
	img, stats, err := capture(testSnapshot())
	if err != nil {
		t.Fatalf("Expected capture, got %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 180 {
		t.Errorf("Expected 320x180, got %dx%d", b.Dx(), b.Dy())
	}
	if stats.ActiveParticles == 0 {
		t.Error("Expected embers after one second")
	}
	if stats.Time < 0.99 || stats.Time > 1.01 {
		t.Errorf("Expected one simulated second, got %f", stats.Time)
	}
}

func TestCaptureOpaqueBackground(t *testing.T) {
	img, _, err := capture(testSnapshot())
	if err != nil {
		t.Fatalf("Expected capture, got %v", err)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatalf("Expected opaque pixel at %d, got alpha %d", i/4, img.Pix[i])
		}
	}
}

func TestCaptureDeterministic(t *testing.T) {
	a, _, _ := capture(testSnapshot())
	b, _, _ := capture(testSnapshot())
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("Expected identical frames, first difference at byte %d", i)
		}
	}
}

func TestCaptureSeedPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		configSeed uint64
		flagSeed   uint64
		flagSet    bool
		want       uint64
	}{
		{"config seed kept", 42, defaultSeed, false, 42},
		{"flag wins", 42, 9, true, 9},
		{"flag zero wins", 42, 0, true, 0},
		{"fallback", 0, defaultSeed, false, defaultSeed},
	}
	for _, tt := range tests {
		if got := captureSeed(tt.configSeed, tt.flagSeed, tt.flagSet); got != tt.want {
			t.Errorf("%s: Expected seed %d, got %d", tt.name, tt.want, got)
		}
	}
}
