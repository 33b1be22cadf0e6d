package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/ember/parameter"
	"github.com/lixenwraith/ember/vmath"
)

// TestOscillatorSine verifies sine wave generation
func TestOscillatorSine(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440, 100*time.Millisecond, WaveSine, rate, nil)

	samples := make([][2]float64, 100)
	n, ok := osc.Stream(samples)
	if !ok {
		t.Error("Expected stream to return ok=true")
	}
	if n != 100 {
		t.Errorf("Expected to stream 100 samples, got %d", n)
	}

	for i := 0; i < n; i++ {
		if samples[i][0] < -1.0 || samples[i][0] > 1.0 {
			t.Errorf("Sample %d out of range: %f", i, samples[i][0])
		}
		if samples[i][0] != samples[i][1] {
			t.Errorf("Sample %d expected mono, got %f/%f", i, samples[i][0], samples[i][1])
		}
	}
	if osc.Err() != nil {
		t.Errorf("Expected no error, got: %v", osc.Err())
	}
}

// TestOscillatorSquare verifies square wave generation
func TestOscillatorSquare(t *testing.T) {
	osc := NewOscillator(220, 50*time.Millisecond, WaveSquare, beep.SampleRate(44100), nil)

	samples := make([][2]float64, 50)
	n, _ := osc.Stream(samples)
	for i := 0; i < n; i++ {
		val := samples[i][0]
		if val != -1.0 && val != 1.0 {
			t.Errorf("Square wave sample %d should be -1.0 or 1.0, got %f", i, val)
		}
	}
}

// TestOscillatorNoiseDeterministic verifies noise follows the supplied generator
func TestOscillatorNoiseDeterministic(t *testing.T) {
	rate := beep.SampleRate(44100)
	a := NewOscillator(0, 10*time.Millisecond, WaveNoise, rate, vmath.NewFastRand(7))
	b := NewOscillator(0, 10*time.Millisecond, WaveNoise, rate, vmath.NewFastRand(7))

	sa := make([][2]float64, 64)
	sb := make([][2]float64, 64)
	a.Stream(sa)
	b.Stream(sb)

	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("Expected identical noise at %d, got %v and %v", i, sa[i], sb[i])
		}
		if math.Abs(sa[i][0]) > 1 {
			t.Fatalf("Noise sample %d out of range: %f", i, sa[i][0])
		}
	}
}

// TestOscillatorEnds verifies the oscillator stops after its duration
func TestOscillatorEnds(t *testing.T) {
	osc := NewOscillator(100, 10*time.Millisecond, WaveSaw, beep.SampleRate(1000), nil)

	samples := make([][2]float64, 16)
	n, ok := osc.Stream(samples)
	if n != 10 || !ok {
		t.Errorf("Expected 10 samples and ok, got %d %v", n, ok)
	}

	n, ok = osc.Stream(samples)
	if n != 0 || ok {
		t.Errorf("Expected drained oscillator, got %d %v", n, ok)
	}
}

// TestEnvelopeShape verifies linear attack and release
func TestEnvelopeShape(t *testing.T) {
	ones := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 1}
		}
		return len(samples), true
	})
	env := NewEnvelope(ones, 10*time.Millisecond, 2*time.Millisecond, 4*time.Millisecond, beep.SampleRate(1000))

	samples := make([][2]float64, 32)
	n, ok := env.Stream(samples)
	if n != 10 || !ok {
		t.Fatalf("Expected 10 samples and ok, got %d %v", n, ok)
	}

	expected := []float64{0, 0.5, 1, 1, 1, 1, 1, 0.75, 0.5, 0.25}
	for i, want := range expected {
		if math.Abs(samples[i][0]-want) > 1e-9 {
			t.Errorf("Sample %d: expected %f, got %f", i, want, samples[i][0])
		}
	}

	n, ok = env.Stream(samples)
	if n != 0 || ok {
		t.Errorf("Expected drained envelope, got %d %v", n, ok)
	}
}

// TestEffectsFinite verifies each effect ends and stays within range
func TestEffectsFinite(t *testing.T) {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	tests := []struct {
		name string
		s    beep.Streamer
		dur  time.Duration
	}{
		{"crackle", CreateCrackleSound(2, 1, vmath.NewFastRand(1)), parameter.CrackleSoundDuration},
		{"whoosh", CreateWhooshSound(30, 1, vmath.NewFastRand(2)), parameter.WhooshSoundDuration},
		{"rumble", CreateRumbleSound(500, 1), parameter.RumbleSoundDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([][2]float64, 512)
			total := 0
			peak := 0.0
			for {
				n, ok := tt.s.Stream(buf)
				for i := 0; i < n; i++ {
					peak = math.Max(peak, math.Abs(buf[i][0]))
				}
				total += n
				if !ok || total > rate.N(tt.dur)*2 {
					break
				}
			}

			if total != rate.N(tt.dur) {
				t.Errorf("Expected %d samples, got %d", rate.N(tt.dur), total)
			}
			if peak <= 0 || peak > 1 {
				t.Errorf("Expected peak in (0,1], got %f", peak)
			}
		})
	}
}

// TestZeroVolumeSilent verifies master volume zero produces silence
func TestZeroVolumeSilent(t *testing.T) {
	s := CreateWhooshSound(20, 0, vmath.NewFastRand(3))

	buf := make([][2]float64, 2048)
	n, _ := s.Stream(buf)
	for i := 0; i < n; i++ {
		if buf[i][0] != 0 {
			t.Fatalf("Expected silence at %d, got %f", i, buf[i][0])
		}
	}
}

func TestSoundTypeString(t *testing.T) {
	if SoundCrackle.String() != "crackle" || SoundRumble.String() != "rumble" {
		t.Errorf("Unexpected names %q %q", SoundCrackle, SoundRumble)
	}
	if SoundType(99).String() != "unknown" {
		t.Errorf("Expected unknown, got %q", SoundType(99))
	}
}
