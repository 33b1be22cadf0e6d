package audio

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/ember/parameter"
)

func newOfflineManager(t *testing.T) (*SoundManager, *time.Time) {
	t.Helper()
	sm := NewSoundManager(1)
	clock := time.Unix(1000, 0)
	sm.now = func() time.Time { return clock }
	sm.InitializeOffline()
	return sm, &clock
}

// TestSoundManagerGracefulDegradation verifies events are ignored when not initialized
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager(0.5)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Sound operations panicked without initialization: %v", r)
		}
	}()

	sm.OnPop(1)
	sm.OnBurst(20)
	sm.OnVortex(10, 10, 100)
	sm.Cleanup()

	if sm.Voices() != 0 {
		t.Errorf("Expected 0 voices, got %d", sm.Voices())
	}
	played, _ := sm.Stats()
	for st, n := range played {
		if n != 0 {
			t.Errorf("Expected no %s played, got %d", st, n)
		}
	}
}

// TestSoundManagerInitialization verifies the speaker path when a device exists
func TestSoundManagerInitialization(t *testing.T) {
	sm := NewSoundManager(0.5)

	if err := sm.Initialize(); err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}
	if err := sm.Initialize(); err != nil {
		t.Errorf("Second initialization should succeed as no-op, got error: %v", err)
	}
	sm.Cleanup()
}

// TestSoundManagerEventsMix verifies each event adds a voice to the mixer
func TestSoundManagerEventsMix(t *testing.T) {
	sm, _ := newOfflineManager(t)

	sm.OnPop(2)
	sm.OnBurst(15)
	sm.OnVortex(100, 200, 80)

	if sm.Voices() != 3 {
		t.Fatalf("Expected 3 voices, got %d", sm.Voices())
	}

	played, dropped := sm.Stats()
	if played[SoundCrackle] != 1 || played[SoundWhoosh] != 1 || played[SoundRumble] != 1 {
		t.Errorf("Expected one of each sound, got %v", played)
	}
	if dropped != 0 {
		t.Errorf("Expected 0 dropped, got %d", dropped)
	}

	buf := make([][2]float64, 1024)
	n, ok := sm.Stream(buf)
	if n != len(buf) || !ok {
		t.Fatalf("Expected full buffer, got %d %v", n, ok)
	}
	peak := 0.0
	for i := 0; i < n; i++ {
		peak = math.Max(peak, math.Abs(buf[i][0]))
	}
	if peak == 0 {
		t.Error("Expected audible output")
	}
}

// TestSoundManagerVoicesDrain verifies finished effects leave the mixer
func TestSoundManagerVoicesDrain(t *testing.T) {
	sm, _ := newOfflineManager(t)
	sm.OnPop(0)

	buf := make([][2]float64, 512)
	for i := 0; i < 16; i++ {
		sm.Stream(buf)
	}

	if sm.Voices() != 0 {
		t.Errorf("Expected crackle to drain, got %d voices", sm.Voices())
	}
}

// TestSoundManagerPopRateLimit verifies crackles closer than the minimum gap are dropped
func TestSoundManagerPopRateLimit(t *testing.T) {
	sm, clock := newOfflineManager(t)

	sm.OnPop(1)
	sm.OnPop(1)
	*clock = clock.Add(parameter.MinPopGap)
	sm.OnPop(1)

	played, dropped := sm.Stats()
	if played[SoundCrackle] != 2 {
		t.Errorf("Expected 2 crackles, got %d", played[SoundCrackle])
	}
	if dropped != 1 {
		t.Errorf("Expected 1 dropped, got %d", dropped)
	}
}

// TestSoundManagerVoiceCap verifies the mixer never exceeds the voice limit
func TestSoundManagerVoiceCap(t *testing.T) {
	sm, _ := newOfflineManager(t)

	extra := 5
	for i := 0; i < parameter.AudioMaxVoices+extra; i++ {
		sm.OnBurst(10)
	}

	if sm.Voices() != parameter.AudioMaxVoices {
		t.Errorf("Expected %d voices, got %d", parameter.AudioMaxVoices, sm.Voices())
	}
	_, dropped := sm.Stats()
	if dropped != uint64(extra) {
		t.Errorf("Expected %d dropped, got %d", extra, dropped)
	}
}

// TestSoundManagerOperationsAfterCleanup verifies events after cleanup are ignored
func TestSoundManagerOperationsAfterCleanup(t *testing.T) {
	sm, _ := newOfflineManager(t)
	sm.OnBurst(10)
	sm.Cleanup()

	sm.OnBurst(10)
	sm.OnVortex(0, 0, 50)

	if sm.Voices() != 0 {
		t.Errorf("Expected 0 voices after cleanup, got %d", sm.Voices())
	}
	if n, ok := sm.Stream(make([][2]float64, 8)); n != 0 || ok {
		t.Errorf("Expected no offline stream after cleanup, got %d %v", n, ok)
	}
}

// TestSoundManagerVolumeClamp verifies master volume is clamped
func TestSoundManagerVolumeClamp(t *testing.T) {
	sm := NewSoundManager(3)
	if sm.volume != 1 {
		t.Errorf("Expected volume 1, got %f", sm.volume)
	}
	sm.SetVolume(-1)
	if sm.volume != 0 {
		t.Errorf("Expected volume 0, got %f", sm.volume)
	}
}
