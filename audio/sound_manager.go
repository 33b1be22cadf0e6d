// Package audio voices engine events through a beep mixer: crackles for pop
// embers, a whoosh per burst and a low rumble per vortex.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/ember/parameter"
	"github.com/lixenwraith/ember/vmath"
)

// SoundManager plays ember effects and satisfies spark.Observer
// Observer callbacks never block on the audio device
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	rng         *vmath.FastRand
	now         func() time.Time
	lastPop     time.Time
	initialized bool
	// offline mixes without a speaker, the owner pulls samples from Stream
	offline bool

	played  [3]uint64
	dropped uint64
}

// NewSoundManager creates a manager with master volume in [0,1]
func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: vmath.Clamp(volume, 0, 1),
		rng:    vmath.NewFastRand(uint64(time.Now().UnixNano())),
		now:    time.Now,
	}
}

// Initialize opens the speaker and starts the mixer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	rate := beep.SampleRate(parameter.AudioSampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// InitializeOffline enables mixing without an audio device
func (sm *SoundManager) InitializeOffline() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.initialized = true
	sm.offline = true
}

// Cleanup silences everything and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	if sm.offline {
		sm.mixer.Clear()
	} else {
		speaker.Clear()
		speaker.Close()
	}
	sm.initialized = false
	sm.offline = false
}

// SetVolume changes the master volume for effects started afterwards
func (sm *SoundManager) SetVolume(volume float64) {
	sm.mu.Lock()
	sm.volume = vmath.Clamp(volume, 0, 1)
	sm.mu.Unlock()
}

// Stream pulls mixed samples in offline mode
func (sm *SoundManager) Stream(samples [][2]float64) (n int, ok bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.offline {
		return 0, false
	}
	return sm.mixer.Stream(samples)
}

// Voices returns the number of effects currently mixing
func (sm *SoundManager) Voices() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		return 0
	}
	if sm.offline {
		return sm.mixer.Len()
	}
	speaker.Lock()
	defer speaker.Unlock()
	return sm.mixer.Len()
}

// Stats returns per-sound play counts and the number of dropped effects
func (sm *SoundManager) Stats() (played map[SoundType]uint64, dropped uint64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	played = map[SoundType]uint64{
		SoundCrackle: sm.played[SoundCrackle],
		SoundWhoosh:  sm.played[SoundWhoosh],
		SoundRumble:  sm.played[SoundRumble],
	}
	return played, sm.dropped
}

// OnPop plays a crackle, rate limited so dense pops do not saturate the mixer
func (sm *SoundManager) OnPop(layer int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	now := sm.now()
	if now.Sub(sm.lastPop) < parameter.MinPopGap {
		sm.dropped++
		return
	}
	sm.lastPop = now
	sm.play(SoundCrackle, CreateCrackleSound(layer, sm.volume, sm.voiceRand()))
}

// OnBurst plays a whoosh scaled by the burst size
func (sm *SoundManager) OnBurst(count int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.play(SoundWhoosh, CreateWhooshSound(count, sm.volume, sm.voiceRand()))
}

// OnVortex plays a rumble scaled by the vortex radius
func (sm *SoundManager) OnVortex(_, _, radius float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.play(SoundRumble, CreateRumbleSound(radius, sm.volume))
}

// voiceRand gives each voice its own generator, voices stream on the speaker goroutine
func (sm *SoundManager) voiceRand() *vmath.FastRand {
	return vmath.NewFastRand(sm.rng.Next())
}

// play adds s to the mixer, caller holds sm.mu
func (sm *SoundManager) play(st SoundType, s beep.Streamer) {
	if !sm.offline {
		speaker.Lock()
		defer speaker.Unlock()
	}
	if sm.mixer.Len() >= parameter.AudioMaxVoices {
		sm.dropped++
		return
	}
	sm.mixer.Add(s)
	sm.played[st]++
}
