package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond

	// AudioMaxVoices caps concurrently mixed effects
	AudioMaxVoices = 12

	// MinPopGap between consecutive crackles
	MinPopGap = 35 * time.Millisecond
)

// Crackle Sound (pop embers)
const (
	CrackleSoundDuration = 45 * time.Millisecond
	CrackleSoundAttack   = 2 * time.Millisecond
	CrackleSoundRelease  = 35 * time.Millisecond
	CrackleBodyHz        = 180.0
	CrackleBodyMix       = 0.25
)

// CrackleLayerGain scales crackles by depth layer, far to near
var CrackleLayerGain = [3]float64{0.35, 0.6, 0.9}

// Whoosh Sound (bursts)
const (
	WhooshSoundDuration = 380 * time.Millisecond
	WhooshSoundAttack   = 120 * time.Millisecond
	WhooshSoundRelease  = 220 * time.Millisecond
	WhooshGainMin       = 0.25
	WhooshGainMax       = 0.7
)

// Rumble Sound (vortices)
const (
	RumbleSoundDuration = 900 * time.Millisecond
	RumbleSoundAttack   = 250 * time.Millisecond
	RumbleSoundRelease  = 450 * time.Millisecond
	RumbleFundamentalHz = 55.0
	RumbleOvertoneHz    = 82.5
	RumbleGainMin       = 0.3
	RumbleGainMax       = 0.8
	// RumbleRadiusRef is the vortex radius in pixels that reaches full gain
	RumbleRadiusRef     = 200.0
)
