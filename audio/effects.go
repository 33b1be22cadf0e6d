package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/ember/parameter"
	"github.com/lixenwraith/ember/vmath"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// SoundType identifies an ember sound effect
type SoundType int

const (
	SoundCrackle SoundType = iota
	SoundWhoosh
	SoundRumble
)

func (s SoundType) String() string {
	switch s {
	case SoundCrackle:
		return "crackle"
	case SoundWhoosh:
		return "whoosh"
	case SoundRumble:
		return "rumble"
	default:
		return "unknown"
	}
}

// oscillator generates raw audio waves for a fixed number of samples
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *vmath.FastRand
}

// NewOscillator creates a finite oscillator, rng is only read by WaveNoise
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate, rng *vmath.FastRand) beep.Streamer {
	if rng == nil {
		rng = vmath.NewFastRand(uint64(time.Now().UnixNano()))
	}
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rng,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack/release to a stream and ends it after duration
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope wraps s with a linear attack and release
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := min(rate.N(attack), total)
	rel := min(rate.N(release), total-att)
	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.position >= e.totalSamples {
		return 0, false
	}
	if remaining := e.totalSamples - e.position; len(samples) > remaining {
		samples = samples[:remaining]
	}

	n, ok = e.streamer.Stream(samples)
	releaseStart := e.totalSamples - e.releaseSamples

	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = math.Min(vol, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume applies a linear gain; math.Log2(0) is -Inf so zero maps to silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// CreateCrackleSound generates a short noise tick for a pop ember on the given layer
func CreateCrackleSound(layer int, master float64, rng *vmath.FastRand) beep.Streamer {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	dur := parameter.CrackleSoundDuration

	noise := NewOscillator(0, dur, WaveNoise, rate, rng)
	body := NewOscillator(parameter.CrackleBodyHz*(0.8+0.4*rng.Float64()), dur, WaveSaw, rate, rng)
	mixed := beep.Mix(
		newVolume(noise, 1-parameter.CrackleBodyMix),
		newVolume(body, parameter.CrackleBodyMix),
	)
	shaped := NewEnvelope(mixed, dur, parameter.CrackleSoundAttack, parameter.CrackleSoundRelease, rate)

	gain := parameter.CrackleLayerGain[0]
	if layer >= 0 && layer < len(parameter.CrackleLayerGain) {
		gain = parameter.CrackleLayerGain[layer]
	}
	return newVolume(shaped, gain*master)
}

// CreateWhooshSound generates a noise swell sized by the burst count
func CreateWhooshSound(count int, master float64, rng *vmath.FastRand) beep.Streamer {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	dur := parameter.WhooshSoundDuration

	noise := NewOscillator(0, dur, WaveNoise, rate, rng)
	shaped := NewEnvelope(noise, dur, parameter.WhooshSoundAttack, parameter.WhooshSoundRelease, rate)

	t := vmath.Clamp(float64(count)/parameter.BurstCountMax, 0, 1)
	gain := vmath.Mix(parameter.WhooshGainMin, parameter.WhooshGainMax, t)
	return newVolume(shaped, gain*master)
}

// CreateRumbleSound generates a low two-tone swell sized by the vortex radius
func CreateRumbleSound(radius, master float64) beep.Streamer {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	dur := parameter.RumbleSoundDuration

	var tones []beep.Streamer
	for _, hz := range []float64{parameter.RumbleFundamentalHz, parameter.RumbleOvertoneHz} {
		tone, err := generators.SineTone(rate, hz)
		if err != nil {
			continue
		}
		tones = append(tones, newVolume(beep.Take(rate.N(dur), tone), 0.5))
	}
	if len(tones) == 0 {
		tones = append(tones, NewOscillator(parameter.RumbleFundamentalHz, dur, WaveSine, rate, nil))
	}
	shaped := NewEnvelope(beep.Mix(tones...), dur, parameter.RumbleSoundAttack, parameter.RumbleSoundRelease, rate)

	t := vmath.Clamp(radius/parameter.RumbleRadiusRef, 0, 1)
	gain := vmath.Mix(parameter.RumbleGainMin, parameter.RumbleGainMax, t)
	return newVolume(shaped, gain*master)
}
