package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveNoise
)

type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator streams duration worth of a single wave.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
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
		case WaveNoise:
			val = rand.Float64()*2 - 1
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

// envelope is a linear attack / hold / release gain.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}
		samples[i][0] *= e.gain()
		samples[i][1] *= e.gain()
		e.position++
	}
	return n, ok
}

func (e *envelope) gain() float64 {
	if e.position < e.attackSamples && e.attackSamples > 0 {
		return float64(e.position) / float64(e.attackSamples)
	}
	releaseStart := e.totalSamples - e.releaseSamples
	if e.position >= releaseStart && e.releaseSamples > 0 {
		return math.Max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
	}
	return 1
}

func (e *envelope) Err() error { return e.streamer.Err() }

// math.Log2(0) is -Inf, so zero volume becomes a silent streamer.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// CreateBurstSound mixes a noise crack with a low sine thump. Bigger bursts
// (more particles) thump lower.
func CreateBurstSound(cfg Config, particles int) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	crack := NewEnvelope(NewOscillator(0, crackDuration, WaveNoise, rate), crackDuration, crackAttack, crackRelease, rate)

	freq := thumpFrequency(particles)
	thump := NewEnvelope(NewOscillator(freq, thumpDuration, WaveSine, rate), thumpDuration, thumpAttack, thumpRelease, rate)

	mixed := beep.Mix(
		newVolume(crack, 0.45),
		newVolume(thump, 0.55),
	)
	return newVolume(mixed, cfg.BurstVolume*cfg.MasterVolume)
}

// thumpFrequency maps a particle count to 40..120 Hz.
func thumpFrequency(particles int) float64 {
	t := math.Min(1, math.Max(0, float64(particles)/1500))
	return 120 - 80*t
}
