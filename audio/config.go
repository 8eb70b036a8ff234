package audio

import (
	"fmt"
	"time"
)

// Config controls the synthesized burst sounds.
type Config struct {
	Enabled      bool    `yaml:"enabled"`
	SampleRate   int     `yaml:"sampleRate"`
	MasterVolume float64 `yaml:"masterVolume"`
	BurstVolume  float64 `yaml:"burstVolume"`
	// MaxVoices caps how many burst sounds may overlap.
	MaxVoices int `yaml:"maxVoices"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		SampleRate:   44100,
		MasterVolume: 0.8,
		BurstVolume:  0.6,
		MaxVoices:    8,
	}
}

func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("audio sampleRate must be > 0, got %d", c.SampleRate)
	}
	if c.MasterVolume < 0 || c.MasterVolume > 1 {
		return fmt.Errorf("audio masterVolume must be within [0,1], got %v", c.MasterVolume)
	}
	if c.BurstVolume < 0 || c.BurstVolume > 1 {
		return fmt.Errorf("audio burstVolume must be within [0,1], got %v", c.BurstVolume)
	}
	if c.MaxVoices <= 0 {
		return fmt.Errorf("audio maxVoices must be > 0, got %d", c.MaxVoices)
	}
	return nil
}

const (
	crackDuration = 350 * time.Millisecond
	crackAttack   = 4 * time.Millisecond
	crackRelease  = 300 * time.Millisecond

	thumpDuration = 500 * time.Millisecond
	thumpAttack   = 8 * time.Millisecond
	thumpRelease  = 420 * time.Millisecond
)
