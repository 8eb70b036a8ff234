package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SoundManager owns the speaker and the mixer burst sounds are played through.
type SoundManager struct {
	mu          sync.Mutex
	cfg         Config
	mixer       *beep.Mixer
	voices      []*beep.Ctrl
	initialized bool
}

func NewSoundManager(cfg Config) *SoundManager {
	return &SoundManager{
		cfg:   cfg,
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the audio device. Calling it twice is a no-op.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	rate := beep.SampleRate(sm.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// PlayBurst queues one burst sound. When MaxVoices sounds are already queued the
// oldest one is cut.
func (sm *SoundManager) PlayBurst(particles int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	ctrl := &beep.Ctrl{Streamer: CreateBurstSound(sm.cfg, particles)}
	sm.voices = append(sm.voices, ctrl)

	speaker.Lock()
	if len(sm.voices) > sm.cfg.MaxVoices {
		sm.voices[0].Paused = true
		sm.voices[0].Streamer = nil
		sm.voices = sm.voices[1:]
	}
	sm.mixer.Add(ctrl)
	speaker.Unlock()
}

// Cleanup silences everything and releases the mixer.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.voices = nil
	sm.initialized = false
}
