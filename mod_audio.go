package fireworks

import (
	"github.com/skyburst/fireworks/audio"
)

// AudioModule plays a synthesized pop for every spawned burst. Install it after
// FireworksModule. A missing audio device disables sound instead of failing.
type AudioModule struct {
	Config audio.Config
}

func (m AudioModule) Install(app *App, cmd *Commands) {
	logger := app.Logger()
	if !m.Config.Enabled {
		logger.Infof("Audio disabled")
		return
	}
	if err := m.Config.Validate(); err != nil {
		logger.Warnf("Audio disabled: %v", err)
		return
	}

	sm := audio.NewSoundManager(m.Config)
	if err := sm.Initialize(); err != nil {
		logger.Warnf("Audio disabled, speaker init failed: %v", err)
		return
	}
	cmd.AddResources(sm)
	app.UseCleanup(sm.Cleanup)
	app.UseSystem(
		System(burstAudioSystem).
			InStage(PostUpdate),
	)
}

func burstAudioSystem(events *BurstEvents, sm *audio.SoundManager) {
	for _, e := range events.Spawned {
		sm.PlayBurst(e.Count)
	}
}
