package fireworks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skyburst/fireworks/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	kind, err := cfg.Fireworks.ShapeKind()
	require.NoError(t, err)
	assert.Equal(t, shape.Kind(0), kind)
}

func TestParseConfig_OverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
debug: true
fixedStep: 20ms
window:
  width: 800
  height: 600
fireworks:
  count: 100
  countJitter: 0
  shape: cube
  colorPolicy: shared
  spread: [1, 0.5, 1]
audio:
  enabled: false
`))
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 20*time.Millisecond, cfg.FixedStep)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, "Fireworks", cfg.Window.Title)
	assert.Equal(t, 100, cfg.Fireworks.Count)
	assert.Equal(t, 0, cfg.Fireworks.CountJitter)
	assert.Equal(t, [3]float32{1, 0.5, 1}, cfg.Fireworks.Spread)
	assert.Equal(t, float32(0.7), cfg.Fireworks.Lightness)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, 44100, cfg.Audio.SampleRate)

	kind, err := cfg.Fireworks.ShapeKind()
	require.NoError(t, err)
	assert.Equal(t, shape.Cube, kind)
}

func TestParseConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":       "window: [",
		"unknown shape":  "fireworks:\n  shape: torus\n",
		"unknown colors": "fireworks:\n  colorPolicy: rainbow\n",
		"negative count": "fireworks:\n  count: -1\n",
		"zero size":      "fireworks:\n  size: 0\n",
		"lightness":      "fireworks:\n  lightness: 2\n",
		"window":         "window:\n  width: 0\n",
		"textures":       "textures:\n  count: 0\n",
		"audio":          "audio:\n  maxVoices: 0\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fireworks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fireworks:\n  extent: 2\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, float32(2), cfg.Fireworks.Extent)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseColorPolicy(t *testing.T) {
	for name, want := range map[string]ColorPolicy{
		"":             ColorRandom,
		"random":       ColorRandom,
		"Shared":       ColorShared,
		"perParticle":  ColorPerParticle,
		"per-particle": ColorPerParticle,
	} {
		got, err := ParseColorPolicy(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseColorPolicy("rainbow")
	assert.Error(t, err)
	assert.Equal(t, "perParticle", ColorPerParticle.String())
}
