package fireworks

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/skyburst/fireworks/audio"
	"github.com/skyburst/fireworks/shape"
	"gopkg.in/yaml.v3"
)

// Config is the whole application configuration, usually read from YAML.
type Config struct {
	Debug     bool             `yaml:"debug"`
	FixedStep time.Duration    `yaml:"fixedStep"`
	Window    WindowConfig     `yaml:"window"`
	Fireworks FireworkSettings `yaml:"fireworks"`
	Textures  TextureConfig    `yaml:"textures"`
	Audio     audio.Config     `yaml:"audio"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	// PixelRatio is capped at 2 like the browser build.
	PixelRatio float32 `yaml:"pixelRatio"`
}

type TextureConfig struct {
	// Dir holds the particle PNGs. Empty means procedural textures.
	Dir   string `yaml:"dir"`
	Size  int    `yaml:"size"`
	Count int    `yaml:"count"`
}

// FireworkSettings are the tunable knobs read by every spawn. Each spawn samples
// base + rand*jitter independently.
type FireworkSettings struct {
	Count        int        `yaml:"count"`
	CountJitter  int        `yaml:"countJitter"`
	Size         float32    `yaml:"size"`
	SizeJitter   float32    `yaml:"sizeJitter"`
	Extent       float32    `yaml:"extent"`
	ExtentJitter float32    `yaml:"extentJitter"`
	Spread       [3]float32 `yaml:"spread"`
	Shape        string     `yaml:"shape"`
	ColorPolicy  string     `yaml:"colorPolicy"`
	Saturation   float32    `yaml:"saturation"`
	Lightness    float32    `yaml:"lightness"`
}

func DefaultFireworkSettings() FireworkSettings {
	return FireworkSettings{
		Count:        400,
		CountJitter:  1000,
		Size:         0.1,
		SizeJitter:   0.1,
		Extent:       0.5,
		ExtentJitter: 1,
		Spread:       [3]float32{2, 1, 2},
		Shape:        "random",
		ColorPolicy:  "random",
		Saturation:   1,
		Lightness:    0.7,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Title:      "Fireworks",
			PixelRatio: 1,
		},
		Fireworks: DefaultFireworkSettings(),
		Textures: TextureConfig{
			Size:  64,
			Count: 8,
		},
		Audio: audio.DefaultConfig(),
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.FixedStep < 0 {
		return fmt.Errorf("fixedStep must be >= 0, got %v", c.FixedStep)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.PixelRatio <= 0 {
		return fmt.Errorf("window pixelRatio must be > 0, got %v", c.Window.PixelRatio)
	}
	if c.Textures.Size <= 0 {
		return fmt.Errorf("textures size must be > 0, got %d", c.Textures.Size)
	}
	if c.Textures.Count <= 0 {
		return fmt.Errorf("textures count must be > 0, got %d", c.Textures.Count)
	}
	if err := c.Fireworks.Validate(); err != nil {
		return fmt.Errorf("fireworks: %w", err)
	}
	if err := c.Audio.Validate(); err != nil {
		return err
	}
	return nil
}

func (s *FireworkSettings) Validate() error {
	if s.Count < 0 || s.CountJitter < 0 {
		return fmt.Errorf("count and countJitter must be >= 0, got %d/%d", s.Count, s.CountJitter)
	}
	if s.Size <= 0 || s.SizeJitter < 0 {
		return fmt.Errorf("size must be > 0 and sizeJitter >= 0, got %v/%v", s.Size, s.SizeJitter)
	}
	if s.Extent <= 0 || s.ExtentJitter < 0 {
		return fmt.Errorf("extent must be > 0 and extentJitter >= 0, got %v/%v", s.Extent, s.ExtentJitter)
	}
	for i, v := range s.Spread {
		if v < 0 {
			return fmt.Errorf("spread[%d] must be >= 0, got %v", i, v)
		}
	}
	if _, err := s.ShapeKind(); err != nil {
		return err
	}
	if _, err := ParseColorPolicy(s.ColorPolicy); err != nil {
		return err
	}
	if s.Saturation < 0 || s.Saturation > 1 || s.Lightness < 0 || s.Lightness > 1 {
		return fmt.Errorf("saturation and lightness must be within [0,1], got %v/%v", s.Saturation, s.Lightness)
	}
	return nil
}

// ShapeKind returns the fixed shape, or zero when every spawn picks at random.
func (s *FireworkSettings) ShapeKind() (shape.Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s.Shape))
	if name == "" || name == "random" {
		return 0, nil
	}
	return shape.ParseKind(name)
}
