package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/framestream/internal/raster"
	"github.com/san-kum/framestream/internal/sim"
)

const (
	DefaultScene      = "lens"
	DefaultWidth      = 800
	DefaultHeight     = 800
	DefaultFrames     = 600
	DefaultScale      = 1
	DefaultTrail      = "clear"
	DefaultBackground = "#000000"
	DefaultFade       = "#0000000f"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Scene      string             `yaml:"scene"`
	Width      int                `yaml:"width"`
	Height     int                `yaml:"height"`
	Frames     int                `yaml:"frames"`
	Seed       int64              `yaml:"seed"`
	Scale      int                `yaml:"scale"`
	Format     string             `yaml:"format"`
	Trail      string             `yaml:"trail"`
	Background string             `yaml:"background"`
	Fade       string             `yaml:"fade"`
	Out        string             `yaml:"out,omitempty"`
	Params     map[string]float64 `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:      DefaultScene,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Frames:     DefaultFrames,
		Scale:      DefaultScale,
		Format:     raster.FormatRGB.String(),
		Trail:      DefaultTrail,
		Background: DefaultBackground,
		Fade:       DefaultFade,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field that can be checked without building a scene.
func (c *Config) Validate() error {
	if c.Scene == "" {
		return fmt.Errorf("%w: scene is required", ErrInvalid)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative, got %d", ErrInvalid, c.Frames)
	}
	if c.Scale < 1 {
		return fmt.Errorf("%w: scale must be at least 1, got %d", ErrInvalid, c.Scale)
	}
	if _, err := c.CanvasFormat(); err != nil {
		return err
	}
	if _, err := sim.ParseTrail(c.Trail); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := raster.ParseHex(c.Background); err != nil {
		return fmt.Errorf("%w: background: %v", ErrInvalid, err)
	}
	if _, err := raster.ParseHex(c.Fade); err != nil {
		return fmt.Errorf("%w: fade: %v", ErrInvalid, err)
	}
	return nil
}

func (c *Config) CanvasFormat() (raster.Format, error) {
	switch c.Format {
	case "", "rgb":
		return raster.FormatRGB, nil
	case "rgba":
		return raster.FormatRGBA, nil
	}
	return 0, fmt.Errorf("%w: unknown format %q", ErrInvalid, c.Format)
}

// SimConfig converts the file-level settings into runner settings.
func (c *Config) SimConfig() (sim.Config, error) {
	trail, err := sim.ParseTrail(c.Trail)
	if err != nil {
		return sim.Config{}, err
	}
	bg, err := raster.ParseHex(c.Background)
	if err != nil {
		return sim.Config{}, err
	}
	fade, err := raster.ParseHex(c.Fade)
	if err != nil {
		return sim.Config{}, err
	}
	return sim.Config{
		Frames:     c.Frames,
		Trail:      trail,
		Background: bg,
		Fade:       fade,
	}, nil
}

// NewCanvas allocates a canvas of the configured size, format and background.
func (c *Config) NewCanvas() (*raster.Canvas, error) {
	format, err := c.CanvasFormat()
	if err != nil {
		return nil, err
	}
	bg, err := raster.ParseHex(c.Background)
	if err != nil {
		return nil, err
	}
	return raster.New(c.Width, c.Height, bg, raster.WithFormat(format))
}
