// Package config loads orrery's settings from an optional JSON file and
// command-line overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/scene"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Segments sets the tessellation of each mesh kind. Zero fields take the
// default.
type Segments struct {
	Star  int `json:"star"`
	Rocky int `json:"rocky"`
	Gas   int `json:"gas"`
	Moon  int `json:"moon"`
	Ring  int `json:"ring"`
}

// Config holds all render and presentation settings.
type Config struct {
	// Rendering
	FPS      int      `json:"fps"`
	Workers  int      `json:"workers"`
	TileSize int      `json:"tile_size"`
	Segments Segments `json:"segments"`

	// Scene
	Background string `json:"background"` // "R,G,B" or "#rrggbb"; empty for a star field
	Skybox     string `json:"skybox"`
	Model      string `json:"model"` // ship glTF/GLB
	HideOrbits bool   `json:"hide_orbits"`

	// Headless output
	Snapshot string `json:"snapshot"`
	Frames   int    `json:"frames"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Upscale  int    `json:"upscale"`
	Animate  bool   `json:"animate"` // write every frame into an animated WebP

	LogLevel string `json:"log_level"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	FPS        int
	Workers    int
	TileSize   int
	Background string
	Skybox     string
	Model      string
	Snapshot   string
	Frames     int
	Width      int
	Height     int
	Upscale    int
	Animate    bool
	LogLevel   string
}

// Resolve applies flag overrides and fills in defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.TileSize > 0 {
		c.TileSize = flags.TileSize
	}
	if flags.Background != "" {
		c.Background = flags.Background
	}
	if flags.Skybox != "" {
		c.Skybox = flags.Skybox
	}
	if flags.Model != "" {
		c.Model = flags.Model
	}
	if flags.Snapshot != "" {
		c.Snapshot = flags.Snapshot
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Upscale > 0 {
		c.Upscale = flags.Upscale
	}
	if flags.Animate {
		c.Animate = true
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.TileSize <= 0 {
		c.TileSize = render.DefaultTileSize
	}
	if c.Width <= 0 {
		c.Width = 320
	}
	if c.Height <= 0 {
		c.Height = 200
	}
	if c.Upscale <= 0 {
		c.Upscale = 1
	}
	if c.Snapshot != "" && c.Frames <= 0 {
		c.Frames = 1
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	d := scene.DefaultTessellation
	c.Segments.Star = orDefault(c.Segments.Star, d.Star)
	c.Segments.Rocky = orDefault(c.Segments.Rocky, d.Rocky)
	c.Segments.Gas = orDefault(c.Segments.Gas, d.Gas)
	c.Segments.Moon = orDefault(c.Segments.Moon, d.Moon)
	c.Segments.Ring = orDefault(c.Segments.Ring, d.Ring)
}

func orDefault(v, d int) int {
	if v <= 0 {
		return d
	}
	return v
}

// Validate reports settings Resolve cannot repair.
func (c *Config) Validate() error {
	var errs []error
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames %d: %w", c.Frames, ErrInvalid))
	}
	if c.Upscale > 16 {
		errs = append(errs, fmt.Errorf("upscale %d exceeds 16: %w", c.Upscale, ErrInvalid))
	}
	if c.Background != "" {
		if _, err := ParseColor(c.Background); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Snapshot != "" {
		format, err := render.FormatFromPath(c.Snapshot)
		if err != nil {
			errs = append(errs, fmt.Errorf("snapshot: %w", err))
		} else if c.Animate && format != "webp" {
			errs = append(errs, fmt.Errorf("animation needs a .webp snapshot: %w", ErrInvalid))
		}
	}
	return errors.Join(errs...)
}

// Headless reports whether frames go to a file instead of the terminal.
func (c *Config) Headless() bool {
	return c.Snapshot != ""
}

// Tessellation returns the segment counts as a scene.Tessellation.
func (c *Config) Tessellation() scene.Tessellation {
	return scene.Tessellation{
		Star:  c.Segments.Star,
		Rocky: c.Segments.Rocky,
		Gas:   c.Segments.Gas,
		Moon:  c.Segments.Moon,
		Ring:  c.Segments.Ring,
	}
}

// Tiles returns the rasterizer tiling options.
func (c *Config) Tiles() render.TileOptions {
	return render.TileOptions{TileSize: c.TileSize, Workers: c.Workers}
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, ErrInvalid)
	}
	return l, nil
}

// ParseColor accepts "R,G,B" with components 0-255 or a "#rrggbb" hex
// string.
func ParseColor(s string) (render.Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return render.Color{}, fmt.Errorf("color %q: %w", s, ErrInvalid)
		}
		r, g, b := c.RGB255()
		return render.RGB(r, g, b), nil
	}

	var r, g, b int
	if n, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil || n != 3 {
		return render.Color{}, fmt.Errorf("color %q: want R,G,B: %w", s, ErrInvalid)
	}
	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return render.Color{}, fmt.Errorf("color %q: component %d out of range: %w", s, v, ErrInvalid)
		}
	}
	return render.RGB(uint8(r), uint8(g), uint8(b)), nil
}
