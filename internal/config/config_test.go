package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/scene"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orrery.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"fps": 24,
		"background": "#102030",
		"segments": {"star": 40, "ring": 64},
		"snapshot": "out.webp",
		"animate": true
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FPS != 24 || cfg.Background != "#102030" || cfg.Snapshot != "out.webp" || !cfg.Animate {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Segments.Star != 40 || cfg.Segments.Ring != 64 || cfg.Segments.Moon != 0 {
		t.Errorf("segments = %+v", cfg.Segments)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
	if _, err := Load(writeConfig(t, `{"fps": "fast"}`)); err == nil {
		t.Error("expected a parse error")
	}
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	if cfg.FPS != 30 || cfg.Workers != runtime.NumCPU() || cfg.TileSize != render.DefaultTileSize {
		t.Errorf("render defaults = %+v", cfg)
	}
	if cfg.Upscale != 1 || cfg.LogLevel != "info" || cfg.Frames != 0 {
		t.Errorf("output defaults = %+v", cfg)
	}
	if cfg.Tessellation() != scene.DefaultTessellation {
		t.Errorf("Tessellation = %+v, want %+v", cfg.Tessellation(), scene.DefaultTessellation)
	}
	if cfg.Headless() {
		t.Error("no snapshot should mean interactive")
	}
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{FPS: 24, Background: "1,2,3", Segments: Segments{Moon: 12}}
	cfg.Resolve(Flags{FPS: 60, Background: "#ffffff", Snapshot: "frame.png", Workers: 3})

	if cfg.FPS != 60 || cfg.Background != "#ffffff" || cfg.Workers != 3 {
		t.Errorf("flags did not override: %+v", cfg)
	}
	if cfg.Frames != 1 {
		t.Errorf("snapshot without frames = %d frames, want 1", cfg.Frames)
	}
	if cfg.Segments.Moon != 12 || cfg.Segments.Star != scene.DefaultTessellation.Star {
		t.Errorf("segments = %+v", cfg.Segments)
	}
	if got := cfg.Tiles(); got.Workers != 3 || got.TileSize != render.DefaultTileSize {
		t.Errorf("Tiles = %+v", got)
	}
	if !cfg.Headless() {
		t.Error("snapshot should mean headless")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    render.Color
		wantErr bool
	}{
		{"30,30,40", render.RGB(30, 30, 40), false},
		{" 0,0,0 ", render.RGB(0, 0, 0), false},
		{"#ff8000", render.RGB(255, 128, 0), false},
		{"#FFAA44", render.RGB(255, 170, 68), false},
		{"256,0,0", render.Color{}, true},
		{"1,2", render.Color{}, true},
		{"#12", render.Color{}, true},
		{"blue", render.Color{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("err = %v, want ErrInvalid", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("ParseColor = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tc := range tests {
		cfg := Config{LogLevel: tc.in}
		if got, err := cfg.Level(); err != nil || got != tc.want {
			t.Errorf("Level(%q) = %v, %v, want %v", tc.in, got, err, tc.want)
		}
	}
	cfg := Config{LogLevel: "loud"}
	if _, err := cfg.Level(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Level(loud) = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"png snapshot", func(c *Config) { c.Snapshot = "a.png" }, nil},
		{"animated webp", func(c *Config) { c.Snapshot = "a.webp"; c.Animate = true }, nil},
		{"animated png", func(c *Config) { c.Snapshot = "a.png"; c.Animate = true }, ErrInvalid},
		{"bmp snapshot", func(c *Config) { c.Snapshot = "a.bmp" }, render.ErrUnsupportedFormat},
		{"bad background", func(c *Config) { c.Background = "red" }, ErrInvalid},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, ErrInvalid},
		{"huge upscale", func(c *Config) { c.Upscale = 64 }, ErrInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			cfg.Resolve(Flags{})
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
