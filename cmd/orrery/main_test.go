package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/orrery/internal/config"
	"github.com/taigrr/orrery/pkg/math3d"
)

func TestIntentPress(t *testing.T) {
	tests := []struct {
		name  string
		ev    uv.KeyPressEvent
		move  math3d.Vec3
		zoom  float64
		boost bool
	}{
		{"w", uv.KeyPressEvent{Code: 'w', Text: "w"}, math3d.V3(0, 0, -1), 0, false},
		{"shift w", uv.KeyPressEvent{Code: 'w', Mod: uv.ModShift, Text: "W"}, math3d.V3(0, 0, -1), 0, true},
		{"left arrow", uv.KeyPressEvent{Code: uv.KeyLeft}, math3d.V3(-1, 0, 0), 0, false},
		{"r rises", uv.KeyPressEvent{Code: 'r', Text: "r"}, math3d.V3(0, 1, 0), 0, false},
		{"zoom in", uv.KeyPressEvent{Code: '+', Text: "+"}, math3d.Vec3{}, 1, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var in intent
			if !in.press(tc.ev) {
				t.Fatal("key not handled")
			}
			if in.move != tc.move || in.zoom != tc.zoom || in.boost != tc.boost {
				t.Errorf("intent = %+v, want move %v zoom %v boost %v", in, tc.move, tc.zoom, tc.boost)
			}
		})
	}

	var in intent
	if in.press(uv.KeyPressEvent{Code: 'o', Text: "o"}) {
		t.Error("o is not a movement key")
	}
}

func TestIntentDecays(t *testing.T) {
	in := intent{move: math3d.V3(1, 0, 0), zoom: -1, boost: true}
	in.decay()
	if in.move.X != 0.85 || in.zoom != -0.85 || !in.boost {
		t.Fatalf("after one frame: %+v", in)
	}
	for range 30 {
		in.decay()
	}
	if in.move != (math3d.Vec3{}) || in.zoom != 0 || in.boost {
		t.Errorf("held input never released: %+v", in)
	}
}

func TestRunHeadless(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	cfg := config.Config{Snapshot: out, Frames: 3, Width: 64, Height: 40, Upscale: 2}
	cfg.Resolve(config.Flags{})
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	sys, err := newSystem(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := runHeadless(context.Background(), sys, cfg); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 80 {
		t.Errorf("snapshot is %dx%d, want 128x80", b.Dx(), b.Dy())
	}
	if sys.Time <= 0 {
		t.Error("scene clock did not advance between frames")
	}
}

func TestRunHeadlessAnimation(t *testing.T) {
	out := filepath.Join(t.TempDir(), "orbit.webp")
	cfg := config.Config{Snapshot: out, Frames: 4, Width: 48, Height: 32, Animate: true, Background: "#000010"}
	cfg.Resolve(config.Flags{})
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	sys, err := newSystem(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := runHeadless(context.Background(), sys, cfg); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Error("animation is not a RIFF/WebP file")
	}
}

func TestNewSystemBadModel(t *testing.T) {
	cfg := config.Config{Model: filepath.Join(t.TempDir(), "missing.glb")}
	cfg.Resolve(config.Flags{})
	if _, err := newSystem(cfg); err == nil {
		t.Error("expected an error for a missing model")
	}
}
