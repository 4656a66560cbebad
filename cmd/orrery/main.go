// orrery - a procedural solar system in your terminal.
//
// Controls:
//
//	W/A/S/D, arrows - Move across the orbital plane
//	R/F             - Move up/down
//	Shift + move    - Boost
//	+/-             - Zoom in/out
//	1-6             - Warp to a body
//	Shift+1-6       - Show/hide a body
//	O               - Toggle orbit lines
//	V               - Toggle the ship
//	P               - Save a snapshot
//	Esc             - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/orrery/internal/config"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/scene"
)

var (
	configPath   = flag.String("config", "", "Path to JSON config file")
	targetFPS    = flag.Int("fps", 0, "Target FPS (default 30)")
	workers      = flag.Int("workers", 0, "Rasterizer workers (default: number of CPUs)")
	tileSize     = flag.Int("tile", 0, "Rasterizer tile size in pixels")
	bgColor      = flag.String("bg", "", "Background color (R,G,B or #rrggbb); default is a star field")
	skyboxPath   = flag.String("skybox", "", "Path to skybox image (PNG/JPG/TGA)")
	modelPath    = flag.String("model", "", "Path to ship model (.glb/.gltf)")
	snapshotPath = flag.String("snapshot", "", "Render headless and write the last frame to this .png/.webp")
	frameCount   = flag.Int("frames", 0, "Frames to render in headless mode (default 1)")
	frameWidth   = flag.Int("width", 0, "Headless frame width")
	frameHeight  = flag.Int("height", 0, "Headless frame height")
	upscale      = flag.Int("upscale", 0, "Headless upscale factor")
	smooth       = flag.Bool("smooth", false, "Use Catmull-Rom instead of nearest-neighbour upscaling")
	animate      = flag.Bool("animate", false, "Write every headless frame into an animated WebP")
	logEnabled   = flag.Bool("log", false, "Log to stderr")
	logLevel     = flag.String("log-level", "", "Log level: debug, info, warn, error")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "orrery - Procedural Solar System\n\n")
		fmt.Fprintf(os.Stderr, "Usage: orrery [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/A/S/D     - Move (arrows work too)\n")
		fmt.Fprintf(os.Stderr, "  R/F         - Move up/down\n")
		fmt.Fprintf(os.Stderr, "  Shift       - Boost while moving\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  1-6         - Warp to a body\n")
		fmt.Fprintf(os.Stderr, "  Shift+1-6   - Show/hide a body\n")
		fmt.Fprintf(os.Stderr, "  O           - Toggle orbits\n")
		fmt.Fprintf(os.Stderr, "  V           - Toggle ship\n")
		fmt.Fprintf(os.Stderr, "  P           - Save snapshot\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	var cfg config.Config
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}
	cfg.Resolve(config.Flags{
		FPS:        *targetFPS,
		Workers:    *workers,
		TileSize:   *tileSize,
		Background: *bgColor,
		Skybox:     *skyboxPath,
		Model:      *modelPath,
		Snapshot:   *snapshotPath,
		Frames:     *frameCount,
		Width:      *frameWidth,
		Height:     *frameHeight,
		Upscale:    *upscale,
		Animate:    *animate,
		LogLevel:   *logLevel,
	})
	return cfg, cfg.Validate()
}

// newSystem builds the scene from the resolved config.
func newSystem(cfg config.Config) (*scene.System, error) {
	sys := scene.NewSystem()
	sys.Tessellation = cfg.Tessellation()
	sys.Tiles = cfg.Tiles()
	sys.ShowOrbits = !cfg.HideOrbits

	switch {
	case cfg.Skybox != "":
		sky, err := render.LoadSkybox(cfg.Skybox)
		if err != nil {
			return nil, err
		}
		sys.Background = sky
	case cfg.Background != "":
		c, err := config.ParseColor(cfg.Background)
		if err != nil {
			return nil, err
		}
		sys.Background = render.Solid(c)
	}

	if cfg.Model != "" {
		mesh, err := models.LoadGLB(cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		if err := sys.SetShip(mesh); err != nil {
			return nil, err
		}
		render.Logger().Info("ship loaded",
			slog.String("path", cfg.Model),
			slog.Int("vertices", mesh.VertexCount()),
			slog.Int("triangles", mesh.TriangleCount()))
	}
	return sys, nil
}

// renderFrame draws one frame. Bodies that failed to build were already
// logged by the scene, so only other errors are returned.
func renderFrame(ctx context.Context, sys *scene.System, r *render.Rasterizer) error {
	r.ResetStats()
	err := sys.Render(ctx, r)
	var be *scene.BuildError
	if err != nil && !errors.As(err, &be) {
		return err
	}
	st := r.Stats()
	render.Logger().Debug("frame",
		slog.Int64("triangles", st.Triangles),
		slog.Int64("culled", st.Culled+st.Offscreen),
		slog.Int64("shaded", st.Shaded))
	return nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if *logEnabled {
		level, _ := cfg.Level() // validated above
		render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	sys, err := newSystem(cfg)
	if err != nil {
		return err
	}

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if cfg.Headless() {
		return runHeadless(ctx, sys, cfg)
	}
	return runTerminal(ctx, sys, cfg)
}

// runHeadless renders cfg.Frames frames off screen and writes the result.
func runHeadless(ctx context.Context, sys *scene.System, cfg config.Config) error {
	fb := render.NewFramebuffer(cfg.Width, cfg.Height)
	r := render.NewRasterizer(fb)
	dt := 1 / float64(cfg.FPS)

	var frames []image.Image
	for i := range cfg.Frames {
		if i > 0 {
			sys.Advance(dt, scene.Input{})
		}
		if err := renderFrame(ctx, sys, r); err != nil {
			return err
		}
		if cfg.Animate {
			frames = append(frames, render.Upscale(fb.ToImage(), cfg.Upscale, *smooth))
		}
	}

	if cfg.Animate {
		f, err := os.Create(cfg.Snapshot)
		if err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		if err := render.EncodeAnimation(f, frames, uint(1000/cfg.FPS)); err != nil {
			f.Close()
			return fmt.Errorf("encode animation: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	} else if err := render.SaveImage(cfg.Snapshot, render.Upscale(fb.ToImage(), cfg.Upscale, *smooth)); err != nil {
		return err
	}

	render.Logger().Info("snapshot written",
		slog.String("path", cfg.Snapshot),
		slog.Int("frames", cfg.Frames))
	return nil
}

// intent is held keyboard input. Terminals rarely report key releases, so
// it decays every frame instead of waiting for one.
type intent struct {
	move  math3d.Vec3
	zoom  float64
	boost bool
}

func (in *intent) decay() {
	in.move = in.move.Scale(0.85)
	in.zoom *= 0.85
	if in.move.Len() < 0.05 {
		in.move = math3d.Vec3{}
		in.boost = false
	}
	if in.zoom > -0.05 && in.zoom < 0.05 {
		in.zoom = 0
	}
}

// press records a movement key. It reports false for other keys.
func (in *intent) press(ev uv.KeyPressEvent) bool {
	switch {
	case ev.MatchString("w", "up"):
		in.move.Z = -1
	case ev.MatchString("s", "down"):
		in.move.Z = 1
	case ev.MatchString("a", "left"):
		in.move.X = -1
	case ev.MatchString("d", "right"):
		in.move.X = 1
	case ev.MatchString("r"):
		in.move.Y = 1
	case ev.MatchString("f"):
		in.move.Y = -1
	case ev.MatchString("W", "shift+w", "shift+up"):
		in.move.Z, in.boost = -1, true
	case ev.MatchString("S", "shift+s", "shift+down"):
		in.move.Z, in.boost = 1, true
	case ev.MatchString("A", "shift+a", "shift+left"):
		in.move.X, in.boost = -1, true
	case ev.MatchString("D", "shift+d", "shift+right"):
		in.move.X, in.boost = 1, true
	case ev.Text == "+" || ev.MatchString("="):
		// "+" cannot be spelled in MatchString
		in.zoom = 1
	case ev.MatchString("-", "_"):
		in.zoom = -1
	default:
		return false
	}
	return true
}

func (in *intent) input() scene.Input {
	return scene.Input{Move: in.move, Zoom: in.zoom, Boost: in.boost}
}

var (
	warpKeys   = []string{"1", "2", "3", "4", "5", "6"}
	toggleKeys = []string{"!", "@", "#", "$", "%", "^"}
)

func runTerminal(ctx context.Context, sys *scene.System, cfg config.Config) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fb := render.NewFramebuffer(render.FramebufferSize(width, height))
	rasterizer := render.NewRasterizer(fb)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	var (
		held intent
		quit bool
	)
	handle := func(ev uv.Event) {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			fb = render.NewFramebuffer(render.FramebufferSize(width, height))
			rasterizer = render.NewRasterizer(fb)

		case uv.KeyPressEvent:
			if held.press(ev) {
				return
			}
			switch {
			case ev.MatchString("escape", "ctrl+c"):
				quit = true
			case ev.MatchString("o"):
				sys.ShowOrbits = !sys.ShowOrbits
			case ev.MatchString("v"):
				sys.ShowShip = !sys.ShowShip
			case ev.MatchString("p"):
				path := fmt.Sprintf("orrery-%s.png", time.Now().Format("20060102-150405"))
				if err := render.SaveImage(path, fb.Front()); err != nil {
					render.Logger().Warn("snapshot failed", slog.Any("error", err))
				} else {
					render.Logger().Info("snapshot written", slog.String("path", path))
				}
			default:
				for i := range warpKeys {
					switch {
					case ev.MatchString(warpKeys[i]):
						if err := sys.WarpTo(i); err != nil {
							render.Logger().Warn("warp failed", slog.Any("error", err))
						}
					case ev.MatchString(toggleKeys[i], "shift+"+warpKeys[i]):
						if name, visible, err := sys.ToggleBody(i); err == nil {
							render.Logger().Info("body toggled", slog.String("body", name), slog.Bool("visible", visible))
						}
					}
				}
			}
		}
	}

	// Main loop
	targetDuration := time.Second / time.Duration(cfg.FPS)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// drain pending input without blocking the frame
	events:
		for {
			select {
			case ev := <-term.Events():
				handle(ev)
			default:
				break events
			}
		}
		if quit {
			return nil
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		sys.Advance(dt, held.input())
		held.decay()

		if err := renderFrame(ctx, sys, rasterizer); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fb.Swap()

		term.Draw(fb)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
