// Package scene composes the solar system: it places bodies on their
// orbits, projects them through the camera, and hands the rasterizer one
// shaded batch per visible object.
package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/shade"
)

// MaxStep is the largest time step Advance takes in one call, in seconds.
const MaxStep = 0.05

// Ship placement relative to the camera.
const (
	shipScale    = 90.0
	shipDistance = 140.0
	shipBob      = 20.0
)

// ErrNoSuchBody is returned when a body index or name does not exist.
var ErrNoSuchBody = errors.New("no such body")

// System is the whole scene: bodies, camera, ship and display toggles.
// It is not safe for concurrent use; drive it from one goroutine.
type System struct {
	Bodies       []Body
	Camera       *Camera
	Tessellation Tessellation
	Background   render.Background
	Tiles        render.TileOptions

	ShowOrbits bool
	ShowShip   bool

	// Time is the scene clock in seconds.
	Time float64

	hidden    map[string]bool
	ship      []render.Triangle
	shipBound float64
	meshes    meshCache
}

// NewSystem returns the default six-body system with the built-in ship
// and a star field background.
func NewSystem() *System {
	s := &System{
		Bodies:       DefaultBodies(),
		Camera:       NewCamera(),
		Tessellation: DefaultTessellation,
		Background:   render.Starfield{Base: render.RGB(4, 4, 12), Density: 0.002, Seed: 1},
		ShowOrbits:   true,
		ShowShip:     true,
		hidden:       make(map[string]bool),
	}
	// the dart is valid by construction
	_ = s.SetShip(models.Dart())
	return s
}

// SetShip replaces the ship mesh. A normalized copy is kept, so m is
// left untouched and may be any size.
func (s *System) SetShip(m *models.Mesh) error {
	if m == nil || len(m.Faces) == 0 {
		return fmt.Errorf("ship: %w", models.ErrNoGeometry)
	}
	ship := m.Clone()
	ship.NormalizeToUnit()
	s.ship = ship.Triangles()

	// radius of the farthest bounding box corner
	lo, hi := ship.GetBounds()
	s.shipBound = math3d.V3(
		math.Max(math.Abs(lo.X), math.Abs(hi.X)),
		math.Max(math.Abs(lo.Y), math.Abs(hi.Y)),
		math.Max(math.Abs(lo.Z), math.Abs(hi.Z)),
	).Len()
	return nil
}

// Body returns the body named name.
func (s *System) Body(name string) (*Body, error) {
	for i := range s.Bodies {
		if s.Bodies[i].Name == name {
			return &s.Bodies[i], nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrNoSuchBody)
}

// SetHidden shows or hides a body together with its moon and ring.
func (s *System) SetHidden(name string, hidden bool) {
	if s.hidden == nil {
		s.hidden = make(map[string]bool)
	}
	if hidden {
		s.hidden[name] = true
	} else {
		delete(s.hidden, name)
	}
}

// Hidden reports whether the named body is hidden.
func (s *System) Hidden(name string) bool {
	return s.hidden[name]
}

// ToggleBody flips the visibility of body i and returns its name and
// whether it is now visible.
func (s *System) ToggleBody(i int) (string, bool, error) {
	if i < 0 || i >= len(s.Bodies) {
		return "", false, fmt.Errorf("body %d: %w", i, ErrNoSuchBody)
	}
	name := s.Bodies[i].Name
	s.SetHidden(name, !s.Hidden(name))
	return name, !s.Hidden(name), nil
}

// WarpTo starts a warp to the current position of body i.
func (s *System) WarpTo(i int) error {
	if i < 0 || i >= len(s.Bodies) {
		return fmt.Errorf("body %d: %w", i, ErrNoSuchBody)
	}
	s.Camera.StartWarp(s.Bodies[i].Position(s.Time))
	return nil
}

// Advance steps the clock and the camera by dt seconds (at most MaxStep).
func (s *System) Advance(dt float64, in Input) {
	dt = math3d.Clamp(dt, 0, MaxStep)
	s.Time += dt
	s.Camera.Update(in, dt)
	if _, warping := s.Camera.Warping(); !warping {
		s.Camera.ResolveCollisions(s.Blockers())
	}
}

// Blockers returns the collision volumes of every visible body and moon.
func (s *System) Blockers() []Blocker {
	var out []Blocker
	for i := range s.Bodies {
		b := &s.Bodies[i]
		if s.Hidden(b.Name) {
			continue
		}
		out = append(out, Blocker{Center: b.Position(s.Time), Radius: b.CollisionRadius})
		if p, ok := b.MoonPosition(s.Time); ok {
			out = append(out, Blocker{Center: p, Radius: b.Moon.Scale * 0.6})
		}
	}
	return out
}

// starPosition returns the first visible star.
func (s *System) starPosition() (math3d.Vec3, bool) {
	for i := range s.Bodies {
		b := &s.Bodies[i]
		if b.Surface == SurfaceStar && !s.Hidden(b.Name) {
			return b.Position(s.Time), true
		}
	}
	return math3d.Vec3{}, false
}

// lightAt returns the view-space direction from world point p toward the
// star, or the default light when there is none.
func (s *System) lightAt(p math3d.Vec3) math3d.Vec3 {
	star, ok := s.starPosition()
	if !ok {
		return shade.DefaultLight
	}
	d := s.Camera.ViewDir(star.Sub(p))
	if d.LenSq() < 1e-12 {
		return shade.DefaultLight
	}
	return d.Normalize()
}
