package scene

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/taigrr/orrery/pkg/geometry"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/shade"
)

var bg = render.RGB(1, 2, 3)

// Frame size used by the render tests. At t=0 the star projects to
// (80, 36) with a radius of 17.5 pixels and nothing else covers it.
const (
	frameW, frameH = 160, 100
	starX, starY   = 80, 36
)

func testSystem() *System {
	s := NewSystem()
	s.Background = render.Solid(bg)
	s.ShowOrbits = false
	s.ShowShip = false
	return s
}

func renderFrame(t *testing.T, s *System, opts render.TileOptions) (*render.Framebuffer, error) {
	t.Helper()
	fb := render.NewFramebuffer(frameW, frameH)
	s.Tiles = opts
	err := s.Render(context.Background(), render.NewRasterizer(fb))
	return fb, err
}

func TestDefaultBodies(t *testing.T) {
	bodies := DefaultBodies()
	names := []string{"Helios", "Azura", "Aurelia", "Zephyrus", "Pyra", "Cryon"}
	if len(bodies) != len(names) {
		t.Fatalf("got %d bodies, want %d", len(bodies), len(names))
	}
	for i, b := range bodies {
		if b.Name != names[i] {
			t.Errorf("body %d = %s, want %s", i, b.Name, names[i])
		}
		if b.CollisionRadius <= b.Scale {
			t.Errorf("%s: collision radius %v inside surface %v", b.Name, b.CollisionRadius, b.Scale)
		}
	}
	if bodies[0].Surface != SurfaceStar || bodies[0].OrbitRadius != 0 {
		t.Error("first body should be the star at the origin")
	}
	if bodies[2].Moon == nil || bodies[4].Moon == nil || bodies[3].Ring == nil {
		t.Error("Aurelia and Pyra need moons, Zephyrus a ring")
	}
}

func TestBodyPosition(t *testing.T) {
	for _, b := range DefaultBodies() {
		t.Run(b.Name, func(t *testing.T) {
			for _, tm := range []float64{0, 1.3, 17} {
				p := b.Position(tm)
				if p.Y != 0 || math.Abs(p.Len()-b.OrbitRadius) > 1e-9 {
					t.Errorf("t=%v: %v is not on the orbit of radius %v", tm, p, b.OrbitRadius)
				}
				if m, ok := b.MoonPosition(tm); ok {
					if d := m.Distance(p); math.Abs(d-b.Moon.OrbitRadius) > 1e-9 {
						t.Errorf("t=%v: moon %v from planet, want %v", tm, d, b.Moon.OrbitRadius)
					}
				}
			}
		})
	}
}

func TestAdvanceClampsStep(t *testing.T) {
	s := testSystem()
	s.Advance(1, Input{})
	if s.Time != MaxStep {
		t.Errorf("Time = %v, want %v", s.Time, MaxStep)
	}
	s.Advance(-1, Input{})
	if s.Time != MaxStep {
		t.Errorf("negative step moved the clock to %v", s.Time)
	}
}

func TestWarpTo(t *testing.T) {
	s := testSystem()
	if err := s.WarpTo(99); !errors.Is(err, ErrNoSuchBody) {
		t.Errorf("WarpTo(99) = %v, want ErrNoSuchBody", err)
	}

	target := s.Bodies[2].Position(s.Time)
	if err := s.WarpTo(2); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Camera.Warping(); !ok {
		t.Fatal("warp did not start")
	}
	for range 30 {
		s.Advance(MaxStep, Input{})
	}
	if _, ok := s.Camera.Warping(); ok {
		t.Fatal("warp did not finish")
	}
	// a passing moon may nudge the camera after arrival
	if d := s.Camera.Position.Distance(target); d > 30 {
		t.Errorf("camera %v from the warp target", d)
	}
}

func TestCollisionKeepsCameraOut(t *testing.T) {
	s := testSystem()
	s.Camera.Position = math3d.V3(20, 0, -10) // inside the star
	s.Advance(MaxStep, Input{})
	star := s.Bodies[0]
	if d := math.Hypot(s.Camera.Position.X, s.Camera.Position.Z); d < star.CollisionRadius {
		t.Errorf("camera %v from the star, want at least %v", d, star.CollisionRadius)
	}
}

func TestBlockers(t *testing.T) {
	s := testSystem()
	if got := len(s.Blockers()); got != 8 {
		t.Errorf("got %d blockers, want 6 bodies + 2 moons", got)
	}
	s.SetHidden("Aurelia", true)
	if got := len(s.Blockers()); got != 6 {
		t.Errorf("got %d blockers with Aurelia hidden, want 6", got)
	}
}

func TestToggleBody(t *testing.T) {
	s := testSystem()
	name, visible, err := s.ToggleBody(3)
	if err != nil || name != "Zephyrus" || visible {
		t.Fatalf("ToggleBody(3) = %q, %v, %v", name, visible, err)
	}
	if !s.Hidden("Zephyrus") {
		t.Error("Zephyrus should be hidden")
	}
	if _, visible, _ = s.ToggleBody(3); !visible {
		t.Error("second toggle should show it again")
	}
	if _, _, err := s.ToggleBody(-1); !errors.Is(err, ErrNoSuchBody) {
		t.Errorf("ToggleBody(-1) = %v, want ErrNoSuchBody", err)
	}
	if _, err := s.Body("Nemo"); !errors.Is(err, ErrNoSuchBody) {
		t.Errorf("Body(Nemo) = %v, want ErrNoSuchBody", err)
	}
}

func TestObjects(t *testing.T) {
	s := testSystem()
	s.ShowShip = true
	objs, err := s.Objects()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"Helios", "Azura", "Aurelia", "Aurelia moon", "Zephyrus", "Zephyrus ring",
		"Pyra", "Pyra moon", "Cryon", "ship",
	}
	if len(objs) != len(want) {
		t.Fatalf("got %d objects, want %d", len(objs), len(want))
	}
	for i, o := range objs {
		if o.Name != want[i] {
			t.Errorf("object %d = %s, want %s", i, o.Name, want[i])
		}
		if len(o.Triangles) == 0 {
			t.Errorf("%s has no triangles", o.Name)
		}
	}
	if objs[0].Uniforms.Kind() != shade.KindStar || objs[9].Uniforms.Kind() != shade.KindHull {
		t.Error("star and ship got the wrong shaders")
	}

	s.SetHidden("Pyra", true)
	objs, _ = s.Objects()
	for _, o := range objs {
		if o.Name == "Pyra" || o.Name == "Pyra moon" {
			t.Errorf("%s drawn while hidden", o.Name)
		}
	}
}

func TestMeshCacheShares(t *testing.T) {
	s := testSystem()
	a, _ := s.Objects()
	b, _ := s.Objects()
	// Azura (rocky) and Aurelia (rocky) share one sphere
	if &a[1].Triangles[0] != &a[2].Triangles[0] {
		t.Error("same tessellation built twice")
	}
	if &a[0].Triangles[0] != &b[0].Triangles[0] {
		t.Error("mesh rebuilt between frames")
	}

	s.Tessellation.Star = 12
	c, _ := s.Objects()
	if len(c[0].Triangles) != 2*12*12 {
		t.Errorf("star has %d triangles after retessellation, want %d", len(c[0].Triangles), 2*12*12)
	}
}

func TestLightFollowsStar(t *testing.T) {
	s := testSystem()
	l := s.lightAt(math3d.V3(300, 0, 0))
	if l.X >= 0 || math.Abs(l.Len()-1) > 1e-9 {
		t.Errorf("light at +x = %v, want unit vector toward -x", l)
	}
	// a body between camera and star is lit from behind
	if l := s.lightAt(math3d.V3(0, 0, -100)); l.Z >= 0 {
		t.Errorf("light on near side = %v, want pointing away from viewer", l)
	}

	s.SetHidden("Helios", true)
	if l := s.lightAt(math3d.V3(300, 0, 0)); l != shade.DefaultLight {
		t.Errorf("light without a star = %v, want default", l)
	}
}

func TestProject(t *testing.T) {
	c := NewCamera()
	c.Position = math3d.Vec3{}
	tri := render.Triangle{V: [3]render.Vertex{
		{Position: math3d.V3(0, 0, 0), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(1, 0, 0), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(0, 1, 1), Normal: math3d.V3(0, 0, 1)},
	}}
	o := Object{
		Triangles: []render.Triangle{tri},
		Uniforms:  shade.Moon{},
		Center:    math3d.V3(0, 0, 100),
		Scale:     10,
		Bound:     2,
	}

	b, ok := c.Project(o, 1200, 800)
	if !ok {
		t.Fatal("object in view was culled")
	}
	// center (600, 355, 100); +y goes up the screen, +z toward the viewer
	want := []math3d.Vec3{
		math3d.V3(600, 355, 100),
		math3d.V3(610, 355, 100),
		math3d.V3(600, 345, 90),
	}
	for k, v := range b.Triangles[0].V {
		if !near(v.Screen, want[k], 1e-9) {
			t.Errorf("vertex %d screen = %v, want %v", k, v.Screen, want[k])
		}
		if v.Position != tri.V[k].Position {
			t.Errorf("vertex %d position moved to %v", k, v.Position)
		}
	}
	if tri.V[1].Screen != (math3d.Vec3{}) {
		t.Error("Project modified the shared triangles")
	}

	o.Rotation = math3d.V3(0, math.Pi/2, 0)
	b, _ = c.Project(o, 1200, 800)
	if n := b.Triangles[0].V[0].Normal; !near(n, math3d.V3(1, 0, 0), 1e-9) {
		t.Errorf("rotated normal = %v, want +x", n)
	}

	o.Center = math3d.V3(5000, 0, 0)
	if _, ok := c.Project(o, 1200, 800); ok {
		t.Error("offscreen object was not culled")
	}
}

func TestRenderStar(t *testing.T) {
	s := testSystem()
	fb, err := renderFrame(t, s, render.TileOptions{})
	if err != nil {
		t.Fatal(err)
	}
	c := fb.GetPixel(starX, starY)
	if c == bg {
		t.Fatal("star not drawn")
	}
	if c.R < c.B {
		t.Errorf("star pixel %v is not warm", c)
	}
	if got := fb.GetPixel(2, frameH-2); got != bg {
		t.Errorf("empty corner = %v, want background", got)
	}

	s.SetHidden("Helios", true)
	fb, _ = renderFrame(t, s, render.TileOptions{})
	if got := fb.GetPixel(starX, starY); got != bg {
		t.Errorf("hidden star still drawn: %v", got)
	}
}

func TestRenderParallelMatchesSerial(t *testing.T) {
	s := testSystem()
	s.ShowShip = true
	s.Time = 3.7
	want, err := renderFrame(t, s, render.TileOptions{TileSize: 1000, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	for _, opts := range []render.TileOptions{{TileSize: 7, Workers: 3}, {TileSize: 16}} {
		got, err := renderFrame(t, s, opts)
		if err != nil {
			t.Fatal(err)
		}
		for i := range want.Pixels {
			if got.Pixels[i] != want.Pixels[i] {
				t.Fatalf("%+v: pixel %d = %v, want %v", opts, i, got.Pixels[i], want.Pixels[i])
			}
		}
	}
}

func TestRenderBuildError(t *testing.T) {
	s := testSystem()
	s.Tessellation.Moon = 2
	fb, err := renderFrame(t, s, render.TileOptions{})
	if !errors.Is(err, geometry.ErrInvalidTessellation) {
		t.Fatalf("err = %v, want ErrInvalidTessellation", err)
	}
	var be *BuildError
	if !errors.As(err, &be) || be.Object != "Aurelia moon" {
		t.Errorf("BuildError = %v, want Aurelia moon first", be)
	}
	if fb.GetPixel(starX, starY) == bg {
		t.Error("a failing moon stopped the star from drawing")
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := testSystem()
	err := s.Render(ctx, render.NewRasterizer(render.NewFramebuffer(frameW, frameH)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRenderOverlays(t *testing.T) {
	s := testSystem()
	plain, _ := renderFrame(t, s, render.TileOptions{})

	s.ShowOrbits = true
	orbits, _ := renderFrame(t, s, render.TileOptions{})
	if diff(plain, orbits) == 0 {
		t.Error("orbits drew nothing")
	}

	s.ShowOrbits = false
	s.Camera.StartWarp(math3d.V3(0, 0, -400))
	s.Advance(MaxStep, Input{})
	warp, _ := renderFrame(t, s, render.TileOptions{})
	if got := warp.GetPixel(frameW/2, frameH/2); got != warpColor {
		t.Errorf("warp center = %v, want %v", got, warpColor)
	}
}

func TestSetShip(t *testing.T) {
	s := testSystem()
	if err := s.SetShip(models.NewMesh("empty")); !errors.Is(err, models.ErrNoGeometry) {
		t.Errorf("empty ship = %v, want ErrNoGeometry", err)
	}
	if err := s.SetShip(models.Dart()); err != nil {
		t.Fatal(err)
	}
	if s.shipBound <= 0 || s.shipBound > math.Sqrt(3)+1e-9 {
		t.Errorf("ship bound = %v", s.shipBound)
	}

	big := models.Dart()
	big.Transform(math3d.ScaleUniform(50))
	before := big.Vertices[0].Position
	if err := s.SetShip(big); err != nil {
		t.Fatal(err)
	}
	if big.Vertices[0].Position != before {
		t.Error("SetShip modified the caller's mesh")
	}
	if s.shipBound <= 0 || s.shipBound > math.Sqrt(3)+1e-9 {
		t.Errorf("large ship bound = %v, want it normalized", s.shipBound)
	}
	for _, tri := range s.ship {
		for _, v := range tri.V {
			if v.Position.Len() > s.shipBound+1e-9 {
				t.Fatalf("ship vertex %v outside bound %v", v.Position, s.shipBound)
			}
		}
	}
}

func diff(a, b *render.Framebuffer) int {
	n := 0
	for i := range a.Pixels {
		if a.Pixels[i] != b.Pixels[i] {
			n++
		}
	}
	return n
}

func BenchmarkRender(b *testing.B) {
	s := NewSystem()
	fb := render.NewFramebuffer(320, 200)
	r := render.NewRasterizer(fb)
	ctx := context.Background()
	for b.Loop() {
		s.Time += 1.0 / 60
		_ = s.Render(ctx, r)
	}
}
