package scene

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/shade"
)

const orbitSegments = 360

var warpColor = render.RGB(0x44, 0xCC, 0xFF)

// Object is one drawable thing for the current frame: shared unit-mesh
// triangles, the shader inputs, and a world transform.
type Object struct {
	Name      string
	Triangles []render.Triangle // object space, shared with the mesh cache
	Uniforms  shade.Uniforms
	Center    math3d.Vec3 // world
	Rotation  math3d.Vec3 // Euler angles
	Scale     float64     // world units per object unit
	Bound     float64     // bounding radius in object units
}

// Objects lists everything to draw at the current time. Objects whose mesh
// cannot be built are left out and reported in the joined error as
// *BuildError values.
func (s *System) Objects() ([]Object, error) {
	var (
		objs []Object
		errs []error
	)
	add := func(name string, key meshKey, o Object) {
		tris, err := s.meshes.get(key)
		if err != nil {
			errs = append(errs, &BuildError{Object: name, Err: err})
			return
		}
		o.Name = name
		o.Triangles = tris
		objs = append(objs, o)
	}

	t := s.Time
	for i := range s.Bodies {
		b := &s.Bodies[i]
		if s.Hidden(b.Name) {
			continue
		}
		center := b.Position(t)
		light := s.lightAt(center)

		add(b.Name, meshKey{shapeSphere, s.Tessellation.Segments(b.Surface)}, Object{
			Uniforms: b.Surface.uniforms(t, light),
			Center:   center,
			Rotation: b.Rotation(t),
			Scale:    b.Scale,
			Bound:    1,
		})
		if b.Ring != nil {
			add(b.Name+" ring", meshKey{shapeRing, s.Tessellation.Ring}, Object{
				Uniforms: shade.Ring{Light: light},
				Center:   center,
				Rotation: b.Ring.rotation(t),
				Scale:    b.Ring.Scale,
				Bound:    RingOuter,
			})
		}
		if p, ok := b.MoonPosition(t); ok {
			add(b.Name+" moon", meshKey{shapeSphere, s.Tessellation.Moon}, Object{
				Uniforms: shade.Moon{Light: s.lightAt(p)},
				Center:   p,
				Rotation: b.Moon.rotation(t),
				Scale:    b.Moon.Scale,
				Bound:    1,
			})
		}
	}

	if s.ShowShip && len(s.ship) > 0 {
		objs = append(objs, Object{
			Name:      "ship",
			Triangles: s.ship,
			Uniforms:  shade.Hull{Light: shade.HullLight},
			Center:    s.Camera.Position.Add(math3d.V3(0, shipBob*math.Sin(2*t), -shipDistance)),
			Rotation:  math3d.V3(0.2+math.Sin(1.5*t)*0.1, math.Pi, -s.Camera.LastDirection.X*0.4),
			Scale:     shipScale,
			Bound:     s.shipBound,
		})
	}
	return objs, errors.Join(errs...)
}

// Project transforms o into screen space for a width x height target.
// Positions stay in object space so surface noise rotates with the body;
// normals are rotated into view space for lighting. It returns false when
// the object's bounding circle misses the screen.
func (c *Camera) Project(o Object, width, height int) (render.Batch, bool) {
	center := c.WorldToScreen(o.Center, width, height)
	px := o.Scale * c.PixelScale(height) // pixels per object unit
	dz := o.Scale * c.Zoom               // depth per object unit

	reach := px * o.Bound
	if center.X+reach < 0 || center.X-reach > float64(width) ||
		center.Y+reach < 0 || center.Y-reach > float64(height) {
		return render.Batch{}, false
	}

	m := math3d.Euler(o.Rotation)
	tris := make([]render.Triangle, len(o.Triangles))
	for i, tri := range o.Triangles {
		for k := range tri.V {
			v := &tri.V[k]
			r := m.MulVec3Dir(v.Position)
			v.Screen = math3d.V3(center.X+px*r.X, center.Y-px*r.Y, center.Z-dz*r.Z)
			v.Normal = m.MulVec3Dir(v.Normal)
		}
		tris[i] = tri
	}
	return render.Batch{Triangles: tris, Shade: shade.For(o.Uniforms)}, true
}

// Render draws one frame into r's framebuffer: background, orbit lines,
// every visible object, then the warp overlay. It does not Swap.
//
// Objects that fail to build are skipped and returned as *BuildError
// values joined into the error; the frame is still complete. A cancelled
// ctx returns ctx's error and leaves the frame unfinished.
func (s *System) Render(ctx context.Context, r *render.Rasterizer) error {
	fb := r.Framebuffer()
	w, h := fb.Width, fb.Height

	fb.ClearDepth()
	if s.Background != nil {
		s.Background.Paint(fb)
	} else {
		render.Solid(render.RGB(0, 0, 0)).Paint(fb)
	}

	if s.ShowOrbits {
		s.drawOrbits(fb)
	}

	objs, buildErr := s.Objects()
	batches := make([]render.Batch, 0, len(objs))
	for _, o := range objs {
		if b, ok := s.Camera.Project(o, w, h); ok {
			batches = append(batches, b)
		}
	}
	if err := r.DrawBatchesParallel(ctx, batches, s.Tiles); err != nil {
		return err
	}

	if p, ok := s.Camera.Warping(); ok {
		fb.DrawBurst(w/2, h/2, int(p*float64(w)*0.4), 10, warpColor)
	}

	render.Logger().Debug("frame composed",
		slog.Float64("time", s.Time),
		slog.Int("objects", len(objs)),
		slog.Int("visible", len(batches)))
	return buildErr
}

// drawOrbits traces each visible body's orbit as an overlay polyline.
func (s *System) drawOrbits(fb *render.Framebuffer) {
	pts := make([]image.Point, orbitSegments)
	for i := range s.Bodies {
		b := &s.Bodies[i]
		if b.OrbitRadius <= 1 || s.Hidden(b.Name) {
			continue
		}
		for k := range pts {
			sin, cos := math.Sincos(2 * math.Pi * float64(k) / orbitSegments)
			p := s.Camera.WorldToScreen(math3d.V3(b.OrbitRadius*cos, 0, b.OrbitRadius*sin), fb.Width, fb.Height)
			pts[k] = image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
		}
		fb.DrawPolyline(pts, true, b.OrbitColor)
	}
}
