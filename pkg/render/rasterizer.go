package render

import (
	"log/slog"
	"sync/atomic"

	"github.com/taigrr/orrery/pkg/math3d"
)

// Vertex carries the attributes the rasterizer interpolates.
//
// Position, Normal and UV are whatever space the producer chose (object
// space for generated geometry). Screen is filled in by the composer: X and
// Y in pixels with y growing downward, Z the depth where smaller is nearer.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
	Screen   math3d.Vec3
}

// Triangle is three vertices.
type Triangle struct {
	V [3]Vertex
}

// Fragment is one covered pixel handed to a ShadeFunc.
//
// Attributes are interpolated linearly in screen space with Bary as
// weights. Normal is not renormalized.
type Fragment struct {
	X, Y     int
	Depth    float64
	Bary     [3]float64
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// ShadeFunc computes the color of a fragment. It is called only for
// fragments that pass the depth test and may be called concurrently from
// several tiles, so it must not mutate shared state. A nil ShadeFunc
// updates depth only.
type ShadeFunc func(f *Fragment) Color

// Stats counts rasterizer work since the last ResetStats.
type Stats struct {
	Triangles     int64 // submitted
	Degenerate    int64 // skipped for (near) zero area
	Culled        int64 // back faces skipped while CullBackfaces is set
	Offscreen     int64 // bounding box missed the framebuffer
	Fragments     int64 // covered pixels tested against depth
	Shaded        int64 // fragments that passed the depth test
	DepthRejected int64 // fragments behind the stored depth
}

// counters is the per-call, non-atomic accumulator flushed into Rasterizer.
type counters Stats

// Rasterizer scan-converts screen-space triangles into a Framebuffer.
//
// Coverage uses edge functions evaluated directly at each pixel center, so a
// pixel's result does not depend on where traversal started. Depth testing
// is strict (z < stored): among equal depths the first fragment drawn wins.
type Rasterizer struct {
	fb *Framebuffer

	// CullBackfaces skips triangles facing away from the viewer, i.e.
	// clockwise when seen with y up. Off by default.
	CullBackfaces bool

	warnedDegenerate atomic.Bool

	triangles     atomic.Int64
	degenerate    atomic.Int64
	culled        atomic.Int64
	offscreen     atomic.Int64
	fragments     atomic.Int64
	shaded        atomic.Int64
	depthRejected atomic.Int64
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{fb: fb}
}

// Framebuffer returns the render target.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// Stats returns a snapshot of the counters.
func (r *Rasterizer) Stats() Stats {
	return Stats{
		Triangles:     r.triangles.Load(),
		Degenerate:    r.degenerate.Load(),
		Culled:        r.culled.Load(),
		Offscreen:     r.offscreen.Load(),
		Fragments:     r.fragments.Load(),
		Shaded:        r.shaded.Load(),
		DepthRejected: r.depthRejected.Load(),
	}
}

// ResetStats zeroes the counters (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.triangles.Store(0)
	r.degenerate.Store(0)
	r.culled.Store(0)
	r.offscreen.Store(0)
	r.fragments.Store(0)
	r.shaded.Store(0)
	r.depthRejected.Store(0)
}

func (r *Rasterizer) flush(c *counters) {
	r.triangles.Add(c.Triangles)
	r.degenerate.Add(c.Degenerate)
	r.culled.Add(c.Culled)
	r.offscreen.Add(c.Offscreen)
	r.fragments.Add(c.Fragments)
	r.shaded.Add(c.Shaded)
	r.depthRejected.Add(c.DepthRejected)

	if c.Degenerate > 0 && r.warnedDegenerate.CompareAndSwap(false, true) {
		Logger().Debug("skipping degenerate triangles",
			slog.Int64("count", c.Degenerate),
			slog.Float64("min_area", degenerateArea))
	}
}

// DrawTriangle rasterizes a single triangle, calling shade for every
// covered pixel that passes the depth test.
func (r *Rasterizer) DrawTriangle(tri Triangle, shade ShadeFunc) {
	var c counters
	r.drawSerial(&tri, shade, &c)
	r.flush(&c)
}

// DrawTriangles rasterizes tris in order with one shading function.
// This is the single-threaded reference path.
func (r *Rasterizer) DrawTriangles(tris []Triangle, shade ShadeFunc) {
	var c counters
	for i := range tris {
		r.drawSerial(&tris[i], shade, &c)
	}
	r.flush(&c)
}

func (r *Rasterizer) drawSerial(tri *Triangle, shade ShadeFunc, c *counters) {
	c.Triangles++
	s, ok := r.setup(tri, c)
	if !ok {
		return
	}
	s.raster(r.fb, s.minX, s.minY, s.maxX, s.maxY, shade, c)
}

// Rasterize draws one triangle into fb with default settings.
func Rasterize(fb *Framebuffer, tri Triangle, shade ShadeFunc) {
	NewRasterizer(fb).DrawTriangle(tri, shade)
}
