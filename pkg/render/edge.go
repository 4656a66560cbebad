package render

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// degenerateArea is the smallest |2 * signed area| (square pixels) that is
// rasterized. Anything thinner covers no pixel center reliably.
const degenerateArea = 1e-9

// edge holds the coefficients of E(x, y) = a*x + b*y + c for a directed
// screen-space edge. Reversing an edge negates all three coefficients
// exactly, so two triangles sharing an edge see bit-identical magnitudes
// with opposite signs.
type edge struct {
	a, b, c float64
}

// edgeCoeffs returns the edge function for the segment (x0,y0) -> (x1,y1).
// Positive on one side, negative on the other, zero on the line.
func edgeCoeffs(x0, y0, x1, y1 float64) edge {
	return edge{
		a: y0 - y1,
		b: x1 - x0,
		c: x0*y1 - x1*y0,
	}
}

// eval evaluates the edge function at (x, y). The explicit conversions
// stop the compiler from fusing into FMA, which would break the exact
// negation property across shared edges.
func (e edge) eval(x, y float64) float64 {
	return float64(e.a*x) + float64(e.b*y) + e.c
}

func (e edge) neg() edge {
	return edge{-e.a, -e.b, -e.c}
}

// covers reports whether an edge value d (already oriented so the interior
// is positive) includes the pixel. Centers exactly on the edge belong to
// top and left edges only, so a shared edge is owned by exactly one of its
// two triangles.
func (e edge) covers(d float64) bool {
	if d > 0 {
		return true
	}
	if d < 0 {
		return false
	}
	return e.a > 0 || (e.a == 0 && e.b > 0)
}

// setup is the per-triangle state computed once and reused for every pixel
// (and every tile) the triangle touches.
type setup struct {
	tri     *Triangle
	e       [3]edge // e[i] is the edge opposite vertex i
	invArea float64
	minX    int
	minY    int
	maxX    int
	maxY    int
}

// setup orients the triangle's edges, rejects degenerate, culled and
// off-screen triangles and clips the bounding box to the framebuffer.
func (r *Rasterizer) setup(tri *Triangle, c *counters) (setup, bool) {
	w, h := r.Width(), r.Height()
	if w == 0 || h == 0 {
		c.Offscreen++
		return setup{}, false
	}

	p0, p1, p2 := tri.V[0].Screen, tri.V[1].Screen, tri.V[2].Screen
	e0 := edgeCoeffs(p1.X, p1.Y, p2.X, p2.Y)
	e1 := edgeCoeffs(p2.X, p2.Y, p0.X, p0.Y)
	e2 := edgeCoeffs(p0.X, p0.Y, p1.X, p1.Y)

	// Twice the signed area. NaN fails the comparison and is degenerate too.
	area := e0.eval(p0.X, p0.Y)
	if !(math.Abs(area) >= degenerateArea) || math.IsInf(area, 0) {
		c.Degenerate++
		return setup{}, false
	}

	// Screen y grows downward, so triangles wound counter-clockwise with y
	// up (front faces) arrive here with negative area.
	if area > 0 {
		if r.CullBackfaces {
			c.Culled++
			return setup{}, false
		}
	} else {
		e0, e1, e2 = e0.neg(), e1.neg(), e2.neg()
		area = -area
	}

	fminX := math.Floor(min3(p0.X, p1.X, p2.X))
	fmaxX := math.Ceil(max3(p0.X, p1.X, p2.X))
	fminY := math.Floor(min3(p0.Y, p1.Y, p2.Y))
	fmaxY := math.Ceil(max3(p0.Y, p1.Y, p2.Y))
	if fmaxX < 0 || fmaxY < 0 || fminX > float64(w-1) || fminY > float64(h-1) {
		c.Offscreen++
		return setup{}, false
	}

	return setup{
		tri:     tri,
		e:       [3]edge{e0, e1, e2},
		invArea: 1 / area,
		minX:    int(math.Max(0, fminX)),
		maxX:    int(math.Min(float64(w-1), fmaxX)),
		minY:    int(math.Max(0, fminY)),
		maxY:    int(math.Min(float64(h-1), fmaxY)),
	}, true
}

// raster walks the inclusive pixel rectangle [minX,maxX]x[minY,maxY], which
// must lie inside both the framebuffer and the triangle's bounding box.
//
// HOT PATH: no allocation per pixel. Every pixel evaluates its edge
// functions from scratch, so any split of the rectangle yields the same
// values as one pass.
func (s *setup) raster(fb *Framebuffer, minX, minY, maxX, maxY int, shade ShadeFunc, c *counters) {
	v0, v1, v2 := &s.tri.V[0], &s.tri.V[1], &s.tri.V[2]
	var frag Fragment

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		row := y * fb.Width
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			d0 := s.e[0].eval(px, py)
			if !s.e[0].covers(d0) {
				continue
			}
			d1 := s.e[1].eval(px, py)
			if !s.e[1].covers(d1) {
				continue
			}
			d2 := s.e[2].eval(px, py)
			if !s.e[2].covers(d2) {
				continue
			}

			w := [3]float64{d0 * s.invArea, d1 * s.invArea, d2 * s.invArea}
			z := w[0]*v0.Screen.Z + w[1]*v1.Screen.Z + w[2]*v2.Screen.Z

			c.Fragments++
			idx := row + x
			if !(z < fb.depth[idx]) {
				c.DepthRejected++
				continue
			}
			fb.depth[idx] = z
			c.Shaded++
			if shade == nil {
				continue
			}

			frag = Fragment{
				X:        x,
				Y:        y,
				Depth:    z,
				Bary:     w,
				Position: math3d.Blend3(v0.Position, v1.Position, v2.Position, w),
				Normal:   math3d.Blend3(v0.Normal, v1.Normal, v2.Normal, w),
				UV:       math3d.Blend2(v0.UV, v1.UV, v2.UV, w),
			}
			fb.Pixels[idx] = shade(&frag)
		}
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
