// Package geometry tessellates the parametric shapes used by the scene
// (UV spheres and flat annuli) into triangle lists.
//
// Every generator emits vertices in object space with unit normals and
// parametric (u, v) coordinates, wound counter-clockwise when seen from
// outside (y up). Screen coordinates are left zero for the composer.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
)

// MinSegments is the smallest segment count any generator accepts.
const MinSegments = 3

var (
	// ErrInvalidTessellation is returned when a segment count is below MinSegments.
	ErrInvalidTessellation = errors.New("invalid tessellation")

	// ErrInvalidDimensions is returned for non-positive or inverted radii.
	ErrInvalidDimensions = errors.New("invalid dimensions")
)

// GenerateSphere builds a latitude/longitude sphere of the given radius.
//
// Latitude i runs from the north pole (y = +radius) to the south pole; the
// vertex at (i, j) sits at polar angle pi*i/lat and azimuth 2*pi*j/lon:
//
//	x = r sin(theta) cos(phi)
//	y = r cos(theta)
//	z = r sin(theta) sin(phi)
//
// Normals are exact unit vectors and UV is (j/lon, i/lat). Pole vertices
// and the azimuth seam are snapped so shared positions are bit-identical.
//
// The result always holds 2*lat*lon triangles. The first triangle of every
// quad in the top band and the second of every quad in the bottom band
// collapse onto a pole, giving exactly 2*lon zero-area triangles that the
// rasterizer skips.
func GenerateSphere(radius float64, latSegments, lonSegments int) ([]render.Triangle, error) {
	if latSegments < MinSegments || lonSegments < MinSegments {
		return nil, fmt.Errorf("sphere %dx%d segments: %w", latSegments, lonSegments, ErrInvalidTessellation)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("sphere radius %v: %w", radius, ErrInvalidDimensions)
	}

	cols := lonSegments + 1
	grid := make([]render.Vertex, (latSegments+1)*cols)
	for i := 0; i <= latSegments; i++ {
		sinT, cosT := polar(i, latSegments)
		for j := 0; j <= lonSegments; j++ {
			phi := 2 * math.Pi * float64(j%lonSegments) / float64(lonSegments)
			sinP, cosP := math.Sincos(phi)

			n := math3d.V3(sinT*cosP, cosT, sinT*sinP)
			grid[i*cols+j] = render.Vertex{
				Position: n.Scale(radius),
				Normal:   n,
				UV:       math3d.V2(float64(j)/float64(lonSegments), float64(i)/float64(latSegments)),
			}
		}
	}

	tris := make([]render.Triangle, 0, 2*latSegments*lonSegments)
	for i := range latSegments {
		for j := range lonSegments {
			current := grid[i*cols+j]
			next := grid[i*cols+j+1]
			below := grid[(i+1)*cols+j]
			belowNext := grid[(i+1)*cols+j+1]

			tris = append(tris,
				render.Triangle{V: [3]render.Vertex{current, next, below}},
				render.Triangle{V: [3]render.Vertex{next, belowNext, below}},
			)
		}
	}
	return tris, nil
}

// polar returns sin and cos of the polar angle for latitude row i, snapping
// the poles so they are exact.
func polar(i, lat int) (sinT, cosT float64) {
	switch i {
	case 0:
		return 0, 1
	case lat:
		return 0, -1
	}
	return math.Sincos(math.Pi * float64(i) / float64(lat))
}

// GenerateDisc builds a flat annulus in the xz plane, facing +y.
//
// UV.X is the angular fraction around the ring and UV.Y is the radial
// coordinate: 0 on the inner edge, 1 on the outer edge. The result holds
// 2*segments triangles. An inner radius of 0 is allowed and yields a full
// disc whose inner triangles are degenerate.
func GenerateDisc(innerRadius, outerRadius float64, segments int) ([]render.Triangle, error) {
	if segments < MinSegments {
		return nil, fmt.Errorf("disc %d segments: %w", segments, ErrInvalidTessellation)
	}
	if !(innerRadius >= 0) || !(outerRadius > innerRadius) || math.IsInf(outerRadius, 0) {
		return nil, fmt.Errorf("disc radii %v..%v: %w", innerRadius, outerRadius, ErrInvalidDimensions)
	}

	up := math3d.Up()
	ring := func(j int, r, v float64) render.Vertex {
		a := 2 * math.Pi * float64(j%segments) / float64(segments)
		sinA, cosA := math.Sincos(a)
		return render.Vertex{
			Position: math3d.V3(r*cosA, 0, r*sinA),
			Normal:   up,
			UV:       math3d.V2(float64(j)/float64(segments), v),
		}
	}

	tris := make([]render.Triangle, 0, 2*segments)
	for j := range segments {
		in0, in1 := ring(j, innerRadius, 0), ring(j+1, innerRadius, 0)
		out0, out1 := ring(j, outerRadius, 1), ring(j+1, outerRadius, 1)

		tris = append(tris,
			render.Triangle{V: [3]render.Vertex{in0, out1, out0}},
			render.Triangle{V: [3]render.Vertex{in0, in1, out1}},
		)
	}
	return tris, nil
}
