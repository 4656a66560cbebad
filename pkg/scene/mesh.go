package scene

import (
	"fmt"
	"log/slog"

	"github.com/taigrr/orrery/pkg/geometry"
	"github.com/taigrr/orrery/pkg/render"
)

// Tessellation holds the segment counts used for each kind of mesh.
// Spheres use the count for both latitude and longitude.
type Tessellation struct {
	Star  int
	Rocky int
	Gas   int
	Moon  int
	Ring  int
}

// DefaultTessellation is the full-detail segment count per surface.
var DefaultTessellation = Tessellation{Star: 70, Rocky: 50, Gas: 60, Moon: 35, Ring: 120}

// Segments returns the sphere segment count used for s.
func (t Tessellation) Segments(s Surface) int {
	switch s {
	case SurfaceStar:
		return t.Star
	case SurfaceGas:
		return t.Gas
	default:
		return t.Rocky
	}
}

type meshShape int

const (
	shapeSphere meshShape = iota
	shapeRing
)

type meshKey struct {
	shape    meshShape
	segments int
}

func (k meshKey) String() string {
	if k.shape == shapeRing {
		return fmt.Sprintf("ring/%d", k.segments)
	}
	return fmt.Sprintf("sphere/%d", k.segments)
}

func (k meshKey) build() ([]render.Triangle, error) {
	if k.shape == shapeRing {
		return geometry.GenerateDisc(RingInner, RingOuter, k.segments)
	}
	return geometry.GenerateSphere(1, k.segments, k.segments)
}

type meshEntry struct {
	tris []render.Triangle
	err  error
}

// meshCache memoizes unit meshes by shape and segment count. Failures are
// cached too, so a bad tessellation is reported once rather than every
// frame. Cached triangles are shared and must not be modified.
type meshCache struct {
	entries map[meshKey]meshEntry
}

func (c *meshCache) get(key meshKey) ([]render.Triangle, error) {
	if e, ok := c.entries[key]; ok {
		return e.tris, e.err
	}
	if c.entries == nil {
		c.entries = make(map[meshKey]meshEntry)
	}

	tris, err := key.build()
	if err != nil {
		render.Logger().Warn("mesh build failed", slog.String("mesh", key.String()), slog.Any("error", err))
	} else {
		render.Logger().Info("mesh built", slog.String("mesh", key.String()), slog.Int("triangles", len(tris)))
	}
	c.entries[key] = meshEntry{tris: tris, err: err}
	return tris, err
}

// BuildError reports an object that was skipped because its mesh could
// not be built.
type BuildError struct {
	Object string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s: %v", e.Object, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
