package scene

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/orrery/pkg/math3d"
)

// ReferenceHeight is the framebuffer height, in pixels, at which one world
// unit maps to one pixel at zoom 1. Smaller framebuffers scale down.
const ReferenceHeight = 800.0

// Camera limits and rates.
const (
	MinZoom     = 0.35
	MaxZoom     = 1.8
	zoomRate    = 0.6 // per second
	DefaultTilt = 0.45

	moveSpeed  = 200.0 // world units per second
	boostScale = 2.2

	maxHeight = 140.0
	maxPan    = 1600.0

	warpDuration = 0.9 // seconds
	pushMargin   = 4.0
)

// Input is one frame of camera control. Move is a world-space direction
// with components in [-1, 1]; Zoom is in [-1, 1] too.
type Input struct {
	Move  math3d.Vec3
	Zoom  float64
	Boost bool
}

// Blocker is a body the camera may not pass through on the orbital plane.
type Blocker struct {
	Center math3d.Vec3
	Radius float64
}

type warp struct {
	origin, target math3d.Vec3
	elapsed        float64
	progress       float64 // spring position, 0 -> 1
	velocity       float64
}

// Camera looks down at the orbital plane with an oblique projection:
// world x maps to screen x, world y and z both map to screen y (z scaled
// by Tilt), and depth is the distance to the camera.
type Camera struct {
	Position math3d.Vec3
	Zoom     float64
	Tilt     float64

	// LastDirection is the most recent movement direction, decaying to
	// zero when idle. The ship banks with it.
	LastDirection math3d.Vec3

	zoomTarget   float64
	zoomVelocity float64
	warp         *warp
}

// NewCamera returns a camera pulled back from the star.
func NewCamera() *Camera {
	return &Camera{
		Position:   math3d.V3(0, 0, -250),
		Zoom:       1,
		Tilt:       DefaultTilt,
		zoomTarget: 1,
	}
}

// Update applies one frame of input. Movement is ignored while warping.
func (c *Camera) Update(in Input, dt float64) {
	if dt <= 0 {
		return
	}

	if c.warp == nil {
		if in.Move.Len() > 1e-6 {
			dir := in.Move
			if dir.Len() > 1 {
				dir = dir.Normalize()
			}
			speed := moveSpeed
			if in.Boost {
				speed *= boostScale
			}
			c.Position = c.Position.Add(dir.Scale(speed * dt))
			c.LastDirection = dir
		} else {
			c.LastDirection = c.LastDirection.Scale(0.9)
		}
		c.Position.Y = math3d.Clamp(c.Position.Y, -maxHeight, maxHeight)

		c.zoomTarget = math3d.Clamp(c.zoomTarget+in.Zoom*zoomRate*dt, MinZoom, MaxZoom)
	}

	spring := harmonica.NewSpring(dt, 8, 1)
	c.Zoom, c.zoomVelocity = spring.Update(c.Zoom, c.zoomVelocity, c.zoomTarget)
	c.Zoom = math3d.Clamp(c.Zoom, MinZoom, MaxZoom)

	c.advanceWarp(dt)
}

// SetZoom jumps to zoom z (clamped) without easing.
func (c *Camera) SetZoom(z float64) {
	z = math3d.Clamp(z, MinZoom, MaxZoom)
	c.Zoom, c.zoomTarget, c.zoomVelocity = z, z, 0
}

// StartWarp begins an eased flight from the current position to target.
func (c *Camera) StartWarp(target math3d.Vec3) {
	c.warp = &warp{origin: c.Position, target: target}
}

// Warping reports whether a warp is in flight and how far along it is,
// as elapsed time over duration in [0, 1].
func (c *Camera) Warping() (float64, bool) {
	if c.warp == nil {
		return 0, false
	}
	return math3d.Clamp01(c.warp.elapsed / warpDuration), true
}

// advanceWarp moves along the warp path. A critically damped spring eases
// the progress in and out; the flight snaps to the target once the
// duration has passed.
func (c *Camera) advanceWarp(dt float64) {
	w := c.warp
	if w == nil {
		return
	}
	w.elapsed += dt

	spring := harmonica.NewSpring(dt, 9, 1)
	w.progress, w.velocity = spring.Update(w.progress, w.velocity, 1)

	if w.elapsed >= warpDuration {
		c.Position = w.target
		c.warp = nil
		return
	}
	c.Position = w.origin.Lerp(w.target, math3d.Clamp01(w.progress))
}

// ResolveCollisions pushes the camera out of every blocker it entered,
// measured on the orbital (xz) plane, then clamps the pan range.
func (c *Camera) ResolveCollisions(blockers []Blocker) {
	for _, b := range blockers {
		dx, dz := c.Position.X-b.Center.X, c.Position.Z-b.Center.Z
		dist := math.Hypot(dx, dz)
		if dist < b.Radius && dist > 0.001 {
			push := (b.Radius - dist + pushMargin) / dist
			c.Position.X += dx * push
			c.Position.Z += dz * push
		}
	}
	c.Position.X = math3d.Clamp(c.Position.X, -maxPan, maxPan)
	c.Position.Z = math3d.Clamp(c.Position.Z, -maxPan, maxPan)
}

// PixelScale is the number of framebuffer pixels per world unit at the
// current zoom for a framebuffer of the given height.
func (c *Camera) PixelScale(height int) float64 {
	return c.Zoom * float64(height) / ReferenceHeight
}

// WorldToScreen projects a world point into a width x height framebuffer.
// X and Y are pixels (y down); Z is the distance from the camera.
func (c *Camera) WorldToScreen(world math3d.Vec3, width, height int) math3d.Vec3 {
	rel := world.Sub(c.Position)
	k := float64(height) / ReferenceHeight
	return math3d.V3(
		float64(width)/2+rel.X*c.Zoom*k,
		float64(height)/2-(rel.Y*c.Zoom+rel.Z*c.Tilt)*k,
		math.Max(rel.Len(), 0.0001),
	)
}

// ViewDir maps a world-space direction into view space (x right, y up,
// z toward the viewer), following the tilt of the projection.
func (c *Camera) ViewDir(d math3d.Vec3) math3d.Vec3 {
	return math3d.V3(d.X, d.Y+d.Z*c.Tilt, -d.Z)
}
