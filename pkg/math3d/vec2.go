package math3d

// Vec2 represents a 2D vector, mostly parametric (u, v) coordinates.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Scale returns the scalar product a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Blend2 returns w[0]*a + w[1]*b + w[2]*c.
func Blend2(a, b, c Vec2, w [3]float64) Vec2 {
	return Vec2{
		w[0]*a.X + w[1]*b.X + w[2]*c.X,
		w[0]*a.Y + w[1]*b.Y + w[2]*c.Y,
	}
}
