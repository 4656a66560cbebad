package models

import "github.com/taigrr/orrery/pkg/math3d"

// Dart returns the built-in ship: a faceted arrowhead pointing along +z,
// normalized into [-1, 1] with flat normals. It is used when no model file
// is configured.
func Dart() *Mesh {
	var (
		nose   = math3d.V3(0, 0, 1)
		left   = math3d.V3(-0.8, 0, -0.6)
		right  = math3d.V3(0.8, 0, -0.6)
		top    = math3d.V3(0, 0.25, -0.4)
		bottom = math3d.V3(0, -0.15, -0.4)
		tail   = math3d.V3(0, 0, -0.5)
	)
	faces := [][3]math3d.Vec3{
		{nose, top, left},
		{nose, right, top},
		{left, top, tail},
		{top, right, tail},
		{nose, left, bottom},
		{nose, bottom, right},
		{left, tail, bottom},
		{bottom, tail, right},
	}

	m := NewMesh("dart")
	inside := math3d.V3(0, 0, -0.1)
	for _, f := range faces {
		n := f[1].Sub(f[0]).Cross(f[2].Sub(f[0]))
		centroid := f[0].Add(f[1]).Add(f[2]).Scale(1.0 / 3)
		if n.Dot(centroid.Sub(inside)) < 0 {
			f[1], f[2] = f[2], f[1]
		}
		base := len(m.Vertices)
		for _, p := range f {
			m.Vertices = append(m.Vertices, MeshVertex{Position: p})
		}
		m.Faces = append(m.Faces, Face{V: [3]int{base, base + 1, base + 2}})
	}
	m.CalculateNormals()
	m.NormalizeToUnit()
	return m
}
