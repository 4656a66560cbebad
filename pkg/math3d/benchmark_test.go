package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkEuler(b *testing.B) {
	r := V3(0.2, 1.1, 0.3)

	for b.Loop() {
		_ = Euler(r)
	}
}

func BenchmarkMat4MulVec3Dir(b *testing.B) {
	m := Euler(V3(0.2, 1.1, 0.3))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3Dir(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkBlend3(b *testing.B) {
	a, c, d := V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)
	w := [3]float64{0.2, 0.3, 0.5}

	for b.Loop() {
		_ = Blend3(a, c, d, w)
	}
}
