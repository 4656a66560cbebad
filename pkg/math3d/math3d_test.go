package math3d

import (
	"math"
	"testing"
)

func vecNear(a, b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestRotations(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"X quarter turn", RotateX(math.Pi / 2), V3(0, 1, 0), V3(0, 0, 1)},
		{"Y quarter turn", RotateY(math.Pi / 2), V3(0, 0, 1), V3(1, 0, 0)},
		{"Z quarter turn", RotateZ(math.Pi / 2), V3(1, 0, 0), V3(0, 1, 0)},
		{"identity", Identity(), V3(1, 2, 3), V3(1, 2, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.m.MulVec3Dir(tc.in)
			if !vecNear(got, tc.want, 1e-12) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEulerOrder(t *testing.T) {
	r := V3(0.3, -1.2, 0.7)
	v := V3(0.5, -2, 1.5)

	want := RotateZ(r.Z).MulVec3Dir(RotateY(r.Y).MulVec3Dir(RotateX(r.X).MulVec3Dir(v)))
	got := Euler(r).MulVec3Dir(v)
	if !vecNear(got, want, 1e-12) {
		t.Errorf("Euler applied out of order: got %v, want %v", got, want)
	}

	if math.Abs(got.Len()-v.Len()) > 1e-12 {
		t.Errorf("rotation changed length: %v vs %v", got.Len(), v.Len())
	}
}

func TestTranslateScale(t *testing.T) {
	m := Translate(V3(10, 20, 30)).Mul(ScaleUniform(2))
	got := m.MulVec3(V3(1, 1, 1))
	if !vecNear(got, V3(12, 22, 32), 1e-12) {
		t.Errorf("got %v", got)
	}
	if m.Translation() != V3(10, 20, 30) {
		t.Errorf("translation = %v", m.Translation())
	}
	if dir := m.MulVec3Dir(V3(1, 0, 0)); !vecNear(dir, V3(2, 0, 0), 1e-12) {
		t.Errorf("direction picked up translation: %v", dir)
	}
}

func TestBlend3(t *testing.T) {
	a, b, c := V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)
	got := Blend3(a, b, c, [3]float64{0.2, 0.3, 0.5})
	if !vecNear(got, V3(0.2, 0.3, 0.5), 1e-15) {
		t.Errorf("got %v", got)
	}

	uv := Blend2(V2(0, 0), V2(1, 0), V2(0, 1), [3]float64{0.5, 0.25, 0.25})
	if math.Abs(uv.X-0.25) > 1e-15 || math.Abs(uv.Y-0.25) > 1e-15 {
		t.Errorf("Blend2 got %v", uv)
	}
}

func TestScalarHelpers(t *testing.T) {
	if Clamp(5, 0, 1) != 1 || Clamp(-5, 0, 1) != 0 || Clamp(0.5, 0, 1) != 0.5 {
		t.Error("Clamp out of range")
	}
	if Smoothstep(0, 1, 0) != 0 || Smoothstep(0, 1, 1) != 1 || Smoothstep(0, 1, 0.5) != 0.5 {
		t.Error("Smoothstep endpoints wrong")
	}
	if f := Fract(-0.25); math.Abs(f-0.75) > 1e-15 {
		t.Errorf("Fract(-0.25) = %v", f)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}
