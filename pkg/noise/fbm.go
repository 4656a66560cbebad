package noise

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// FBM sums octaves of Noise3 at increasing frequency and decreasing
// amplitude:
//
//	sum(Noise3(p * lacunarity^i) * gain^i) for i in [0, octaves)
//
// The sum is divided by the total absolute amplitude, so the result stays
// in [-1, 1] for any gain. Zero or negative octaves yield 0.
func FBM(p math3d.Vec3, octaves int, lacunarity, gain float64) float64 {
	if octaves <= 0 {
		return 0
	}

	var sum, norm float64
	amp, freq := 1.0, 1.0
	for range octaves {
		sum += amp * Noise3(p.Scale(freq))
		norm += math.Abs(amp)
		amp *= gain
		freq *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// FBMUnit is FBM remapped to [0, 1], the form most color ramps want.
func FBMUnit(p math3d.Vec3, octaves int, lacunarity, gain float64) float64 {
	return math3d.Clamp01(FBM(p, octaves, lacunarity, gain)*0.5 + 0.5)
}

// Octaves is FBMUnit with the default lacunarity and gain.
func Octaves(p math3d.Vec3, octaves int) float64 {
	return FBMUnit(p, octaves, DefaultLacunarity, DefaultGain)
}
