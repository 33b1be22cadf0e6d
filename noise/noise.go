// Package noise provides seeded gradient-noise fields used for curl advection
// and organic flicker.
package noise

// Field is a deterministic scalar noise function, roughly in [-1, 1]
type Field interface {
	Noise3D(x, y, z float64) float64
}

// Curl returns the 2D curl of the scalar potential f at (x, y) on slice z,
// estimated with symmetric finite differences of half-width eps.
// The result (dF/dy, -dF/dx) is divergence-free, so advected points swirl instead of drifting
func Curl(f Field, x, y, z, eps float64) (cx, cy float64) {
	inv := 1 / (2 * eps)
	ndy := (f.Noise3D(x, y+eps, z) - f.Noise3D(x, y-eps, z)) * inv
	ndx := (f.Noise3D(x+eps, y, z) - f.Noise3D(x-eps, y, z)) * inv
	return ndy, -ndx
}
