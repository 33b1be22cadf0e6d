package noise

import (
	perlin "github.com/aquilax/go-perlin"
)

const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// Perlin adapts multi-octave Perlin noise to the Field contract.
// Octave sums are normalized by their total amplitude and clamped to [-1, 1]
type Perlin struct {
	p    *perlin.Perlin
	norm float64
}

// NewPerlin builds a Perlin field, equal seeds give identical fields
func NewPerlin(seed int64) *Perlin {
	amp, total := 1.0, 0.0
	for i := 0; i < perlinOctaves; i++ {
		total += amp
		amp /= perlinAlpha
	}
	return &Perlin{
		p:    perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed),
		norm: 1 / total,
	}
}

// Noise3D samples the field
func (n *Perlin) Noise3D(x, y, z float64) float64 {
	v := n.p.Noise3D(x, y, z) * n.norm
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
