package noise

import "math"

const (
	f3 = 1.0 / 3.0
	g3 = 1.0 / 6.0

	// simplexScale maps the kernel sum into roughly [-1, 1]
	simplexScale = 32.0
)

var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// Simplex is 3D simplex noise over a seeded permutation table
type Simplex struct {
	perm      [512]uint8
	permMod12 [512]uint8
}

// NewSimplex builds a field whose permutation is shuffled by a xorshift32 stream.
// Equal seeds give identical fields
func NewSimplex(seed uint32) *Simplex {
	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}

	s := seed
	if s == 0 {
		s = 0x6D2B79F5
	}
	rnd := func() float64 {
		s ^= s << 13
		s ^= s >> 17
		s ^= s << 5
		return float64(s%10000) / 10000
	}

	for i := 255; i > 0; i-- {
		r := int(rnd() * float64(i+1))
		p[i], p[r] = p[r], p[i]
	}

	n := &Simplex{}
	for i := 0; i < 512; i++ {
		n.perm[i] = p[i&255]
		n.permMod12[i] = n.perm[i] % 12
	}
	return n
}

// corner returns the contribution of one simplex corner
func (n *Simplex) corner(gi uint8, x, y, z float64) float64 {
	t := 0.6 - x*x - y*y - z*z
	if t <= 0 {
		return 0
	}
	t *= t
	g := &grad3[gi]
	return t * t * (g[0]*x + g[1]*y + g[2]*z)
}

// Noise3D samples the field
func (n *Simplex) Noise3D(xin, yin, zin float64) float64 {
	s := (xin + yin + zin) * f3
	i := int(math.Floor(xin + s))
	j := int(math.Floor(yin + s))
	k := int(math.Floor(zin + s))
	t := float64(i+j+k) * g3
	x0 := xin - (float64(i) - t)
	y0 := yin - (float64(j) - t)
	z0 := zin - (float64(k) - t)

	// Simplex traversal order from the ranking of the offsets
	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, i2, j2 = 1, 1, 1
		case x0 >= z0:
			i1, i2, k2 = 1, 1, 1
		default:
			k1, i2, k2 = 1, 1, 1
		}
	} else {
		switch {
		case y0 < z0:
			k1, j2, k2 = 1, 1, 1
		case x0 < z0:
			j1, j2, k2 = 1, 1, 1
		default:
			j1, i2, j2 = 1, 1, 1
		}
	}

	x1 := x0 - float64(i1) + g3
	y1 := y0 - float64(j1) + g3
	z1 := z0 - float64(k1) + g3
	x2 := x0 - float64(i2) + 2*g3
	y2 := y0 - float64(j2) + 2*g3
	z2 := z0 - float64(k2) + 2*g3
	x3 := x0 - 1 + 3*g3
	y3 := y0 - 1 + 3*g3
	z3 := z0 - 1 + 3*g3

	ii := i & 255
	jj := j & 255
	kk := k & 255
	perm := &n.perm
	pm := &n.permMod12

	n0 := n.corner(pm[ii+int(perm[jj+int(perm[kk])])], x0, y0, z0)
	n1 := n.corner(pm[ii+i1+int(perm[jj+j1+int(perm[kk+k1])])], x1, y1, z1)
	n2 := n.corner(pm[ii+i2+int(perm[jj+j2+int(perm[kk+k2])])], x2, y2, z2)
	n3 := n.corner(pm[ii+1+int(perm[jj+1+int(perm[kk+1])])], x3, y3, z3)

	return simplexScale * (n0 + n1 + n2 + n3)
}
