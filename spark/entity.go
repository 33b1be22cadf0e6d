package spark

// Particle is one pooled ember
// Shape fields describe a morphing rounded rectangle in units of the rendered size
type Particle struct {
	Layer int
	Pop   bool

	X, Y   float64
	VX, VY float64
	StartY float64

	Rotation float64
	Spin     float64

	Age  float64
	Life float64

	Size  float64
	Halo  float64
	Alpha float64

	Drag     float64
	Buoyancy float64
	Flow     float64

	Aspect    float64
	Chip      float64
	Skew      float64
	RectBaseW float64
	RectBaseH float64
	Roundness float64

	MorphSpeed float64
	MorphPhase float64

	FlickerHz    float64
	FlickerPhase float64

	CoolCurve   float64
	RampIn      float64
	BaseHeat    float64
	CoolingRate float64

	TonguePhase float64
	TongueAmp   float64
	TongueFreq  float64

	PopLen   float64
	PopAlpha float64

	// Seed decorrelates per-entity noise lookups
	Seed float64
}

// LifeT returns the normalized age in [0, 1)
func (p *Particle) LifeT() float64 {
	return p.Age / p.Life
}

// Streak is one pooled flash streak
type Streak struct {
	X, Y   float64
	VX, VY float64
	StartY float64

	Rotation float64
	Spin     float64

	Age  float64
	Life float64

	Length float64
	Width  float64
	Alpha  float64
	Heat   float64

	Drag      float64
	Flow      float64
	RiseBoost float64

	FlickerHz    float64
	FlickerPhase float64

	// PopBoost is above 1 for streaks spawned by a burst
	PopBoost float64
	Seed     float64
}

// LifeT returns the normalized age in [0, 1)
func (s *Streak) LifeT() float64 {
	return s.Age / s.Life
}
