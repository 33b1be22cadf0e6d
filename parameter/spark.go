package parameter

// Pools
const (
	// MaxParticles is the ember pool capacity
	MaxParticles = 360
	// MaxStreaks is the flash-streak pool capacity
	MaxStreaks = 92
)

// Controls
const (
	IntensityMin     = 0.2
	IntensityMax     = 2.8
	IntensityDefault = 1.0

	WindStrengthMin     = 0.0
	WindStrengthMax     = 2.5
	WindStrengthDefault = 1.0

	// MaxDPR caps device pixel density used for the backing store
	MaxDPR = 2.0
)

// Frame timing (seconds)
const (
	DefaultFrameDt = 1.0 / 60.0
	MaxFrameDt     = 0.05
)

// Admission caps: round((base + intensity*perIntensity) * headroom)
const (
	ParticleCapBase         = 58.0
	ParticleCapPerIntensity = 62.0
	ParticleCapHeadroom     = 1.75

	StreakCapBase         = 12.0
	StreakCapPerIntensity = 12.0
	StreakCapHeadroom     = 1.45
)

// Emission rates (spawns per second per unit intensity)
const (
	EmitRatePerIntensity = 11.8
	// EmitRateBoost scales the base ember rate
	EmitRateBoost          = 1.6
	StreakRatePerIntensity = 0.32
)

// Plume geometry, fractions of the viewport
const (
	// EmberSizeScale converts layer size units to pixels
	EmberSizeScale = 2.1
	SourceXBase    = 0.14
	TargetXBase    = 0.52
	// FlameAreaScale widens every meander and spread term
	FlameAreaScale = 5.0

	TopFadeStart = 0.26
	TopFadeEnd   = 0.085

	ParticleBoundLeft   = -0.24
	ParticleBoundRight  = 1.35
	ParticleBoundTopPad = 20.0

	StreakBoundLeft   = -0.18
	StreakBoundRight  = 1.18
	StreakBoundTopPad = 16.0
)

// Visibility culling thresholds
const (
	MinVisibleAlpha  = 0.004
	MinVisibleSize   = 0.12
	MinStreakAlpha   = 0.008
	PopTrailMinSpeed = 120.0
	PopTrailMaxLifeT = 0.55
)

// Layer is one preset band of spawn parameters
type Layer struct {
	Weight             float64
	SpeedMin, SpeedMax float64
	SizeMin, SizeMax   float64
	AlphaMin, AlphaMax float64
	HaloMin, HaloMax   float64
	Drag               float64
	Buoyancy           float64
	Flow               float64
	PopChance          float64
}

// Layers are ordered slow/dim to fast/bright, weights must sum to at most 1
// Residual probability falls through to the last layer
var Layers = [3]Layer{
	{
		Weight:   0.44,
		SpeedMin: 24, SpeedMax: 62,
		SizeMin: 0.65, SizeMax: 1.25,
		AlphaMin: 0.12, AlphaMax: 0.36,
		HaloMin: 2.2, HaloMax: 3.2,
		Drag:      0.992,
		Buoyancy:  26,
		Flow:      16,
		PopChance: 0.02,
	},
	{
		Weight:   0.36,
		SpeedMin: 42, SpeedMax: 94,
		SizeMin: 0.95, SizeMax: 1.85,
		AlphaMin: 0.2, AlphaMax: 0.58,
		HaloMin: 2.8, HaloMax: 3.9,
		Drag:      0.989,
		Buoyancy:  38,
		Flow:      24,
		PopChance: 0.06,
	},
	{
		Weight:   0.2,
		SpeedMin: 68, SpeedMax: 138,
		SizeMin: 1.45, SizeMax: 2.65,
		AlphaMin: 0.34, AlphaMax: 0.86,
		HaloMin: 3.4, HaloMax: 4.8,
		Drag:      0.985,
		Buoyancy:  52,
		Flow:      34,
		PopChance: 0.1,
	},
}

// BurstPopMultiplier scales layer pop chance for burst spawns
const BurstPopMultiplier = 2.0

// ColorStop is one entry of the heat ramp
type ColorStop struct {
	Heat    float64
	R, G, B uint8
}

// HeatStops run deep red to pale yellow-white, heats strictly increasing from 0 to 1
var HeatStops = [6]ColorStop{
	{0.0, 86, 26, 8},
	{0.22, 148, 50, 12},
	{0.48, 210, 92, 20},
	{0.72, 255, 150, 44},
	{0.9, 255, 206, 118},
	{1.0, 255, 244, 216},
}
