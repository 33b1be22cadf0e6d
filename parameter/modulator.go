package parameter

// Wind (pixels/s^2 of rightward push before rise scaling)
const (
	WindInitialFrom  = 34.0
	WindInitialTo    = 52.0
	WindInitialValue = 42.0

	WindInitialDurationMin = 6.0
	WindInitialDurationMax = 12.0
	WindDurationMin        = 5.0
	WindDurationMax        = 15.0
	WindTargetMin          = 28.0
	WindTargetMax          = 66.0
)

// Burst
const (
	BurstInitialCooldownMin = 3.6
	BurstInitialCooldownMax = 8.6
	BurstCooldownMin        = 4.2
	BurstCooldownMax        = 9.2
	BurstCountMin           = 10.0
	BurstCountMax           = 30.0
	BurstDurationMin        = 0.2
	BurstDurationMax        = 0.5
	// BurstStreakChance is the per-spawn chance of an extra streak during a burst
	BurstStreakChance = 0.08
)

// Vortex
const (
	VortexInitialCooldownMin = 9.0
	VortexInitialCooldownMax = 17.0
	VortexCooldownMin        = 10.0
	VortexCooldownMax        = 18.0
	VortexRetryCooldownMin   = 7.0
	VortexRetryCooldownMax   = 12.0
	VortexArmChance          = 0.66
	VortexDurationMin        = 1.2
	VortexDurationMax        = 2.4
	VortexStrengthMin        = 22.0
	VortexStrengthMax        = 56.0

	// Placement and size as viewport fractions
	VortexXMin      = 0.38
	VortexXMax      = 0.64
	VortexYMin      = 0.32
	VortexYMax      = 0.62
	VortexRadiusMin = 0.09
	VortexRadiusMax = 0.18

	// VortexStreakScale damps the swirl applied to streaks
	VortexStreakScale = 0.8
)
