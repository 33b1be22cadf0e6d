package status

// Metric keys published by the spark engine
const (
	KeyParticles    = "spark.particles"
	KeyStreaks      = "spark.streaks"
	KeyParticleCap  = "spark.particle_cap"
	KeyStreakCap    = "spark.streak_cap"
	KeyFrames       = "spark.frames"
	KeyBursts       = "spark.bursts"
	KeyVortices     = "spark.vortices"
	KeyPops         = "spark.pops"
	KeyWind         = "spark.wind"
	KeyIntensity    = "spark.intensity"
	KeyWindStrength = "spark.wind_strength"
	KeyFrameMs      = "spark.frame_ms"
	KeySimTime      = "spark.time"
	KeyBurstActive  = "spark.burst_active"
	KeyVortexActive = "spark.vortex_active"
	KeyRunning      = "spark.running"
	KeyState        = "spark.state"
)
