package spark

// Observer receives engine events synchronously from Tick
// Implementations must return quickly and must not call back into the engine
type Observer interface {
	// OnBurst fires when a burst arms, count is the number of queued spawns
	OnBurst(count int)
	// OnVortex fires when a vortex arms, in viewport coordinates
	OnVortex(x, y, radius float64)
	// OnPop fires for every pop ember spawned
	OnPop(layer int)
}

// NopObserver ignores all events
type NopObserver struct{}

func (NopObserver) OnBurst(int)                        {}
func (NopObserver) OnVortex(float64, float64, float64) {}
func (NopObserver) OnPop(int)                          {}
