package game

import "time"

// Clock supplies the current time as floating seconds. Attack cooldowns are
// wall-clock based rather than frame counted, which keeps combat pacing
// independent of frame rate; tests substitute a manual clock for
// determinism.
type Clock func() float64

// WallClock returns a Clock measuring seconds since its creation.
func WallClock() Clock {
	start := time.Now()
	return func() float64 {
		return time.Since(start).Seconds()
	}
}

// ManualClock is a hand-advanced Clock for tests and headless runs.
type ManualClock struct {
	now float64
}

// Now is the Clock func; pass mc.Now to the orchestrators.
func (mc *ManualClock) Now() float64 {
	return mc.now
}

// Advance moves the clock forward by dt seconds.
func (mc *ManualClock) Advance(dt float64) {
	mc.now += dt
}

// Set jumps the clock to an absolute time.
func (mc *ManualClock) Set(t float64) {
	mc.now = t
}
