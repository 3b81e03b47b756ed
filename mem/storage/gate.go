package storage

import "fmt"

// A Gate admits one accessor at a time and counts down the service latency of
// the admitted access.
type Gate struct {
	delay     int
	countdown int
	holder    AccessorID
}

// NewGate creates a gate whose accesses take delay polls to time out.
func NewGate(delay int) Gate {
	if delay < 0 {
		panic(fmt.Sprintf("delay must not be negative, got %d", delay))
	}

	return Gate{
		delay:     delay,
		countdown: delay,
	}
}

// Admit makes id the holder if the gate is free. It reports whether id holds
// the gate and whether it has just been admitted. It panics on the null
// accessor.
func (g *Gate) Admit(id AccessorID) (admitted, isNew bool) {
	if id == NullAccessor {
		panic("accessor cannot be empty")
	}

	if g.holder == NullAccessor {
		g.holder = id
		return true, true
	}

	return g.holder == id, false
}

// Tick consumes one poll of the countdown. When the countdown has already
// reached zero, the holder is released, the countdown restarts, and Tick
// returns true.
func (g *Gate) Tick() bool {
	if g.countdown == 0 {
		g.holder = NullAccessor
		g.countdown = g.delay

		return true
	}

	g.countdown--

	return false
}

// Holder returns the accessor in flight, or NullAccessor.
func (g *Gate) Holder() AccessorID {
	return g.holder
}

// Countdown returns the number of polls left before the access can complete.
func (g *Gate) Countdown() int {
	return g.countdown
}

// Delay returns the configured latency.
func (g *Gate) Delay() int {
	return g.delay
}
