package jsbsim

// Well-known property names in the simulator's property tree. The tree is
// open-ended; these are the ones this package's own tooling and tests rely
// on.
const (
	// PropSimTimeSec is the elapsed simulation time in seconds.
	PropSimTimeSec = "simulation/sim-time-sec"

	// PropCycleDuration is the wall-clock duration of the last cycle.
	PropCycleDuration = "simulation/cycle_duration"

	// PropEngineRunning reports whether engine 0 is running.
	PropEngineRunning = "propulsion/engine/set-running"

	// PropThrottleCmdNorm is the normalized commanded throttle position.
	PropThrottleCmdNorm = "fcs/throttle-cmd-norm"
)
