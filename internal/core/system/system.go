package system

// Phase defines execution ordering within a single simulation step.
type Phase int

const (
	PhaseTime    Phase = iota // 0: advance the clock
	PhaseEarly                // 1: react to last tick's added/removed sets
	PhaseUpdate               // 2: stat updates, life events
	PhaseLate                 // 3: derived bookkeeping
	PhaseCollect              // 4: metrics and export sinks
	PhaseCleanup              // 5: clear tracking sets and the tick event buffer
)

// System is one unit of per-tick simulation logic. Update runs synchronously
// to completion; an error aborts the step and surfaces to the host, which is
// reserved for genuine invariant violations — an empty query result or a
// failed role binding is never an error.
type System interface {
	Phase() Phase
	Update() error
}

// Prioritized is optionally implemented by systems that need ordering within
// their phase. Higher priority runs first; the default is 0, and ties keep
// registration order.
type Prioritized interface {
	Priority() int
}
