package search

import "time"

// PlayerClock is one side's remaining time and increment, in milliseconds,
// for the Timed time-control variant.
type PlayerClock struct {
	RemainingMs int64
	IncrementMs int64
}

// TimeControlKind selects which host-supplied time control SelectMove
// should honor.
type TimeControlKind uint8

const (
	TCDepth TimeControlKind = iota
	TCNodes
	TCMoveTime
	TCTimed
	TCInfinite
)

// TimeControl mirrors the host's §6 time-control variants.
type TimeControl struct {
	Kind     TimeControlKind
	Depth    int
	Nodes    uint64
	MoveTime time.Duration
	Clock    PlayerClock
}

// ToSearchEnd maps a TimeControl to the SearchEnd a Context is constructed
// with, per §6's table: Depth and Infinite carry no deadline (the depth
// cap comes from MaxIterations: the requested depth for Depth, MaxDepth for
// Infinite); Nodes and MoveTime map directly; Timed applies the literal
// formula time = clock/30 + inc, halved to clock/2 when clock < inc, minus
// a 5ms safety margin.
//
// Grounded on original_source/src/ugi.rs's SimpleEngine::select_move match
// arms (the source of the literal formula) and hailam-chessplay's
// internal/engine/timeman.go for Go naming — the teacher's adaptive
// stability/instability time adjustment is not carried over, since §6
// names one fixed formula with no feedback loop.
func (tc TimeControl) ToSearchEnd(now time.Time) SearchEnd {
	switch tc.Kind {
	case TCNodes:
		return SearchEnd{Kind: EndNodes, NodeCap: tc.Nodes}
	case TCMoveTime:
		return SearchEnd{Kind: EndTime, Deadline: now.Add(tc.MoveTime)}
	case TCTimed:
		clock, inc := tc.Clock.RemainingMs, tc.Clock.IncrementMs
		budget := clock/30 + inc
		if clock < inc {
			budget = clock / 2
		}
		budget -= 5
		if budget < 0 {
			budget = 0
		}
		return SearchEnd{Kind: EndTime, Deadline: now.Add(time.Duration(budget) * time.Millisecond)}
	default: // TCDepth, TCInfinite
		return SearchEnd{Kind: EndNone}
	}
}

// MaxIterations returns the iterative-deepening depth cap this time
// control implies: the host's requested depth for TCDepth, MaxDepth
// otherwise.
func (tc TimeControl) MaxIterations() int {
	if tc.Kind == TCDepth && tc.Depth > 0 && tc.Depth < MaxDepth {
		return tc.Depth
	}
	return MaxDepth
}
