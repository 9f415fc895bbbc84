package search

import "github.com/kestrelchess/engine/internal/searchboard"

// Ordering score buckets, per §4.3.
const (
	ttBonus      = 1_000_000
	killerBase   = 100_000
	counterBonus = 1_000
)

// ScoreAction computes the ordering key for move among the legal moves at
// ply: the TT move is searched first unconditionally; killer, history and
// counter-move bonuses accumulate for everything else.
//
// Grounded on hailam-chessplay/internal/engine/ordering.go's MoveOrderer
// shape, generalized down to exactly the four buckets §4.3 names — the
// teacher's MVV-LVA, capture-history and piece-aware countermove tables are
// not carried over, since the abstract searchboard.Move has no piece-type
// field to score a capture against.
func ScoreAction(ctx *Context, move searchboard.Move, ttMove searchboard.Move, side, ply int) uint32 {
	if !ttMove.IsZero() && move == ttMove {
		return ttBonus
	}

	var score uint32
	for i, k := range ctx.Killer[ply] {
		if !k.IsZero() && k == move {
			score += uint32(killerBase - i)
			break
		}
	}

	if move.HasFrom {
		h := &ctx.History[side][move.From][move.To]
		score += h.Inc
		if h.HasCounter && h.CounterMove == move {
			score += counterBonus
		}
	}

	return score
}

// StoreKiller inserts move into ply's killer slots, shifting the rest down.
// If the first slot is already move, this is a no-op. If the first slot is
// empty, this is ALSO a no-op — a bug in the original implementation
// preserved deliberately here (see §9): a freshly initialized ply never
// records its first killer move.
func StoreKiller(ctx *Context, ply int, move searchboard.Move) {
	first := ctx.Killer[ply][0]
	if first.IsZero() || first == move {
		return
	}
	for i := Killers - 1; i >= 1; i-- {
		ctx.Killer[ply][i] = ctx.Killer[ply][i-1]
	}
	ctx.Killer[ply][0] = move
}

// UpdateHistory adds depth² to the (side, from, to) bucket's accumulated
// bonus and records move as its counter-move. The update mutates the table
// entry in place through a pointer into the array — not a local copy
// reassigned afterward — so the counter-move field persists, per §9.
func UpdateHistory(ctx *Context, side, from, to, depth int, move searchboard.Move) {
	h := &ctx.History[side][from][to]
	h.Inc += uint32(depth * depth)
	h.CounterMove = move
	h.HasCounter = true
}
