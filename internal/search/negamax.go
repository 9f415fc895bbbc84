package search

import (
	"sort"

	"github.com/kestrelchess/engine/internal/feature"
	"github.com/kestrelchess/engine/internal/nnue"
	"github.com/kestrelchess/engine/internal/searchboard"
)

// scoredMove pairs a generated move with its ordering key so Sort can
// reorder them without re-deriving the score.
type scoredMove struct {
	move  searchboard.Move
	score uint32
}

// Negamax runs fail-soft alpha-beta search to depth from ply, returning a
// value in [MinScore, MaxScore]. See §4.6 for the exact step ordering this
// follows: leaf, early-stop, repetition, terminal, TT probe, ordering,
// PV init, move loop, finalize.
//
// Grounded on hailam-chessplay/internal/engine/search.go's negamax for Go
// idiom (stop-flag check cadence, node counting, PV propagation) and on
// original_source/src/engine/negamax.rs's negamax for the literal step
// order, which this follows even where it differs from the teacher's own
// ordering (the teacher probes its TT before checking for draws; this core
// checks repetition and terminal status first, matching the original).
func Negamax(ctx *Context, b searchboard.Board, alpha, beta int32, depth, ply int) int32 {
	if depth == 0 {
		return nnue.Eval(&ctx.Layers, ctx.Net)
	}

	if ctx.EndedEarly {
		return 0
	}
	if depth > 1 && ctx.deadlineHit() {
		ctx.EndedEarly = true
		return 0
	}

	if ply > 0 {
		n := len(ctx.Hashes)
		if n >= 5 && ctx.Hashes[n-1] == ctx.Hashes[n-5] {
			return 0
		}
	}

	// Terminal check and move generation are folded into one pass, per
	// §4.6 step 4's note that implementations may combine the two
	// generations the original performs separately at depth > 1 and again
	// unconditionally afterward.
	moves := b.GenerateLegalMoves()
	switch res := b.Resolve(moves); res.Kind {
	case searchboard.Draw:
		return 0
	case searchboard.Win:
		if res.Team == b.SideToMove() {
			return int32(MaxScore) - int32(ply)
		}
		return int32(MinScore) + int32(ply)
	}

	hash := ctx.Hashes[len(ctx.Hashes)-1]
	var ttMove searchboard.Move
	if entry, ok := ctx.TT.Probe(hash); ok && entry.Depth >= depth {
		if ply == 0 {
			ctx.BestMove = entry.Best
			ctx.PV.InitPV(0)
			ctx.PV.UpdatePV(0, entry.Best)
		}
		return entry.Eval
	} else if ok {
		ttMove = entry.Best
	}

	side := b.SideToMove()
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: ScoreAction(ctx, m, ttMove, side, ply)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	ctx.PV.InitPV(ply)
	searched := 0
	bestScore := int32(MinScore)
	bestMove := scored[0].move

	for _, sm := range scored {
		move := sm.move
		ctx.Nodes++
		searched++

		undo := b.MakeMove(move)
		ctx.Hashes = append(ctx.Hashes, b.Hash())
		snap := applyUndo(ctx, undo, b)

		var score int32
		if searched == 1 {
			score = -Negamax(ctx, b, -beta, -alpha, depth-1, ply+1)
		} else {
			score = -Negamax(ctx, b, -alpha-1, -alpha, depth-1, ply+1)
			if score > alpha && score < beta {
				score = -Negamax(ctx, b, -beta, -alpha, depth-1, ply+1)
			}
		}

		reverseUndo(ctx, undo, b, snap)
		ctx.Hashes = ctx.Hashes[:len(ctx.Hashes)-1]
		b.UnmakeMove(move, undo)

		if score > bestScore {
			bestScore = score
			bestMove = move
			ctx.PV.UpdatePV(ply, bestMove)
			if score > alpha {
				alpha = score
			}
		}

		if score >= beta {
			bestMove = move
			StoreKiller(ctx, ply, move)
			if move.HasFrom {
				UpdateHistory(ctx, side, move.From, move.To, depth, move)
			}
			break
		}
	}

	if ply == 0 {
		ctx.BestMove = bestMove
	}
	if !bestMove.IsZero() {
		ctx.TT.Store(hash, depth, alpha, bestMove)
	}

	return bestScore
}

// accumSnapshot preserves the accumulator as it stood before an UndoOther
// move, so it can be restored exactly rather than re-derived: the original
// implementation relies on the ancestor frame's accumulator never having
// been overwritten on the way back out (see §5), which this core achieves
// by copying instead.
type accumSnapshot struct {
	canonical []int16
	hidden    []int16
	raw       []int32
}

// applyUndo advances the hidden accumulator to reflect the move just made
// on b, using undo's classification. Single/Any apply an incremental
// delta; Other rebuilds the mover-relative input snapshot from scratch,
// after saving the pre-move accumulator so reverseUndo can restore it.
func applyUndo(ctx *Context, undo searchboard.UndoRecord, b searchboard.Board) *accumSnapshot {
	switch undo.Kind {
	case searchboard.UndoSingle, searchboard.UndoAny:
		added, removed := feature.Delta(undo, b, ctx.Flips)
		nnue.ApplyDelta(&ctx.Layers, ctx.Net, added, removed)
		return nil
	default:
		snap := &accumSnapshot{
			canonical: append([]int16(nil), ctx.Layers.Canonical...),
			hidden:    append([]int16(nil), ctx.Layers.Hidden...),
			raw:       append([]int32(nil), ctx.Layers.Raw...),
		}
		feature.SaveFeatures(ctx.Layers.Canonical, b, ctx.Flips)
		nnue.RefreshHidden(&ctx.Layers, ctx.Net)
		return snap
	}
}

// reverseUndo undoes applyUndo's effect before the board move itself is
// unmade: Single/Any swap the add/remove sets (board state has not yet
// reverted, so the same delta applies in reverse); Other restores the
// snapshot taken before the refresh.
func reverseUndo(ctx *Context, undo searchboard.UndoRecord, b searchboard.Board, snap *accumSnapshot) {
	switch undo.Kind {
	case searchboard.UndoSingle, searchboard.UndoAny:
		added, removed := feature.Delta(undo, b, ctx.Flips)
		nnue.ApplyDelta(&ctx.Layers, ctx.Net, removed, added)
	default:
		copy(ctx.Layers.Canonical, snap.canonical)
		copy(ctx.Layers.Hidden, snap.hidden)
		copy(ctx.Layers.Raw, snap.raw)
	}
}
