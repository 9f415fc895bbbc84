package search

import (
	"math"
	"strings"
	"time"

	"github.com/kestrelchess/engine/internal/searchboard"
)

// IterativeDeepening runs Negamax at increasing depth, 1..MaxDepth, until
// either the configured deadline trips or MaxDepth is reached, reporting
// one progress line per completed depth. It returns the deepest fully
// completed score.
//
// Grounded on original_source/src/engine/negamax.rs's negamax_iid for the
// iteration shape, the progress-line fields and their order, and on
// hailam-chessplay/internal/uci/uci.go's sendInfo for how the teacher
// formats an analogous info line (this core's line drops uci's "score"/
// "hashfull" keywords and adds "string bf", per §6).
func IterativeDeepening(ctx *Context, b searchboard.Board, maxDepth int) int32 {
	var last int32
	for depth := 1; depth <= maxDepth; depth++ {
		start := time.Now()
		ctx.Nodes = 0
		score := Negamax(ctx, b, MinScore, MaxScore, depth, 0)
		elapsed := time.Since(start)

		if ctx.EndedEarly {
			return last
		}
		last = score

		reportProgress(ctx, b, depth, score, elapsed)
	}
	return last
}

func reportProgress(ctx *Context, b searchboard.Board, depth int, score int32, elapsed time.Duration) {
	if ctx.Logger == nil {
		return
	}

	ms := elapsed.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	nps := ctx.Nodes * 1000 / uint64(ms)

	bf := 0.0
	if depth > 0 && ctx.Nodes > 0 {
		bf = math.Pow(float64(ctx.Nodes), 1.0/float64(depth))
	}

	pv := DisplayPV(b, &ctx.PV)

	ctx.Logger.Printf("info depth %d cp %d time %d nodes %d nps %d string bf %.2f pv %s",
		depth, score, elapsed.Milliseconds(), ctx.Nodes, nps, bf, strings.Join(pv, " "))
}
