package search

import (
	"errors"
	"log"
	"time"

	"github.com/kestrelchess/engine/internal/nnue"
	"github.com/kestrelchess/engine/internal/searchboard"
)

// ErrNoLegalMove is returned by SelectMove when the supplied position has
// no legal moves. The core never searches a terminal position; the host is
// responsible for checking game-over status before calling in.
var ErrNoLegalMove = errors.New("search: position has no legal moves")

// SelectMove is the core's single entry point (§6): build a fresh Context
// from priorHashes and timeControl, run iterative deepening, and report the
// best move and its evaluation. Logger may be nil to suppress progress
// reporting.
//
// Grounded on original_source/src/ugi.rs's SimpleEngine::select_move for
// the overall shape: build search_info, seed the accumulator from a full
// feature save, run negamax_iid, return best_move/evaluation.
func SelectMove(b searchboard.Board, net *nnue.Network, priorHashes []uint64, tc TimeControl, logger *log.Logger) (searchboard.Move, int32, error) {
	if len(b.GenerateLegalMoves()) == 0 {
		return searchboard.NoMove, 0, ErrNoLegalMove
	}

	end := tc.ToSearchEnd(time.Now())
	ctx := NewContext(b, net, priorHashes, end, logger)

	eval := IterativeDeepening(ctx, b, tc.MaxIterations())

	return ctx.BestMove, eval, nil
}
