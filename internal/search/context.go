// Package search implements the fail-soft alpha-beta negamax core: move
// ordering, a transposition table, a triangular PV table, iterative
// deepening, and the NNUE-backed accumulator discipline that keeps
// evaluation incremental across make/unmake.
//
// Grounded on hailam-chessplay's internal/engine package (search.go,
// ordering.go, transposition.go, timeman.go) for Go shape and idiom, and on
// original_source/src/engine (negamax.rs, search_info.rs, pv.rs,
// ordering/*.rs) for the exact algorithm this core must reproduce,
// including its documented rough edges (no TT bound flag, the killer-slot
// storage gap, no quiescence).
package search

import (
	"log"
	"time"

	"github.com/kestrelchess/engine/internal/feature"
	"github.com/kestrelchess/engine/internal/nnue"
	"github.com/kestrelchess/engine/internal/searchboard"
)

// Tuning constants. Package-level, not configuration-file-driven, matching
// the teacher's Infinity/MateScore/MaxPly constants in its own search.go —
// the teacher's core search package has no runtime-configurable knob either.
const (
	MaxDepth = 100
	Killers  = 5
	TTSize   = 1_000_000

	MinScore = -1_000_000_000
	MaxScore = 1_000_000_000
)

// EndKind selects how a search's deadline is expressed.
type EndKind uint8

const (
	EndNone EndKind = iota
	EndNodes
	EndTime
)

// SearchEnd is the deadline a context is constructed with; see
// TimeControl.ToSearchEnd for how each host time-control variant maps here.
type SearchEnd struct {
	Kind     EndKind
	NodeCap  uint64
	Deadline time.Time
}

// HistoryEntry is one (side, from, to) bucket: an accumulated bonus and the
// last move that caused a cutoff from this square pair, used as a
// counter-move bonus. Always updated in place — see UpdateHistory.
type HistoryEntry struct {
	Inc         uint32
	CounterMove searchboard.Move
	HasCounter  bool
}

// Context holds every piece of mutable state one SelectMove call needs:
// the NNUE accumulator, the flip table, the node counter, the TT, the PV
// table, the ordering heuristic tables, the position-hash stack used for
// repetition detection, and the early-stop latch.
//
// Grounded on the teacher's Searcher struct (internal/engine/search.go) and
// on SearchInfo (original_source/src/engine/search_info.rs); this exact
// grouping is new code, since the teacher spreads the same state across
// Searcher, MoveOrderer and TranspositionTable separately.
type Context struct {
	Net    *nnue.Network
	Layers nnue.Layers
	Flips  []int

	Nodes uint64

	TT TranspositionTable
	PV PVTable

	History [2][64][64]HistoryEntry
	Killer  [MaxDepth][Killers]searchboard.Move

	Hashes []uint64

	End        SearchEnd
	EndedEarly bool

	BestMove searchboard.Move

	Logger *log.Logger
}

// NewContext allocates and seeds a fresh search context. priorHashes are the
// Zobrist hashes of positions already reached in the game, supplied by the
// host so repetition detection works across the whole game, not just the
// lines this search explores; the root position's own hash is pushed
// afterward, before descent begins.
func NewContext(b searchboard.Board, net *nnue.Network, priorHashes []uint64, end SearchEnd, logger *log.Logger) *Context {
	ctx := &Context{
		Net:    net,
		Layers: nnue.AllocLayers(net),
		Flips:  feature.CreateFlips(b),
		TT:     newTranspositionTable(),
		End:    end,
		Logger: logger,
	}
	feature.SaveFeatures(ctx.Layers.Canonical, b, ctx.Flips)
	nnue.RefreshHidden(&ctx.Layers, ctx.Net)

	ctx.Hashes = make([]uint64, 0, len(priorHashes)+MaxDepth)
	ctx.Hashes = append(ctx.Hashes, priorHashes...)
	ctx.Hashes = append(ctx.Hashes, b.Hash())

	return ctx
}

// deadlineHit reports whether the configured SearchEnd has been reached.
func (ctx *Context) deadlineHit() bool {
	switch ctx.End.Kind {
	case EndNodes:
		return ctx.Nodes >= ctx.End.NodeCap
	case EndTime:
		return !time.Now().Before(ctx.End.Deadline)
	default:
		return false
	}
}
