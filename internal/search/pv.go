package search

import "github.com/kestrelchess/engine/internal/searchboard"

// PVTable is the triangular principal-variation table of §4.4: row ply
// holds the continuation from that ply to the end of the line negamax
// currently believes is best.
//
// Grounded on the teacher's inline PVTable handling in
// internal/engine/search.go (length/moves arrays, copy-the-continuation-up
// logic in negamax), factored into its own type as the spec names it as a
// distinct component, and on original_source/src/engine/pv.rs's
// init_pv/update_pv/display_pv for the exact bookkeeping.
type PVTable struct {
	length [MaxDepth]int
	table  [MaxDepth][MaxDepth]searchboard.Move
}

// InitPV resets the continuation length at ply before a fresh move loop.
func (pv *PVTable) InitPV(ply int) {
	pv.length[ply] = ply
}

// UpdatePV records move as the best move at ply and appends the
// continuation already established one ply deeper.
func (pv *PVTable) UpdatePV(ply int, move searchboard.Move) {
	pv.table[ply][ply] = move
	for i := ply + 1; i < pv.length[ply+1]; i++ {
		pv.table[ply][i] = pv.table[ply+1][i]
	}
	pv.length[ply] = pv.length[ply+1]
}

// Line returns the root principal variation as a move slice.
func (pv *PVTable) Line() []searchboard.Move {
	n := pv.length[0]
	out := make([]searchboard.Move, 0, n)
	for i := 0; i < n; i++ {
		m := pv.table[0][i]
		if m.IsZero() {
			break
		}
		out = append(out, m)
	}
	return out
}

// DisplayPV plays the root PV on b, collecting undo records, formats each
// move in the host protocol's string form, then unmakes every move in
// reverse order so b is restored exactly.
func DisplayPV(b searchboard.Board, pv *PVTable) []string {
	line := pv.Line()
	undos := make([]searchboard.UndoRecord, 0, len(line))
	moves := make([]searchboard.Move, 0, len(line))
	out := make([]string, 0, len(line))

	for _, m := range line {
		out = append(out, b.FormatMove(m))
		undos = append(undos, b.MakeMove(m))
		moves = append(moves, m)
	}

	for i := len(moves) - 1; i >= 0; i-- {
		b.UnmakeMove(moves[i], undos[i])
	}

	return out
}
