package search

import "github.com/kestrelchess/engine/internal/searchboard"

// TTEntry is a single transposition-table slot, exactly the spec's literal
// { depth, eval, best_move } shape (§3). There is deliberately no bound
// flag (exact/lower/upper) and no key to disambiguate an address collision:
// every stored entry is treated as exact on probe, and a probe that hits a
// foreign position's entry is served anyway — an unsoundness the spec
// requires preserved rather than fixed, see DESIGN.md and §9 of the design
// notes.
type TTEntry struct {
	Occupied bool
	Depth    int
	Eval     int32
	Best     searchboard.Move
}

// TranspositionTable is a fixed 1,000,000-slot, direct-mapped,
// always-replace table. Size is the spec's literal constant, addressed by
// hash % TTSize — not rounded to a power of two and masked, as the
// teacher's own table does.
type TranspositionTable struct {
	slots []TTEntry
}

// newTranspositionTable allocates the table's backing slice once.
func newTranspositionTable() TranspositionTable {
	return TranspositionTable{slots: make([]TTEntry, TTSize)}
}

// Probe returns the entry at hash's slot and whether it is occupied. A
// direct-mapped table with no stored key has no way to detect an address
// collision, so a foreign position's entry is reported as a hit — the
// table never disambiguates, by design.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	e := tt.slots[hash%TTSize]
	if !e.Occupied {
		return TTEntry{}, false
	}
	return e, true
}

// Store always overwrites the slot at hash's index, regardless of what was
// there before.
func (tt *TranspositionTable) Store(hash uint64, depth int, eval int32, best searchboard.Move) {
	tt.slots[hash%TTSize] = TTEntry{Occupied: true, Depth: depth, Eval: eval, Best: best}
}
