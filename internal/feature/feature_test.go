package feature

import (
	"testing"

	"github.com/kestrelchess/engine/internal/searchboard"
)

// fakeBoard is a minimal 4-square, 2-team, 1-piece-kind board used to
// exercise the encoder in isolation from the real chess board package.
// Squares 0..3 sit in a line; VerticalFlip mirrors end to end (0<->3,
// 1<->2), matching the teacher's square-mirroring convention scaled down.
type fakeBoard struct {
	teamOcc [2]uint64
	mover   int
}

func (b *fakeBoard) Squares() int    { return 4 }
func (b *fakeBoard) Teams() int      { return 2 }
func (b *fakeBoard) PieceKinds() int { return 1 }
func (b *fakeBoard) SideToMove() int { return b.mover }
func (b *fakeBoard) AllOccupied() uint64 {
	return b.teamOcc[0] | b.teamOcc[1]
}
func (b *fakeBoard) TeamOccupied(team int) uint64  { return b.teamOcc[team] }
func (b *fakeBoard) PieceOccupied(piece int) uint64 { return b.teamOcc[0] | b.teamOcc[1] }
func (b *fakeBoard) VerticalFlip(sq int) int        { return 3 - sq }
func (b *fakeBoard) Hash() uint64                   { return 0 }
func (b *fakeBoard) GenerateLegalMoves() []searchboard.Move { return nil }
func (b *fakeBoard) Resolve(moves []searchboard.Move) searchboard.GameResult {
	return searchboard.GameResult{}
}
func (b *fakeBoard) MakeMove(m searchboard.Move) searchboard.UndoRecord { return searchboard.UndoRecord{} }
func (b *fakeBoard) UnmakeMove(m searchboard.Move, u searchboard.UndoRecord) {}
func (b *fakeBoard) FormatMove(m searchboard.Move) string { return "" }

func TestSaveFeaturesSymmetry(t *testing.T) {
	// Team 1 (to move) owns square 0.
	a := &fakeBoard{mover: 1}
	a.teamOcc[1] = 1 << 0
	flipsA := CreateFlips(a)
	fa := GetFeatures(a, flipsA)

	// The mirror image: team 0 (to move) owns square 3.
	b := &fakeBoard{mover: 0}
	b.teamOcc[0] = 1 << 3
	flipsB := CreateFlips(b)
	fb := GetFeatures(b, flipsB)

	t.Logf("a features: %v", fa)
	t.Logf("b features: %v", fb)

	if len(fa) != len(fb) {
		t.Fatalf("feature vector length mismatch: %d vs %d", len(fa), len(fb))
	}
	for i := range fa {
		if fa[i] != fb[i] {
			t.Errorf("index %d: mirrored boards disagree: %d vs %d", i, fa[i], fb[i])
		}
	}
}

func TestDeltaMatchesFullRecompute(t *testing.T) {
	flips := []int{3, 2, 1, 0}

	before := &fakeBoard{mover: 0}
	before.teamOcc[0] = 1 << 0 // our piece at square 0

	after := &fakeBoard{mover: 0}
	after.teamOcc[0] = 1 << 1 // moved to square 1 (quiet move)

	rec := searchboard.UndoRecord{
		Kind:  searchboard.UndoSingle,
		Teams: []searchboard.TeamDelta{{Team: 0, PriorBoard: before.teamOcc[0]}},
		Pieces: []searchboard.PieceDelta{{
			Piece:      0,
			PriorBoard: before.teamOcc[0] | before.teamOcc[1],
		}},
	}

	added, removed := Delta(rec, after, flips)

	fBefore := GetFeatures(before, flips)
	fAfter := GetFeatures(after, flips)

	for _, idx := range removed {
		if fBefore[idx] == 0 {
			t.Errorf("removed index %d was not set before the move", idx)
		}
		if fAfter[idx] != 0 {
			t.Errorf("removed index %d is still set after the move", idx)
		}
	}
	for _, idx := range added {
		if fAfter[idx] == 0 {
			t.Errorf("added index %d is not set after the move", idx)
		}
	}

	// Reconstruct fBefore from fAfter by reversing the delta and compare.
	reconstructed := append([]int16(nil), fAfter...)
	for _, idx := range added {
		reconstructed[idx] = 0
	}
	for _, idx := range removed {
		reconstructed[idx] = 1
	}
	for i := range reconstructed {
		if reconstructed[i] != fBefore[i] {
			t.Fatalf("index %d: delta-reconstructed vector disagrees with a full recompute: got %d, want %d", i, reconstructed[i], fBefore[i])
		}
	}
}

// TestDeltaMatchesFullRecomputeMoverOne repeats TestDeltaMatchesFullRecompute
// with team 1 to move on both sides of the move, exercising the square-flip
// and team-swap Delta applies when the mover is not team 0 — the path a
// redundant second permutation downstream would silently corrupt.
func TestDeltaMatchesFullRecomputeMoverOne(t *testing.T) {
	flips := []int{3, 2, 1, 0}

	before := &fakeBoard{mover: 1}
	before.teamOcc[1] = 1 << 0 // our piece at square 0

	after := &fakeBoard{mover: 1}
	after.teamOcc[1] = 1 << 1 // moved to square 1 (quiet move)

	rec := searchboard.UndoRecord{
		Kind:  searchboard.UndoSingle,
		Teams: []searchboard.TeamDelta{{Team: 1, PriorBoard: before.teamOcc[1]}},
		Pieces: []searchboard.PieceDelta{{
			Piece:      0,
			PriorBoard: before.teamOcc[0] | before.teamOcc[1],
		}},
	}

	added, removed := Delta(rec, after, flips)

	fBefore := GetFeatures(before, flips)
	fAfter := GetFeatures(after, flips)

	reconstructed := append([]int16(nil), fAfter...)
	for _, idx := range added {
		reconstructed[idx] = 0
	}
	for _, idx := range removed {
		reconstructed[idx] = 1
	}
	for i := range reconstructed {
		if reconstructed[i] != fBefore[i] {
			t.Fatalf("index %d: delta-reconstructed vector disagrees with a full recompute: got %d, want %d", i, reconstructed[i], fBefore[i])
		}
	}
}
