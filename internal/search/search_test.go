package search

import (
	"testing"

	"github.com/kestrelchess/engine/internal/board"
	"github.com/kestrelchess/engine/internal/feature"
	"github.com/kestrelchess/engine/internal/nnue"
	"github.com/kestrelchess/engine/internal/searchboard"
)

// zeroNetwork is an all-zero-weight network sized for a standard chess
// board (N = 64*2*6 = 768). Every position evaluates to exactly 0, which
// isolates the tests below to the search algorithm's own terminal/
// repetition/TT logic rather than any particular evaluation.
func zeroNetwork() *nnue.Network {
	const squares, teams, pieces, hidden, output = 64, 2, 6, 4, 1
	input := squares * teams * pieces

	hw := make([][]int16, hidden)
	for i := range hw {
		hw[i] = make([]int16, input)
	}
	ow := make([][]int16, output)
	for i := range ow {
		ow[i] = make([]int16, hidden)
	}

	return &nnue.Network{
		InputSize:    input,
		HiddenSize:   hidden,
		OutputSize:   output,
		HiddenWeight: hw,
		HiddenBias:   make([]int16, hidden),
		OutputWeight: ow,
		OutputBias:   make([]int16, output),
	}
}

// patternedNetwork is a deterministic, non-zero-weight network sized for a
// standard chess board, used where a test needs to tell two different
// hidden-weight rows apart (zeroNetwork can't, since every row sums to 0).
func patternedNetwork() *nnue.Network {
	const squares, teams, pieces, hidden, output = 64, 2, 6, 4, 1
	input := squares * teams * pieces

	hw := make([][]int16, hidden)
	for j := range hw {
		row := make([]int16, input)
		for i := range row {
			row[i] = int16((i*3+j*11)%13 - 6)
		}
		hw[j] = row
	}
	ow := make([][]int16, output)
	for o := range ow {
		row := make([]int16, hidden)
		for j := range row {
			row[j] = int16((j*5+o)%7 - 3)
		}
		ow[o] = row
	}

	return &nnue.Network{
		InputSize:    input,
		HiddenSize:   hidden,
		OutputSize:   output,
		HiddenWeight: hw,
		HiddenBias:   make([]int16, hidden),
		OutputWeight: ow,
		OutputBias:   make([]int16, output),
	}
}

// TestAccumulatorConsistencyAcrossMoverFlip plays one ply from the start
// position (side to move flips from team 0 to team 1) and checks the
// incrementally updated hidden accumulator against a from-scratch
// SaveFeatures+RefreshHidden of the resulting board, per Testable Property
// 2. A non-zero, asymmetric-weight network is required: a zero network or
// one fed an already-mover-relative index (rather than going through the
// real feature.Delta -> nnue.ApplyDelta pipeline) would not have caught a
// second, redundant perspective permutation being applied downstream.
func TestAccumulatorConsistencyAcrossMoverFlip(t *testing.T) {
	pos, err := board.ParseFEN(board.StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	pos.UpdateCheckers()
	sb := board.NewSearchBoard(pos)
	net := patternedNetwork()

	ctx := NewContext(sb, net, nil, SearchEnd{Kind: EndNone}, nil)

	moves := sb.GenerateLegalMoves()
	if len(moves) == 0 {
		t.Fatal("start position has no legal moves")
	}
	move := moves[0]

	undo := sb.MakeMove(move)
	applyUndo(ctx, undo, sb)

	want := nnue.AllocLayers(net)
	feature.SaveFeatures(want.Canonical, sb, ctx.Flips)
	nnue.RefreshHidden(&want, net)

	for j := range want.Hidden {
		if ctx.Layers.Hidden[j] != want.Hidden[j] {
			t.Errorf("hidden[%d] = %d after incremental update, want %d (full refresh)", j, ctx.Layers.Hidden[j], want.Hidden[j])
		}
	}
}

func TestSelectMoveMateInOne(t *testing.T) {
	// Fool's mate: 1. f3 e5 2. g4 Qh4#. Black to move.
	pos, err := board.ParseFEN("rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2")
	if err != nil {
		t.Fatal(err)
	}
	pos.UpdateCheckers()

	sb := board.NewSearchBoard(pos)
	net := zeroNetwork()

	best, eval, err := SelectMove(sb, net, nil, TimeControl{Kind: TCDepth, Depth: 3}, nil)
	if err != nil {
		t.Fatalf("SelectMove: %v", err)
	}

	got := sb.FormatMove(best)
	t.Logf("best move: %s, eval: %d", got, eval)

	if got != "d8h4" {
		t.Errorf("best move = %q, want %q (Qh4#)", got, "d8h4")
	}
	if eval < MaxScore/2 {
		t.Errorf("eval = %d, want a mate score (>= %d)", eval, MaxScore/2)
	}
}

func TestSelectMoveStalemate(t *testing.T) {
	pos, err := board.ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	pos.UpdateCheckers()

	sb := board.NewSearchBoard(pos)
	if len(sb.GenerateLegalMoves()) != 0 {
		t.Fatalf("expected no legal moves in stalemate position")
	}

	net := zeroNetwork()
	_, _, err = SelectMove(sb, net, nil, TimeControl{Kind: TCDepth, Depth: 1}, nil)
	if err != ErrNoLegalMove {
		t.Errorf("SelectMove on a stalemate position: err = %v, want ErrNoLegalMove", err)
	}
}

func TestNegamaxRepetitionShortcut(t *testing.T) {
	pos, err := board.ParseFEN(board.StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	pos.UpdateCheckers()
	sb := board.NewSearchBoard(pos)
	net := zeroNetwork()

	// Fabricate a hash stack whose last entry repeats the one four plies
	// back, simulating a forced repetition reachable from the root.
	ctx := NewContext(sb, net, nil, SearchEnd{Kind: EndNone}, nil)
	h := sb.Hash()
	ctx.Hashes = []uint64{h, h + 1, h + 2, h, h}

	score := Negamax(ctx, sb, MinScore, MaxScore, 1, 1)
	if score != 0 {
		t.Errorf("Negamax at a repeated position = %d, want 0", score)
	}
}

func TestTranspositionTableSpeedsUpRepeatSearch(t *testing.T) {
	pos, err := board.ParseFEN(board.StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	pos.UpdateCheckers()
	sb := board.NewSearchBoard(pos)
	net := zeroNetwork()

	ctx := NewContext(sb, net, nil, SearchEnd{Kind: EndNone}, nil)

	Negamax(ctx, sb, MinScore, MaxScore, 4, 0)
	firstNodes := ctx.Nodes

	ctx.Nodes = 0
	Negamax(ctx, sb, MinScore, MaxScore, 4, 0)
	secondNodes := ctx.Nodes

	t.Logf("first pass nodes: %d, second pass (TT warm) nodes: %d", firstNodes, secondNodes)
	if secondNodes*2 > firstNodes {
		t.Errorf("expected the TT-warm re-search to visit at least half as few nodes: first=%d second=%d", firstNodes, secondNodes)
	}
}

func TestKillerStorageGapPreserved(t *testing.T) {
	var ctx Context
	move := searchboard.Move{HasFrom: true, From: 1, To: 2}
	// First slot starts empty: storing must be a no-op (the preserved bug).
	StoreKiller(&ctx, 3, move)
	if !ctx.Killer[3][0].IsZero() {
		t.Errorf("StoreKiller wrote into an empty first slot; expected the preserved no-op behavior")
	}
}
