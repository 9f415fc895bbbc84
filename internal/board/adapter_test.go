package board

import "testing"

// makeUnmakeRoundTrip plays every legal move from pos once, via the
// search-facing adapter, and checks the position is restored bit-for-bit
// (hash included) after MakeMove/UnmakeMove.
func makeUnmakeRoundTrip(t *testing.T, fen string) {
	t.Helper()

	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	pos.UpdateCheckers()

	sb := NewSearchBoard(pos)
	moves := sb.GenerateLegalMoves()
	t.Logf("%d legal moves from %q", len(moves), fen)

	for _, m := range moves {
		before := pos.Hash
		beforeFEN := pos.ToFEN()

		undo := sb.MakeMove(m)
		sb.UnmakeMove(m, undo)

		if pos.Hash != before {
			t.Errorf("move %s: hash not restored: got %d, want %d", sb.FormatMove(m), pos.Hash, before)
		}
		if pos.ToFEN() != beforeFEN {
			t.Errorf("move %s: FEN not restored: got %q, want %q", sb.FormatMove(m), pos.ToFEN(), beforeFEN)
		}
	}
}

func TestMakeUnmakeRoundTripStartPos(t *testing.T) {
	makeUnmakeRoundTrip(t, StartFEN)
}

func TestMakeUnmakeRoundTripCastlingRights(t *testing.T) {
	makeUnmakeRoundTrip(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
}

func TestMakeUnmakeRoundTripEnPassant(t *testing.T) {
	makeUnmakeRoundTrip(t, "rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2")
}

func TestMakeUnmakeRoundTripPromotion(t *testing.T) {
	makeUnmakeRoundTrip(t, "8/P6k/8/8/8/8/7p/K7 w - - 0 1")
}

func TestClassifyKinds(t *testing.T) {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	cls := classify(pos, NewMove(E2, E4))
	if cls.kind != kindSingle {
		t.Errorf("quiet pawn push: kind = %v, want kindSingle", cls.kind)
	}

	pos2, err := ParseFEN("4k3/8/8/8/4r3/8/4R3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	cls2 := classify(pos2, NewMove(E2, E4))
	if cls2.kind != kindAny {
		t.Errorf("rook takes rook: kind = %v, want kindAny", cls2.kind)
	}
	if len(cls2.pieces) != 1 {
		t.Errorf("rook takes rook (same piece kind both sides): want 1 piece snapshot (deduped), got %d", len(cls2.pieces))
	}

	cls3 := classify(pos, NewCastling(E1, G1))
	if cls3.kind != kindOther {
		t.Errorf("castling: kind = %v, want kindOther", cls3.kind)
	}
}
