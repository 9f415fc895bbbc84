package board

// classification is the pre-move analysis the adapter needs before it can
// call Position.MakeMove: which accumulator update path applies, and, for
// the incremental paths, the prior-state bitboard snapshots the feature
// encoder's delta computation (internal/feature.Delta) intersects against
// the board's post-move state.
//
// Grounded on original_source/src/engine/nnue/update.rs's
// register_hidden_updates, whose HistoryState variants (Single, Any, Other)
// this mirrors. Position.UndoInfo (see move.go) never populates the
// per-piece bitboards an undo would need to recover this after the fact —
// only CapturedPiece/CastlingRights/EnPassant/HalfMoveClock/Hash/Checkers
// are set — so the snapshot has to be taken here, before MakeMove mutates
// the position.
type undoKind uint8

const (
	kindSingle undoKind = iota
	kindAny
	kindOther
)

type pieceSnapshot struct {
	piece PieceType
	prior Bitboard // Pieces[White][piece] | Pieces[Black][piece], pre-move
}

type teamSnapshot struct {
	team  Color
	prior Bitboard // Occupied[team], pre-move
}

type classification struct {
	kind   undoKind
	pieces []pieceSnapshot
	teams  []teamSnapshot
}

// classify inspects m against p's state *before* MakeMove is called.
func classify(p *Position, m Move) classification {
	if m.IsCastling() || m.IsPromotion() || m.IsEnPassant() {
		return classification{kind: kindOther}
	}

	us := p.SideToMove
	them := us.Other()
	moverType := p.PieceAt(m.From()).Type()

	if !m.IsCapture(p) {
		return classification{
			kind:   kindSingle,
			pieces: []pieceSnapshot{piecePrior(p, moverType)},
			teams:  []teamSnapshot{teamPrior(p, us)},
		}
	}

	victimType := p.PieceAt(m.To()).Type()

	pieces := []pieceSnapshot{piecePrior(p, moverType)}
	if victimType != moverType {
		pieces = append(pieces, piecePrior(p, victimType))
	}

	return classification{
		kind:   kindAny,
		pieces: pieces,
		teams:  []teamSnapshot{teamPrior(p, us), teamPrior(p, them)},
	}
}

func piecePrior(p *Position, pt PieceType) pieceSnapshot {
	return pieceSnapshot{piece: pt, prior: p.Pieces[White][pt] | p.Pieces[Black][pt]}
}

func teamPrior(p *Position, c Color) teamSnapshot {
	return teamSnapshot{team: c, prior: p.Occupied[c]}
}
