package board

import "github.com/kestrelchess/engine/internal/searchboard"

// searchAdapter satisfies searchboard.Board over a *Position, translating
// between the engine's packed Move/UndoInfo representation and the search
// core's board-agnostic Move/UndoRecord pair.
//
// Grounded on the teacher's own board package for every method that is a
// thin pass-through (PieceAt, Hash, GenerateLegalMoves, ...), and on
// classify.go/original_source's register_hidden_updates for the undo
// bookkeeping MakeMove/UnmakeMove add on top.
type searchAdapter struct {
	pos *Position
}

// NewSearchBoard wraps pos to satisfy searchboard.Board.
func NewSearchBoard(pos *Position) searchboard.Board {
	return &searchAdapter{pos: pos}
}

func (a *searchAdapter) Squares() int    { return 64 }
func (a *searchAdapter) Teams() int      { return 2 }
func (a *searchAdapter) PieceKinds() int { return 6 }

func (a *searchAdapter) SideToMove() int { return int(a.pos.SideToMove) }

func (a *searchAdapter) AllOccupied() uint64 { return uint64(a.pos.AllOccupied) }

func (a *searchAdapter) TeamOccupied(team int) uint64 {
	return uint64(a.pos.Occupied[Color(team)])
}

func (a *searchAdapter) PieceOccupied(piece int) uint64 {
	pt := PieceType(piece)
	return uint64(a.pos.Pieces[White][pt] | a.pos.Pieces[Black][pt])
}

func (a *searchAdapter) VerticalFlip(square int) int {
	return int(Square(square).Mirror())
}

func (a *searchAdapter) Hash() uint64 { return a.pos.Hash }

func (a *searchAdapter) GenerateLegalMoves() []searchboard.Move {
	ml := a.pos.GenerateLegalMoves()
	out := make([]searchboard.Move, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		out[i] = toSearchMove(ml.Get(i))
	}
	return out
}

// Resolve reports the game outcome implied by an empty move list, or
// Ongoing for a non-empty one. Draws by the 50-move rule and insufficient
// material are folded in alongside stalemate; repetition is not checked
// here (the search core tracks that itself via its hash stack).
func (a *searchAdapter) Resolve(moves []searchboard.Move) searchboard.GameResult {
	if len(moves) == 0 {
		if a.pos.InCheck() {
			return searchboard.GameResult{Kind: searchboard.Win, Team: int(a.pos.SideToMove.Other())}
		}
		return searchboard.GameResult{Kind: searchboard.Draw}
	}
	if a.pos.HalfMoveClock >= 100 || a.pos.IsInsufficientMaterial() {
		return searchboard.GameResult{Kind: searchboard.Draw}
	}
	return searchboard.GameResult{Kind: searchboard.Ongoing}
}

// adapterUndo bundles the underlying engine undo with the classification
// computed before the move was made.
type adapterUndo struct {
	info UndoInfo
	cls  classification
}

func (a *searchAdapter) MakeMove(m searchboard.Move) searchboard.UndoRecord {
	mv := fromSearchMove(m, a.pos)
	cls := classify(a.pos, mv)
	info := a.pos.MakeMove(mv)

	rec := searchboard.UndoRecord{Token: adapterUndo{info: info, cls: cls}}
	switch cls.kind {
	case kindSingle, kindAny:
		if cls.kind == kindSingle {
			rec.Kind = searchboard.UndoSingle
		} else {
			rec.Kind = searchboard.UndoAny
		}
		for _, ps := range cls.pieces {
			rec.Pieces = append(rec.Pieces, searchboard.PieceDelta{Piece: int(ps.piece), PriorBoard: uint64(ps.prior)})
		}
		for _, ts := range cls.teams {
			rec.Teams = append(rec.Teams, searchboard.TeamDelta{Team: int(ts.team), PriorBoard: uint64(ts.prior)})
		}
	default:
		rec.Kind = searchboard.UndoOther
	}
	return rec
}

func (a *searchAdapter) UnmakeMove(m searchboard.Move, undo searchboard.UndoRecord) {
	mv := fromSearchMove(m, a.pos)
	au := undo.Token.(adapterUndo)
	a.pos.UnmakeMove(mv, au.info)
}

func (a *searchAdapter) FormatMove(m searchboard.Move) string {
	return fromSearchMove(m, a.pos).String()
}

// toSearchMove/fromSearchMove translate between board.Move's packed
// from/to/promo/flag encoding and searchboard.Move's generic shape. Info
// packs the flag into the high bits and Promotion()'s piece type into the
// low bits (Knight for a non-promotion move; fromSearchMove reads it back
// only when the flag says promotion), which is all fromSearchMove needs to
// reconstruct the exact board.Move bit pattern.
func toSearchMove(m Move) searchboard.Move {
	if m == NoMove {
		return searchboard.NoMove
	}
	return searchboard.Move{
		HasFrom: true,
		From:    int(m.From()),
		To:      int(m.To()),
		Info:    uint16(m.Flag()) | uint16(m.Promotion()),
	}
}

func fromSearchMove(sm searchboard.Move, pos *Position) Move {
	if sm.IsZero() || sm.Pass {
		return NoMove
	}
	from, to := Square(sm.From), Square(sm.To)
	flag := sm.Info & (3 << 14)
	switch flag {
	case FlagPromotion:
		return NewPromotion(from, to, PieceType(sm.Info&0x7))
	case FlagEnPassant:
		return NewEnPassant(from, to)
	case FlagCastling:
		return NewCastling(from, to)
	default:
		return NewMove(from, to)
	}
}
