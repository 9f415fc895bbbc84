package board

import (
	"fmt"
	"strings"
)

// CastlingRights is a 4-bit set of which castling moves are still legally
// available, independent of whether the king's path happens to be blocked
// or attacked right now.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                             // q
	NoCastling  CastlingRights = 0
	AllCastling CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String renders the rights in FEN castling-field order (KQkq), omitting
// any that are absent, or "-" if none remain.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var b strings.Builder
	for _, bit := range []struct {
		flag CastlingRights
		ch   byte
	}{
		{WhiteKingSideCastle, 'K'},
		{WhiteQueenSideCastle, 'Q'},
		{BlackKingSideCastle, 'k'},
		{BlackQueenSideCastle, 'q'},
	} {
		if cr&bit.flag != 0 {
			b.WriteByte(bit.ch)
		}
	}
	return b.String()
}

// CanCastle reports whether c still has the right to castle to the given
// side (true for kingside, false for queenside).
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	var flag CastlingRights
	switch {
	case c == White && kingSide:
		flag = WhiteKingSideCastle
	case c == White && !kingSide:
		flag = WhiteQueenSideCastle
	case c == Black && kingSide:
		flag = BlackKingSideCastle
	default:
		flag = BlackQueenSideCastle
	}
	return cr&flag != 0
}

// Position is a complete, self-contained chess position: piece placement,
// whose turn it is, and the auxiliary state (castling, en passant, move
// clocks, Zobrist hash) needed to make and unmake moves without replaying
// history.
type Position struct {
	Pieces [2][6]Bitboard // [Color][PieceType]

	Occupied    [2]Bitboard // all pieces of each color, kept in sync with Pieces
	AllOccupied Bitboard    // Occupied[White] | Occupied[Black]

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // target square for en passant, NoSquare if none
	HalfMoveClock  int    // plies since the last pawn move or capture
	FullMoveNumber int    // starts at 1, increments after Black's move

	Hash    uint64 // Zobrist hash of the whole position
	PawnKey uint64 // Zobrist hash of pawn structure only, for pawn-hash caching

	KingSquare [2]Square // cached king location per color
	Checkers   Bitboard  // pieces currently giving check to SideToMove
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy returns an independent deep copy (Position holds no pointers or
// slices, so a value copy suffices).
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// PieceAt returns the piece occupying sq, or NoPiece if it is empty.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if p.AllOccupied&bb == 0 {
		return NoPiece
	}

	c := Black
	if p.Occupied[White]&bb != 0 {
		c = White
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&bb != 0 {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// IsEmpty reports whether no piece occupies sq.
func (p *Position) IsEmpty(sq Square) bool {
	return p.AllOccupied&SquareBB(sq) == 0
}

// setPiece places piece on sq, updating bitboards and the cached king
// square. Does not touch the Zobrist hash; callers that need hash
// consistency fold the xor in themselves.
func (p *Position) setPiece(piece Piece, sq Square) {
	if piece == NoPiece {
		return
	}
	c, pt, bb := piece.Color(), piece.Type(), SquareBB(sq)

	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb

	if pt == King {
		p.KingSquare[c] = sq
	}
}

// removePiece takes whatever piece is on sq off the board and returns it
// (NoPiece if sq was already empty). Does not touch the Zobrist hash.
func (p *Position) removePiece(sq Square) Piece {
	piece := p.PieceAt(sq)
	if piece == NoPiece {
		return NoPiece
	}
	c, pt, bb := piece.Color(), piece.Type(), SquareBB(sq)

	p.Pieces[c][pt] &^= bb
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb

	return piece
}

// movePiece relocates whatever is on from to to via a single XOR per
// bitboard (cheaper than a remove+set pair since neither square's color
// or type needs re-deriving at the destination). Does not touch the
// Zobrist hash.
func (p *Position) movePiece(from, to Square) {
	piece := p.PieceAt(from)
	if piece == NoPiece {
		return
	}
	c, pt := piece.Color(), piece.Type()
	moveBB := SquareBB(from) | SquareBB(to)

	p.Pieces[c][pt] ^= moveBB
	p.Occupied[c] ^= moveBB
	p.AllOccupied ^= moveBB

	if pt == King {
		p.KingSquare[c] = to
	}
}

// updateOccupied rebuilds the Occupied/AllOccupied caches from Pieces.
// Used after bulk placement (FEN parsing) rather than per move, where the
// incremental updates above are cheaper.
func (p *Position) updateOccupied() {
	p.Occupied[White] = Empty
	p.Occupied[Black] = Empty
	for pt := Pawn; pt <= King; pt++ {
		p.Occupied[White] |= p.Pieces[White][pt]
		p.Occupied[Black] |= p.Pieces[Black][pt]
	}
	p.AllOccupied = p.Occupied[White] | p.Occupied[Black]
}

// findKings rebuilds the KingSquare cache from Pieces.
func (p *Position) findKings() {
	p.KingSquare[White] = p.Pieces[White][King].LSB()
	p.KingSquare[Black] = p.Pieces[Black][King].LSB()
}

// String renders an 8x8 board diagram followed by the position's
// auxiliary state, for debugging and test failure messages.
func (p *Position) String() string {
	var b strings.Builder
	b.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&b, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			if piece := p.PieceAt(NewSquare(file, rank)); piece == NoPiece {
				b.WriteString(". ")
			} else {
				b.WriteString(piece.String() + " ")
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&b, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&b, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&b, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&b, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&b, "Full move: %d\n", p.FullMoveNumber)
	fmt.Fprintf(&b, "Hash: %016x\n", p.Hash)
	return b.String()
}

// Clear resets the position to an empty board with White to move, no
// castling rights, and move counters at their initial values.
func (p *Position) Clear() {
	*p = Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
}

// Validate reports the first structural problem found with the position:
// wrong king count or a pawn on the back rank. It does not check whether
// the side not to move is left in check — that is a semantic, not
// structural, property checked elsewhere.
func (p *Position) Validate() error {
	if p.Pieces[White][King].PopCount() != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if p.Pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("black must have exactly one king")
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawns cannot be on rank 1 or 8")
	}
	return nil
}

// GameOver reports whether the game has ended. Always false: terminal
// detection lives in IsCheckmate/IsStalemate/IsDraw, which need move
// generation and so live in movegen.go.
func (p *Position) GameOver() bool {
	return false
}

// InCheck reports whether the side to move is currently in check.
func (p *Position) InCheck() bool {
	return p.Checkers != 0
}

// Material returns the (White - Black) material balance in centipawns,
// ignoring king value and any positional terms.
func (p *Position) Material() int {
	score := 0
	for pt := Pawn; pt < King; pt++ {
		score += p.Pieces[White][pt].PopCount() * PieceValue[pt]
		score -= p.Pieces[Black][pt].PopCount() * PieceValue[pt]
	}
	return score
}

// ComputePinned returns the bitboard of SideToMove's pieces that are
// absolutely pinned to its own king, found via x-ray: for each enemy
// slider that would attack the king on an empty board, a pin exists if
// exactly one of SideToMove's own pieces sits on the ray between them.
func (p *Position) ComputePinned() Bitboard {
	us, them := p.SideToMove, p.SideToMove.Other()
	ksq := p.KingSquare[us]
	var pinned Bitboard

	straightSnipers := RookAttacks(ksq, 0) & (p.Pieces[them][Rook] | p.Pieces[them][Queen])
	pinned |= pinnersAlong(p, ksq, us, straightSnipers)

	diagonalSnipers := BishopAttacks(ksq, 0) & (p.Pieces[them][Bishop] | p.Pieces[them][Queen])
	pinned |= pinnersAlong(p, ksq, us, diagonalSnipers)

	return pinned
}

// pinnersAlong checks each sniper square in snipers and, if the squares
// between it and ksq hold exactly one blocker and that blocker belongs to
// us, folds it into the returned pinned-piece bitboard.
func pinnersAlong(p *Position, ksq Square, us Color, snipers Bitboard) Bitboard {
	var pinned Bitboard
	for snipers != 0 {
		sq := snipers.PopLSB()
		blockers := Between(sq, ksq) & p.AllOccupied
		if blockers.PopCount() == 1 && blockers&p.Occupied[us] != 0 {
			pinned |= blockers
		}
	}
	return pinned
}

// NullMoveUndo holds the state MakeNullMove needs UnmakeNullMove to
// restore: a null move touches nothing but the side to move and en
// passant, so that's all it saves.
type NullMoveUndo struct {
	EnPassant Square
	Hash      uint64
}

// MakeNullMove passes the turn without making a move, for null-move
// pruning. The caller is responsible for not doing this while in check or
// with only pawns left (see HasNonPawnMaterial), since a null move in
// those cases is either illegal or unsound to prune on.
func (p *Position) MakeNullMove() NullMoveUndo {
	undo := NullMoveUndo{EnPassant: p.EnPassant, Hash: p.Hash}

	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	p.SideToMove = p.SideToMove.Other()
	p.Hash ^= zobristSideToMove
	p.UpdateCheckers()

	return undo
}

// UnmakeNullMove reverses a MakeNullMove.
func (p *Position) UnmakeNullMove(undo NullMoveUndo) {
	p.EnPassant = undo.EnPassant
	p.Hash = undo.Hash
	p.SideToMove = p.SideToMove.Other()
	p.UpdateCheckers()
}

// HasNonPawnMaterial reports whether the side to move has any knight,
// bishop, rook, or queen left. Null-move pruning skips positions where
// this is false, since pure king-and-pawn endgames are exactly where
// zugzwang makes "skip a turn and still be fine" an unsound assumption.
func (p *Position) HasNonPawnMaterial() bool {
	us := p.SideToMove
	return p.Pieces[us][Knight]|p.Pieces[us][Bishop]|p.Pieces[us][Rook]|p.Pieces[us][Queen] != 0
}
