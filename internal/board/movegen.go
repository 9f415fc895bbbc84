package board

// Move generation works in two passes: generate pseudo-legal moves against
// occupancy bitboards, then filter through IsLegal, which actually plays
// each candidate and checks whether the mover's own king ends up attacked.
// No pin detection short-circuits this — it is make/unmake or nothing.

// GenerateLegalMoves returns every legal move in the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generatePseudoLegal(ml)
	return p.filterLegalMoves(ml)
}

// GeneratePseudoLegalMoves returns pseudo-legal moves; some may leave the
// mover's king in check.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generatePseudoLegal(ml)
	return ml
}

// GenerateCaptures returns legal captures (and capture-adjacent pawn
// promotions/en passant), for quiescence search.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	p.generateTacticalMoves(ml)
	return p.filterLegalMoves(ml)
}

// generatePseudoLegal fills ml with every pseudo-legal move from the
// current position, piece type by piece type.
func (p *Position) generatePseudoLegal(ml *MoveList) {
	us := p.SideToMove
	occupied := p.AllOccupied
	ownSquares := p.Occupied[us]
	target := ^ownSquares

	p.generatePawnMoves(ml, us, p.Occupied[us.Other()], occupied)
	generateStepperMoves(ml, p.Pieces[us][Knight], KnightAttacks, target)
	generateSliderMoves(ml, p.Pieces[us][Bishop], occupied, BishopAttacks, target)
	generateSliderMoves(ml, p.Pieces[us][Rook], occupied, RookAttacks, target)
	generateSliderMoves(ml, p.Pieces[us][Queen], occupied, QueenAttacks, target)
	generateStepperMoves(ml, p.Pieces[us][King], KingAttacks, target)
	p.generateCastlingMoves(ml, us)
}

// generateStepperMoves adds a move for every square a non-sliding piece
// (knight, king) can reach under attacksOf, masked to target squares.
func generateStepperMoves(ml *MoveList, pieces Bitboard, attacksOf func(Square) Bitboard, target Bitboard) {
	for pieces != 0 {
		from := pieces.PopLSB()
		dests := attacksOf(from) & target
		for dests != 0 {
			ml.Add(NewMove(from, dests.PopLSB()))
		}
	}
}

// generateSliderMoves adds a move for every square a sliding piece
// (bishop, rook, queen) can reach given occupied, masked to target squares.
func generateSliderMoves(ml *MoveList, pieces, occupied Bitboard, attacksOf func(Square, Bitboard) Bitboard, target Bitboard) {
	for pieces != 0 {
		from := pieces.PopLSB()
		dests := attacksOf(from, occupied) & target
		for dests != 0 {
			ml.Add(NewMove(from, dests.PopLSB()))
		}
	}
}

// addPromotions adds the four under/over-promotion choices for a pawn
// reaching the back rank on from->to.
func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

// pawnGeometry holds the color-dependent push direction and promotion
// rank a pawn move generator needs, computed once per call rather than
// branched on inside every loop.
type pawnGeometry struct {
	pushDir       int
	promotionRank Bitboard
}

func pawnGeometryFor(us Color) pawnGeometry {
	if us == White {
		return pawnGeometry{pushDir: 8, promotionRank: Rank8}
	}
	return pawnGeometry{pushDir: -8, promotionRank: Rank1}
}

// generatePawnMoves adds every pawn push, capture, promotion and en
// passant move for us.
func (p *Position) generatePawnMoves(ml *MoveList, us Color, enemies, occupied Bitboard) {
	pawns := p.Pieces[us][Pawn]
	empty := ^occupied
	geo := pawnGeometryFor(us)

	var push1, push2, capL, capR Bitboard
	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		capL = pawns.NorthWest() & enemies
		capR = pawns.NorthEast() & enemies
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		capL = pawns.SouthWest() & enemies
		capR = pawns.SouthEast() & enemies
	}

	addPawnSources(ml, push1&^geo.promotionRank, geo.pushDir)
	addPawnSources(ml, push2, 2*geo.pushDir)
	addPawnSources(ml, capL&^geo.promotionRank, geo.pushDir-1)
	addPawnSources(ml, capR&^geo.promotionRank, geo.pushDir+1)

	addPawnPromotionSources(ml, push1&geo.promotionRank, geo.pushDir)
	addPawnPromotionSources(ml, capL&geo.promotionRank, geo.pushDir-1)
	addPawnPromotionSources(ml, capR&geo.promotionRank, geo.pushDir+1)

	p.addEnPassantMoves(ml, us, pawns)
}

// addPawnSources walks dests and, for each destination square, recovers
// the origin square by subtracting shift (the file/rank delta the push or
// diagonal capture covers) and emits a quiet move.
func addPawnSources(ml *MoveList, dests Bitboard, shift int) {
	for dests != 0 {
		to := dests.PopLSB()
		from := Square(int(to) - shift)
		ml.Add(NewMove(from, to))
	}
}

// addPawnPromotionSources is addPawnSources for destinations on the back
// rank, where all four promotion pieces are offered instead of one move.
func addPawnPromotionSources(ml *MoveList, dests Bitboard, shift int) {
	for dests != 0 {
		to := dests.PopLSB()
		from := Square(int(to) - shift)
		addPromotions(ml, from, to)
	}
}

// addEnPassantMoves adds the (at most two) en passant captures available
// against the current en passant square, if any.
func (p *Position) addEnPassantMoves(ml *MoveList, us Color, pawns Bitboard) {
	if p.EnPassant == NoSquare {
		return
	}
	epBB := SquareBB(p.EnPassant)
	var attackers Bitboard
	if us == White {
		attackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
	} else {
		attackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
	}
	for attackers != 0 {
		from := attackers.PopLSB()
		ml.Add(NewEnPassant(from, p.EnPassant))
	}
}

// castlingSpec describes one side's one castling option: the rights bit
// that must be set, the squares that must be empty, the squares that must
// be un-attacked (including the king's start, checked by the caller), and
// the resulting king move.
type castlingSpec struct {
	right        CastlingRights
	mustBeEmpty  Bitboard
	mustBeSafe   [2]Square
	kingFrom, to Square
}

func castlingSpecs(us Color) []castlingSpec {
	if us == White {
		return []castlingSpec{
			{WhiteKingSideCastle, (1 << F1) | (1 << G1), [2]Square{F1, G1}, E1, G1},
			{WhiteQueenSideCastle, (1 << B1) | (1 << C1) | (1 << D1), [2]Square{D1, C1}, E1, C1},
		}
	}
	return []castlingSpec{
		{BlackKingSideCastle, (1 << F8) | (1 << G8), [2]Square{F8, G8}, E8, G8},
		{BlackQueenSideCastle, (1 << B8) | (1 << C8) | (1 << D8), [2]Square{D8, C8}, E8, C8},
	}
}

// generateCastlingMoves adds O-O/O-O-O for us if rights, occupancy and the
// squares the king transits through all allow it.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	for _, spec := range castlingSpecs(us) {
		if p.CastlingRights&spec.right == 0 {
			continue
		}
		if p.AllOccupied&spec.mustBeEmpty != 0 {
			continue
		}
		if p.IsSquareAttacked(spec.kingFrom, them) {
			continue
		}
		if p.IsSquareAttacked(spec.mustBeSafe[0], them) || p.IsSquareAttacked(spec.mustBeSafe[1], them) {
			continue
		}
		ml.Add(NewCastling(spec.kingFrom, spec.to))
	}
}

// generateTacticalMoves adds captures, capture promotions, en passant and
// push-promotions (quiet but tactically forcing) for quiescence search.
func (p *Position) generateTacticalMoves(ml *MoveList) {
	us := p.SideToMove
	occupied := p.AllOccupied
	enemies := p.Occupied[us.Other()]
	geo := pawnGeometryFor(us)

	pawns := p.Pieces[us][Pawn]
	var capL, capR Bitboard
	if us == White {
		capL = pawns.NorthWest() & enemies
		capR = pawns.NorthEast() & enemies
	} else {
		capL = pawns.SouthWest() & enemies
		capR = pawns.SouthEast() & enemies
	}

	addPawnSources(ml, capL&^geo.promotionRank, geo.pushDir-1)
	addPawnSources(ml, capR&^geo.promotionRank, geo.pushDir+1)
	addPawnPromotionSources(ml, capL&geo.promotionRank, geo.pushDir-1)
	addPawnPromotionSources(ml, capR&geo.promotionRank, geo.pushDir+1)

	var push1 Bitboard
	empty := ^occupied
	if us == White {
		push1 = pawns.North() & empty & Rank8
	} else {
		push1 = pawns.South() & empty & Rank1
	}
	addPawnPromotionSources(ml, push1, geo.pushDir)

	p.addEnPassantMoves(ml, us, pawns)

	generateStepperMoves(ml, p.Pieces[us][Knight], KnightAttacks, enemies)
	generateSliderMoves(ml, p.Pieces[us][Bishop], occupied, BishopAttacks, enemies)
	generateSliderMoves(ml, p.Pieces[us][Rook], occupied, RookAttacks, enemies)
	generateSliderMoves(ml, p.Pieces[us][Queen], occupied, QueenAttacks, enemies)
	generateStepperMoves(ml, p.Pieces[us][King], KingAttacks, enemies)
}

// filterLegalMoves keeps only the moves in ml that pass IsLegal.
func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := NewMoveList()
	for i := 0; i < ml.Len(); i++ {
		if m := ml.Get(i); p.IsLegal(m) {
			result.Add(m)
		}
	}
	return result
}

// IsLegal reports whether m leaves the mover's own king safe. King moves
// are checked directly against the destination square (with the king
// itself removed from occupancy, so it can't block its own escape square);
// every other move is played and unplayed to ask the question for real —
// there is no pin/check bitboard shortcut here.
func (p *Position) IsLegal(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]

	if m.From() == ksq {
		if m.IsCastling() {
			return true // legality of the transit squares was checked during generation
		}
		occAfterKingLeaves := p.AllOccupied &^ SquareBB(ksq)
		return p.AttackersByColor(m.To(), them, occAfterKingLeaves) == 0
	}

	undo := p.MakeMove(m)
	if !undo.Valid {
		return false
	}
	stillInCheck := p.IsSquareAttacked(ksq, them)
	p.UnmakeMove(m, undo)
	return !stillInCheck
}

// MakeMove plays m on the position in place, updating occupancy, hash,
// castling rights, en passant and move counters, and returns the state
// needed to undo it.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		Checkers:       p.Checkers,
		Valid:          false,
	}

	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	piece := p.PieceAt(from)
	if piece == NoPiece {
		return undo
	}
	undo.Valid = true
	pt := piece.Type()

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	if m.IsEnPassant() {
		capturedSq := epCapturedSquare(us, to)
		undo.CapturedPiece = p.removePiece(capturedSq)
		p.Hash ^= zobristPiece[them][Pawn][capturedSq]
	} else if captured := p.PieceAt(to); captured != NoPiece {
		undo.CapturedPiece = captured
		p.removePiece(to)
		p.Hash ^= zobristPiece[them][captured.Type()][to]
	}

	p.movePiece(from, to)
	p.Hash ^= zobristPiece[us][pt][from]
	p.Hash ^= zobristPiece[us][pt][to]

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][Pawn] &^= SquareBB(to)
		p.Pieces[us][promoPt] |= SquareBB(to)
		p.Hash ^= zobristPiece[us][Pawn][to]
		p.Hash ^= zobristPiece[us][promoPt][to]
	}

	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(from, to)
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.Hash ^= zobristPiece[us][Rook][rookTo]
	}

	if pt == King {
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	clearCastlingRightsForRookSquare(p, from)
	clearCastlingRightsForRookSquare(p, to)
	p.Hash ^= zobristCastling[p.CastlingRights]

	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		epSquare := Square((int(from) + int(to)) / 2)
		p.EnPassant = epSquare
		p.Hash ^= zobristEnPassant[epSquare.File()]
	}

	if pt == Pawn || undo.CapturedPiece != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.UpdateCheckers()

	return undo
}

// UnmakeMove reverses a previously made move, restoring position state
// from undo.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	them := p.SideToMove
	us := them.Other()
	from := m.From()
	to := m.To()

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.Checkers = undo.Checkers
	p.SideToMove = us

	if us == Black {
		p.FullMoveNumber--
	}

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][promoPt] &^= SquareBB(to)
		p.Pieces[us][Pawn] |= SquareBB(to)
	}

	p.movePiece(to, from)

	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(from, to)
		p.movePiece(rookTo, rookFrom)
	}

	if undo.CapturedPiece != NoPiece {
		if m.IsEnPassant() {
			p.setPiece(undo.CapturedPiece, epCapturedSquare(us, to))
		} else {
			p.setPiece(undo.CapturedPiece, to)
		}
	}
}

// epCapturedSquare returns the square of the pawn actually captured by an
// en passant move landing on to, for the mover us.
func epCapturedSquare(us Color, to Square) Square {
	if us == White {
		return to - 8
	}
	return to + 8
}

// castlingRookSquares returns the rook's origin and destination for a
// castling move from->to, inferred from which side of the king the rook
// ends up on.
func castlingRookSquares(from, to Square) (rookFrom, rookTo Square) {
	rank := from.Rank()
	if to > from {
		return NewSquare(7, rank), NewSquare(5, rank)
	}
	return NewSquare(0, rank), NewSquare(3, rank)
}

// clearCastlingRightsForRookSquare drops castling rights tied to a rook's
// home square whenever that square stops holding its original rook —
// because the rook moved off it or was captured on it.
func clearCastlingRightsForRookSquare(p *Position, sq Square) {
	switch sq {
	case A1:
		p.CastlingRights &^= WhiteQueenSideCastle
	case H1:
		p.CastlingRights &^= WhiteKingSideCastle
	case A8:
		p.CastlingRights &^= BlackQueenSideCastle
	case H8:
		p.CastlingRights &^= BlackKingSideCastle
	}
}

// HasLegalMoves reports whether the side to move has at least one legal
// move, without materializing the full legal move list.
func (p *Position) HasLegalMoves() bool {
	ml := p.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		if p.IsLegal(ml.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is in check with no legal
// reply.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move has no legal move and is
// not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw reports stalemate, the 50-move rule, or insufficient material.
func (p *Position) IsDraw() bool {
	if p.IsStalemate() {
		return true
	}
	if p.HalfMoveClock >= 100 {
		return true
	}
	return p.IsInsufficientMaterial()
}

// IsInsufficientMaterial reports whether neither side has enough material
// to force checkmate: bare kings, or king-plus-one-minor versus bare king.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}

	wMinors := p.Pieces[White][Knight].PopCount() + p.Pieces[White][Bishop].PopCount()
	bMinors := p.Pieces[Black][Knight].PopCount() + p.Pieces[Black][Bishop].PopCount()

	if wMinors+bMinors == 0 {
		return true
	}
	if wMinors <= 1 && bMinors == 0 {
		return true
	}
	if bMinors <= 1 && wMinors == 0 {
		return true
	}
	return false
}
