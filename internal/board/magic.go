package board

// Sliding-piece attacks (bishop, rook) are resolved through magic
// bitboards: a per-square multiplier that hashes the relevant occupancy
// bits of a blocker mask down to a dense index into a pre-computed attack
// table, so a lookup replaces a ray walk at search time.

// slidingMagic is one square's magic-bitboard entry: which occupancy bits
// matter (Mask), the multiplier that hashes them (Number), how far the
// product is shifted right to land in range, and where this square's slice
// of the shared attack table begins.
type slidingMagic struct {
	Mask   Bitboard
	Number uint64
	Shift  uint8
	Offset uint32
}

var (
	diagonalMagics [64]slidingMagic
	straightMagics [64]slidingMagic

	// diagonalTable and straightTable hold every square's attack sets back
	// to back; Offset is where a given square's slice starts. Sizes are the
	// sum of 2^popcount(mask) across all 64 squares for each piece.
	diagonalTable [5248]Bitboard
	straightTable [102400]Bitboard
)

// diagonalMagicNumbers and straightMagicNumbers are known-good multipliers
// for the 64-square board (each hashes its square's relevant-occupancy
// subset to a collision-free index with no bits wasted beyond Shift).
var diagonalMagicNumbers = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

var straightMagicNumbers = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

func initMagics() {
	fillSlidingTable(diagonalMagics[:], diagonalTable[:], diagonalMagicNumbers, diagonalMask, diagonalRayAttacks)
	fillSlidingTable(straightMagics[:], straightTable[:], straightMagicNumbers, straightMask, straightRayAttacks)
}

// fillSlidingTable populates every square's magic entry and its slice of
// the shared attack table: for each square it walks every occupancy
// subset of that square's relevant mask, hashes it through the square's
// magic number, and stores the ray-cast attack set at the resulting index.
func fillSlidingTable(magics []slidingMagic, table []Bitboard, numbers [64]uint64, maskOf func(Square) Bitboard, raysOf func(Square, Bitboard) Bitboard) {
	var offset uint32
	for sq := A1; sq <= H8; sq++ {
		mask := maskOf(sq)
		bits := mask.PopCount()

		magics[sq] = slidingMagic{
			Mask:   mask,
			Number: numbers[sq],
			Shift:  uint8(64 - bits),
			Offset: offset,
		}

		subsets := 1 << bits
		for subset := 0; subset < subsets; subset++ {
			occ := occupancySubset(subset, bits, mask)
			idx := (uint64(occ) * numbers[sq]) >> (64 - bits)
			table[offset+uint32(idx)] = raysOf(sq, occ)
		}
		offset += uint32(subsets)
	}
}

// diagonalMask is the relevant-occupancy mask for a bishop on sq: every
// square its diagonals could be blocked from, excluding board edges (a
// blocker on the edge itself never changes the attack set).
func diagonalMask(sq Square) Bitboard {
	return diagonalRayAttacks(sq, 0) & ^(Rank1 | Rank8 | FileA | FileH)
}

// straightMask is the relevant-occupancy mask for a rook on sq.
func straightMask(sq Square) Bitboard {
	file, rank := sq.File(), sq.Rank()

	var mask Bitboard
	for f := 1; f < 7; f++ {
		if f != file {
			mask |= SquareBB(NewSquare(f, rank))
		}
	}
	for r := 1; r < 7; r++ {
		if r != rank {
			mask |= SquareBB(NewSquare(file, r))
		}
	}
	return mask
}

// occupancySubset maps subset (one of 2^bits possibilities) to the
// occupancy bitboard it represents: bit i of subset selects whether the
// i-th set bit of mask (scanning from the LSB) is occupied.
func occupancySubset(subset, bits int, mask Bitboard) Bitboard {
	var occ Bitboard
	for i := 0; i < bits; i++ {
		sq := mask.LSB()
		mask &= mask - 1
		if subset&(1<<i) != 0 {
			occ |= SquareBB(sq)
		}
	}
	return occ
}

// diagonalRayAttacks computes bishop attacks by casting a ray along each
// diagonal until a blocker (inclusive) or the board edge is reached. Used
// only at table-build time; BishopAttacks serves search-time queries.
func diagonalRayAttacks(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	file, rank := sq.File(), sq.Rank()

	for f, r := file+1, rank+1; f <= 7 && r <= 7; f, r = f+1, r+1 {
		s := NewSquare(f, r)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}
	for f, r := file-1, rank+1; f >= 0 && r <= 7; f, r = f-1, r+1 {
		s := NewSquare(f, r)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}
	for f, r := file+1, rank-1; f <= 7 && r >= 0; f, r = f+1, r-1 {
		s := NewSquare(f, r)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}
	for f, r := file-1, rank-1; f >= 0 && r >= 0; f, r = f-1, r-1 {
		s := NewSquare(f, r)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}

	return attacks
}

// straightRayAttacks computes rook attacks by casting a ray along each
// file/rank direction until a blocker (inclusive) or the board edge.
func straightRayAttacks(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	file, rank := sq.File(), sq.Rank()

	for r := rank + 1; r <= 7; r++ {
		s := NewSquare(file, r)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}
	for r := rank - 1; r >= 0; r-- {
		s := NewSquare(file, r)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}
	for f := file + 1; f <= 7; f++ {
		s := NewSquare(f, rank)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}
	for f := file - 1; f >= 0; f-- {
		s := NewSquare(f, rank)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}

	return attacks
}

// lookupBishopAttacks resolves a bishop's attack set via its magic entry.
func lookupBishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &diagonalMagics[sq]
	idx := ((uint64(occupied) & uint64(m.Mask)) * m.Number) >> m.Shift
	return diagonalTable[m.Offset+uint32(idx)]
}

// lookupRookAttacks resolves a rook's attack set via its magic entry.
func lookupRookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &straightMagics[sq]
	idx := ((uint64(occupied) & uint64(m.Mask)) * m.Number) >> m.Shift
	return straightTable[m.Offset+uint32(idx)]
}
