// Package feature implements the mover-relative sparse binary feature
// encoding the NNUE evaluator consumes, and the incremental add/remove
// index deltas the search core applies on make/unmake.
//
// Grounded on original_source/src/engine/features.rs (save_features,
// get_features, create_flips, flip) and nnue/update.rs
// (register_hidden_updates), translated to operate over searchboard.Board
// instead of a generic Rust board type.
package feature

import "github.com/kestrelchess/engine/internal/searchboard"

// CreateFlips returns the vertical-flip permutation of square indices,
// precomputed once per search from the board's geometry.
func CreateFlips(b searchboard.Board) []int {
	flips := make([]int, b.Squares())
	for sq := 0; sq < b.Squares(); sq++ {
		flips[sq] = b.VerticalFlip(sq)
	}
	return flips
}

// flip returns the mover-relative square: unchanged for team 0 to move,
// vertically mirrored for team 1.
func flip(square int, movingTeam int, flips []int) int {
	if movingTeam == 1 {
		return flips[square]
	}
	return square
}

// Index computes the feature index for (square, teamRelative, pieceKind)
// given S and K, per the formula in §3: square + S*teamRel + S*K*piece.
func Index(squares, teams, square, teamRel, piece int) int {
	return square + squares*teamRel + (squares*teams)*piece
}

// SaveFeatures writes 0/1 into out[0..N) for every occupied square, encoded
// from the mover's perspective. out must already be zeroed (or sized right
// for a fresh vector); set bits are only ever added, never cleared.
func SaveFeatures(out []int16, b searchboard.Board, flips []int) {
	squares := b.Squares()
	teams := b.Teams()
	pieces := b.PieceKinds()
	mover := b.SideToMove()

	all := b.AllOccupied()
	for sq := 0; sq < squares; sq++ {
		bit := uint64(1) << uint(sq)
		if all&bit == 0 {
			continue
		}

		team := -1
		for t := 0; t < teams; t++ {
			if b.TeamOccupied(t)&bit != 0 {
				team = t
				break
			}
		}

		piece := -1
		for p := 0; p < pieces; p++ {
			if b.PieceOccupied(p)&bit != 0 {
				piece = p
				break
			}
		}

		if team < 0 || piece < 0 {
			continue
		}

		teamRel := 1
		if team == mover {
			teamRel = 0
		}

		flipped := flip(sq, mover, flips)
		out[Index(squares, teams, flipped, teamRel, piece)] = 1
	}
}

// GetFeatures allocates a zeroed feature vector and fills it via
// SaveFeatures.
func GetFeatures(b searchboard.Board, flips []int) []int16 {
	out := make([]int16, b.Squares()*b.Teams()*b.PieceKinds())
	SaveFeatures(out, b, flips)
	return out
}

// squaresOf returns the set bits of bb as mover-relative feature squares.
func squaresOf(bb uint64, squares int, mover int, flips []int) []int {
	out := make([]int, 0, 4)
	for sq := 0; sq < squares; sq++ {
		if bb&(uint64(1)<<uint(sq)) != 0 {
			out = append(out, flip(sq, mover, flips))
		}
	}
	return out
}

// Delta computes the added/removed feature indices an UndoRecord of kind
// Single or Any implies, given the board's post-move state. It mirrors
// register_hidden_updates's nested piece/team loop: every (piece, team)
// combination in the record is intersected against its prior snapshot and
// the board's current state, and only combinations with an actual change
// contribute squares (most cross combinations, e.g. an attacker's piece
// kind against the victim's team, simply contribute nothing).
func Delta(rec searchboard.UndoRecord, b searchboard.Board, flips []int) (added, removed []int) {
	squares := b.Squares()
	teams := b.Teams()
	mover := b.SideToMove()

	for _, pu := range rec.Pieces {
		currentPiece := b.PieceOccupied(pu.Piece)
		for _, tu := range rec.Teams {
			currentTeam := b.TeamOccupied(tu.Team)

			old := tu.PriorBoard & pu.PriorBoard
			cur := currentTeam & currentPiece
			changed := old ^ cur
			if changed == 0 {
				continue
			}

			teamRel := 1
			if tu.Team == mover {
				teamRel = 0
			}

			for _, sq := range squaresOf(old&changed, squares, mover, flips) {
				removed = append(removed, Index(squares, teams, sq, teamRel, pu.Piece))
			}
			for _, sq := range squaresOf(cur&changed, squares, mover, flips) {
				added = append(added, Index(squares, teams, sq, teamRel, pu.Piece))
			}
		}
	}

	return added, removed
}
