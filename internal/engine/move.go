package engine

// Move executes from→to if the destination is in the square's legal set.
// Otherwise it returns ErrIllegalMove and performs no mutation.
func (g *GameState) Move(from, to Square) error {
	if !containsSquare(g.LegalMoves(from), to) {
		return ErrIllegalMove
	}
	g.apply(from, to)
	return nil
}

// MovePseudoLegal executes from→to if the destination is in the square's
// pseudo-legal set, without the self-check filter. Otherwise it returns
// ErrIllegalMove and performs no mutation.
func (g *GameState) MovePseudoLegal(from, to Square) error {
	if !containsSquare(g.PseudoLegalMoves(from), to) {
		return ErrIllegalMove
	}
	g.apply(from, to)
	return nil
}

// apply commits a validated move. All bookkeeping happens in one pass: no
// caller can observe a partial state. The move's character (capture, double
// pawn advance, en passant, castle) is decided before the board changes.
func (g *GameState) apply(from, to Square) {
	moved := g.at(from)
	capture := !g.at(to).IsEmpty()
	pawnMove := moved.Kind == Pawn
	doubleAdvance := pawnMove && abs(to.Rank-from.Rank) == 2
	enPassant := pawnMove && from.File != to.File && g.at(to).IsEmpty()
	castle := moved.Kind == King && abs(to.File-from.File) == 2

	g.turn = g.turn.Other()
	g.revokeRights(from)
	g.revokeRights(to)
	if doubleAdvance {
		g.epTarget, g.hasEP = to, true
	} else {
		g.epTarget, g.hasEP = Square{}, false
	}
	g.fullMoves++
	if capture || pawnMove {
		g.halfMoves = 0
	} else {
		g.halfMoves++
	}
	if moved.Kind == King {
		g.kings[moved.Color] = to
	}

	g.put(to, moved)
	g.put(from, Piece{})
	if enPassant {
		// The captured pawn sits on the mover's starting rank in the
		// destination's file.
		g.put(Square{File: to.File, Rank: from.Rank}, Piece{})
	}
	if castle {
		rank := from.Rank
		switch to.File {
		case 6:
			g.put(Square{File: 5, Rank: rank}, g.at(Square{File: 7, Rank: rank}))
			g.put(Square{File: 7, Rank: rank}, Piece{})
		case 2:
			g.put(Square{File: 3, Rank: rank}, g.at(Square{File: 0, Rank: rank}))
			g.put(Square{File: 0, Rank: rank}, Piece{})
		}
	}
}

// revokeRights clears the rights tied to a rook or king home square. A rook
// leaving, a rook being captured at home, or the king moving or being
// captured all pass through here via the move's source and destination.
func (g *GameState) revokeRights(sq Square) {
	switch sq {
	case Square{File: 0, Rank: 0}:
		g.rights.WhiteQueenside = false
	case Square{File: 7, Rank: 0}:
		g.rights.WhiteKingside = false
	case Square{File: 4, Rank: 0}:
		g.rights.WhiteKingside = false
		g.rights.WhiteQueenside = false
	case Square{File: 0, Rank: 7}:
		g.rights.BlackQueenside = false
	case Square{File: 7, Rank: 7}:
		g.rights.BlackKingside = false
	case Square{File: 4, Rank: 7}:
		g.rights.BlackKingside = false
		g.rights.BlackQueenside = false
	}
}

func containsSquare(set []Square, s Square) bool {
	for _, m := range set {
		if m == s {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
