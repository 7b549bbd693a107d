package engine

// InCheck reports whether c's king is attacked by any opposing piece. Every
// opposing piece's pseudo-legal set is generated fresh on each call; the
// engine keeps no incremental attack maps.
func (g *GameState) InCheck(c Color) bool {
	king := g.kings[c]
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			sq := Square{File: file, Rank: rank}
			p := g.at(sq)
			if p.IsEmpty() || p.Color == c {
				continue
			}
			for _, to := range g.PseudoLegalMoves(sq) {
				if to == king {
					return true
				}
			}
		}
	}
	return false
}

// wouldLeaveInCheck plays from→to on a detached clone and reports whether
// c's king is attacked afterwards. The receiver is never mutated.
func (g *GameState) wouldLeaveInCheck(from, to Square, c Color) bool {
	sim := g.Clone()
	sim.apply(from, to)
	return sim.InCheck(c)
}

// LegalMoves filters the square's pseudo-legal set down to the moves that do
// not leave the moving side's own king in check. The result is always a
// subset of PseudoLegalMoves for the same square.
func (g *GameState) LegalMoves(from Square) []Square {
	p := g.at(from)
	if p.IsEmpty() {
		return nil
	}
	var moves []Square
	for _, to := range g.PseudoLegalMoves(from) {
		if !g.wouldLeaveInCheck(from, to, p.Color) {
			moves = append(moves, to)
		}
	}
	return moves
}

func (g *GameState) hasLegalMoves(c Color) bool {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			sq := Square{File: file, Rank: rank}
			p := g.at(sq)
			if p.IsEmpty() || p.Color != c {
				continue
			}
			if len(g.LegalMoves(sq)) > 0 {
				return true
			}
		}
	}
	return false
}

// IsCheckmate reports whether the active color has no legal moves while in
// check.
func (g *GameState) IsCheckmate() bool {
	return !g.hasLegalMoves(g.turn) && g.InCheck(g.turn)
}

// IsStalemate reports whether the active color has no legal moves while not
// in check.
func (g *GameState) IsStalemate() bool {
	return !g.hasLegalMoves(g.turn) && !g.InCheck(g.turn)
}
