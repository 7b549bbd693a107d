package engine

type delta struct {
	file int
	rank int
}

var (
	orthogonals = []delta{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonals   = []delta{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightJumps = []delta{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingSteps = []delta{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
)

// PseudoLegalMoves returns every destination reachable from the square under
// the occupying piece's movement rules, ignoring whether the move would leave
// the mover's own king in check. An empty square yields no moves.
func (g *GameState) PseudoLegalMoves(from Square) []Square {
	p := g.at(from)
	switch p.Kind {
	case Pawn:
		return g.pawnMoves(from, p.Color)
	case Rook:
		return g.rayMoves(from, p.Color, orthogonals)
	case Knight:
		return g.stepMoves(from, p.Color, knightJumps)
	case Bishop:
		return g.rayMoves(from, p.Color, diagonals)
	case Queen:
		return append(g.rayMoves(from, p.Color, orthogonals), g.rayMoves(from, p.Color, diagonals)...)
	case King:
		return append(g.stepMoves(from, p.Color, kingSteps), g.castleMoves(from, p.Color)...)
	default:
		return nil
	}
}

// rayMoves walks outward in each direction until the edge of the board or a
// blocker. An enemy blocker is included as a capture; a friendly one is not.
func (g *GameState) rayMoves(from Square, c Color, dirs []delta) []Square {
	var moves []Square
	for _, d := range dirs {
		file, rank := from.File+d.file, from.Rank+d.rank
		for onBoard(file, rank) {
			to := Square{File: file, Rank: rank}
			t := g.at(to)
			if t.IsEmpty() {
				moves = append(moves, to)
				file, rank = file+d.file, rank+d.rank
				continue
			}
			if t.Color != c {
				moves = append(moves, to)
			}
			break
		}
	}
	return moves
}

// stepMoves applies fixed offsets, keeping on-board destinations that are
// empty or hold an enemy piece.
func (g *GameState) stepMoves(from Square, c Color, steps []delta) []Square {
	var moves []Square
	for _, d := range steps {
		file, rank := from.File+d.file, from.Rank+d.rank
		if !onBoard(file, rank) {
			continue
		}
		to := Square{File: file, Rank: rank}
		if t := g.at(to); t.IsEmpty() || t.Color != c {
			moves = append(moves, to)
		}
	}
	return moves
}

func (g *GameState) pawnMoves(from Square, c Color) []Square {
	dir, home, epRank := 1, 1, 4
	if c == Black {
		dir, home, epRank = -1, 6, 3
	}
	var moves []Square
	// Forward steps. The rank guard matters: with promotion absent a pawn can
	// sit on the final rank, where "one forward" is off the board.
	if onBoard(from.File, from.Rank+dir) {
		one := Square{File: from.File, Rank: from.Rank + dir}
		if g.at(one).IsEmpty() {
			moves = append(moves, one)
			if from.Rank == home {
				two := Square{File: from.File, Rank: from.Rank + 2*dir}
				if g.at(two).IsEmpty() {
					moves = append(moves, two)
				}
			}
		}
	}
	for _, df := range []int{-1, 1} {
		if !onBoard(from.File+df, from.Rank+dir) {
			continue
		}
		to := Square{File: from.File + df, Rank: from.Rank + dir}
		if t := g.at(to); !t.IsEmpty() && t.Color != c {
			moves = append(moves, to)
		}
		// En passant: the target is the square of the pawn that just advanced
		// two ranks, which must sit directly beside this pawn on its rank.
		// The rank gate keeps a pawn standing beside its own side's
		// double-advanced pawn from being offered the capture: only an enemy
		// advance can land a target on the capturing rank.
		if g.hasEP && from.Rank == epRank &&
			g.epTarget == (Square{File: from.File + df, Rank: from.Rank}) {
			moves = append(moves, to)
		}
	}
	return moves
}

// castleMoves offers the castle destinations when the corresponding right is
// still held and the squares strictly between king and rook are empty. Checks
// on the king, the transit square or the destination are not considered here;
// that limitation is part of the engine's contract.
func (g *GameState) castleMoves(from Square, c Color) []Square {
	rank := 0
	kingside, queenside := g.rights.WhiteKingside, g.rights.WhiteQueenside
	if c == Black {
		rank = 7
		kingside, queenside = g.rights.BlackKingside, g.rights.BlackQueenside
	}
	if from != (Square{File: 4, Rank: rank}) {
		return nil
	}
	var moves []Square
	if kingside &&
		g.at(Square{File: 5, Rank: rank}).IsEmpty() &&
		g.at(Square{File: 6, Rank: rank}).IsEmpty() {
		moves = append(moves, Square{File: 6, Rank: rank})
	}
	if queenside &&
		g.at(Square{File: 1, Rank: rank}).IsEmpty() &&
		g.at(Square{File: 2, Rank: rank}).IsEmpty() &&
		g.at(Square{File: 3, Rank: rank}).IsEmpty() {
		moves = append(moves, Square{File: 2, Rank: rank})
	}
	return moves
}
