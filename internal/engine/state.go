package engine

// CastlingRights tracks the four castle permissions independently. Rights
// only ever go from true to false over the life of a game.
type CastlingRights struct {
	WhiteKingside  bool
	WhiteQueenside bool
	BlackKingside  bool
	BlackQueenside bool
}

// GameState is the complete state of one game: piece placement, side to
// move, castling rights, en-passant target, move counters and the cached
// king squares. Every field is a plain value, so cloning is a struct copy
// and two states never share storage.
type GameState struct {
	board     [8][8]Piece // indexed [rank][file]
	turn      Color
	rights    CastlingRights
	epTarget  Square
	hasEP     bool
	halfMoves int
	fullMoves int
	kings     [2]Square // indexed by Color
}

// NewGame returns the standard starting position with White to move.
func NewGame() *GameState {
	g := &GameState{
		turn: White,
		rights: CastlingRights{
			WhiteKingside:  true,
			WhiteQueenside: true,
			BlackKingside:  true,
			BlackQueenside: true,
		},
		fullMoves: 1,
		kings:     [2]Square{White: {File: 4, Rank: 0}, Black: {File: 4, Rank: 7}},
	}
	back := [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file, kind := range back {
		g.board[0][file] = Piece{Color: White, Kind: kind}
		g.board[1][file] = Piece{Color: White, Kind: Pawn}
		g.board[6][file] = Piece{Color: Black, Kind: Pawn}
		g.board[7][file] = Piece{Color: Black, Kind: kind}
	}
	return g
}

// Clone returns a fully detached copy. Mutating the clone never affects the
// receiver; legality testing relies on this to explore hypothetical moves.
func (g *GameState) Clone() *GameState {
	c := *g
	return &c
}

// ActiveColor returns the side to move.
func (g *GameState) ActiveColor() Color {
	return g.turn
}

// PieceAt returns the piece on the square, or the empty piece.
func (g *GameState) PieceAt(s Square) Piece {
	return g.board[s.Rank][s.File]
}

// IsOwnPiece reports whether the square holds a piece of the active color.
func (g *GameState) IsOwnPiece(s Square) bool {
	p := g.at(s)
	return !p.IsEmpty() && p.Color == g.turn
}

// EnPassantTarget returns the square of the pawn that just advanced two
// ranks, if the previous move was such an advance. The flag is false after
// every other move.
func (g *GameState) EnPassantTarget() (Square, bool) {
	return g.epTarget, g.hasEP
}

func (g *GameState) at(s Square) Piece {
	return g.board[s.Rank][s.File]
}

func (g *GameState) put(s Square, p Piece) {
	g.board[s.Rank][s.File] = p
}
