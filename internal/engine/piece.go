package engine

// Color identifies a side.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Kind identifies a piece's movement rules. The zero value marks an empty
// square, so a Piece zero value is unambiguously "no piece".
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

// Piece is either empty (the zero value) or a colored piece of some kind.
type Piece struct {
	Color Color
	Kind  Kind
}

// IsEmpty reports whether the piece value represents an unoccupied square.
func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}
