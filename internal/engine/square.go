package engine

import "fmt"

// Square addresses one of the 64 board squares. File 0 is the a-file and
// rank 0 is White's back rank, so Square{File: 4, Rank: 0} is e1.
type Square struct {
	File int
	Rank int
}

// Label returns the two-character algebraic form of the square, e.g. "e4".
// It is only defined for squares with both coordinates in [0,7].
func (s Square) Label() string {
	return string([]byte{byte('a' + s.File), byte('1' + s.Rank)})
}

// ParseSquare is the inverse of Label over the 64 valid labels. Callers at
// the transport boundary use it to validate user input before handing
// squares to the engine; the engine itself never re-validates coordinates.
func ParseSquare(label string) (Square, error) {
	if len(label) != 2 {
		return Square{}, fmt.Errorf("malformed square %q", label)
	}
	file := int(label[0] - 'a')
	rank := int(label[1] - '1')
	if !onBoard(file, rank) {
		return Square{}, fmt.Errorf("malformed square %q", label)
	}
	return Square{File: file, Rank: rank}, nil
}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}
