package engine

import (
	"strconv"
	"strings"
)

// FEN serializes the position in Forsyth–Edwards order: piece placement from
// rank 8 down to rank 1, active color, castling rights, en-passant target,
// half-move clock and full-move counter. The en-passant field carries the
// engine's own target representation, the square of the pawn that just
// advanced two ranks.
func (g *GameState) FEN() string {
	var b strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empties := 0
		for file := 0; file < 8; file++ {
			p := g.board[rank][file]
			if p.IsEmpty() {
				empties++
				continue
			}
			if empties > 0 {
				b.WriteString(strconv.Itoa(empties))
				empties = 0
			}
			b.WriteByte(fenLetter(p))
		}
		if empties > 0 {
			b.WriteString(strconv.Itoa(empties))
		}
		if rank > 0 {
			b.WriteByte('/')
		}
	}

	b.WriteByte(' ')
	if g.turn == White {
		b.WriteByte('w')
	} else {
		b.WriteByte('b')
	}

	b.WriteByte(' ')
	b.WriteString(g.rights.fenField())

	b.WriteByte(' ')
	if g.hasEP {
		b.WriteString(g.epTarget.Label())
	} else {
		b.WriteByte('-')
	}

	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(g.halfMoves))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(g.fullMoves))
	return b.String()
}

func (r CastlingRights) fenField() string {
	var b []byte
	if r.WhiteKingside {
		b = append(b, 'K')
	}
	if r.WhiteQueenside {
		b = append(b, 'Q')
	}
	if r.BlackKingside {
		b = append(b, 'k')
	}
	if r.BlackQueenside {
		b = append(b, 'q')
	}
	if len(b) == 0 {
		return "-"
	}
	return string(b)
}

func fenLetter(p Piece) byte {
	var ch byte
	switch p.Kind {
	case Pawn:
		ch = 'P'
	case Rook:
		ch = 'R'
	case Knight:
		ch = 'N'
	case Bishop:
		ch = 'B'
	case Queen:
		ch = 'Q'
	case King:
		ch = 'K'
	}
	if p.Color == Black {
		ch += 'a' - 'A'
	}
	return ch
}
