package engine

import (
	"sort"
	"testing"
)

func sq(t *testing.T, label string) Square {
	t.Helper()
	s, err := ParseSquare(label)
	if err != nil {
		t.Fatalf("bad test square %q: %v", label, err)
	}
	return s
}

// position builds a game from explicit placements. King squares are cached
// automatically; castling rights start cleared and can be set by the test.
func position(t *testing.T, turn Color, pieces map[string]Piece) *GameState {
	t.Helper()
	g := &GameState{turn: turn, fullMoves: 1}
	for label, p := range pieces {
		s := sq(t, label)
		g.put(s, p)
		if p.Kind == King {
			g.kings[p.Color] = s
		}
	}
	return g
}

func labels(set []Square) []string {
	out := make([]string, 0, len(set))
	for _, s := range set {
		out = append(out, s.Label())
	}
	sort.Strings(out)
	return out
}

// playMoves executes a sequence of legal moves given as "e2e4" strings.
func playMoves(t *testing.T, g *GameState, moves ...string) {
	t.Helper()
	for _, m := range moves {
		if len(m) != 4 {
			t.Fatalf("bad test move %q", m)
		}
		from, to := sq(t, m[:2]), sq(t, m[2:])
		if err := g.Move(from, to); err != nil {
			t.Fatalf("move %s: %v", m, err)
		}
	}
}
