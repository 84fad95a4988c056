package piece

import (
	"sort"
	"testing"

	"racingkings/internal/board"
	"racingkings/internal/core"
)

// occupancyMap is a minimal Occupancy for tests.
type occupancyMap map[board.Square]core.Color

func (m occupancyMap) ColorAt(sq board.Square) (core.Color, bool) {
	c, ok := m[sq]
	return c, ok
}

func sq(t *testing.T, label string) board.Square {
	t.Helper()
	s, err := board.Lookup(label)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", label, err)
	}
	return s
}

func occ(t *testing.T, pieces map[string]core.Color) occupancyMap {
	t.Helper()
	m := make(occupancyMap, len(pieces))
	for label, c := range pieces {
		m[sq(t, label)] = c
	}
	return m
}

func labels(set []board.Square) []string {
	out := make([]string, 0, len(set))
	for _, s := range set {
		out = append(out, s.Label())
	}
	sort.Strings(out)
	return out
}

func assertDests(t *testing.T, got []board.Square, want []string) {
	t.Helper()
	gotLabels := labels(got)
	sort.Strings(want)
	if len(gotLabels) != len(want) {
		t.Fatalf("destinations = %v, want %v", gotLabels, want)
	}
	for i := range want {
		if gotLabels[i] != want[i] {
			t.Fatalf("destinations = %v, want %v", gotLabels, want)
		}
	}
}

func TestKingDestinations(t *testing.T) {
	topo := board.Build()
	empty := occupancyMap{}

	tests := []struct {
		origin string
		want   []string
	}{
		{"e4", []string{"d3", "d4", "d5", "e3", "e5", "f3", "f4", "f5"}},
		{"a1", []string{"a2", "b1", "b2"}},
		{"h8", []string{"g7", "g8", "h7"}},
		{"a5", []string{"a4", "a6", "b4", "b5", "b6"}},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			assertDests(t, Destinations(King, core.ColorWhite, sq(t, tt.origin), topo, empty), tt.want)
		})
	}
}

func TestKnightDestinations(t *testing.T) {
	topo := board.Build()
	empty := occupancyMap{}

	tests := []struct {
		origin string
		want   []string
	}{
		{"e4", []string{"c3", "c5", "d2", "d6", "f2", "f6", "g3", "g5"}},
		{"b1", []string{"a3", "c3", "d2"}},
		{"a1", []string{"b3", "c2"}},
		{"h8", []string{"f7", "g6"}},
		{"c1", []string{"a2", "b3", "d3", "e2"}},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			assertDests(t, Destinations(Knight, core.ColorWhite, sq(t, tt.origin), topo, empty), tt.want)
		})
	}
}

func TestRookSliding(t *testing.T) {
	topo := board.Build()

	tests := []struct {
		name   string
		origin string
		pieces map[string]core.Color
		want   []string
	}{
		{
			name:   "open board",
			origin: "d4",
			pieces: nil,
			want: []string{
				"a4", "b4", "c4", "e4", "f4", "g4", "h4",
				"d1", "d2", "d3", "d5", "d6", "d7", "d8",
			},
		},
		{
			name:   "friendly blocker excluded",
			origin: "d4",
			pieces: map[string]core.Color{"d6": core.ColorWhite},
			want: []string{
				"a4", "b4", "c4", "e4", "f4", "g4", "h4",
				"d1", "d2", "d3", "d5",
			},
		},
		{
			name:   "enemy blocker is the last reachable square",
			origin: "d4",
			pieces: map[string]core.Color{"d6": core.ColorBlack},
			want: []string{
				"a4", "b4", "c4", "e4", "f4", "g4", "h4",
				"d1", "d2", "d3", "d5", "d6",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDests(t, Destinations(Rook, core.ColorWhite, sq(t, tt.origin), topo, occ(t, tt.pieces)), tt.want)
		})
	}
}

func TestBishopSliding(t *testing.T) {
	topo := board.Build()

	tests := []struct {
		name   string
		origin string
		pieces map[string]core.Color
		want   []string
	}{
		{
			name:   "open board",
			origin: "d4",
			pieces: nil,
			want: []string{
				"a1", "b2", "c3", "e5", "f6", "g7", "h8",
				"a7", "b6", "c5", "e3", "f2", "g1",
			},
		},
		{
			name:   "blockers on one diagonal",
			origin: "d4",
			pieces: map[string]core.Color{"f6": core.ColorWhite, "b2": core.ColorBlack},
			want: []string{
				"b2", "c3", "e5",
				"a7", "b6", "c5", "e3", "f2", "g1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDests(t, Destinations(Bishop, core.ColorWhite, sq(t, tt.origin), topo, occ(t, tt.pieces)), tt.want)
		})
	}
}

func TestQueenIsRookPlusBishop(t *testing.T) {
	topo := board.Build()
	pieces := occ(t, map[string]core.Color{"d6": core.ColorBlack, "f6": core.ColorWhite})
	origin := sq(t, "d4")

	queen := labels(Destinations(Queen, core.ColorWhite, origin, topo, pieces))
	both := labels(append(
		Destinations(Rook, core.ColorWhite, origin, topo, pieces),
		Destinations(Bishop, core.ColorWhite, origin, topo, pieces)...,
	))

	if len(queen) != len(both) {
		t.Fatalf("queen = %v, rook+bishop = %v", queen, both)
	}
	for i := range queen {
		if queen[i] != both[i] {
			t.Fatalf("queen = %v, rook+bishop = %v", queen, both)
		}
	}
}

func TestPawnSteps(t *testing.T) {
	topo := board.Build()
	empty := occupancyMap{}

	tests := []struct {
		name   string
		color  core.Color
		origin string
		want   []string
	}{
		{"white home rank double step", core.ColorWhite, "e2", []string{"e3", "e4"}},
		{"white single step", core.ColorWhite, "e3", []string{"e4"}},
		{"white at far rank", core.ColorWhite, "e8", nil},
		{"black home rank double step", core.ColorBlack, "e7", []string{"e6", "e5"}},
		{"black single step", core.ColorBlack, "e6", []string{"e5"}},
		{"black at near rank", core.ColorBlack, "e1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDests(t, Destinations(Pawn, tt.color, sq(t, tt.origin), topo, empty), tt.want)
		})
	}
}

// Destinations must stay on the board and never include the origin,
// for every kind from every square.
func TestDestinationsWithinBoard(t *testing.T) {
	topo := board.Build()
	empty := occupancyMap{}

	for _, k := range []Kind{King, Queen, Rook, Bishop, Knight, Pawn} {
		for origin := board.Square(0); origin < 64; origin++ {
			for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
				for _, d := range Destinations(k, c, origin, topo, empty) {
					if d < 0 || d > 63 {
						t.Fatalf("%s from %s: off-board destination %d", k, origin.Label(), d)
					}
					if d == origin {
						t.Fatalf("%s from %s: destination equals origin", k, origin.Label())
					}
				}
			}
		}
	}
}

func TestPieceCodes(t *testing.T) {
	tests := []struct {
		p    Piece
		want string
	}{
		{Piece{Kind: King, Color: core.ColorWhite}, "wk"},
		{Piece{Kind: Knight, Color: core.ColorBlack}, "bh"},
		{Piece{Kind: Rook, Color: core.ColorBlack}, "br"},
		{Piece{Kind: Bishop, Color: core.ColorWhite}, "wb"},
	}
	for _, tt := range tests {
		if got := tt.p.Code(); got != tt.want {
			t.Errorf("Code() = %q, want %q", got, tt.want)
		}
	}

	for _, k := range []Kind{King, Queen, Rook, Bishop, Knight, Pawn} {
		got, ok := KindFromCode(k.Code())
		if !ok || got != k {
			t.Errorf("KindFromCode(%q) = %v, %v; want %v", k.Code(), got, ok, k)
		}
	}
	if _, ok := KindFromCode('n'); ok {
		t.Error("KindFromCode('n') accepted unknown code")
	}
}
