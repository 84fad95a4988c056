package board

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		label string
		row   int
		col   int
	}{
		{"a1", 7, 0},
		{"a8", 0, 0},
		{"h1", 7, 7},
		{"h8", 0, 7},
		{"e4", 4, 4},
		{"c6", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			sq, err := Lookup(tt.label)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tt.label, err)
			}
			if sq.Row() != tt.row || sq.Col() != tt.col {
				t.Errorf("Lookup(%q) = (%d,%d), want (%d,%d)", tt.label, sq.Row(), sq.Col(), tt.row, tt.col)
			}
			if sq.Label() != tt.label {
				t.Errorf("Label() = %q, want %q", sq.Label(), tt.label)
			}
		})
	}
}

func TestLookupInvalid(t *testing.T) {
	for _, label := range []string{"", "a", "z9", "a0", "a9", "i1", "A1", "a10", "4e", "  "} {
		t.Run(label, func(t *testing.T) {
			if _, err := Lookup(label); !errors.Is(err, ErrInvalidLabel) {
				t.Errorf("Lookup(%q) err = %v, want ErrInvalidLabel", label, err)
			}
		})
	}
}

func TestLabelRoundTrip(t *testing.T) {
	for sq := Square(0); sq < 64; sq++ {
		got, err := Lookup(sq.Label())
		if err != nil {
			t.Fatalf("Lookup(%q): %v", sq.Label(), err)
		}
		if got != sq {
			t.Errorf("round trip %q: got %d, want %d", sq.Label(), got, sq)
		}
	}
}

func TestNeighborEdges(t *testing.T) {
	topo := Build()
	sq := func(label string) Square {
		s, err := Lookup(label)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", label, err)
		}
		return s
	}

	tests := []struct {
		name string
		from string
		dir  Direction
		want Square
	}{
		{"a1 has no left", "a1", Left, NoSquare},
		{"a1 has no down", "a1", Down, NoSquare},
		{"a1 up is a2", "a1", Up, sq("a2")},
		{"a1 right is b1", "a1", Right, sq("b1")},
		{"a1 upright is b2", "a1", UpRight, sq("b2")},
		{"h8 has no up", "h8", Up, NoSquare},
		{"h8 has no right", "h8", Right, NoSquare},
		{"h8 downleft is g7", "h8", DownLeft, sq("g7")},
		{"e4 upleft is d5", "e4", UpLeft, sq("d5")},
		{"e4 down is e3", "e4", Down, sq("e3")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := topo.Neighbor(sq(tt.from), tt.dir); got != tt.want {
				t.Errorf("Neighbor(%s, %v) = %v, want %v", tt.from, tt.dir, got, tt.want)
			}
		})
	}
}

func TestNeighborCounts(t *testing.T) {
	topo := Build()
	for sq := Square(0); sq < 64; sq++ {
		links := 0
		for d := Up; d <= DownRight; d++ {
			if n := topo.Neighbor(sq, d); n != NoSquare {
				if n < 0 || n > 63 {
					t.Fatalf("square %s dir %v links off-board: %d", sq.Label(), d, n)
				}
				links++
			}
		}
		r, c := sq.Row(), sq.Col()
		want := 8
		onEdgeR := r == 0 || r == 7
		onEdgeC := c == 0 || c == 7
		switch {
		case onEdgeR && onEdgeC:
			want = 3
		case onEdgeR || onEdgeC:
			want = 5
		}
		if links != want {
			t.Errorf("square %s has %d links, want %d", sq.Label(), links, want)
		}
	}
}

func TestWalk(t *testing.T) {
	topo := Build()
	b1, _ := Lookup("b1")
	a1, _ := Lookup("a1")
	a3, _ := Lookup("a3")

	if got := topo.Walk(b1, Left, Up, Up); got != a3 {
		t.Errorf("Walk(b1, L,U,U) = %v, want a3", got)
	}
	// Any intermediate step off the board kills the walk, so a knight
	// hop can never wrap around an edge.
	if got := topo.Walk(a1, Left, Up, Up); got != NoSquare {
		t.Errorf("Walk(a1, L,U,U) = %v, want NoSquare", got)
	}
	if got := topo.Walk(NoSquare, Up); got != NoSquare {
		t.Errorf("Walk(NoSquare, U) = %v, want NoSquare", got)
	}
}
