package game

import (
	"errors"
	"testing"

	"racingkings/internal/board"
	"racingkings/internal/core"
	"racingkings/internal/piece"
)

func mustLayout(t *testing.T, placements ...Placement) *Game {
	t.Helper()
	g, err := NewFromLayout(placements)
	if err != nil {
		t.Fatalf("NewFromLayout: %v", err)
	}
	return g
}

func mustMove(t *testing.T, g *Game, from, to string) {
	t.Helper()
	if err := g.AttemptMove(from, to); err != nil {
		t.Fatalf("AttemptMove(%s, %s): %v", from, to, err)
	}
}

func pieceAt(g *Game, label string) string {
	sq, err := board.Lookup(label)
	if err != nil {
		return ""
	}
	return g.Grid()[sq.Row()][sq.Col()]
}

func TestDefaultSetup(t *testing.T) {
	g := New()

	want := map[string]string{
		"a1": "wk", "a2": "wr", "b1": "wb", "b2": "wb", "c1": "wh", "c2": "wh",
		"h1": "bk", "h2": "br", "g1": "bb", "g2": "bb", "f1": "bh", "f2": "bh",
		"e4": "", "a8": "", "h8": "",
	}
	for label, code := range want {
		if got := pieceAt(g, label); got != code {
			t.Errorf("piece at %s = %q, want %q", label, got, code)
		}
	}
	if g.Turn() != core.ColorWhite {
		t.Errorf("starting turn = %v, want white", g.Turn())
	}
	if g.Outcome() != core.StateUnfinished {
		t.Errorf("starting outcome = %v, want unfinished", g.Outcome())
	}
}

func TestKnightOpening(t *testing.T) {
	g := New()

	mustMove(t, g, "c1", "b3")

	if got := pieceAt(g, "b3"); got != "wh" {
		t.Errorf("piece at b3 = %q, want wh", got)
	}
	if got := pieceAt(g, "c1"); got != "" {
		t.Errorf("piece at c1 = %q, want empty", got)
	}
	if g.Turn() != core.ColorBlack {
		t.Errorf("turn after move = %v, want black", g.Turn())
	}
	if g.MoveCount() != 1 {
		t.Errorf("move count = %d, want 1", g.MoveCount())
	}
}

func TestRejections(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{"invalid origin label", "z9", "a3", board.ErrInvalidLabel},
		{"invalid destination label", "a2", "a0", board.ErrInvalidLabel},
		{"empty origin", "e4", "e5", ErrIllegalMove},
		{"opponent's piece", "h2", "h5", ErrIllegalMove},
		{"own piece at destination", "a1", "a2", ErrIllegalMove},
		{"destination not reachable", "a2", "b3", ErrIllegalMove},
		{"bishop cannot jump", "b1", "d3", ErrIllegalMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			before := g.Grid()

			err := g.AttemptMove(tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AttemptMove(%s, %s) err = %v, want %v", tt.from, tt.to, err, tt.wantErr)
			}
			if g.Grid() != before {
				t.Error("board changed after rejected move")
			}
			if g.Turn() != core.ColorWhite {
				t.Errorf("turn changed after rejected move: %v", g.Turn())
			}
			if g.MoveCount() != 0 {
				t.Errorf("move recorded for rejected move: %d", g.MoveCount())
			}
		})
	}
}

func TestTurnAlternates(t *testing.T) {
	g := New()

	moves := []struct {
		from, to string
		turnNext core.Color
	}{
		{"a2", "a8", core.ColorBlack},
		{"h2", "h8", core.ColorWhite},
		{"a1", "a2", core.ColorBlack},
		{"h1", "h2", core.ColorWhite},
	}
	for _, m := range moves {
		mustMove(t, g, m.from, m.to)
		if g.Turn() != m.turnNext {
			t.Fatalf("after %s%s: turn = %v, want %v", m.from, m.to, g.Turn(), m.turnNext)
		}
	}
}

func TestMoveIntoCheckRejected(t *testing.T) {
	g := mustLayout(t,
		Placement{piece.King, core.ColorWhite, "e4"},
		Placement{piece.King, core.ColorBlack, "e6"},
	)

	err := g.AttemptMove("e4", "e5")
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("moving adjacent to enemy king: err = %v, want ErrIllegalMove", err)
	}
	if got := pieceAt(g, "e4"); got != "wk" {
		t.Errorf("king not rolled back, e4 = %q", got)
	}
	if g.Turn() != core.ColorWhite {
		t.Errorf("turn changed after rejected move: %v", g.Turn())
	}
}

// Checking the opponent's king is illegal in this variant, same as
// exposing one's own.
func TestCheckingOpponentRejected(t *testing.T) {
	g := mustLayout(t,
		Placement{piece.King, core.ColorWhite, "a1"},
		Placement{piece.Rook, core.ColorWhite, "b2"},
		Placement{piece.King, core.ColorBlack, "h8"},
	)

	err := g.AttemptMove("b2", "b8")
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("rook move giving check: err = %v, want ErrIllegalMove", err)
	}
	if got := pieceAt(g, "b2"); got != "wr" {
		t.Errorf("rook not rolled back, b2 = %q", got)
	}

	// The same rook is free to move where it checks nobody.
	mustMove(t, g, "b2", "b3")
}

func TestWhiteGraceTurnThenWin(t *testing.T) {
	g := mustLayout(t,
		Placement{piece.King, core.ColorWhite, "a7"},
		Placement{piece.King, core.ColorBlack, "h1"},
	)

	// White reaches the far rank first; the game stays open for
	// exactly one Black reply.
	mustMove(t, g, "a7", "a8")
	if g.Outcome() != core.StateUnfinished {
		t.Fatalf("outcome after white reaches rank 8 = %v, want unfinished", g.Outcome())
	}

	mustMove(t, g, "h1", "h2")
	if g.Outcome() != core.StateWhiteWon {
		t.Fatalf("outcome after black's reply = %v, want white_won", g.Outcome())
	}

	// Terminal: everything is rejected from here on, including legal-looking moves.
	if err := g.AttemptMove("a8", "a7"); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after game over: err = %v, want ErrGameOver", err)
	}
	if g.Outcome() != core.StateWhiteWon {
		t.Errorf("outcome changed after terminal state: %v", g.Outcome())
	}
}

func TestBothKingsTie(t *testing.T) {
	g := mustLayout(t,
		Placement{piece.King, core.ColorWhite, "a7"},
		Placement{piece.King, core.ColorBlack, "h7"},
	)

	mustMove(t, g, "a7", "a8")
	if g.Outcome() != core.StateUnfinished {
		t.Fatalf("outcome = %v, want unfinished", g.Outcome())
	}

	// Black equalizes within the grace turn.
	mustMove(t, g, "h7", "h8")
	if g.Outcome() != core.StateTie {
		t.Fatalf("outcome = %v, want tie", g.Outcome())
	}
}

// Black reaching the far rank first wins at once: White has already
// had its move of the round.
func TestBlackImmediateWin(t *testing.T) {
	g := mustLayout(t,
		Placement{piece.King, core.ColorWhite, "a2"},
		Placement{piece.King, core.ColorBlack, "h7"},
	)

	mustMove(t, g, "a2", "a3")
	mustMove(t, g, "h7", "h8")
	if g.Outcome() != core.StateBlackWon {
		t.Fatalf("outcome = %v, want black_won", g.Outcome())
	}
	if err := g.AttemptMove("a3", "a4"); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after game over: err = %v, want ErrGameOver", err)
	}
}

func TestCapturedPieceStopsAttacking(t *testing.T) {
	g := mustLayout(t,
		Placement{piece.King, core.ColorWhite, "a1"},
		Placement{piece.Rook, core.ColorWhite, "h1"},
		Placement{piece.King, core.ColorBlack, "g8"},
		Placement{piece.Rook, core.ColorBlack, "h2"},
	)

	// The black rook covers rank 2, so the white king may not step up.
	if err := g.AttemptMove("a1", "a2"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("king into covered square: err = %v, want ErrIllegalMove", err)
	}

	// Capture the rook; its square reference goes stale and it must
	// never contribute threatened squares again.
	mustMove(t, g, "h1", "h2")
	mustMove(t, g, "g8", "g7")
	mustMove(t, g, "a1", "a2")

	if got := pieceAt(g, "a2"); got != "wk" {
		t.Errorf("king at a2 = %q, want wk", got)
	}
	if got := pieceAt(g, "h2"); got != "wr" {
		t.Errorf("capturing rook at h2 = %q, want wr", got)
	}
}

// A captured king is out of the race entirely; losing the king must
// not read as standing on the far rank and hand its side the win.
func TestKingCaptureLeavesRaceOpen(t *testing.T) {
	t.Run("captured mid-board", func(t *testing.T) {
		g := mustLayout(t,
			Placement{piece.King, core.ColorWhite, "b1"},
			Placement{piece.Rook, core.ColorWhite, "a2"},
			Placement{piece.King, core.ColorBlack, "a5"},
			Placement{piece.Rook, core.ColorBlack, "h8"},
		)

		mustMove(t, g, "a2", "a5")

		if got := pieceAt(g, "a5"); got != "wr" {
			t.Errorf("capturing rook at a5 = %q, want wr", got)
		}
		if g.Outcome() != core.StateUnfinished {
			t.Errorf("outcome after king capture = %v, want unfinished", g.Outcome())
		}
		if g.Turn() != core.ColorBlack {
			t.Errorf("turn after capture = %v, want black", g.Turn())
		}
	})

	t.Run("captured on the far rank", func(t *testing.T) {
		g := mustLayout(t,
			Placement{piece.King, core.ColorWhite, "b1"},
			Placement{piece.Rook, core.ColorWhite, "a2"},
			Placement{piece.King, core.ColorBlack, "a8"},
		)

		mustMove(t, g, "a2", "a8")

		if g.Outcome() != core.StateUnfinished {
			t.Errorf("outcome after far-rank king capture = %v, want unfinished", g.Outcome())
		}
	})
}

func TestLayoutValidation(t *testing.T) {
	tests := []struct {
		name       string
		placements []Placement
	}{
		{"no kings", []Placement{
			{piece.Rook, core.ColorWhite, "a1"},
			{piece.Rook, core.ColorBlack, "h1"},
		}},
		{"missing black king", []Placement{
			{piece.King, core.ColorWhite, "a1"},
			{piece.Rook, core.ColorBlack, "h1"},
		}},
		{"two white kings", []Placement{
			{piece.King, core.ColorWhite, "a1"},
			{piece.King, core.ColorWhite, "b1"},
			{piece.King, core.ColorBlack, "h1"},
		}},
		{"square used twice", []Placement{
			{piece.King, core.ColorWhite, "a1"},
			{piece.Rook, core.ColorWhite, "a1"},
			{piece.King, core.ColorBlack, "h1"},
		}},
		{"bad square label", []Placement{
			{piece.King, core.ColorWhite, "a9"},
			{piece.King, core.ColorBlack, "h1"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFromLayout(tt.placements); !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("NewFromLayout err = %v, want ErrInvalidLayout", err)
			}
		})
	}
}

func TestPlacementFromCode(t *testing.T) {
	pl, err := PlacementFromCode("bh", "f1")
	if err != nil {
		t.Fatalf("PlacementFromCode: %v", err)
	}
	if pl.Kind != piece.Knight || pl.Color != core.ColorBlack || pl.Square != "f1" {
		t.Errorf("PlacementFromCode = %+v", pl)
	}

	for _, code := range []string{"", "w", "xk", "wz", "wkk"} {
		if _, err := PlacementFromCode(code, "a1"); !errors.Is(err, ErrInvalidLayout) {
			t.Errorf("PlacementFromCode(%q) err = %v, want ErrInvalidLayout", code, err)
		}
	}
}

// Replays the full race the original demo game plays out: both rooks
// rush the far rank, both kings walk up their files, and Black's king
// steps onto h8 first for an immediate win.
func TestFullGameRace(t *testing.T) {
	g := New()

	moves := [][2]string{
		{"a2", "a8"}, {"h2", "h8"},
		{"a1", "a2"}, {"h1", "h2"},
		{"a2", "a3"}, {"h2", "h3"},
		{"a3", "a4"}, {"h3", "h4"},
		{"a4", "a5"}, {"h4", "h5"},
		{"a5", "a6"}, {"h5", "h6"},
		{"a6", "a7"}, {"h6", "h7"},
		{"a8", "b8"}, {"h8", "g8"},
		{"b2", "a3"}, {"g2", "h3"},
	}
	for _, m := range moves {
		mustMove(t, g, m[0], m[1])
	}
	if g.Outcome() != core.StateUnfinished {
		t.Fatalf("mid-game outcome = %v, want unfinished", g.Outcome())
	}

	// Repeating a spent move fails: g2 is empty now.
	if err := g.AttemptMove("g2", "h3"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("replayed move err = %v, want ErrIllegalMove", err)
	}

	mustMove(t, g, "a7", "a6")
	mustMove(t, g, "h7", "h8")

	if g.Outcome() != core.StateBlackWon {
		t.Fatalf("final outcome = %v, want black_won", g.Outcome())
	}
	if err := g.AttemptMove("a6", "a7"); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after the race ends: err = %v, want ErrGameOver", err)
	}
}

func TestRenderString(t *testing.T) {
	g := New()
	out := g.String()

	if want := "   a  b  c  d  e  f  g  h"; out[:len(want)] != want {
		t.Errorf("header = %q", out[:len(want)])
	}
	// Rank 8 is printed first and is empty at the start.
	grid := g.Grid()
	for c := 0; c < 8; c++ {
		if grid[0][c] != "" {
			t.Errorf("rank 8 col %d occupied at start: %q", c, grid[0][c])
		}
	}
	if grid[7][0] != "wk" || grid[7][7] != "bk" {
		t.Errorf("rank 1 kings = %q, %q", grid[7][0], grid[7][7])
	}
}
