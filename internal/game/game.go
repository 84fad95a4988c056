// Package game owns the Racing Kings state machine: piece rosters,
// board occupancy, turn order, and the win/tie race on the far rank.
package game

import (
	"errors"
	"fmt"
	"strings"

	"racingkings/internal/board"
	"racingkings/internal/core"
	"racingkings/internal/piece"
)

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrGameOver      = errors.New("game is over")
	ErrInvalidLayout = errors.New("invalid layout")
)

// Placement positions one piece for a starting layout.
type Placement struct {
	Kind   piece.Kind
	Color  core.Color
	Square string
}

// PlacementFromCode builds a Placement from a two-letter piece code
// ("wk", "bh") and a square label.
func PlacementFromCode(code, square string) (Placement, error) {
	if len(code) != 2 {
		return Placement{}, fmt.Errorf("%w: piece code %q", ErrInvalidLayout, code)
	}
	var c core.Color
	switch code[0] {
	case 'w':
		c = core.ColorWhite
	case 'b':
		c = core.ColorBlack
	default:
		return Placement{}, fmt.Errorf("%w: piece color %q", ErrInvalidLayout, code)
	}
	k, ok := piece.KindFromCode(code[1])
	if !ok {
		return Placement{}, fmt.Errorf("%w: piece kind %q", ErrInvalidLayout, code)
	}
	return Placement{Kind: k, Color: c, Square: square}, nil
}

// DefaultLayout is the canonical Racing Kings setup: both armies start
// on ranks 1-2, White on files a-c, Black mirrored on files f-h.
func DefaultLayout() []Placement {
	return []Placement{
		{piece.King, core.ColorWhite, "a1"},
		{piece.Rook, core.ColorWhite, "a2"},
		{piece.Bishop, core.ColorWhite, "b1"},
		{piece.Bishop, core.ColorWhite, "b2"},
		{piece.Knight, core.ColorWhite, "c1"},
		{piece.Knight, core.ColorWhite, "c2"},
		{piece.King, core.ColorBlack, "h1"},
		{piece.Rook, core.ColorBlack, "h2"},
		{piece.Bishop, core.ColorBlack, "g1"},
		{piece.Bishop, core.ColorBlack, "g2"},
		{piece.Knight, core.ColorBlack, "f1"},
		{piece.Knight, core.ColorBlack, "f2"},
	}
}

// Move is one committed half-move.
type Move struct {
	From  string
	To    string
	Color core.Color
}

// Game is a single Racing Kings game. Not safe for concurrent use;
// callers serialize access per instance.
type Game struct {
	topo     *board.Topology
	cells    [64]int // roster index or -1
	roster   []piece.Piece
	turn     core.Color
	state    core.State
	lastTurn bool // White reached the far rank; Black has one reply left
	moves    []Move
}

// New starts a game from the default layout.
func New() *Game {
	g, err := NewFromLayout(DefaultLayout())
	if err != nil {
		// The default layout is fixed; failing to build it is a bug.
		panic(fmt.Sprintf("game: default layout rejected: %v", err))
	}
	return g
}

// NewFromLayout starts a game from a custom layout. Each side must
// field exactly one king; squares must not be reused.
func NewFromLayout(layout []Placement) (*Game, error) {
	g := &Game{
		topo:  board.Build(),
		turn:  core.ColorWhite,
		state: core.StateUnfinished,
	}
	for i := range g.cells {
		g.cells[i] = -1
	}

	kings := make(map[core.Color]int)
	for _, pl := range layout {
		sq, err := board.Lookup(pl.Square)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
		}
		if pl.Color != core.ColorWhite && pl.Color != core.ColorBlack {
			return nil, fmt.Errorf("%w: bad color for piece at %s", ErrInvalidLayout, pl.Square)
		}
		if pl.Kind < piece.King || pl.Kind > piece.Pawn {
			return nil, fmt.Errorf("%w: bad piece kind at %s", ErrInvalidLayout, pl.Square)
		}
		if g.cells[sq] >= 0 {
			return nil, fmt.Errorf("%w: square %s placed twice", ErrInvalidLayout, pl.Square)
		}
		g.cells[sq] = len(g.roster)
		g.roster = append(g.roster, piece.Piece{Kind: pl.Kind, Color: pl.Color, Square: sq})
		if pl.Kind == piece.King {
			kings[pl.Color]++
		}
	}
	if kings[core.ColorWhite] != 1 || kings[core.ColorBlack] != 1 {
		return nil, fmt.Errorf("%w: each side needs exactly one king", ErrInvalidLayout)
	}
	return g, nil
}

// ColorAt implements piece.Occupancy.
func (g *Game) ColorAt(sq board.Square) (core.Color, bool) {
	if sq == board.NoSquare || g.cells[sq] < 0 {
		return 0, false
	}
	return g.roster[g.cells[sq]].Color, true
}

func (g *Game) Turn() core.Color {
	return g.turn
}

func (g *Game) Outcome() core.State {
	return g.state
}

func (g *Game) Moves() []Move {
	out := make([]Move, len(g.moves))
	copy(out, g.moves)
	return out
}

func (g *Game) MoveCount() int {
	return len(g.moves)
}

// AttemptMove validates and, if legal, commits a move from origin to
// destination (square labels). On any failure the board, rosters, and
// turn are left exactly as before the call.
func (g *Game) AttemptMove(origin, destination string) error {
	if g.state.Terminal() {
		return fmt.Errorf("%w: %s", ErrGameOver, g.state)
	}

	from, err := board.Lookup(origin)
	if err != nil {
		return err
	}
	to, err := board.Lookup(destination)
	if err != nil {
		return err
	}

	mi := g.cells[from]
	if mi < 0 {
		return fmt.Errorf("%w: no piece at %s", ErrIllegalMove, origin)
	}
	mover := &g.roster[mi]
	if mover.Color != g.turn {
		return fmt.Errorf("%w: it is %s's turn", ErrIllegalMove, g.turn)
	}

	captured := g.cells[to]
	if captured >= 0 && g.roster[captured].Color == mover.Color {
		return fmt.Errorf("%w: own piece at %s", ErrIllegalMove, destination)
	}

	if !squareIn(piece.Destinations(mover.Kind, mover.Color, from, g.topo, g), to) {
		return fmt.Errorf("%w: %s cannot reach %s", ErrIllegalMove, mover.Kind, destination)
	}

	// Provisional commit, remembering enough to roll back exactly.
	g.cells[to] = mi
	g.cells[from] = -1
	mover.Square = to
	if captured >= 0 {
		g.roster[captured].Square = board.NoSquare
	}

	// A move may not leave either king attacked; checking the opponent
	// is illegal in this variant, not a winning threat.
	if g.kingAttacked(core.ColorWhite) || g.kingAttacked(core.ColorBlack) {
		g.cells[from] = mi
		g.cells[to] = captured
		mover.Square = from
		if captured >= 0 {
			g.roster[captured].Square = to
		}
		return fmt.Errorf("%w: move leaves a king in check", ErrIllegalMove)
	}

	g.moves = append(g.moves, Move{From: origin, To: destination, Color: g.turn})
	g.updateOutcome()
	g.turn = core.OppositeColor(g.turn)
	return nil
}

// updateOutcome resolves the race after every committed move. White
// reaching rank 8 first grants Black exactly one reply to equalize
// into a tie; Black reaching first wins immediately because White has
// already had its move of the round.
func (g *Game) updateOutcome() {
	// A captured king holds NoSquare; it is not on any rank.
	white := g.kingSquare(core.ColorWhite)
	black := g.kingSquare(core.ColorBlack)
	whiteTop := white != board.NoSquare && white.Row() == 0
	blackTop := black != board.NoSquare && black.Row() == 0

	switch {
	case whiteTop && blackTop:
		g.state = core.StateTie
	case whiteTop:
		if g.lastTurn {
			g.state = core.StateWhiteWon
		} else {
			g.lastTurn = true
		}
	case blackTop:
		g.state = core.StateBlackWon
	}
}

func (g *Game) kingSquare(c core.Color) board.Square {
	for _, p := range g.roster {
		if p.Kind == piece.King && p.Color == c {
			return p.Square
		}
	}
	// NewFromLayout guarantees a king per side.
	panic(fmt.Sprintf("game: no %s king in roster", c))
}

// kingAttacked reports whether c's king square is in the destination
// set of any opposing piece still on the board.
func (g *Game) kingAttacked(c core.Color) bool {
	king := g.kingSquare(c)
	for _, p := range g.roster {
		if p.Color == c || p.Captured() {
			continue
		}
		if squareIn(piece.Destinations(p.Kind, p.Color, p.Square, g.topo, g), king) {
			return true
		}
	}
	return false
}

func squareIn(set []board.Square, sq board.Square) bool {
	for _, s := range set {
		if s == sq {
			return true
		}
	}
	return false
}

// Grid returns the display grid, rank 8 first, files a-h. Occupied
// squares hold two-letter piece codes ("wk", "bh"), empty squares "".
func (g *Game) Grid() [8][8]string {
	var grid [8][8]string
	for sq := board.Square(0); sq < 64; sq++ {
		if i := g.cells[sq]; i >= 0 {
			grid[sq.Row()][sq.Col()] = g.roster[i].Code()
		}
	}
	return grid
}

// String renders an ASCII board.
func (g *Game) String() string {
	grid := g.Grid()
	var sb strings.Builder
	sb.WriteString("   a  b  c  d  e  f  g  h\n")
	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for c := 0; c < 8; c++ {
			if grid[r][c] == "" {
				sb.WriteString(" ..")
			} else {
				sb.WriteString(" " + grid[r][c])
			}
		}
		sb.WriteString(fmt.Sprintf("  %d\n", 8-r))
	}
	sb.WriteString("   a  b  c  d  e  f  g  h")
	return sb.String()
}
