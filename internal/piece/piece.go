// Package piece implements per-kind pseudo-legal move generation.
// Generators do not filter for king safety; the game state applies
// that after a provisional commit.
package piece

import (
	"racingkings/internal/board"
	"racingkings/internal/core"
)

type Kind byte

const (
	King Kind = iota + 1
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

func (k Kind) String() string {
	switch k {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	default:
		return "unknown"
	}
}

// Code returns the single-letter display code. Knight is 'h' (horse)
// so it cannot be confused with the king.
func (k Kind) Code() byte {
	switch k {
	case King:
		return 'k'
	case Queen:
		return 'q'
	case Rook:
		return 'r'
	case Bishop:
		return 'b'
	case Knight:
		return 'h'
	case Pawn:
		return 'p'
	default:
		return '?'
	}
}

// KindFromCode is the inverse of Code, used when parsing layouts.
func KindFromCode(c byte) (Kind, bool) {
	switch c {
	case 'k':
		return King, true
	case 'q':
		return Queen, true
	case 'r':
		return Rook, true
	case 'b':
		return Bishop, true
	case 'h':
		return Knight, true
	case 'p':
		return Pawn, true
	default:
		return 0, false
	}
}

// Piece is a roster entry. A captured piece keeps its roster slot but
// holds NoSquare, so it never contributes destinations again.
type Piece struct {
	Kind   Kind
	Color  core.Color
	Square board.Square
}

func (p Piece) Captured() bool {
	return p.Square == board.NoSquare
}

// Code returns the two-letter display code, e.g. "wk", "bh".
func (p Piece) Code() string {
	return string([]byte{p.Color.String()[0], p.Kind.Code()})
}

// Occupancy reports which side, if any, occupies a square. Implemented
// by the game state; pieces never see the roster directly.
type Occupancy interface {
	ColorAt(board.Square) (core.Color, bool)
}

var orthogonal = []board.Direction{board.Up, board.Down, board.Left, board.Right}
var diagonal = []board.Direction{board.UpLeft, board.UpRight, board.DownLeft, board.DownRight}

// The eight knight hops as composed single-step traversals. A hop is
// dropped when any intermediate step leaves the board.
var knightPaths = [8][3]board.Direction{
	{board.Left, board.Up, board.Up},
	{board.Right, board.Up, board.Up},
	{board.Left, board.Down, board.Down},
	{board.Right, board.Down, board.Down},
	{board.Left, board.Left, board.Up},
	{board.Right, board.Right, board.Up},
	{board.Left, board.Left, board.Down},
	{board.Right, board.Right, board.Down},
}

// Destinations generates the pseudo-legal destination set for a piece
// of the given kind and color standing on origin. Sliding pieces stop
// at blockers (including an opposing blocker's square, excluding a
// friendly one); king, knight, and pawn ignore occupancy entirely, as
// same-color landings are rejected by the move validator.
func Destinations(k Kind, c core.Color, origin board.Square, t *board.Topology, occ Occupancy) []board.Square {
	switch k {
	case King:
		return steps(t, origin)
	case Knight:
		return knightHops(t, origin)
	case Rook:
		return slide(t, origin, c, occ, orthogonal)
	case Bishop:
		return slide(t, origin, c, occ, diagonal)
	case Queen:
		dests := slide(t, origin, c, occ, orthogonal)
		return append(dests, slide(t, origin, c, occ, diagonal)...)
	case Pawn:
		return pawnSteps(t, origin, c)
	default:
		return nil
	}
}

// steps returns every adjacent square that exists: the king's move set.
func steps(t *board.Topology, origin board.Square) []board.Square {
	var dests []board.Square
	for d := board.Up; d <= board.DownRight; d++ {
		if sq := t.Neighbor(origin, d); sq != board.NoSquare {
			dests = append(dests, sq)
		}
	}
	return dests
}

func knightHops(t *board.Topology, origin board.Square) []board.Square {
	var dests []board.Square
	for _, path := range knightPaths {
		if sq := t.Walk(origin, path[0], path[1], path[2]); sq != board.NoSquare {
			dests = append(dests, sq)
		}
	}
	return dests
}

// slide walks each direction square by square: empty squares are
// included and the walk continues; an opposing occupant is included
// and stops the walk; a friendly occupant stops it without inclusion.
func slide(t *board.Topology, origin board.Square, c core.Color, occ Occupancy, dirs []board.Direction) []board.Square {
	var dests []board.Square
	for _, d := range dirs {
		for sq := t.Neighbor(origin, d); sq != board.NoSquare; sq = t.Neighbor(sq, d) {
			other, occupied := occ.ColorAt(sq)
			if occupied {
				if other != c {
					dests = append(dests, sq)
				}
				break
			}
			dests = append(dests, sq)
		}
	}
	return dests
}

// pawnSteps is the minimal pawn model: one step forward, two from the
// home rank. No captures, en passant, or promotion; pawns are not part
// of the Racing Kings setup.
func pawnSteps(t *board.Topology, origin board.Square, c core.Color) []board.Square {
	forward := board.Up
	homeRow := 6 // rank 2
	if c == core.ColorBlack {
		forward = board.Down
		homeRow = 1 // rank 7
	}

	var dests []board.Square
	one := t.Neighbor(origin, forward)
	if one == board.NoSquare {
		return nil
	}
	dests = append(dests, one)
	if origin.Row() == homeRow {
		if two := t.Neighbor(one, forward); two != board.NoSquare {
			dests = append(dests, two)
		}
	}
	return dests
}
