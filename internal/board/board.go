// Package board provides the 8x8 topology: squares addressable by
// label, with precomputed neighbor links in all eight directions.
package board

import (
	"errors"
	"fmt"
)

// Square indexes the board row-major: row 0 is rank 8 (the target
// rank for the king race), row 7 is rank 1.
type Square int8

// NoSquare marks an absent neighbor link or a captured piece's position.
const NoSquare Square = -1

var ErrInvalidLabel = errors.New("invalid square label")

type Direction int

const (
	Up Direction = iota // toward rank 8
	Down
	Left
	Right
	UpLeft
	UpRight
	DownLeft
	DownRight
	dirCount
)

var dirOffsets = [dirCount][2]int{
	Up:        {-1, 0},
	Down:      {1, 0},
	Left:      {0, -1},
	Right:     {0, 1},
	UpLeft:    {-1, -1},
	UpRight:   {-1, 1},
	DownLeft:  {1, -1},
	DownRight: {1, 1},
}

// Topology holds the neighbor links of all 64 squares. Built once,
// immutable afterward; occupancy lives with the game state.
type Topology struct {
	neighbors [64][dirCount]Square
}

// Build constructs the topology. Links that would leave the board are
// NoSquare, never a wrapped index.
func Build() *Topology {
	t := &Topology{}
	for sq := Square(0); sq < 64; sq++ {
		r, c := sq.Row(), sq.Col()
		for d := Direction(0); d < dirCount; d++ {
			nr := r + dirOffsets[d][0]
			nc := c + dirOffsets[d][1]
			if nr < 0 || nr > 7 || nc < 0 || nc > 7 {
				t.neighbors[sq][d] = NoSquare
			} else {
				t.neighbors[sq][d] = At(nr, nc)
			}
		}
	}
	return t
}

func (t *Topology) Neighbor(sq Square, d Direction) Square {
	if sq == NoSquare {
		return NoSquare
	}
	return t.neighbors[sq][d]
}

// Walk follows a chain of single-step traversals, returning NoSquare
// as soon as any intermediate step leaves the board.
func (t *Topology) Walk(sq Square, dirs ...Direction) Square {
	for _, d := range dirs {
		sq = t.Neighbor(sq, d)
		if sq == NoSquare {
			return NoSquare
		}
	}
	return sq
}

// At returns the square at (row, col). Both must be 0-7.
func At(row, col int) Square {
	return Square(row*8 + col)
}

func (sq Square) Row() int {
	return int(sq) / 8
}

func (sq Square) Col() int {
	return int(sq) % 8
}

// Label returns the human-readable coordinate, e.g. "a1" for row 7 col 0.
func (sq Square) Label() string {
	return fmt.Sprintf("%c%c", byte('a'+sq.Col()), byte('8'-sq.Row()))
}

// Lookup resolves a label like "e4" to its square. Any string outside
// the 64 valid coordinates fails with ErrInvalidLabel.
func Lookup(label string) (Square, error) {
	if len(label) != 2 || label[0] < 'a' || label[0] > 'h' || label[1] < '1' || label[1] > '8' {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	col := int(label[0] - 'a')
	row := int('8' - label[1])
	return At(row, col), nil
}
