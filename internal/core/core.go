package core

type Color byte

const (
	ColorWhite Color = iota + 1
	ColorBlack
)

func (c Color) String() string {
	if c == ColorWhite {
		return "w"
	} else if c == ColorBlack {
		return "b"
	} else {
		return "-"
	}
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// State is the game outcome. Once terminal it never changes.
type State int

const (
	StateUnfinished State = iota
	StateWhiteWon
	StateBlackWon
	StateTie
)

func (s State) String() string {
	switch s {
	case StateWhiteWon:
		return "white_won"
	case StateBlackWon:
		return "black_won"
	case StateTie:
		return "tie"
	default:
		return "unfinished"
	}
}

func (s State) Terminal() bool {
	return s != StateUnfinished
}
