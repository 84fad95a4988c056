package core

// Request types

type PlacementRequest struct {
	Piece  string `json:"piece" validate:"required,len=2"`  // color-initial + piece-initial, e.g. "wk", "bh"
	Square string `json:"square" validate:"required,len=2"` // e.g. "a1"
}

type CreateGameRequest struct {
	Layout []PlacementRequest `json:"layout,omitempty" validate:"omitempty,min=2,max=64,dive"`
}

type MoveRequest struct {
	From string `json:"from" validate:"required,len=2"`
	To   string `json:"to" validate:"required,len=2"`
}

// Response types

type GameResponse struct {
	GameID    string       `json:"gameId"`
	Turn      string       `json:"turn"`    // "w" or "b"
	Outcome   string       `json:"outcome"` // "unfinished", "white_won", "black_won", "tie"
	Moves     []string     `json:"moves"`   // origin+destination, e.g. "c1b3"
	Board     [8][8]string `json:"board"`   // rank 8 first, files a-h; piece codes or ""
	LastMove  *MoveInfo    `json:"lastMove,omitempty"`
	CreatedBy string       `json:"createdBy,omitempty"`
}

type MoveInfo struct {
	From        string `json:"from"`
	To          string `json:"to"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
}

type BoardResponse struct {
	Grid  [8][8]string `json:"grid"`
	Board string       `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
