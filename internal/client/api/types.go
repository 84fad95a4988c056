package api

import "time"

// Wire types mirroring the server API.

type PlacementRequest struct {
	Piece  string `json:"piece"`
	Square string `json:"square"`
}

type CreateGameRequest struct {
	Layout []PlacementRequest `json:"layout,omitempty"`
}

type MoveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type MoveInfo struct {
	From        string `json:"from"`
	To          string `json:"to"`
	PlayerColor string `json:"playerColor"`
}

type GameResponse struct {
	GameID    string       `json:"gameId"`
	Turn      string       `json:"turn"`
	Outcome   string       `json:"outcome"`
	Moves     []string     `json:"moves"`
	Board     [8][8]string `json:"board"`
	LastMove  *MoveInfo    `json:"lastMove,omitempty"`
	CreatedBy string       `json:"createdBy,omitempty"`
}

type BoardResponse struct {
	Grid  [8][8]string `json:"grid"`
	Board string       `json:"board"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UserResponse struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
