// Package session holds the REPL client's mutable state.
package session

import "racingkings/internal/client/api"

// Session carries connection, auth, and current-game state between
// commands.
type Session struct {
	APIBaseURL       string
	Client           *api.Client
	Verbose          bool
	AuthToken        string
	CurrentUser      string
	Username         string
	CurrentGame      string
	LastMoveCount    int
	CurrentGameState *api.GameResponse
}

func (s *Session) GetAPIBaseURL() string     { return s.APIBaseURL }
func (s *Session) SetAPIBaseURL(url string)  { s.APIBaseURL = url }
func (s *Session) GetCurrentGame() string    { return s.CurrentGame }
func (s *Session) SetCurrentGame(id string)  { s.CurrentGame = id }
func (s *Session) GetCurrentUser() string    { return s.CurrentUser }
func (s *Session) SetCurrentUser(id string)  { s.CurrentUser = id }
func (s *Session) GetAuthToken() string      { return s.AuthToken }
func (s *Session) SetAuthToken(token string) { s.AuthToken = token }
func (s *Session) GetUsername() string       { return s.Username }
func (s *Session) SetUsername(name string)   { s.Username = name }
func (s *Session) GetLastMoveCount() int     { return s.LastMoveCount }
func (s *Session) SetLastMoveCount(n int)    { s.LastMoveCount = n }
func (s *Session) GetClient() interface{}    { return s.Client }
func (s *Session) IsVerbose() bool           { return s.Verbose }

func (s *Session) SetGameState(state interface{}) {
	if g, ok := state.(*api.GameResponse); ok {
		s.CurrentGameState = g
	}
}
