// Package service coordinates live games, user accounts, and storage
// behind the HTTP layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"racingkings/internal/core"
	"racingkings/internal/game"
	"racingkings/internal/server/storage"
)

const (
	SessionTTL         = 7 * 24 * time.Hour
	CleanupJobInterval = 1 * time.Hour
)

var ErrGameNotFound = errors.New("game not found")

// gameEntry pairs a live game with its own lock. All reads and moves
// on one game serialize on entry.mu; the registry lock only guards the
// map itself.
type gameEntry struct {
	mu        sync.Mutex
	game      *game.Game
	createdBy string
}

// Service coordinates game state, user management, and storage
type Service struct {
	games     map[string]*gameEntry
	mu        sync.RWMutex
	store     *storage.Store
	jwtSecret []byte
	waiter    *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store, jwtSecret []byte) *Service {
	return &Service{
		games:     make(map[string]*gameEntry),
		store:     store,
		jwtSecret: jwtSecret,
		waiter:    NewWaitRegistry(),
	}
}

// GameView is a point-in-time snapshot of one game, safe to use after
// the game lock is released.
type GameView struct {
	GameID    string
	Turn      core.Color
	Outcome   core.State
	Moves     []game.Move
	Grid      [8][8]string
	Rendered  string
	CreatedBy string
}

// CreateGame starts a new game, from the default layout when layout is
// nil, and returns its ID.
func (s *Service) CreateGame(layout []game.Placement, createdBy string) (string, error) {
	if layout == nil {
		layout = game.DefaultLayout()
	}
	g, err := game.NewFromLayout(layout)
	if err != nil {
		return "", err
	}

	gameID := uuid.New().String()

	s.mu.Lock()
	s.games[gameID] = &gameEntry{game: g, createdBy: createdBy}
	s.mu.Unlock()

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:       gameID,
			Layout:       layoutString(layout),
			CreatedBy:    createdBy,
			StartTimeUTC: time.Now().UTC(),
		})
	}

	return gameID, nil
}

// layoutString encodes a layout as space-separated piece@square codes
// for the games table.
func layoutString(layout []game.Placement) string {
	parts := make([]string, 0, len(layout))
	for _, pl := range layout {
		code := pl.Color.String() + string(pl.Kind.Code())
		parts = append(parts, code+"@"+pl.Square)
	}
	return strings.Join(parts, " ")
}

func (s *Service) entry(gameID string) (*gameEntry, error) {
	s.mu.RLock()
	e, ok := s.games[gameID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return e, nil
}

// GetGame returns a snapshot of the game state
func (s *Service) GetGame(gameID string) (*GameView, error) {
	e, err := s.entry(gameID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(gameID, e), nil
}

// Move applies one move to a game. Moves on the same game serialize on
// the game's lock, so two concurrent requests cannot both act on the
// same turn.
func (s *Service) Move(gameID, origin, destination string) (*GameView, error) {
	e, err := s.entry(gameID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if err := e.game.AttemptMove(origin, destination); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	view := snapshot(gameID, e)
	e.mu.Unlock()

	if s.store != nil {
		last := view.Moves[len(view.Moves)-1]
		s.store.RecordMove(storage.MoveRecord{
			GameID:      gameID,
			MoveNumber:  len(view.Moves),
			Origin:      last.From,
			Destination: last.To,
			PlayerColor: last.Color.String(),
			Outcome:     view.Outcome.String(),
			MoveTimeUTC: time.Now().UTC(),
		})
	}

	s.waiter.NotifyGame(gameID, len(view.Moves))

	return view, nil
}

// DeleteGame removes a game from the registry and its stored records
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	_, ok := s.games[gameID]
	if ok {
		delete(s.games, gameID)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	s.waiter.RemoveGame(gameID)

	if s.store != nil {
		s.store.DeleteGameRecords(gameID)
	}

	return nil
}

// GameCount returns the number of live games
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// snapshot copies the entry's game state. Caller holds entry.mu.
func snapshot(gameID string, e *gameEntry) *GameView {
	return &GameView{
		GameID:    gameID,
		Turn:      e.game.Turn(),
		Outcome:   e.game.Outcome(),
		Moves:     e.game.Moves(),
		Grid:      e.game.Grid(),
		Rendered:  e.game.String(),
		CreatedBy: e.createdBy,
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// RegisterWait registers a client to wait for game state changes
func (s *Service) RegisterWait(gameID string, moveCount int, ctx context.Context) <-chan struct{} {
	return s.waiter.RegisterWait(gameID, moveCount, ctx)
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*gameEntry)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}

// RunCleanupJob runs periodic cleanup of expired sessions
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupExpired()
		}
	}
}

func (s *Service) cleanupExpired() {
	if s.store == nil {
		return
	}

	if deleted, err := s.store.DeleteExpiredSessions(); err != nil {
		log.Printf("cleanup: failed to delete expired sessions: %v", err)
	} else if deleted > 0 {
		log.Printf("cleanup: deleted %d expired sessions", deleted)
	}
}
