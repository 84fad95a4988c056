package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"racingkings/internal/core"
	"racingkings/internal/game"
	"racingkings/internal/piece"
	"racingkings/internal/server/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := New(nil, []byte("test-secret"))
	t.Cleanup(func() { s.Shutdown(time.Second) })
	return s
}

func TestCreateAndGetGame(t *testing.T) {
	s := newTestService(t)

	gameID, err := s.CreateGame(nil, "")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if gameID == "" {
		t.Fatal("CreateGame returned empty ID")
	}

	view, err := s.GetGame(gameID)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if view.Turn != core.ColorWhite {
		t.Errorf("new game turn = %v, want white", view.Turn)
	}
	if view.Outcome != core.StateUnfinished {
		t.Errorf("new game outcome = %v, want unfinished", view.Outcome)
	}
	if view.Grid[7][0] != "wk" {
		t.Errorf("a1 = %q, want wk", view.Grid[7][0])
	}
	if s.GameCount() != 1 {
		t.Errorf("GameCount = %d, want 1", s.GameCount())
	}
}

func TestCreateGameCustomLayout(t *testing.T) {
	s := newTestService(t)

	layout := []game.Placement{
		{Kind: piece.King, Color: core.ColorWhite, Square: "a1"},
		{Kind: piece.King, Color: core.ColorBlack, Square: "h1"},
	}
	gameID, err := s.CreateGame(layout, "someone")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	view, err := s.GetGame(gameID)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if view.CreatedBy != "someone" {
		t.Errorf("CreatedBy = %q, want %q", view.CreatedBy, "someone")
	}
	if view.Grid[7][0] != "wk" || view.Grid[7][7] != "bk" {
		t.Errorf("kings not placed: a1=%q h1=%q", view.Grid[7][0], view.Grid[7][7])
	}
}

func TestCreateGameRejectsBadLayout(t *testing.T) {
	s := newTestService(t)

	layout := []game.Placement{
		{Kind: piece.King, Color: core.ColorWhite, Square: "a1"},
	}
	if _, err := s.CreateGame(layout, ""); !errors.Is(err, game.ErrInvalidLayout) {
		t.Errorf("CreateGame err = %v, want ErrInvalidLayout", err)
	}
}

func TestMove(t *testing.T) {
	s := newTestService(t)
	gameID, _ := s.CreateGame(nil, "")

	view, err := s.Move(gameID, "c1", "b3")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if view.Turn != core.ColorBlack {
		t.Errorf("turn after move = %v, want black", view.Turn)
	}
	if len(view.Moves) != 1 {
		t.Fatalf("moves = %d, want 1", len(view.Moves))
	}
	if view.Moves[0].From != "c1" || view.Moves[0].To != "b3" {
		t.Errorf("recorded move = %+v", view.Moves[0])
	}
}

func TestMoveErrorsPassThrough(t *testing.T) {
	s := newTestService(t)
	gameID, _ := s.CreateGame(nil, "")

	if _, err := s.Move(gameID, "f1", "e3"); !errors.Is(err, game.ErrIllegalMove) {
		t.Errorf("black piece on white's turn: err = %v, want ErrIllegalMove", err)
	}
	if _, err := s.Move("no-such-game", "c1", "b3"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("unknown game: err = %v, want ErrGameNotFound", err)
	}
}

func TestDeleteGame(t *testing.T) {
	s := newTestService(t)
	gameID, _ := s.CreateGame(nil, "")

	if err := s.DeleteGame(gameID); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if _, err := s.GetGame(gameID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGame after delete: err = %v, want ErrGameNotFound", err)
	}
	if err := s.DeleteGame(gameID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("second delete: err = %v, want ErrGameNotFound", err)
	}
}

func TestWaitNotifiedOnMove(t *testing.T) {
	s := newTestService(t)
	gameID, _ := s.CreateGame(nil, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notify := s.RegisterWait(gameID, 0, ctx)

	if _, err := s.Move(gameID, "c1", "b3"); err != nil {
		t.Fatalf("Move: %v", err)
	}

	select {
	case <-notify:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not notified after move")
	}
}

func TestWaitNotNotifiedForKnownCount(t *testing.T) {
	s := newTestService(t)
	gameID, _ := s.CreateGame(nil, "")

	if _, err := s.Move(gameID, "c1", "b3"); err != nil {
		t.Fatalf("Move: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Client already knows about move 1; NotifyGame with the same count
	// must not wake it.
	notify := s.RegisterWait(gameID, 1, ctx)
	s.waiter.NotifyGame(gameID, 1)

	select {
	case <-notify:
		t.Fatal("waiter woken without a new move")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWaitWokenOnGameDeletion(t *testing.T) {
	s := newTestService(t)
	gameID, _ := s.CreateGame(nil, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notify := s.RegisterWait(gameID, 0, ctx)

	if err := s.DeleteGame(gameID); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}

	select {
	case <-notify:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not woken when game deleted")
	}
}

func TestStorageHealthDisabled(t *testing.T) {
	s := newTestService(t)
	if got := s.GetStorageHealth(); got != "disabled" {
		t.Errorf("GetStorageHealth = %q, want %q", got, "disabled")
	}
}

func TestShutdownWakesWaitersAndNotifyStaysSafe(t *testing.T) {
	s := New(nil, []byte("test-secret"))
	gameID, _ := s.CreateGame(nil, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notify := s.RegisterWait(gameID, 0, ctx)

	if err := s.waiter.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case <-notify:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not woken on shutdown")
	}

	// Late notifications after shutdown must be a no-op, not a panic.
	s.waiter.NotifyGame(gameID, 1)
}

func TestCleanupExpiredSessionsLogs(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "svc.db"), false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}

	s := New(store, []byte("test-secret"))
	t.Cleanup(func() { s.Shutdown(time.Second) })

	if err := store.CreateUser(storage.UserRecord{
		UserID:       "id-grace",
		Username:     "grace",
		PasswordHash: "$argon2id$fake-hash",
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	now := time.Now().UTC()
	if err := store.CreateSession(storage.SessionRecord{
		SessionID: "sess-stale",
		UserID:    "id-grace",
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	s.cleanupExpired()

	if !strings.Contains(buf.String(), "cleanup: deleted 1 expired sessions") {
		t.Errorf("cleanup log = %q", buf.String())
	}
	if valid, _ := store.IsSessionValid("sess-stale"); valid {
		t.Error("expired session survived cleanup")
	}
}
