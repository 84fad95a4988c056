package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout bounds how long a long-poll request can hang
	WaitTimeout = 25 * time.Second

	waitChannelBuffer = 1
)

// WaitRegistry manages long-polling clients waiting for a move to land
// on a game they are watching.
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*waitRequest // gameID -> waiting clients
	shutdown chan struct{}
	wg       sync.WaitGroup
}

type waitRequest struct {
	moveCount int // move count the client already has
	notify    chan struct{}
	timer     *time.Timer
	gameID    string
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*waitRequest),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait registers a client to wait for game state changes. The
// returned channel fires on a new move, on timeout, or on shutdown;
// the caller re-reads the game either way.
func (w *WaitRegistry) RegisterWait(gameID string, moveCount int, ctx context.Context) <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	req := &waitRequest{
		moveCount: moveCount,
		notify:    make(chan struct{}, waitChannelBuffer),
		gameID:    gameID,
	}

	req.timer = time.AfterFunc(WaitTimeout, func() {
		select {
		case req.notify <- struct{}{}:
		default:
		}
	})

	w.waiters[gameID] = append(w.waiters[gameID], req)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			// Client disconnected
			w.removeWaiter(gameID, req)
		case <-req.notify:
			req.timer.Stop()
			w.removeWaiter(gameID, req)
		case <-w.shutdown:
			// Wake the client by sending, never by closing: NotifyGame
			// may still hold a reference and try to send.
			req.timer.Stop()
			select {
			case req.notify <- struct{}{}:
			default:
			}
		}
	}()

	return req.notify
}

// NotifyGame wakes all clients waiting on a game whose known move
// count is stale.
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.RLock()
	waitList := w.waiters[gameID]
	w.mu.RUnlock()

	for _, req := range waitList {
		if req.moveCount == currentMoveCount {
			continue
		}
		select {
		case req.notify <- struct{}{}:
		default:
			// Channel full or closed, skip slow client
		}
	}
}

// RemoveGame wakes and drops all waiters for a game, called before the
// game is deleted.
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		select {
		case req.notify <- struct{}{}:
		default:
		}
	}
}

// Shutdown gracefully shuts down the wait registry
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out")
	}
}

func (w *WaitRegistry) removeWaiter(gameID string, req *waitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}

	req.timer.Stop()
}
