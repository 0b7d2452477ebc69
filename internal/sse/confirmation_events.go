// Package sse pushes payment confirmations to browsers waiting on them.
package sse

import (
	"context"
	"sync"

	"award-registration/internal/models"
)

const clientBuffer = 4

// ConfirmationEmitter fans verified confirmations out to subscribers keyed
// by payment intent id.
type ConfirmationEmitter struct {
	mu      sync.RWMutex
	clients map[string][]chan models.Confirmation
}

func NewConfirmationEmitter() *ConfirmationEmitter {
	return &ConfirmationEmitter{
		clients: make(map[string][]chan models.Confirmation),
	}
}

// Subscribe registers a client for intentID. The channel is closed once ctx
// is done.
func (e *ConfirmationEmitter) Subscribe(ctx context.Context, intentID string) <-chan models.Confirmation {
	ch := make(chan models.Confirmation, clientBuffer)

	e.mu.Lock()
	e.clients[intentID] = append(e.clients[intentID], ch)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.remove(intentID, ch)
	}()

	return ch
}

// Emit delivers c to every subscriber of its intent without blocking; a full
// client buffer drops the event for that client. It returns how many clients
// received it.
func (e *ConfirmationEmitter) Emit(c models.Confirmation) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sent := 0
	for _, ch := range e.clients[c.IntentID] {
		select {
		case ch <- c:
			sent++
		default:
		}
	}
	return sent
}

func (e *ConfirmationEmitter) remove(intentID string, ch chan models.Confirmation) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clients := e.clients[intentID]
	for i, c := range clients {
		if c == ch {
			e.clients[intentID] = append(clients[:i], clients[i+1:]...)
			close(ch)
			break
		}
	}
	if len(e.clients[intentID]) == 0 {
		delete(e.clients, intentID)
	}
}

func (e *ConfirmationEmitter) ClientCount(intentID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clients[intentID])
}
