// Package cache keeps live game data: the turn state after every trick
// and the ordered log of game actions.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	engine "github.com/jason-s-yu/jass/engine"
)

// ErrNotFound is returned when a game has no stored snapshot.
var ErrNotFound = errors.New("cache: not found")

// GameActionRecord is one entry of a game's action log.
type GameActionRecord struct {
	GameID        uuid.UUID      `json:"game_id"`
	ActionIndex   int            `json:"action_index"`
	ActorSeat     int            `json:"actor_seat"` // -1 for table events
	ActionType    string         `json:"action_type"`
	ActionPayload map[string]any `json:"action_payload,omitempty"`
	Timestamp     int64          `json:"timestamp"` // unix millis
}

// Store persists snapshots and action records.
type Store interface {
	SaveSnapshot(ctx context.Context, gameID uuid.UUID, state engine.TurnState) error
	LoadSnapshot(ctx context.Context, gameID uuid.UUID) (engine.TurnState, error)
	PublishGameAction(ctx context.Context, rec GameActionRecord) error
}

// Memory is a Store held in process memory.
type Memory struct {
	mu        sync.Mutex
	snapshots map[uuid.UUID]engine.TurnState
	actions   map[uuid.UUID][]GameActionRecord
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[uuid.UUID]engine.TurnState),
		actions:   make(map[uuid.UUID][]GameActionRecord),
	}
}

func (m *Memory) SaveSnapshot(_ context.Context, gameID uuid.UUID, state engine.TurnState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[gameID] = state
	return nil
}

func (m *Memory) LoadSnapshot(_ context.Context, gameID uuid.UUID) (engine.TurnState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snapshots[gameID]
	if !ok {
		return engine.TurnState{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	return s, nil
}

func (m *Memory) PublishGameAction(_ context.Context, rec GameActionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions[rec.GameID] = append(m.actions[rec.GameID], rec)
	return nil
}

// Actions returns a copy of the recorded actions of a game.
func (m *Memory) Actions(gameID uuid.UUID) []GameActionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GameActionRecord(nil), m.actions[gameID]...)
}

var _ Store = (*Memory)(nil)
