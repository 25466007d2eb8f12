// Package history keeps the recent conversation between a player and an NPC
// so it can be replayed into dialogue prompts.
package history

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/helios-game/helios/internal/domain"
)

// DefaultMaxTurns bounds how many turns are retained per conversation.
const DefaultMaxTurns = 20

type conversationKey struct {
	playerID uuid.UUID
	npcID    string
}

// MemoryStore is an in-process HistoryStore used when Redis is not configured.
type MemoryStore struct {
	mu       sync.Mutex
	maxTurns int
	turns    map[conversationKey][]domain.Turn
}

func NewMemoryStore(maxTurns int) *MemoryStore {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &MemoryStore{
		maxTurns: maxTurns,
		turns:    make(map[conversationKey][]domain.Turn),
	}
}

func (s *MemoryStore) Append(ctx context.Context, playerID uuid.UUID, npcID string, turns ...domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := conversationKey{playerID: playerID, npcID: npcID}
	all := append(s.turns[key], turns...)
	if len(all) > s.maxTurns {
		all = append([]domain.Turn(nil), all[len(all)-s.maxTurns:]...)
	}
	s.turns[key] = all
	return nil
}

// Recent returns up to n turns, oldest first.
func (s *MemoryStore) Recent(ctx context.Context, playerID uuid.UUID, npcID string, n int) ([]domain.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.turns[conversationKey{playerID: playerID, npcID: npcID}]
	if n <= 0 || n > len(all) {
		n = len(all)
	}
	out := make([]domain.Turn, n)
	copy(out, all[len(all)-n:])
	return out, nil
}
