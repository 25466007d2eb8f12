package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/helios-game/helios/internal/domain"
	"github.com/helios-game/helios/internal/store"
)

// mockPlayerStore implements domain.PlayerStore for testing.
// conflicts simulates that many concurrent writers landing just before
// UpdateBeliefs, each shifting the stored vector by concurrentDelta.
// Events passed to UpdateBeliefs go to events; a failed event write leaves
// the stored player untouched.
type mockPlayerStore struct {
	mu              sync.Mutex
	players         map[uuid.UUID]*domain.Player
	events          *mockEventStore
	conflicts       int
	concurrentDelta domain.BeliefDelta
	getCalls        int
	updateCalls     int
}

func newMockPlayerStore(events *mockEventStore) *mockPlayerStore {
	return &mockPlayerStore{players: make(map[uuid.UUID]*domain.Player), events: events}
}

func (m *mockPlayerStore) Create(ctx context.Context, p *domain.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.players {
		if existing.Username == p.Username {
			return store.ErrConflict
		}
	}
	p.ID = uuid.New()
	p.Version = 0
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	stored := *p
	m.players[p.ID] = &stored
	return nil
}

func (m *mockPlayerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	p, ok := m.players[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPlayerStore) UpdateBeliefs(ctx context.Context, id uuid.UUID, beliefs domain.BeliefVector, expectedVersion int, event *domain.Event) (*domain.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	p, ok := m.players[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if m.conflicts > 0 {
		m.conflicts--
		p.Beliefs = domain.ApplySentimentDelta(p.Beliefs, m.concurrentDelta)
		p.Version++
	}
	if p.Version != expectedVersion {
		return nil, store.ErrVersionConflict
	}
	if event != nil {
		event.PlayerID = id
		if err := m.events.Create(ctx, event); err != nil {
			return nil, err
		}
	}
	p.Beliefs = beliefs
	p.Version++
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

// mockEventStore implements domain.EventStore for testing.
type mockEventStore struct {
	mu        sync.Mutex
	events    []domain.Event
	createErr error
}

func newMockEventStore() *mockEventStore {
	return &mockEventStore{}
}

func (m *mockEventStore) Create(ctx context.Context, e *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	m.events = append(m.events, *e)
	return nil
}

func (m *mockEventStore) ListRecentByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Event
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		if m.events[i].PlayerID == playerID {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}

func (m *mockEventStore) forPlayer(playerID uuid.UUID) []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Event
	for _, e := range m.events {
		if e.PlayerID == playerID {
			out = append(out, e)
		}
	}
	return out
}

// mockNPCStore implements domain.NPCStore for testing.
type mockNPCStore struct {
	npcs map[string]domain.NPC
}

func newMockNPCStore(npcs ...domain.NPC) *mockNPCStore {
	m := &mockNPCStore{npcs: make(map[string]domain.NPC)}
	for _, n := range npcs {
		m.npcs[n.ID] = n
	}
	return m
}

func (m *mockNPCStore) GetByID(ctx context.Context, id string) (*domain.NPC, error) {
	n, ok := m.npcs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &n, nil
}

func (m *mockNPCStore) List(ctx context.Context) ([]domain.NPC, error) {
	out := make([]domain.NPC, 0, len(m.npcs))
	for _, n := range m.npcs {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// failingHistoryStore fails every call.
type failingHistoryStore struct{}

var errHistoryDown = errors.New("history backend down")

func (failingHistoryStore) Append(ctx context.Context, playerID uuid.UUID, npcID string, turns ...domain.Turn) error {
	return errHistoryDown
}

func (failingHistoryStore) Recent(ctx context.Context, playerID uuid.UUID, npcID string, n int) ([]domain.Turn, error) {
	return nil, errHistoryDown
}
