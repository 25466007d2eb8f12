package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/helios-game/helios/internal/domain"
	"github.com/helios-game/helios/internal/store"
)

const maxEventsLimit = 100

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerConflict = errors.New("player with this username already exists")
)

type PlayerService struct {
	players domain.PlayerStore
	events  domain.EventStore
}

func NewPlayerService(players domain.PlayerStore, events domain.EventStore) *PlayerService {
	return &PlayerService{players: players, events: events}
}

// Create registers a new player with the initial belief vector.
func (s *PlayerService) Create(ctx context.Context, username string) (*domain.Player, error) {
	p := &domain.Player{
		Username: username,
		Beliefs:  domain.InitialBeliefs(),
		Status:   domain.PlayerStatusActive,
	}
	if err := s.players.Create(ctx, p); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrPlayerConflict
		}
		return nil, err
	}
	return p, nil
}

func (s *PlayerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	return getPlayer(ctx, s.players, id)
}

// ListEvents returns the player's most recent events, newest first.
// A non-positive limit falls back to the reflection window.
func (s *PlayerService) ListEvents(ctx context.Context, playerID uuid.UUID, limit int) ([]domain.Event, error) {
	if _, err := getPlayer(ctx, s.players, playerID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = domain.DefaultEventWindow
	}
	if limit > maxEventsLimit {
		limit = maxEventsLimit
	}
	return s.events.ListRecentByPlayer(ctx, playerID, limit)
}

func getPlayer(ctx context.Context, players domain.PlayerStore, id uuid.UUID) (*domain.Player, error) {
	p, err := players.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}
