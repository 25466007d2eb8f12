package domain

import (
	"context"

	"github.com/google/uuid"
)

type PlayerStore interface {
	Create(ctx context.Context, p *Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*Player, error)
	// UpdateBeliefs writes beliefs only if the stored version still equals
	// expectedVersion, and bumps the version on success. A non-nil event is
	// recorded in the same transaction: either both land or neither does.
	UpdateBeliefs(ctx context.Context, id uuid.UUID, beliefs BeliefVector, expectedVersion int, event *Event) (*Player, error)
}

type EventStore interface {
	Create(ctx context.Context, e *Event) error
	ListRecentByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]Event, error)
}

type NPCStore interface {
	GetByID(ctx context.Context, id string) (*NPC, error)
	List(ctx context.Context) ([]NPC, error)
}

type HistoryStore interface {
	Append(ctx context.Context, playerID uuid.UUID, npcID string, turns ...Turn) error
	Recent(ctx context.Context, playerID uuid.UUID, npcID string, n int) ([]Turn, error)
}

type LLMClient interface {
	GenerateDialogue(ctx context.Context, req DialogueRequest) (string, error)
	ScoreSentiment(ctx context.Context, message string) (BeliefDelta, error)
	GenerateReflection(ctx context.Context, req ReflectionRequest) (*Reflection, error)
}
