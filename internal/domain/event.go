package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultEventWindow is how many recent events feed a reflection prompt.
const DefaultEventWindow = 10

// Event is an append-only record of something a player did.
// BeliefImpact is stored as supplied; it is not clamped.
type Event struct {
	ID           uuid.UUID   `json:"id"`
	PlayerID     uuid.UUID   `json:"player_id"`
	Description  string      `json:"description"`
	BeliefImpact BeliefDelta `json:"belief_impact"`
	CreatedAt    time.Time   `json:"created_at"`
}
