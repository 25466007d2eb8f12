package domain

import (
	"time"

	"github.com/google/uuid"
)

type PlayerStatus string

const (
	PlayerStatusActive PlayerStatus = "active"
)

func (s PlayerStatus) IsValid() bool {
	return s == PlayerStatusActive
}

type Player struct {
	ID        uuid.UUID    `json:"id"`
	Username  string       `json:"username"`
	Beliefs   BeliefVector `json:"belief_system"`
	Status    PlayerStatus `json:"status"`
	Version   int          `json:"-"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
