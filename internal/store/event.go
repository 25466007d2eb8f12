package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/helios-game/helios/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// queryRower is satisfied by both the pool and a transaction.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type EventStore struct {
	db *pgxpool.Pool
}

func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Create(ctx context.Context, e *domain.Event) error {
	return insertEvent(ctx, s.db, e)
}

func insertEvent(ctx context.Context, q queryRower, e *domain.Event) error {
	return q.QueryRow(ctx,
		`INSERT INTO events (player_id, description, belief_impact)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		e.PlayerID, e.Description, e.BeliefImpact,
	).Scan(&e.ID, &e.CreatedAt)
}

func (s *EventStore) ListRecentByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]domain.Event, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, player_id, description, belief_impact, created_at
		 FROM events WHERE player_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.PlayerID, &e.Description, &e.BeliefImpact, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
