package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/helios-game/helios/internal/domain"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Create(ctx context.Context, e *domain.Event) error {
	return insertEvent(ctx, s.db, e)
}

func insertEvent(ctx context.Context, q queryer, e *domain.Event) error {
	impact, err := json.Marshal(e.BeliefImpact)
	if err != nil {
		return fmt.Errorf("marshal belief impact: %w", err)
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	id := uuid.New()
	if _, err := q.ExecContext(ctx,
		`INSERT INTO events (id, player_id, description, belief_impact, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id.String(), e.PlayerID.String(), e.Description, string(impact), toMillis(now),
	); err != nil {
		return err
	}
	e.ID = id
	e.CreatedAt = now
	return nil
}

func (s *EventStore) ListRecentByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player_id, description, belief_impact, created_at
		 FROM events WHERE player_id = ?
		 ORDER BY created_at DESC, seq DESC
		 LIMIT ?`,
		playerID.String(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var (
			e         domain.Event
			id        string
			player    string
			impact    string
			createdAt int64
		)
		if err := rows.Scan(&id, &player, &e.Description, &impact, &createdAt); err != nil {
			return nil, err
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if e.PlayerID, err = uuid.Parse(player); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(impact), &e.BeliefImpact); err != nil {
			return nil, fmt.Errorf("unmarshal belief impact: %w", err)
		}
		e.CreatedAt = fromMillis(createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}
