package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/helios-game/helios/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const playerColumns = `id, username, survival, idealism, status, version, created_at, updated_at`

type PlayerStore struct {
	db *pgxpool.Pool
}

func NewPlayerStore(db *pgxpool.Pool) *PlayerStore {
	return &PlayerStore{db: db}
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	p := &domain.Player{}
	err := row.Scan(&p.ID, &p.Username, &p.Beliefs.Survival, &p.Beliefs.Idealism,
		&p.Status, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlayerStore) Create(ctx context.Context, p *domain.Player) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO players (username, survival, idealism, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, version, created_at, updated_at`,
		p.Username, p.Beliefs.Survival, p.Beliefs.Idealism, p.Status,
	).Scan(&p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *PlayerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	p, err := scanPlayer(s.db.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PlayerStore) UpdateBeliefs(ctx context.Context, id uuid.UUID, beliefs domain.BeliefVector, expectedVersion int, event *domain.Event) (*domain.Player, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := scanPlayer(tx.QueryRow(ctx,
		`UPDATE players
		 SET survival = $2, idealism = $3, version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $4
		 RETURNING `+playerColumns,
		id, beliefs.Survival, beliefs.Idealism, expectedVersion))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		// No row matched: either the player is gone or someone else wrote first.
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM players WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrVersionConflict
	}

	if event != nil {
		event.PlayerID = id
		if err := insertEvent(ctx, tx, event); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Ping checks database connectivity.
func (s *PlayerStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
