package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/helios-game/helios/internal/domain"
	"github.com/helios-game/helios/internal/store"
)

const playerColumns = `id, username, survival, idealism, status, version, created_at, updated_at`

type PlayerStore struct {
	db *sql.DB
}

func NewPlayerStore(db *sql.DB) *PlayerStore {
	return &PlayerStore{db: db}
}

func scanPlayer(row *sql.Row) (*domain.Player, error) {
	var (
		p         domain.Player
		id        string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&id, &p.Username, &p.Beliefs.Survival, &p.Beliefs.Idealism,
		&p.Status, &p.Version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	p.ID = parsed
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return &p, nil
}

func (s *PlayerStore) Create(ctx context.Context, p *domain.Player) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, username, survival, idealism, status, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		id.String(), p.Username, p.Beliefs.Survival, p.Beliefs.Idealism, string(p.Status),
		toMillis(now), toMillis(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return err
	}
	p.ID = id
	p.Version = 0
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (s *PlayerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	return getPlayer(ctx, s.db, id)
}

func getPlayer(ctx context.Context, q queryer, id uuid.UUID) (*domain.Player, error) {
	p, err := scanPlayer(q.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ?`, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PlayerStore) UpdateBeliefs(ctx context.Context, id uuid.UUID, beliefs domain.BeliefVector, expectedVersion int, event *domain.Event) (*domain.Player, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE players
		 SET survival = ?, idealism = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		beliefs.Survival, beliefs.Idealism, toMillis(time.Now()), id.String(), expectedVersion,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := getPlayer(ctx, tx, id); err != nil {
			return nil, err
		}
		return nil, store.ErrVersionConflict
	}

	if event != nil {
		event.PlayerID = id
		if err := insertEvent(ctx, tx, event); err != nil {
			return nil, err
		}
	}
	p, err := getPlayer(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlayerStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
