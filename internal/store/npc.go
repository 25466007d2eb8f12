package store

import (
	"context"
	"errors"

	"github.com/helios-game/helios/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NPCStore struct {
	db *pgxpool.Pool
}

func NewNPCStore(db *pgxpool.Pool) *NPCStore {
	return &NPCStore{db: db}
}

func (s *NPCStore) GetByID(ctx context.Context, id string) (*domain.NPC, error) {
	n := &domain.NPC{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, core_prompt FROM npcs WHERE id = $1`, id,
	).Scan(&n.ID, &n.Name, &n.CorePrompt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (s *NPCStore) List(ctx context.Context) ([]domain.NPC, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, core_prompt FROM npcs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var npcs []domain.NPC
	for rows.Next() {
		var n domain.NPC
		if err := rows.Scan(&n.ID, &n.Name, &n.CorePrompt); err != nil {
			return nil, err
		}
		npcs = append(npcs, n)
	}
	return npcs, rows.Err()
}

// Upsert inserts or replaces an NPC definition. Used by the seed script.
func (s *NPCStore) Upsert(ctx context.Context, n *domain.NPC) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO npcs (id, name, core_prompt) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, core_prompt = EXCLUDED.core_prompt, updated_at = now()`,
		n.ID, n.Name, n.CorePrompt,
	)
	return err
}
