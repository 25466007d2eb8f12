package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/helios-game/helios/internal/domain"
	"github.com/helios-game/helios/internal/store"
)

type NPCStore struct {
	db *sql.DB
}

func NewNPCStore(db *sql.DB) *NPCStore {
	return &NPCStore{db: db}
}

func (s *NPCStore) GetByID(ctx context.Context, id string) (*domain.NPC, error) {
	n := &domain.NPC{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, core_prompt FROM npcs WHERE id = ?`, id,
	).Scan(&n.ID, &n.Name, &n.CorePrompt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (s *NPCStore) List(ctx context.Context) ([]domain.NPC, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, core_prompt FROM npcs ORDER BY name`)
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

func (s *NPCStore) Upsert(ctx context.Context, n *domain.NPC) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO npcs (id, name, core_prompt) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET name = excluded.name, core_prompt = excluded.core_prompt`,
		n.ID, n.Name, n.CorePrompt,
	)
	return err
}
