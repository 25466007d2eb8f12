// Package character loads static NPC definitions from per-character YAML files.
package character

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/helios-game/helios/internal/domain"
	"github.com/helios-game/helios/internal/store"
	"gopkg.in/yaml.v3"
)

const fileExt = ".yaml"

// FileSource reads <dir>/<id>.yaml on every lookup, so edits are picked up
// without a restart. The file stem is the NPC id.
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	if dir == "" {
		dir = "./characters"
	}
	return &FileSource{dir: dir}
}

func (s *FileSource) GetByID(ctx context.Context, id string) (*domain.NPC, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return nil, store.ErrNotFound
	}

	path := filepath.Join(s.dir, id+fileExt)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("read character file %s: %w", path, err)
	}

	var npc domain.NPC
	if err := yaml.Unmarshal(data, &npc); err != nil {
		return nil, fmt.Errorf("parse character file %s: %w", path, err)
	}
	npc.ID = id
	if npc.Name == "" {
		npc.Name = id
	}
	return &npc, nil
}

func (s *FileSource) List(ctx context.Context) ([]domain.NPC, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.NPC{}, nil
		}
		return nil, fmt.Errorf("read characters directory: %w", err)
	}

	npcs := make([]domain.NPC, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileExt {
			continue
		}
		npc, err := s.GetByID(ctx, strings.TrimSuffix(entry.Name(), fileExt))
		if err != nil {
			return nil, err
		}
		npcs = append(npcs, *npc)
	}
	sort.Slice(npcs, func(i, j int) bool { return npcs[i].Name < npcs[j].Name })
	return npcs, nil
}
