package character

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/helios-game/helios/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFileSource_GetByID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "warden.yaml", "name: The Warden\ncore_prompt: |\n  You guard the last gate.\n")

	src := NewFileSource(dir)
	npc, err := src.GetByID(context.Background(), "warden")
	require.NoError(t, err)
	assert.Equal(t, "warden", npc.ID)
	assert.Equal(t, "The Warden", npc.Name)
	assert.Equal(t, "You guard the last gate.\n", npc.CorePrompt)
}

func TestFileSource_GetByID_IDFromFilename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "oracle.yaml", "id: something-else\nname: Oracle\ncore_prompt: Speak in riddles.\n")

	npc, err := NewFileSource(dir).GetByID(context.Background(), "oracle")
	require.NoError(t, err)
	assert.Equal(t, "oracle", npc.ID)
}

func TestFileSource_GetByID_NotFound(t *testing.T) {
	src := NewFileSource(t.TempDir())
	for _, id := range []string{"missing", "", "../etc/passwd", ".hidden"} {
		_, err := src.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, store.ErrNotFound, "id %q", id)
	}
}

func TestFileSource_GetByID_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "name: [unterminated\n")

	_, err := NewFileSource(dir).GetByID(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}

func TestFileSource_List(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "warden.yaml", "name: Warden\ncore_prompt: a\n")
	writeFile(t, dir, "alchemist.yaml", "name: Alchemist\ncore_prompt: b\n")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "drafts.yaml"), 0o755))

	list, err := NewFileSource(dir).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alchemist", list[0].Name)
	assert.Equal(t, "alchemist", list[0].ID)
	assert.Equal(t, "Warden", list[1].Name)
}

func TestFileSource_List_MissingDir(t *testing.T) {
	list, err := NewFileSource(filepath.Join(t.TempDir(), "nope")).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
