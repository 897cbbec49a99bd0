package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ensemble/pkg/adapters/file"
	"github.com/aretw0/ensemble/pkg/domain"
	"github.com/aretw0/ensemble/pkg/ports"
)

func TestStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, file.New(t.TempDir()))
}

func TestStore_DefaultBasePath(t *testing.T) {
	s := file.New("")
	assert.Equal(t, filepath.Join(".ensemble", "sessions"), s.BasePath)
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	def := &domain.WorkflowDefinition{
		Name:     "wf",
		MaxTurns: 3,
		States:   []domain.StateSpec{{Name: "a", Agent: "dev", Start: true}},
	}
	require.NoError(t, store.Save(context.Background(), domain.NewSession("s1", def, "")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "s1.json", entries[0].Name())
}

func TestStore_ListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	def := &domain.WorkflowDefinition{
		Name:     "wf",
		MaxTurns: 3,
		States:   []domain.StateSpec{{Name: "a", Agent: "dev", Start: true}},
	}
	require.NoError(t, store.Save(context.Background(), domain.NewSession("s1", def, "")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
}
