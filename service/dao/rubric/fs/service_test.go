package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/grader/model"
	"github.com/viant/grader/service/dao"
)

func TestService(t *testing.T) {
	location := filepath.Join(t.TempDir(), "rubric.txt")
	store, err := New(location)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, dao.ErrNotFound)

	require.NoError(t, os.WriteFile(location, []byte("1,A\n2,B\n"), 0o644))
	entries, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.RubricEntry{{ExerciseID: 1, Symbol: 'A'}, {ExerciseID: 2, Symbol: 'B'}}, entries)

	entries[1].Symbol = 'C'
	require.NoError(t, store.Save(ctx, entries))
	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "1,A\n2,C\n", string(data))
}

func TestService_BlankLinesSurviveSave(t *testing.T) {
	location := filepath.Join(t.TempDir(), "rubric.txt")
	require.NoError(t, os.WriteFile(location, []byte("1,A\n2,B\n\n3,C\n"), 0o644))
	store, err := New(location)
	require.NoError(t, err)
	ctx := context.Background()

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.NoError(t, store.Save(ctx, entries))

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "1,A\n2,B\n3,C\n", string(data))
}
