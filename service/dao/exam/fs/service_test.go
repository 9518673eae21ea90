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
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0002.txt"), []byte("2\n0\n0\n0\n0\n0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0001.txt"), []byte("1 1 0 0 0 0"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.txt"), []byte("1 7"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	store, err := New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001", "0002", "broken"}, ids)

	record, err := store.Load(ctx, "0001")
	require.NoError(t, err)
	assert.Equal(t, &model.ExamRecord{ID: "0001", StudentID: 1, Questions: [5]bool{true}, Loaded: true}, record)

	_, err = store.Load(ctx, "broken")
	assert.ErrorIs(t, err, dao.ErrMalformed)
	_, err = store.Load(ctx, "0404")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	require.NoError(t, store.SaveQuestion(ctx, "0002", 3, true))
	data, err := os.ReadFile(filepath.Join(dir, "0002.txt"))
	require.NoError(t, err)
	assert.Equal(t, "2\n0\n0\n0\n1\n0\n", string(data))

	require.NoError(t, store.SaveQuestion(ctx, "0001", 4, true))
	data, err = os.ReadFile(filepath.Join(dir, "0001.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1\n1\n0\n0\n0\n1\n", string(data))

	assert.ErrorIs(t, store.SaveQuestion(ctx, "broken", 0, true), dao.ErrMalformed)
	assert.ErrorIs(t, store.SaveQuestion(ctx, "0404", 0, true), dao.ErrNotFound)
}

func TestService_EmptyDir(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "exams"))
	require.NoError(t, err)
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
