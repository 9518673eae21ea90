package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/grader/model"
	"github.com/viant/grader/service/dao"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	_, err := New().Load(ctx)
	assert.ErrorIs(t, err, dao.ErrNotFound)

	store := New(model.RubricEntry{ExerciseID: 1, Symbol: 'A'})
	entries, err := store.Load(ctx)
	require.NoError(t, err)
	entries[0].Symbol = 'Z'
	again, _ := store.Load(ctx)
	assert.Equal(t, byte('A'), again[0].Symbol)

	require.NoError(t, store.Save(ctx, entries))
	assert.Equal(t, 1, store.Saves())
	again, _ = store.Load(ctx)
	assert.Equal(t, byte('Z'), again[0].Symbol)
}
