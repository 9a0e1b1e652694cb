package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/exercisetracker/internal/domain"
)

var _ domain.Repository = (*Repository)(nil)

func TestValuesAreOrderedByID(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Create(ctx, domain.Exercise{ID: id, Name: id}))
	}

	values, err := repo.Values(ctx)
	require.NoError(t, err)
	require.Len(t, values, 3)
	require.Equal(t, "a", values[0].ID)
	require.Equal(t, "b", values[1].ID)
	require.Equal(t, "c", values[2].ID)
}

func TestCreateRejectsExistingKey(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(domain.Exercise{ID: "dup", Name: "first"})

	err := repo.Create(ctx, domain.Exercise{ID: "dup", Name: "second"})
	require.ErrorIs(t, err, domain.ErrExerciseExists)

	got, err := repo.Get(ctx, "dup")
	require.NoError(t, err)
	require.Equal(t, "first", got.Name)
}

func TestPutOverwritesWithoutDuplicatingKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(domain.Exercise{ID: "x", Name: "old"})

	require.NoError(t, repo.Put(ctx, domain.Exercise{ID: "x", Name: "new"}))
	require.Equal(t, 1, repo.Len())

	got, err := repo.Get(ctx, "x")
	require.NoError(t, err)
	require.Equal(t, "new", got.Name)
}

func TestRemoveReturnsPreviousValue(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(domain.Exercise{ID: "x", Name: "Row", CaloriesBurned: 120})

	removed, err := repo.Remove(ctx, "x")
	require.NoError(t, err)
	require.NotNil(t, removed)
	require.Equal(t, 120.0, removed.CaloriesBurned)
	require.Equal(t, 0, repo.Len())

	again, err := repo.Remove(ctx, "x")
	require.NoError(t, err)
	require.Nil(t, again)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(domain.Exercise{ID: "x", Name: "Swim"})

	got, err := repo.Get(ctx, "x")
	require.NoError(t, err)
	got.Name = "mutated"

	values, err := repo.Values(ctx)
	require.NoError(t, err)
	values[0].Name = "mutated too"

	fresh, err := repo.Get(ctx, "x")
	require.NoError(t, err)
	require.Equal(t, "Swim", fresh.Name)
}

func TestGetMissing(t *testing.T) {
	got, err := NewRepository().Get(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}
