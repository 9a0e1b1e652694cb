//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/exercisetracker/internal/domain"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("exercises"),
		postgrescontainer.WithUsername("platform"),
		postgrescontainer.WithPassword("platform"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewRepository(pool)
	require.NoError(t, repo.Migrate(ctx))
	// second run must be a no-op
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func TestRepositoryOrderedMapSemantics(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	date := uint64(time.Now().UnixNano())
	for _, id := range []string{"b", "c", "a"} {
		require.NoError(t, repo.Create(ctx, domain.Exercise{ID: id, Name: "Run " + id, DurationMinutes: 30, CaloriesBurned: 100, Date: date}))
	}

	err := repo.Create(ctx, domain.Exercise{ID: "a", Name: "dup", Date: date})
	require.ErrorIs(t, err, domain.ErrExerciseExists)

	values, err := repo.Values(ctx)
	require.NoError(t, err)
	require.Len(t, values, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{values[0].ID, values[1].ID, values[2].ID})
	require.Equal(t, date, values[0].Date)
	require.Equal(t, "Run a", values[0].Name)

	require.NoError(t, repo.Put(ctx, domain.Exercise{ID: "b", Name: "Bike", DurationMinutes: 45.5, CaloriesBurned: 450, Date: date}))
	got, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Bike", got.Name)
	require.Equal(t, 45.5, got.DurationMinutes)

	removed, err := repo.Remove(ctx, "b")
	require.NoError(t, err)
	require.NotNil(t, removed)
	require.Equal(t, 450.0, removed.CaloriesBurned)

	missing, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	require.Nil(t, missing)

	again, err := repo.Remove(ctx, "b")
	require.NoError(t, err)
	require.Nil(t, again)
}

func TestServiceScenarioAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	service := domain.NewService(newTestRepository(t))

	created, err := service.AddExercise(ctx, domain.ExercisePayload{Name: "Run", DurationMinutes: 30, CaloriesBurned: 300})
	require.NoError(t, err)

	updated, err := service.UpdateExercise(ctx, created.ID, domain.ExercisePayload{Name: "Run", DurationMinutes: 45, CaloriesBurned: 450})
	require.NoError(t, err)
	require.Equal(t, created.Date, updated.Date)

	total, err := service.TotalCaloriesBurned(ctx)
	require.NoError(t, err)
	require.Equal(t, 450.0, total)

	deleted, err := service.DeleteExercise(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, updated, deleted)

	_, err = service.GetExercise(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrExerciseNotFound)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
