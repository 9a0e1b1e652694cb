// Package postgres stores exercises in PostgreSQL so they survive restarts.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/exercisetracker/internal/domain"
)

//go:embed migrations/*.up.sql
var migrations embed.FS

const selectColumns = `exercise_id, name, duration_minutes, calories_burned, date_ns`

// Repository is a pgx-backed domain.Repository. Rows are enumerated in
// primary-key order.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Migrate applies the embedded up migrations in file-name order. Every
// migration is idempotent, so running it on each start is safe.
func (r *Repository) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		contents, err := migrations.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := r.pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

// Values returns every exercise ordered by id.
func (r *Repository) Values(ctx context.Context) ([]domain.Exercise, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM exercises ORDER BY exercise_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Exercise, 0)
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Get returns the exercise for id, or nil when absent.
func (r *Repository) Get(ctx context.Context, id string) (*domain.Exercise, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM exercises WHERE exercise_id=$1`, id)
	exercise, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &exercise, nil
}

// Create inserts exercise, returning domain.ErrExerciseExists on a key conflict.
func (r *Repository) Create(ctx context.Context, exercise domain.Exercise) error {
	const stmt = `INSERT INTO exercises (exercise_id, name, duration_minutes, calories_burned, date_ns)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (exercise_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, stmt,
		exercise.ID,
		exercise.Name,
		exercise.DurationMinutes,
		exercise.CaloriesBurned,
		int64(exercise.Date),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExerciseExists
	}
	return nil
}

// Put upserts exercise.
func (r *Repository) Put(ctx context.Context, exercise domain.Exercise) error {
	const stmt = `INSERT INTO exercises (exercise_id, name, duration_minutes, calories_burned, date_ns)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (exercise_id) DO UPDATE SET
            name = EXCLUDED.name,
            duration_minutes = EXCLUDED.duration_minutes,
            calories_burned = EXCLUDED.calories_burned,
            date_ns = EXCLUDED.date_ns,
            updated_at = now()`

	_, err := r.pool.Exec(ctx, stmt,
		exercise.ID,
		exercise.Name,
		exercise.DurationMinutes,
		exercise.CaloriesBurned,
		int64(exercise.Date),
	)
	return err
}

// Remove deletes id and returns the row as it was, or nil when absent.
func (r *Repository) Remove(ctx context.Context, id string) (*domain.Exercise, error) {
	row := r.pool.QueryRow(ctx, `DELETE FROM exercises WHERE exercise_id=$1 RETURNING `+selectColumns, id)
	exercise, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &exercise, nil
}

func scanExercise(row pgx.Row) (domain.Exercise, error) {
	var (
		exercise domain.Exercise
		dateNS   int64
	)
	if err := row.Scan(&exercise.ID, &exercise.Name, &exercise.DurationMinutes, &exercise.CaloriesBurned, &dateNS); err != nil {
		return domain.Exercise{}, err
	}
	exercise.Date = uint64(dateNS)
	return exercise, nil
}
