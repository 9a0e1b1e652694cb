package domain

import (
	"context"
	"errors"
	"fmt"
)

// Exercise is a single logged workout entry.
type Exercise struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes float64 `json:"durationMinutes"`
	CaloriesBurned  float64 `json:"caloriesBurned"`
	// Date is the creation time in Unix nanoseconds.
	Date uint64 `json:"date"`
}

// ExercisePayload is the caller-supplied part of an Exercise.
type ExercisePayload struct {
	Name            string  `json:"name"`
	DurationMinutes float64 `json:"durationMinutes"`
	CaloriesBurned  float64 `json:"caloriesBurned"`
}

// Repository is an ordered key-value map of exercises keyed by ID.
// Get and Remove return a nil record with a nil error when the key is absent.
type Repository interface {
	Values(ctx context.Context) ([]Exercise, error)
	Get(ctx context.Context, id string) (*Exercise, error)
	// Create inserts a new record and fails with ErrExerciseExists if the key is taken.
	Create(ctx context.Context, exercise Exercise) error
	// Put stores the record, replacing any existing entry under the same key.
	Put(ctx context.Context, exercise Exercise) error
	Remove(ctx context.Context, id string) (*Exercise, error)
}

var (
	// ErrExerciseNotFound indicates the referenced exercise does not exist.
	ErrExerciseNotFound = errors.New("exercise not found")
	// ErrExerciseExists indicates an insert hit an existing key.
	ErrExerciseExists = errors.New("exercise already exists")
)

// NotFoundError names the operation and the missing id.
type NotFoundError struct {
	Op string
	ID string
}

func (e *NotFoundError) Error() string {
	switch e.Op {
	case OpUpdate:
		return fmt.Sprintf("Couldn't update an exercise with id=%s. Exercise not found", e.ID)
	case OpDelete:
		return fmt.Sprintf("Couldn't delete an exercise with id=%s. Exercise not found.", e.ID)
	default:
		return fmt.Sprintf("An exercise with id=%s not found", e.ID)
	}
}

// Unwrap lets errors.Is match ErrExerciseNotFound.
func (e *NotFoundError) Unwrap() error { return ErrExerciseNotFound }

// AlreadyExistsError reports an id collision on insert.
type AlreadyExistsError struct {
	ID string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("An exercise with id=%s already exists", e.ID)
}

// Unwrap lets errors.Is match ErrExerciseExists.
func (e *AlreadyExistsError) Unwrap() error { return ErrExerciseExists }

// Operation names, used in errors and metrics labels.
const (
	OpList   = "list"
	OpGet    = "get"
	OpAdd    = "add"
	OpUpdate = "update"
	OpDelete = "delete"
	OpTotal  = "total_calories"
)
