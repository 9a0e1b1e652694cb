// Package events defines the change events emitted by the exercise service.
package events

import "time"

// Event types, also sent as the event_type message header.
const (
	TypeExerciseCreated = "exercise.created"
	TypeExerciseUpdated = "exercise.updated"
	TypeExerciseDeleted = "exercise.deleted"
)

// ExerciseCreated is emitted after a new exercise is stored.
type ExerciseCreated struct {
	ExerciseID      string    `json:"exercise_id"`
	Name            string    `json:"name"`
	DurationMinutes float64   `json:"duration_minutes"`
	CaloriesBurned  float64   `json:"calories_burned"`
	Date            uint64    `json:"date"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// ExerciseUpdated carries the record as it is after the update.
type ExerciseUpdated struct {
	ExerciseID      string    `json:"exercise_id"`
	Name            string    `json:"name"`
	DurationMinutes float64   `json:"duration_minutes"`
	CaloriesBurned  float64   `json:"calories_burned"`
	Date            uint64    `json:"date"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// ExerciseDeleted is emitted when an exercise is removed.
type ExerciseDeleted struct {
	ExerciseID string    `json:"exercise_id"`
	DeletedAt  time.Time `json:"deleted_at"`
}
