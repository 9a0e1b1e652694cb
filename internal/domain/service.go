// Package domain defines the exercise records and the operations over them.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/exercisetracker/internal/cache"
	"example.com/exercisetracker/internal/observability"
	"example.com/exercisetracker/internal/publish"
	"example.com/exercisetracker/pkg/events"
)

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the change-event publisher.
func WithPublisher(p publish.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithInvalidator sets the cache invalidator notified on update and delete.
func WithInvalidator(inv cache.Invalidator) Option {
	return func(s *Service) { s.cache = inv }
}

// WithClock overrides the time source used to stamp new exercises.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the identifier source for new exercises.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// Service implements the exercise store operations on top of a Repository.
type Service struct {
	repo      Repository
	publisher publish.Publisher
	cache     cache.Invalidator
	now       func() time.Time
	newID     func() string

	// mu serializes writes so read-modify-write sequences stay atomic.
	mu sync.Mutex
}

// NewService constructs a Service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: publish.NoopPublisher{},
		cache:     cache.NoopInvalidator{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListExercises returns every stored exercise in repository order.
func (s *Service) ListExercises(ctx context.Context) ([]Exercise, error) {
	exercises, err := s.repo.Values(ctx)
	if err != nil {
		observability.RecordOperation(OpList, outcome(err))
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	if exercises == nil {
		exercises = []Exercise{}
	}
	observability.RecordOperation(OpList, "ok")
	observability.RecordRead(s.now())
	return exercises, nil
}

// GetExercise returns the exercise stored under id.
func (s *Service) GetExercise(ctx context.Context, id string) (Exercise, error) {
	exercise, err := s.lookup(ctx, OpGet, id)
	observability.RecordOperation(OpGet, outcome(err))
	if err != nil {
		return Exercise{}, err
	}
	observability.RecordRead(s.now())
	return exercise, nil
}

// AddExercise stores a new exercise with a fresh id and the current time.
func (s *Service) AddExercise(ctx context.Context, payload ExercisePayload) (Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	exercise := Exercise{
		ID:              s.newID(),
		Name:            payload.Name,
		DurationMinutes: payload.DurationMinutes,
		CaloriesBurned:  payload.CaloriesBurned,
		Date:            uint64(now.UnixNano()),
	}

	if err := s.repo.Create(ctx, exercise); err != nil {
		if errors.Is(err, ErrExerciseExists) {
			err = &AlreadyExistsError{ID: exercise.ID}
		} else {
			err = fmt.Errorf("add exercise: %w", err)
		}
		observability.RecordOperation(OpAdd, outcome(err))
		return Exercise{}, err
	}

	observability.RecordOperation(OpAdd, "ok")
	observability.RecordWrite(now)
	s.publish(ctx, events.TypeExerciseCreated, exercise.ID, events.ExerciseCreated{
		ExerciseID:      exercise.ID,
		Name:            exercise.Name,
		DurationMinutes: exercise.DurationMinutes,
		CaloriesBurned:  exercise.CaloriesBurned,
		Date:            exercise.Date,
		OccurredAt:      now.UTC(),
	})
	return exercise, nil
}

// UpdateExercise replaces the payload fields of an existing exercise.
// ID and Date are carried over from the stored record.
func (s *Service) UpdateExercise(ctx context.Context, id string, payload ExercisePayload) (Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.lookup(ctx, OpUpdate, id)
	if err != nil {
		observability.RecordOperation(OpUpdate, outcome(err))
		return Exercise{}, err
	}

	updated := Exercise{
		ID:              existing.ID,
		Name:            payload.Name,
		DurationMinutes: payload.DurationMinutes,
		CaloriesBurned:  payload.CaloriesBurned,
		Date:            existing.Date,
	}
	if err := s.repo.Put(ctx, updated); err != nil {
		err = fmt.Errorf("update exercise %s: %w", id, err)
		observability.RecordOperation(OpUpdate, outcome(err))
		return Exercise{}, err
	}

	now := s.now()
	observability.RecordOperation(OpUpdate, "ok")
	observability.RecordWrite(now)
	s.invalidate(ctx, id)
	s.publish(ctx, events.TypeExerciseUpdated, id, events.ExerciseUpdated{
		ExerciseID:      updated.ID,
		Name:            updated.Name,
		DurationMinutes: updated.DurationMinutes,
		CaloriesBurned:  updated.CaloriesBurned,
		Date:            updated.Date,
		OccurredAt:      now.UTC(),
	})
	return updated, nil
}

// DeleteExercise removes the exercise and returns it as it was before removal.
func (s *Service) DeleteExercise(ctx context.Context, id string) (Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.repo.Remove(ctx, id)
	if err != nil {
		err = fmt.Errorf("delete exercise %s: %w", id, err)
		observability.RecordOperation(OpDelete, outcome(err))
		return Exercise{}, err
	}
	if removed == nil {
		err = &NotFoundError{Op: OpDelete, ID: id}
		observability.RecordOperation(OpDelete, outcome(err))
		return Exercise{}, err
	}

	now := s.now()
	observability.RecordOperation(OpDelete, "ok")
	observability.RecordWrite(now)
	s.invalidate(ctx, id)
	s.publish(ctx, events.TypeExerciseDeleted, id, events.ExerciseDeleted{
		ExerciseID: id,
		DeletedAt:  now.UTC(),
	})
	return *removed, nil
}

// TotalCaloriesBurned sums CaloriesBurned over all stored exercises.
func (s *Service) TotalCaloriesBurned(ctx context.Context) (float64, error) {
	exercises, err := s.repo.Values(ctx)
	if err != nil {
		err = fmt.Errorf("total calories: %w", err)
		observability.RecordOperation(OpTotal, outcome(err))
		return 0, err
	}

	var total float64
	for _, ex := range exercises {
		total += ex.CaloriesBurned
	}
	observability.RecordOperation(OpTotal, "ok")
	observability.RecordTotalCalories(total)
	return total, nil
}

func (s *Service) lookup(ctx context.Context, op, id string) (Exercise, error) {
	exercise, err := s.repo.Get(ctx, id)
	if err != nil {
		return Exercise{}, fmt.Errorf("%s exercise %s: %w", op, id, err)
	}
	if exercise == nil {
		return Exercise{}, &NotFoundError{Op: op, ID: id}
	}
	return *exercise, nil
}

// publish and invalidate run after the write is committed; failures are logged
// and never undo or fail the operation.
func (s *Service) publish(ctx context.Context, eventType, key string, payload any) {
	if err := s.publisher.Publish(ctx, eventType, key, payload); err != nil {
		log.Printf("publish %s (exercise=%s) failed: %v", eventType, key, err)
	}
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Printf("cache invalidation (exercise=%s) failed: %v", id, err)
		observability.RecordInvalidationFailure()
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrExerciseNotFound):
		return "not_found"
	case errors.Is(err, ErrExerciseExists):
		return "conflict"
	default:
		return "error"
	}
}
