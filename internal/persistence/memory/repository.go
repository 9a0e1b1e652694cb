// Package memory provides an in-process ordered map of exercises for local
// development and tests. Contents are lost on restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"example.com/exercisetracker/internal/domain"
)

// Repository keeps exercises in a map with a sorted key index.
type Repository struct {
	mu        sync.RWMutex
	exercises map[string]domain.Exercise
	keys      []string
}

// NewRepository returns an empty repository, optionally seeded.
func NewRepository(seed ...domain.Exercise) *Repository {
	r := &Repository{exercises: make(map[string]domain.Exercise, len(seed))}
	for _, ex := range seed {
		r.put(ex)
	}
	return r
}

// Values returns copies of all exercises in ascending id order.
func (r *Repository) Values(ctx context.Context) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Exercise, 0, len(r.keys))
	for _, key := range r.keys {
		out = append(out, r.exercises[key])
	}
	return out, nil
}

// Get returns the exercise for id, or nil when absent.
func (r *Repository) Get(ctx context.Context, id string) (*domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exercise, ok := r.exercises[id]
	if !ok {
		return nil, nil
	}
	return &exercise, nil
}

// Create inserts exercise unless its id is already present.
func (r *Repository) Create(ctx context.Context, exercise domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.exercises[exercise.ID]; ok {
		return domain.ErrExerciseExists
	}
	r.put(exercise)
	return nil
}

// Put inserts or overwrites exercise.
func (r *Repository) Put(ctx context.Context, exercise domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(exercise)
	return nil
}

// Remove deletes id and returns the removed exercise, or nil when absent.
func (r *Repository) Remove(ctx context.Context, id string) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exercise, ok := r.exercises[id]
	if !ok {
		return nil, nil
	}
	delete(r.exercises, id)
	if idx, found := slices.BinarySearch(r.keys, id); found {
		r.keys = slices.Delete(r.keys, idx, idx+1)
	}
	return &exercise, nil
}

// Len reports the number of stored exercises.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}

// put must be called with mu held.
func (r *Repository) put(exercise domain.Exercise) {
	if _, ok := r.exercises[exercise.ID]; !ok {
		idx, _ := slices.BinarySearch(r.keys, exercise.ID)
		r.keys = slices.Insert(r.keys, idx, exercise.ID)
	}
	r.exercises[exercise.ID] = exercise
}
