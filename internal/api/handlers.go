// Package api exposes HTTP handlers for the exercise service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"example.com/exercisetracker/internal/auth"
	"example.com/exercisetracker/internal/domain"
)

const (
	exercisesPath     = "/v1/exercises"
	totalCaloriesPath = "/v1/exercises/total-calories"
	maxBodyBytes      = 1 << 20
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc(exercisesPath, h.exercises)
	mux.HandleFunc(exercisesPath+"/", h.exerciseByID)
	mux.HandleFunc(totalCaloriesPath, h.totalCalories)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) exercises(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listExercises(w, r)
	case http.MethodPost:
		h.addExercise(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) exerciseByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, exercisesPath+"/")
	if strings.TrimSpace(id) == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing exercise id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getExercise(w, r, id)
	case http.MethodPut:
		h.updateExercise(w, r, id)
	case http.MethodDelete:
		h.deleteExercise(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) listExercises(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.ScopeExercisesRead, auth.ScopeExercisesWrite) {
		return
	}

	exercises, err := h.service.ListExercises(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListExercisesResponse{Items: exercises})
}

func (h *Handler) getExercise(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, auth.ScopeExercisesRead, auth.ScopeExercisesWrite) {
		return
	}

	exercise, err := h.service.GetExercise(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

func (h *Handler) addExercise(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.ScopeExercisesWrite) {
		return
	}

	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	exercise, err := h.service.AddExercise(r.Context(), payload)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Location", exercisesPath+"/"+exercise.ID)
	writeJSON(w, http.StatusCreated, ExerciseResponse{Exercise: exercise})
}

func (h *Handler) updateExercise(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, auth.ScopeExercisesWrite) {
		return
	}

	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	exercise, err := h.service.UpdateExercise(r.Context(), id, payload)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ExerciseResponse{Exercise: exercise})
}

func (h *Handler) deleteExercise(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, auth.ScopeExercisesWrite) {
		return
	}

	exercise, err := h.service.DeleteExercise(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ExerciseResponse{Exercise: exercise})
}

func (h *Handler) totalCalories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !authorize(w, r, auth.ScopeExercisesRead, auth.ScopeExercisesWrite) {
		return
	}

	total, err := h.service.TotalCaloriesBurned(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TotalCaloriesResponse{TotalCaloriesBurned: total})
}

// ExerciseRequest is the body for POST /v1/exercises and PUT /v1/exercises/{id}.
type ExerciseRequest struct {
	Name            string   `json:"name"`
	DurationMinutes *float64 `json:"durationMinutes"`
	CaloriesBurned  *float64 `json:"caloriesBurned"`
}

// Validate ensures request correctness.
func (r ExerciseRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.DurationMinutes == nil {
		return errors.New("durationMinutes is required")
	}
	if *r.DurationMinutes < 0 {
		return errors.New("durationMinutes must be >= 0")
	}
	if r.CaloriesBurned == nil {
		return errors.New("caloriesBurned is required")
	}
	if *r.CaloriesBurned < 0 {
		return errors.New("caloriesBurned must be >= 0")
	}
	return nil
}

func (r ExerciseRequest) toPayload() domain.ExercisePayload {
	return domain.ExercisePayload{
		Name:            r.Name,
		DurationMinutes: *r.DurationMinutes,
		CaloriesBurned:  *r.CaloriesBurned,
	}
}

// ExerciseResponse wraps a single exercise.
type ExerciseResponse struct {
	Exercise domain.Exercise `json:"exercise"`
}

// ListExercisesResponse packages list results.
type ListExercisesResponse struct {
	Items []domain.Exercise `json:"items"`
}

// TotalCaloriesResponse carries the aggregate over all exercises.
type TotalCaloriesResponse struct {
	TotalCaloriesBurned float64 `json:"total_calories_burned"`
}

func decodePayload(w http.ResponseWriter, r *http.Request) (domain.ExercisePayload, bool) {
	var req ExerciseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return domain.ExercisePayload{}, false
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return domain.ExercisePayload{}, false
	}
	return req.toPayload(), true
}

// authorize writes 401/403 and returns false unless the caller holds one of scopes.
func authorize(w http.ResponseWriter, r *http.Request, scopes ...string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	if !claims.HasAnyScope(scopes...) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scopes[0]+" required")
		return false
	}
	return true
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrExerciseNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrExerciseExists):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{"type": code, "detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
