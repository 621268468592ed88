// Package api provides the HTTP interface: the on-demand reminder trigger
// and the thin task CRUD endpoints backed by the sheet store.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/taskguru/taskguru/internal/logger"
	"github.com/taskguru/taskguru/internal/sheets"
)

// PassRunner triggers a reminder pass and reports its dispatch count.
type PassRunner interface {
	Run(ctx context.Context) (int, error)
}

// Server routes HTTP requests to the sheet store and the reminder service.
type Server struct {
	logger *slog.Logger
	store  sheets.Store
	runner PassRunner
	router *chi.Mux
}

// NewServer builds the HTTP handler with all routes and middleware attached.
func NewServer(log *slog.Logger, store sheets.Store, runner PassRunner) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(logger.HTTPMiddleware(log))

	s := &Server{
		logger: log.With("component", "api"),
		store:  store,
		runner: runner,
		router: r,
	}

	r.Get("/health", s.health)
	r.Get("/api/check-reminders", s.checkReminders)
	r.Get("/api/tasks", s.listTasks)
	r.Post("/api/add-task", s.addTask)
	r.Post("/api/complete-task", s.completeTask)
	r.Post("/api/update-task", s.updateTask)

	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// checkReminders runs a reminder pass on demand. It shares the Run method
// (and its re-entrancy guard) with the cron trigger.
func (s *Server) checkReminders(w http.ResponseWriter, r *http.Request) {
	dispatched, err := s.runner.Run(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "On-demand reminder pass failed", "error", err)
		http.Error(w, "reminder check failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "Reminders checked, %d dispatched", dispatched)
}

type taskResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	Description string `json:"description"`
	Due         string `json:"due"`
	Status      string `json:"status"`
	Notified    string `json:"notified"`
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.FetchTasks(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list tasks", "error", err)
		http.Error(w, "failed to load tasks", http.StatusInternalServerError)
		return
	}

	resp := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, taskResponse{
			ID:          t.ID,
			OwnerID:     t.OwnerChatID,
			Description: t.Description,
			Due:         t.Due,
			Status:      t.Status,
			Notified:    t.Notified,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type addTaskRequest struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	Description string `json:"description"`
	Due         string `json:"due"`
}

func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	var req addTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.OwnerID == "" || req.Description == "" {
		http.Error(w, "ownerId and description are required", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	task := sheets.Task{
		ID:          req.ID,
		OwnerChatID: req.OwnerID,
		Description: req.Description,
		Due:         req.Due,
		Status:      sheets.StatusPending,
	}
	if err := s.store.AppendTask(r.Context(), task); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to add task", "task_id", req.ID, "error", err)
		http.Error(w, "failed to add task", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": req.ID})
}

type taskIDRequest struct {
	ID string `json:"id"`
}

func (s *Server) completeTask(w http.ResponseWriter, r *http.Request) {
	var req taskIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	task, ok, err := s.findTask(r.Context(), req.ID)
	if err != nil {
		http.Error(w, "failed to load tasks", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	if err := s.store.MarkDone(r.Context(), task.Row); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to complete task", "task_id", req.ID, "error", err)
		http.Error(w, "failed to complete task", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type updateTaskRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Due         string `json:"due"`
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	task, ok, err := s.findTask(r.Context(), req.ID)
	if err != nil {
		http.Error(w, "failed to load tasks", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	if err := s.store.UpdateDetails(r.Context(), task.Row, req.Description, req.Due); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to update task", "task_id", req.ID, "error", err)
		http.Error(w, "failed to update task", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// findTask resolves a task id to its current row address. The address is only
// valid against the snapshot just fetched, which is why lookup and write
// happen back to back.
func (s *Server) findTask(ctx context.Context, id string) (sheets.Task, bool, error) {
	tasks, err := s.store.FetchTasks(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch tasks for lookup", "task_id", id, "error", err)
		return sheets.Task{}, false, err
	}

	for _, t := range tasks {
		if t.ID == id {
			return t, true, nil
		}
	}
	return sheets.Task{}, false, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
