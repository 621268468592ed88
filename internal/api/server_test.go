package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/taskguru/taskguru/internal/sheets"
)

type fakeStore struct {
	tasks    []sheets.Task
	fetchErr error

	appended []sheets.Task
	done     []int
	updated  []updatedRow
}

type updatedRow struct {
	row              int
	description, due string
}

func (f *fakeStore) FetchTasks(_ context.Context) ([]sheets.Task, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.tasks, nil
}

func (f *fakeStore) AppendTask(_ context.Context, task sheets.Task) error {
	f.appended = append(f.appended, task)
	return nil
}

func (f *fakeStore) MarkNotified(_ context.Context, _ int) error { return nil }

func (f *fakeStore) MarkDone(_ context.Context, row int) error {
	f.done = append(f.done, row)
	return nil
}

func (f *fakeStore) UpdateDetails(_ context.Context, row int, description, due string) error {
	f.updated = append(f.updated, updatedRow{row: row, description: description, due: due})
	return nil
}

type fakeRunner struct {
	dispatched int
	err        error
}

func (f *fakeRunner) Run(_ context.Context) (int, error) {
	return f.dispatched, f.err
}

func TestCheckReminders(t *testing.T) {
	t.Parallel()

	t.Run("successful pass returns acknowledgment", func(t *testing.T) {
		t.Parallel()

		srv := NewServer(nil, &fakeStore{}, &fakeRunner{dispatched: 2})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/check-reminders", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if body := rec.Body.String(); !strings.Contains(body, "Reminders checked") || !strings.Contains(body, "2") {
			t.Errorf("body = %q, want acknowledgment with dispatch count", body)
		}
	})

	t.Run("pass-level failure returns 500", func(t *testing.T) {
		t.Parallel()

		srv := NewServer(nil, &fakeStore{}, &fakeRunner{err: fmt.Errorf("store unreachable")})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/check-reminders", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
		}
	})
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	store := &fakeStore{tasks: []sheets.Task{
		{Row: 0, ID: "42", OwnerChatID: "user1", Description: "Buy milk", Due: "2024-01-01T10:05", Status: "Pending", Notified: ""},
		{Row: 1, ID: "43", OwnerChatID: "user2", Description: "Call mom", Due: "", Status: "Done", Notified: "Yes"},
	}}
	srv := NewServer(nil, store, &fakeRunner{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp []taskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("got %d tasks, want 2", len(resp))
	}
	if resp[0].ID != "42" || resp[0].OwnerID != "user1" || resp[0].Status != "Pending" {
		t.Errorf("first task = %+v, want row 0 fields", resp[0])
	}
	if resp[1].Notified != "Yes" {
		t.Errorf("second task notified = %q, want %q", resp[1].Notified, "Yes")
	}
}

func TestAddTask(t *testing.T) {
	t.Parallel()

	t.Run("assigns id when absent", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		srv := NewServer(nil, store, &fakeRunner{})

		body := `{"ownerId":"1001","description":"Buy milk","due":"2024-01-01T10:05"}`
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/add-task", strings.NewReader(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if len(store.appended) != 1 {
			t.Fatalf("appended %d tasks, want 1", len(store.appended))
		}

		task := store.appended[0]
		if task.ID == "" {
			t.Error("appended task should have a generated id")
		}
		if task.Status != sheets.StatusPending {
			t.Errorf("appended task status = %q, want %q", task.Status, sheets.StatusPending)
		}

		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["id"] != task.ID {
			t.Errorf("response id = %q, want %q", resp["id"], task.ID)
		}
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		t.Parallel()

		srv := NewServer(nil, &fakeStore{}, &fakeRunner{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/add-task", strings.NewReader(`{"description":"x"}`)))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		t.Parallel()

		srv := NewServer(nil, &fakeStore{}, &fakeRunner{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/add-task", strings.NewReader(`{`)))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestCompleteTask(t *testing.T) {
	t.Parallel()

	t.Run("marks the matching row done", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{tasks: []sheets.Task{
			{Row: 0, ID: "41"},
			{Row: 1, ID: "42"},
		}}
		srv := NewServer(nil, store, &fakeRunner{})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/complete-task", strings.NewReader(`{"id":"42"}`)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if len(store.done) != 1 || store.done[0] != 1 {
			t.Errorf("done rows = %v, want [1]", store.done)
		}
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		t.Parallel()

		srv := NewServer(nil, &fakeStore{}, &fakeRunner{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/complete-task", strings.NewReader(`{"id":"missing"}`)))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	store := &fakeStore{tasks: []sheets.Task{{Row: 2, ID: "42", Notified: "Yes"}}}
	srv := NewServer(nil, store, &fakeRunner{})

	body := `{"id":"42","description":"Buy oat milk","due":"2024-01-02T09:00"}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/update-task", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if len(store.updated) != 1 {
		t.Fatalf("updated %d rows, want 1", len(store.updated))
	}

	got := store.updated[0]
	if got.row != 2 || got.description != "Buy oat milk" || got.due != "2024-01-02T09:00" {
		t.Errorf("update = %+v, want row 2 with new description and due", got)
	}
}
