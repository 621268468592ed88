package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { CloseDB(db) })

	return NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAppendMessageValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		message *ChatMessage
	}{
		{name: "nil message", message: nil},
		{name: "zero chat id", message: &ChatMessage{Role: RoleUser, Content: "hi"}},
		{name: "unknown role", message: &ChatMessage{ChatID: 1, Role: "system", Content: "hi"}},
		{name: "empty content", message: &ChatMessage{ChatID: 1, Role: RoleUser}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.AppendMessage(ctx, tt.message); err == nil {
				t.Error("AppendMessage should have rejected the message")
			}
		})
	}
}

func TestAppendAndGetRecentMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		role := RoleUser
		if i%2 == 0 {
			role = RoleAssistant
		}
		msg := &ChatMessage{ChatID: 100, Role: role, Content: fmt.Sprintf("message %d", i)}
		if err := store.AppendMessage(ctx, msg); err != nil {
			t.Fatalf("AppendMessage %d failed: %v", i, err)
		}
	}
	// A message from another chat must not leak into the history.
	if err := store.AppendMessage(ctx, &ChatMessage{ChatID: 200, Role: RoleUser, Content: "other chat"}); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	messages, err := store.GetRecentMessages(ctx, 100, 3)
	if err != nil {
		t.Fatalf("GetRecentMessages failed: %v", err)
	}

	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(messages))
	}
	want := []string{"message 3", "message 4", "message 5"}
	for i, msg := range messages {
		if msg.Content != want[i] {
			t.Errorf("messages[%d].Content = %q, want %q", i, msg.Content, want[i])
		}
		if msg.ChatID != 100 {
			t.Errorf("messages[%d].ChatID = %d, want 100", i, msg.ChatID)
		}
	}

	if _, err := store.GetRecentMessages(ctx, 100, 0); err == nil {
		t.Error("GetRecentMessages should reject a non-positive limit")
	}
}

func TestClearChat(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, chatID := range []int64{100, 100, 200} {
		if err := store.AppendMessage(ctx, &ChatMessage{ChatID: chatID, Role: RoleUser, Content: "hi"}); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}

	if err := store.ClearChat(ctx, 100); err != nil {
		t.Fatalf("ClearChat failed: %v", err)
	}

	cleared, err := store.GetRecentMessages(ctx, 100, 10)
	if err != nil {
		t.Fatalf("GetRecentMessages failed: %v", err)
	}
	if len(cleared) != 0 {
		t.Errorf("chat 100 still has %d messages after clear", len(cleared))
	}

	kept, err := store.GetRecentMessages(ctx, 200, 10)
	if err != nil {
		t.Fatalf("GetRecentMessages failed: %v", err)
	}
	if len(kept) != 1 {
		t.Errorf("chat 200 has %d messages, want 1 untouched", len(kept))
	}
}

func TestDeleteMessagesBefore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	old := &ChatMessage{ChatID: 100, Role: RoleUser, Content: "old", CreatedAt: now.Add(-48 * time.Hour)}
	recent := &ChatMessage{ChatID: 100, Role: RoleUser, Content: "recent", CreatedAt: now}
	for _, msg := range []*ChatMessage{old, recent} {
		if err := store.AppendMessage(ctx, msg); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}

	deleted, err := store.DeleteMessagesBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteMessagesBefore failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	messages, err := store.GetRecentMessages(ctx, 100, 10)
	if err != nil {
		t.Fatalf("GetRecentMessages failed: %v", err)
	}
	if len(messages) != 1 || messages[0].Content != "recent" {
		t.Errorf("remaining messages = %+v, want only the recent one", messages)
	}
}

func TestRunMaintenance(t *testing.T) {
	store := newTestStore(t)

	if err := store.RunMaintenance(context.Background()); err != nil {
		t.Fatalf("RunMaintenance failed: %v", err)
	}
}
