package session_test

import (
	"testing"

	"github.com/askpane/askpane/internal/models"
	"github.com/askpane/askpane/internal/session"
)

func TestStoreAppendOrder(t *testing.T) {
	store := session.NewStore()

	store.Append(models.RoleUser, "one")
	store.Append(models.RoleAssistant, "two")
	store.Append(models.RoleUser, "three")

	msgs := store.Messages()
	if len(msgs) != 3 {
		t.Fatalf("Len = %d, want 3", len(msgs))
	}
	for i, want := range []string{"one", "two", "three"} {
		if msgs[i].Content != want {
			t.Errorf("message %d content = %q, want %q", i, msgs[i].Content, want)
		}
	}
}

func TestStoreIDsUnique(t *testing.T) {
	store := session.NewStore()

	const n = 1000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		msg := store.Append(models.RoleUser, "x")
		if msg.ID == "" {
			t.Fatal("Append produced an empty id")
		}
		if seen[msg.ID] {
			t.Fatalf("duplicate id %q after %d appends", msg.ID, i)
		}
		seen[msg.ID] = true
	}
}

func TestStoreMessagesIsACopy(t *testing.T) {
	store := session.NewStore()
	store.Append(models.RoleAssistant, "hello")

	msgs := store.Messages()
	msgs[0].Content = "tampered"

	if store.Messages()[0].Content == "tampered" {
		t.Error("mutating Messages() result leaked into the store")
	}
}
