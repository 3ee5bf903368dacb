package session

import (
	"sync"
	"time"

	"github.com/askpane/askpane/internal/models"
	"github.com/google/uuid"
)

// Store is the append-only log of conversation turns. Entries are never reordered,
// removed, or mutated once appended. Append always succeeds given valid arguments;
// content validation for user turns is the controller's job.
type Store struct {
	mu       sync.Mutex
	messages []models.Message

	now func() time.Time
}

// NewStore creates an empty message store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Append adds a new message to the end of the log and returns it. The message ID is
// generated here and never reused.
func (s *Store) Append(role models.Role, content string) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := models.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	}
	s.messages = append(s.messages, msg)
	return msg
}

// Messages returns a copy of the log in append order.
func (s *Store) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the log.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
