// Package chathistory keeps the per-user conversation shown in the chat view.
package chathistory

import (
	"context"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is safe for concurrent use. List returns messages oldest first and
// an empty slice for users without history.
type Store interface {
	Append(ctx context.Context, userID int64, msgs ...Message) error
	List(ctx context.Context, userID int64) ([]Message, error)
	Clear(ctx context.Context, userID int64) error
}
