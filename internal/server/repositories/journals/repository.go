// Package journals persists append-only journal entries.
package journals

import (
	"context"

	"github.com/dmitrijs2005/mindcare/internal/server/models"
)

type Repository interface {
	// Create inserts e and fills in ID.
	Create(ctx context.Context, e *models.JournalEntry) (*models.JournalEntry, error)
	// ListByUser returns up to limit entries, newest first. limit <= 0 means all.
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.JournalEntry, error)
	// GetByID returns common.ErrorNotFound when the entry does not exist or
	// belongs to another user.
	GetByID(ctx context.Context, userID, id int64) (*models.JournalEntry, error)
}
