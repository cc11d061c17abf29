// Package moods persists append-only mood check-ins.
package moods

import (
	"context"

	"github.com/dmitrijs2005/mindcare/internal/server/models"
)

type Repository interface {
	// Create inserts e and fills in ID.
	Create(ctx context.Context, e *models.MoodEntry) (*models.MoodEntry, error)
	// ListByUser returns up to limit entries, newest first. limit <= 0 means all.
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.MoodEntry, error)
}
