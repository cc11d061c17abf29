// Package profiles persists the one-per-user profile record.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/mindcare/internal/server/models"
)

// Data slots owned by each write path. slot_context and updated_at are
// written by every upsert.
var (
	FullColumns = []string{
		"age", "gender", "height", "weight", "activity_level",
		"medical_conditions", "food_preferences", "allergies", "health_goal",
	}
	WellnessColumns = []string{
		"age", "gender", "activity_level",
		"medical_conditions", "food_preferences", "allergies", "health_goal",
	}
)

type Repository interface {
	// Upsert inserts the user's profile or, when one exists, overwrites only
	// the listed columns. Columns outside the list keep their stored value.
	Upsert(ctx context.Context, p *models.Profile, columns []string) error
	// GetByUserID returns common.ErrorNotFound when the user has no profile.
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
}
