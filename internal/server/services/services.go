// Package services contains server-side business logic. Services take the
// authenticated user id as an explicit parameter and hold no session state.
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/server/assistant"
	"github.com/dmitrijs2005/mindcare/internal/server/models"
)

// DefaultDatabaseTimeout bounds store calls when the config leaves it unset.
const DefaultDatabaseTimeout = 5 * time.Second

// Assistant is the part of assistant.Client the services use.
type Assistant interface {
	Ask(ctx context.Context, message string) string
	WellnessTips(ctx context.Context, p *models.WellnessProfile) string
	MoodInsights(ctx context.Context, s models.MoodSummary) string
	JournalReflection(ctx context.Context, entry string) string
	Affirmation() string
	Breathing() assistant.BreathingExercise
}

// storeTimeout derives the per-operation deadline for store calls.
type storeTimeout time.Duration

func newStoreTimeout(d time.Duration) storeTimeout {
	if d <= 0 {
		d = DefaultDatabaseTimeout
	}
	return storeTimeout(d)
}

func (t storeTimeout) ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(t))
}

// today formats now as an entry date in UTC.
func today(now time.Time) string {
	return now.UTC().Format(models.DateLayout)
}
