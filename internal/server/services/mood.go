package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/server/config"
	"github.com/dmitrijs2005/mindcare/internal/server/models"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/repomanager"
)

const (
	// DefaultTrendPoints is how many check-ins the trend chart shows.
	DefaultTrendPoints = 7
	// InsightWindow is how many recent check-ins feed the insights.
	InsightWindow = 30
)

type MoodInput struct {
	MoodScale    int
	EnergyLevel  int
	AnxietyLevel int
	SleepQuality int
	Notes        string
	EntryDate    string
}

type MoodService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	assistant   Assistant
	timeout     storeTimeout
	now         func() time.Time
}

func NewMoodService(db *sql.DB, m repomanager.RepositoryManager, a Assistant, cfg *config.Config) *MoodService {
	return &MoodService{
		db:          db,
		repomanager: m,
		assistant:   a,
		timeout:     newStoreTimeout(cfg.DatabaseTimeout),
		now:         time.Now,
	}
}

// Create logs a check-in. Blank notes are stored as NULL.
func (s *MoodService) Create(ctx context.Context, userID int64, in MoodInput) (*models.MoodEntry, error) {
	for _, f := range []struct {
		name string
		v    int
	}{
		{"mood_scale", in.MoodScale},
		{"energy_level", in.EnergyLevel},
		{"anxiety_level", in.AnxietyLevel},
		{"sleep_quality", in.SleepQuality},
	} {
		if err := validateRating(f.name, f.v); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	date, err := entryDate(in.EntryDate, now)
	if err != nil {
		return nil, err
	}

	var notes *string
	if n := strings.TrimSpace(in.Notes); n != "" {
		notes = &n
	}

	ctx, cancel := s.timeout.ctx(ctx)
	defer cancel()

	e, err := s.repomanager.Moods(s.db).Create(ctx, &models.MoodEntry{
		UserID:       userID,
		MoodScale:    in.MoodScale,
		EnergyLevel:  in.EnergyLevel,
		AnxietyLevel: in.AnxietyLevel,
		SleepQuality: in.SleepQuality,
		Notes:        notes,
		EntryDate:    date,
		CreatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating mood entry: %w", err)
	}
	return e, nil
}

// List returns up to limit check-ins, newest first. limit <= 0 means all.
func (s *MoodService) List(ctx context.Context, userID int64, limit int) ([]models.MoodEntry, error) {
	ctx, cancel := s.timeout.ctx(ctx)
	defer cancel()

	return s.repomanager.Moods(s.db).ListByUser(ctx, userID, limit)
}

// Trend returns the last n mood scales, oldest first.
func (s *MoodService) Trend(ctx context.Context, userID int64, n int) ([]models.MoodPoint, error) {
	if n <= 0 {
		n = DefaultTrendPoints
	}
	entries, err := s.List(ctx, userID, n)
	if err != nil {
		return nil, err
	}

	points := make([]models.MoodPoint, len(entries))
	for i, e := range entries {
		points[len(entries)-1-i] = models.MoodPoint{EntryDate: e.EntryDate, MoodScale: e.MoodScale}
	}
	return points, nil
}

// Insights summarises recent check-ins and asks the assistant to comment.
func (s *MoodService) Insights(ctx context.Context, userID int64) (string, models.MoodSummary, error) {
	entries, err := s.List(ctx, userID, InsightWindow)
	if err != nil {
		return "", models.MoodSummary{}, err
	}
	summary := models.Summarize(entries)
	return s.assistant.MoodInsights(ctx, summary), summary, nil
}
