package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/common"
	"github.com/dmitrijs2005/mindcare/internal/server/config"
	"github.com/dmitrijs2005/mindcare/internal/server/models"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/repomanager"
)

const (
	MinRating = 1
	MaxRating = 10
)

// JournalInput carries a new entry. Zero values are filled in by Create.
type JournalInput struct {
	Title      string
	Content    string
	MoodRating int
	IsPrivate  *bool
	EntryDate  string
}

type JournalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	assistant   Assistant
	timeout     storeTimeout
	now         func() time.Time
}

func NewJournalService(db *sql.DB, m repomanager.RepositoryManager, a Assistant, cfg *config.Config) *JournalService {
	return &JournalService{
		db:          db,
		repomanager: m,
		assistant:   a,
		timeout:     newStoreTimeout(cfg.DatabaseTimeout),
		now:         time.Now,
	}
}

// Create stores a journal entry. Entries are private and dated today unless
// the input says otherwise.
func (s *JournalService) Create(ctx context.Context, userID int64, in JournalInput) (*models.JournalEntry, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", common.ErrorValidation)
	}
	if err := validateRating("mood_rating", in.MoodRating); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	date, err := entryDate(in.EntryDate, now)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Journal Entry - " + date
	}

	private := true
	if in.IsPrivate != nil {
		private = *in.IsPrivate
	}

	ctx, cancel := s.timeout.ctx(ctx)
	defer cancel()

	e, err := s.repomanager.Journals(s.db).Create(ctx, &models.JournalEntry{
		UserID:     userID,
		Title:      title,
		Content:    content,
		MoodRating: in.MoodRating,
		IsPrivate:  private,
		EntryDate:  date,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating journal entry: %w", err)
	}
	return e, nil
}

// List returns up to limit entries, newest first. limit <= 0 means all.
func (s *JournalService) List(ctx context.Context, userID int64, limit int) ([]models.JournalEntry, error) {
	ctx, cancel := s.timeout.ctx(ctx)
	defer cancel()

	return s.repomanager.Journals(s.db).ListByUser(ctx, userID, limit)
}

// Reflect asks the assistant to respond to one of the user's entries.
func (s *JournalService) Reflect(ctx context.Context, userID, entryID int64) (string, error) {
	dbCtx, cancel := s.timeout.ctx(ctx)
	e, err := s.repomanager.Journals(s.db).GetByID(dbCtx, userID, entryID)
	cancel()
	if err != nil {
		return "", err
	}
	return s.assistant.JournalReflection(ctx, e.Content), nil
}

func validateRating(field string, v int) error {
	if v < MinRating || v > MaxRating {
		return fmt.Errorf("%w: %s must be between %d and %d", common.ErrorValidation, field, MinRating, MaxRating)
	}
	return nil
}

// entryDate validates a YYYY-MM-DD date, defaulting to now's date.
func entryDate(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return today(now), nil
	}
	if _, err := time.Parse(models.DateLayout, s); err != nil {
		return "", fmt.Errorf("%w: entry_date must be YYYY-MM-DD", common.ErrorValidation)
	}
	return s, nil
}
