package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mindcare/internal/common"
	"github.com/dmitrijs2005/mindcare/internal/server/config"
	"github.com/dmitrijs2005/mindcare/internal/server/models"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/repomanager"
)

// ProfileService writes the per-user profile through one of two paths.
// The nutrition path owns every data slot; the wellness path leaves height
// and weight untouched.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	timeout     storeTimeout
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		timeout:     newStoreTimeout(cfg.DatabaseTimeout),
	}
}

// SaveNutrition replaces all data slots. Fields left nil are stored as NULL.
func (s *ProfileService) SaveNutrition(ctx context.Context, userID int64, n models.NutritionProfile) (*models.Profile, error) {
	p := models.FromNutrition(userID, n)
	return s.save(ctx, &p, profiles.FullColumns)
}

// SaveWellness merges the wellness fields into the profile. The health goal
// defaults to models.DefaultHealthGoal.
func (s *ProfileService) SaveWellness(ctx context.Context, userID int64, w models.WellnessProfile) (*models.Profile, error) {
	p := models.FromWellness(userID, w)
	return s.save(ctx, &p, profiles.WellnessColumns)
}

func (s *ProfileService) save(ctx context.Context, p *models.Profile, columns []string) (*models.Profile, error) {
	if err := validateAge(p.Age); err != nil {
		return nil, err
	}

	ctx, cancel := s.timeout.ctx(ctx)
	defer cancel()

	repo := s.repomanager.Profiles(s.db)
	if err := repo.Upsert(ctx, p, columns); err != nil {
		return nil, fmt.Errorf("error saving profile: %w", err)
	}
	return repo.GetByUserID(ctx, p.UserID)
}

// Get returns common.ErrorNotFound when the user has not saved a profile.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	ctx, cancel := s.timeout.ctx(ctx)
	defer cancel()

	return s.repomanager.Profiles(s.db).GetByUserID(ctx, userID)
}

// wellnessView returns the wellness view of the user's profile or nil when
// there is none.
func (s *ProfileService) wellnessView(ctx context.Context, userID int64) (*models.WellnessProfile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	w := p.Wellness()
	return &w, nil
}

func validateAge(age *int) error {
	if age != nil && (*age < 0 || *age > 150) {
		return fmt.Errorf("%w: age must be between 0 and 150", common.ErrorValidation)
	}
	return nil
}
