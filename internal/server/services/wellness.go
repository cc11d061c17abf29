package services

import (
	"context"

	"github.com/dmitrijs2005/mindcare/internal/server/assistant"
)

// WellnessService serves the daily wellness content.
type WellnessService struct {
	profiles  *ProfileService
	assistant Assistant
}

func NewWellnessService(p *ProfileService, a Assistant) *WellnessService {
	return &WellnessService{profiles: p, assistant: a}
}

// Tips returns daily tips, personalised by the user's wellness profile when
// one exists.
func (s *WellnessService) Tips(ctx context.Context, userID int64) (string, error) {
	w, err := s.profiles.wellnessView(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.assistant.WellnessTips(ctx, w), nil
}

func (s *WellnessService) Affirmation() string {
	return s.assistant.Affirmation()
}

func (s *WellnessService) Breathing() assistant.BreathingExercise {
	return s.assistant.Breathing()
}
