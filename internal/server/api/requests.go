package api

import (
	"time"

	"github.com/dmitrijs2005/mindcare/internal/server/models"
	"github.com/dmitrijs2005/mindcare/internal/server/services"
)

type registerRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"max=32"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func newTokenResponse(p *models.TokenPair) tokenResponse {
	return tokenResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken, TokenType: "Bearer"}
}

type nutritionProfileRequest struct {
	Age               *int    `json:"age" binding:"omitempty,min=0,max=150"`
	Gender            *string `json:"gender"`
	Height            *int    `json:"height" binding:"omitempty,min=0"`
	Weight            *int    `json:"weight" binding:"omitempty,min=0"`
	ActivityLevel     *string `json:"activity_level"`
	MedicalConditions *string `json:"medical_conditions"`
	FoodPreferences   *string `json:"food_preferences"`
	Allergies         *string `json:"allergies"`
	HealthGoal        *string `json:"health_goal"`
}

func (r nutritionProfileRequest) model() models.NutritionProfile {
	return models.NutritionProfile{
		Age:               r.Age,
		Gender:            r.Gender,
		Height:            r.Height,
		Weight:            r.Weight,
		ActivityLevel:     r.ActivityLevel,
		MedicalConditions: r.MedicalConditions,
		FoodPreferences:   r.FoodPreferences,
		Allergies:         r.Allergies,
		HealthGoal:        r.HealthGoal,
	}
}

// wellnessProfileRequest accepts the overloaded slots under either their
// wellness names or their generic names. The generic name wins when both
// are present.
type wellnessProfileRequest struct {
	Age                  *int    `json:"age" binding:"omitempty,min=0,max=150"`
	Gender               *string `json:"gender"`
	Occupation           *string `json:"occupation"`
	MentalHealthConcerns *string `json:"mental_health_concerns"`
	SupportPreferences   *string `json:"support_preferences"`
	StressLevel          *string `json:"stress_level"`
	HealthGoal           *string `json:"health_goal"`

	ActivityLevel     *string `json:"activity_level"`
	MedicalConditions *string `json:"medical_conditions"`
	FoodPreferences   *string `json:"food_preferences"`
	Allergies         *string `json:"allergies"`
}

func firstSet(generic, alternate *string) *string {
	if generic != nil {
		return generic
	}
	return alternate
}

func (r wellnessProfileRequest) model() models.WellnessProfile {
	return models.WellnessProfile{
		Age:                  r.Age,
		Gender:               r.Gender,
		Occupation:           firstSet(r.ActivityLevel, r.Occupation),
		MentalHealthConcerns: firstSet(r.MedicalConditions, r.MentalHealthConcerns),
		SupportPreferences:   firstSet(r.FoodPreferences, r.SupportPreferences),
		StressLevel:          firstSet(r.Allergies, r.StressLevel),
		HealthGoal:           r.HealthGoal,
	}
}

type profileRecord struct {
	Age               *int               `json:"age"`
	Gender            *string            `json:"gender"`
	Height            *int               `json:"height"`
	Weight            *int               `json:"weight"`
	ActivityLevel     *string            `json:"activity_level"`
	MedicalConditions *string            `json:"medical_conditions"`
	FoodPreferences   *string            `json:"food_preferences"`
	Allergies         *string            `json:"allergies"`
	HealthGoal        *string            `json:"health_goal"`
	SlotContext       models.SlotContext `json:"slot_context"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

type profileResponse struct {
	Profile   profileRecord           `json:"profile"`
	Nutrition models.NutritionProfile `json:"nutrition"`
	Wellness  models.WellnessProfile  `json:"wellness"`
}

func newProfileResponse(p *models.Profile) profileResponse {
	return profileResponse{
		Profile: profileRecord{
			Age:               p.Age,
			Gender:            p.Gender,
			Height:            p.Height,
			Weight:            p.Weight,
			ActivityLevel:     p.ActivityLevel,
			MedicalConditions: p.MedicalConditions,
			FoodPreferences:   p.FoodPreferences,
			Allergies:         p.Allergies,
			HealthGoal:        p.HealthGoal,
			SlotContext:       p.SlotContext,
			UpdatedAt:         p.UpdatedAt,
		},
		Nutrition: p.Nutrition(),
		Wellness:  p.Wellness(),
	}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type journalRequest struct {
	Title      string `json:"title" binding:"max=200"`
	Content    string `json:"content" binding:"required"`
	MoodRating int    `json:"mood_rating" binding:"required,min=1,max=10"`
	IsPrivate  *bool  `json:"is_private"`
	EntryDate  string `json:"entry_date" binding:"omitempty,datetime=2006-01-02"`
}

func (r journalRequest) input() services.JournalInput {
	return services.JournalInput{
		Title:      r.Title,
		Content:    r.Content,
		MoodRating: r.MoodRating,
		IsPrivate:  r.IsPrivate,
		EntryDate:  r.EntryDate,
	}
}

type moodRequest struct {
	MoodScale    int    `json:"mood_scale" binding:"required,min=1,max=10"`
	EnergyLevel  int    `json:"energy_level" binding:"required,min=1,max=10"`
	AnxietyLevel int    `json:"anxiety_level" binding:"required,min=1,max=10"`
	SleepQuality int    `json:"sleep_quality" binding:"required,min=1,max=10"`
	Notes        string `json:"notes" binding:"max=2000"`
	EntryDate    string `json:"entry_date" binding:"omitempty,datetime=2006-01-02"`
}

func (r moodRequest) input() services.MoodInput {
	return services.MoodInput{
		MoodScale:    r.MoodScale,
		EnergyLevel:  r.EnergyLevel,
		AnxietyLevel: r.AnxietyLevel,
		SleepQuality: r.SleepQuality,
		Notes:        r.Notes,
		EntryDate:    r.EntryDate,
	}
}
