package models

import "time"

// SlotContext records which product surface last wrote the overloaded
// profile slots.
type SlotContext string

const (
	SlotContextNutrition SlotContext = "nutrition"
	SlotContextWellness  SlotContext = "wellness"
)

// DefaultHealthGoal is stored by wellness saves that carry no goal.
const DefaultHealthGoal = "Mental Wellness"

// Profile is the generic per-user record shared by the nutrition and
// wellness surfaces. A nil field is NULL in the store.
//
// Slot meaning per context:
//
//	slot                nutrition            wellness
//	activity_level      activity level       occupation
//	medical_conditions  medical conditions   mental-health concerns
//	food_preferences    food preferences     support preferences
//	allergies           allergies            stress level
type Profile struct {
	UserID            int64
	Age               *int
	Gender            *string
	Height            *int
	Weight            *int
	ActivityLevel     *string
	MedicalConditions *string
	FoodPreferences   *string
	Allergies         *string
	HealthGoal        *string
	SlotContext       SlotContext
	UpdatedAt         time.Time
}

// NutritionProfile is the nutrition view of a Profile.
type NutritionProfile struct {
	Age               *int    `json:"age"`
	Gender            *string `json:"gender"`
	Height            *int    `json:"height"`
	Weight            *int    `json:"weight"`
	ActivityLevel     *string `json:"activity_level"`
	MedicalConditions *string `json:"medical_conditions"`
	FoodPreferences   *string `json:"food_preferences"`
	Allergies         *string `json:"allergies"`
	HealthGoal        *string `json:"health_goal"`
}

// WellnessProfile is the mental-health view of a Profile.
type WellnessProfile struct {
	Age                  *int    `json:"age"`
	Gender               *string `json:"gender"`
	Occupation           *string `json:"occupation"`
	MentalHealthConcerns *string `json:"mental_health_concerns"`
	SupportPreferences   *string `json:"support_preferences"`
	StressLevel          *string `json:"stress_level"`
	HealthGoal           *string `json:"health_goal"`
}

// FromNutrition maps a nutrition view onto the generic slots. Every slot is
// assigned, so absent values become NULL.
func FromNutrition(userID int64, n NutritionProfile) Profile {
	return Profile{
		UserID:            userID,
		Age:               n.Age,
		Gender:            n.Gender,
		Height:            n.Height,
		Weight:            n.Weight,
		ActivityLevel:     n.ActivityLevel,
		MedicalConditions: n.MedicalConditions,
		FoodPreferences:   n.FoodPreferences,
		Allergies:         n.Allergies,
		HealthGoal:        n.HealthGoal,
		SlotContext:       SlotContextNutrition,
	}
}

// FromWellness maps a wellness view onto the generic slots. Height and
// weight are left nil and HealthGoal falls back to DefaultHealthGoal.
func FromWellness(userID int64, w WellnessProfile) Profile {
	goal := w.HealthGoal
	if goal == nil || *goal == "" {
		g := DefaultHealthGoal
		goal = &g
	}
	return Profile{
		UserID:            userID,
		Age:               w.Age,
		Gender:            w.Gender,
		ActivityLevel:     w.Occupation,
		MedicalConditions: w.MentalHealthConcerns,
		FoodPreferences:   w.SupportPreferences,
		Allergies:         w.StressLevel,
		HealthGoal:        goal,
		SlotContext:       SlotContextWellness,
	}
}

// Nutrition returns the nutrition view. The overloaded slots are nil when
// they were last written by the wellness surface.
func (p *Profile) Nutrition() NutritionProfile {
	n := NutritionProfile{
		Age:        p.Age,
		Gender:     p.Gender,
		Height:     p.Height,
		Weight:     p.Weight,
		HealthGoal: p.HealthGoal,
	}
	if p.SlotContext != SlotContextWellness {
		n.ActivityLevel = p.ActivityLevel
		n.MedicalConditions = p.MedicalConditions
		n.FoodPreferences = p.FoodPreferences
		n.Allergies = p.Allergies
	}
	return n
}

// Wellness returns the wellness view. The overloaded slots are nil unless
// they were last written by the wellness surface.
func (p *Profile) Wellness() WellnessProfile {
	w := WellnessProfile{
		Age:        p.Age,
		Gender:     p.Gender,
		HealthGoal: p.HealthGoal,
	}
	if p.SlotContext == SlotContextWellness {
		w.Occupation = p.ActivityLevel
		w.MentalHealthConcerns = p.MedicalConditions
		w.SupportPreferences = p.FoodPreferences
		w.StressLevel = p.Allergies
	}
	return w
}
