// Package models defines the JSON shapes the CLI exchanges with the
// MindCare API.
package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}

type NutritionProfile struct {
	Age               *int    `json:"age,omitempty"`
	Gender            *string `json:"gender,omitempty"`
	Height            *int    `json:"height,omitempty"`
	Weight            *int    `json:"weight,omitempty"`
	ActivityLevel     *string `json:"activity_level,omitempty"`
	MedicalConditions *string `json:"medical_conditions,omitempty"`
	FoodPreferences   *string `json:"food_preferences,omitempty"`
	Allergies         *string `json:"allergies,omitempty"`
	HealthGoal        *string `json:"health_goal,omitempty"`
}

type WellnessProfile struct {
	Age                  *int    `json:"age,omitempty"`
	Gender               *string `json:"gender,omitempty"`
	Occupation           *string `json:"occupation,omitempty"`
	MentalHealthConcerns *string `json:"mental_health_concerns,omitempty"`
	SupportPreferences   *string `json:"support_preferences,omitempty"`
	StressLevel          *string `json:"stress_level,omitempty"`
	HealthGoal           *string `json:"health_goal,omitempty"`
}

// Profile is the server's answer to GET /v1/profile.
type Profile struct {
	Profile struct {
		SlotContext string    `json:"slot_context"`
		UpdatedAt   time.Time `json:"updated_at"`
	} `json:"profile"`
	Nutrition NutritionProfile `json:"nutrition"`
	Wellness  WellnessProfile  `json:"wellness"`
}

type JournalEntry struct {
	ID         int64     `json:"id,omitempty"`
	Title      string    `json:"title,omitempty"`
	Content    string    `json:"content"`
	MoodRating int       `json:"mood_rating"`
	IsPrivate  *bool     `json:"is_private,omitempty"`
	EntryDate  string    `json:"entry_date,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

type MoodEntry struct {
	ID           int64     `json:"id,omitempty"`
	MoodScale    int       `json:"mood_scale"`
	EnergyLevel  int       `json:"energy_level"`
	AnxietyLevel int       `json:"anxiety_level"`
	SleepQuality int       `json:"sleep_quality"`
	Notes        string    `json:"notes,omitempty"`
	EntryDate    string    `json:"entry_date,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

type MoodPoint struct {
	EntryDate string `json:"entry_date"`
	MoodScale int    `json:"mood_scale"`
}

type MoodSummary struct {
	Entries      int     `json:"entries"`
	MoodScale    float64 `json:"avg_mood"`
	EnergyLevel  float64 `json:"avg_energy"`
	AnxietyLevel float64 `json:"avg_anxiety"`
	SleepQuality float64 `json:"avg_sleep"`
}

type Insights struct {
	Insights string      `json:"insights"`
	Summary  MoodSummary `json:"summary"`
}

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type BreathingExercise struct {
	Name        string   `json:"name"`
	Steps       []string `json:"steps"`
	Description string   `json:"description"`
}

type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
