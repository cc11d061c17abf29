package models

import "time"

type MoodEntry struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	MoodScale    int       `json:"mood_scale"`
	EnergyLevel  int       `json:"energy_level"`
	AnxietyLevel int       `json:"anxiety_level"`
	SleepQuality int       `json:"sleep_quality"`
	Notes        *string   `json:"notes,omitempty"`
	EntryDate    string    `json:"entry_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// MoodPoint is one (date, mood) sample of a trend series.
type MoodPoint struct {
	EntryDate string `json:"entry_date"`
	MoodScale int    `json:"mood_scale"`
}

// MoodSummary holds per-scale averages over a set of mood entries.
type MoodSummary struct {
	Entries      int     `json:"entries"`
	MoodScale    float64 `json:"avg_mood"`
	EnergyLevel  float64 `json:"avg_energy"`
	AnxietyLevel float64 `json:"avg_anxiety"`
	SleepQuality float64 `json:"avg_sleep"`
}

// Summarize averages the four scales of entries. An empty slice yields the
// zero summary.
func Summarize(entries []MoodEntry) MoodSummary {
	s := MoodSummary{Entries: len(entries)}
	if len(entries) == 0 {
		return s
	}
	for _, e := range entries {
		s.MoodScale += float64(e.MoodScale)
		s.EnergyLevel += float64(e.EnergyLevel)
		s.AnxietyLevel += float64(e.AnxietyLevel)
		s.SleepQuality += float64(e.SleepQuality)
	}
	n := float64(len(entries))
	s.MoodScale /= n
	s.EnergyLevel /= n
	s.AnxietyLevel /= n
	s.SleepQuality /= n
	return s
}
