package models

import "time"

// DateLayout is the wire and storage format of entry dates.
const DateLayout = "2006-01-02"

type JournalEntry struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	MoodRating int       `json:"mood_rating"`
	IsPrivate  bool      `json:"is_private"`
	EntryDate  string    `json:"entry_date"`
	CreatedAt  time.Time `json:"created_at"`
}
