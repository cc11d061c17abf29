package moods

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mindcare/internal/dbx"
	"github.com/dmitrijs2005/mindcare/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, e *models.MoodEntry) (*models.MoodEntry, error) {
	query :=
		`INSERT INTO mood_entries (user_id, mood_scale, energy_level, anxiety_level, sleep_quality, notes, entry_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id
		 `

	var notes any
	if e.Notes != nil {
		notes = *e.Notes
	}

	err := r.db.QueryRowContext(ctx, query,
		e.UserID, e.MoodScale, e.EnergyLevel, e.AnxietyLevel, e.SleepQuality, notes, e.EntryDate, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.MoodEntry, error) {
	query :=
		`SELECT id, user_id, mood_scale, energy_level, anxiety_level, sleep_quality, notes, entry_date, created_at
		 FROM mood_entries
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.MoodEntry, 0)
	for rows.Next() {
		var e models.MoodEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.MoodScale, &e.EnergyLevel, &e.AnxietyLevel,
			&e.SleepQuality, &e.Notes, &e.EntryDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
