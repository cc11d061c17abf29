package journals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mindcare/internal/common"
	"github.com/dmitrijs2005/mindcare/internal/dbx"
	"github.com/dmitrijs2005/mindcare/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, e *models.JournalEntry) (*models.JournalEntry, error) {
	query :=
		`INSERT INTO journal_entries (user_id, title, content, mood_rating, is_private, entry_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		e.UserID, e.Title, e.Content, e.MoodRating, e.IsPrivate, e.EntryDate, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

const selectEntry = `SELECT id, user_id, title, content, mood_rating, is_private, entry_date, created_at
		 FROM journal_entries`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (models.JournalEntry, error) {
	var e models.JournalEntry
	err := s.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.MoodRating, &e.IsPrivate, &e.EntryDate, &e.CreatedAt)
	return e, err
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.JournalEntry, error) {
	query := selectEntry + `
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

	result := make([]models.JournalEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, userID, id int64) (*models.JournalEntry, error) {
	query := selectEntry + `
		 WHERE id = $1 AND user_id = $2`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &e, nil
}
