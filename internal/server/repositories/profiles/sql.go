package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/common"
	"github.com/dmitrijs2005/mindcare/internal/dbx"
	"github.com/dmitrijs2005/mindcare/internal/server/models"
)

// ErrUnknownColumn is returned by Upsert for a column outside the profile slots.
var ErrUnknownColumn = errors.New("unknown profile column")

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

var slotValues = map[string]func(p *models.Profile) any{
	"age":                func(p *models.Profile) any { return nullInt(p.Age) },
	"gender":             func(p *models.Profile) any { return nullString(p.Gender) },
	"height":             func(p *models.Profile) any { return nullInt(p.Height) },
	"weight":             func(p *models.Profile) any { return nullInt(p.Weight) },
	"activity_level":     func(p *models.Profile) any { return nullString(p.ActivityLevel) },
	"medical_conditions": func(p *models.Profile) any { return nullString(p.MedicalConditions) },
	"food_preferences":   func(p *models.Profile) any { return nullString(p.FoodPreferences) },
	"allergies":          func(p *models.Profile) any { return nullString(p.Allergies) },
	"health_goal":        func(p *models.Profile) any { return nullString(p.HealthGoal) },
}

type SQLRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, now: time.Now}
}

// upsertQuery builds
//
//	INSERT INTO user_profiles (user_id, c1.., slot_context, updated_at)
//	VALUES ($1, ..)
//	ON CONFLICT (user_id) DO UPDATE SET c1 = excluded.c1, ..
func upsertQuery(columns []string) (string, error) {
	cols := make([]string, 0, len(columns)+3)
	cols = append(cols, "user_id")
	for _, c := range columns {
		if _, ok := slotValues[c]; !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
		cols = append(cols, c)
	}
	cols = append(cols, "slot_context", "updated_at")

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	sets := make([]string, 0, len(cols)-1)
	for _, c := range cols[1:] {
		sets = append(sets, c+" = excluded."+c)
	}

	return "INSERT INTO user_profiles (" + strings.Join(cols, ", ") + ")" +
		" VALUES (" + strings.Join(placeholders, ", ") + ")" +
		" ON CONFLICT (user_id) DO UPDATE SET " + strings.Join(sets, ", "), nil
}

func (r *SQLRepository) Upsert(ctx context.Context, p *models.Profile, columns []string) error {
	query, err := upsertQuery(columns)
	if err != nil {
		return err
	}

	p.UpdatedAt = r.now().UTC()

	args := make([]any, 0, len(columns)+3)
	args = append(args, p.UserID)
	for _, c := range columns {
		args = append(args, slotValues[c](p))
	}
	args = append(args, string(p.SlotContext), p.UpdatedAt)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query :=
		`SELECT user_id, age, gender, height, weight, activity_level,
		        medical_conditions, food_preferences, allergies, health_goal,
		        slot_context, updated_at
		 FROM user_profiles
		 WHERE user_id = $1
		 `

	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.Age, &p.Gender, &p.Height, &p.Weight, &p.ActivityLevel,
		&p.MedicalConditions, &p.FoodPreferences, &p.Allergies, &p.HealthGoal,
		&p.SlotContext, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}
