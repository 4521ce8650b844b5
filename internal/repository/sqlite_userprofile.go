package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ebrandel/tempo/internal/db"
	"github.com/ebrandel/tempo/internal/domain"
)

// SQLiteUserProfileRepo implements UserProfileRepo on SQLite. There is a
// single seeded row with id 'default'.
type SQLiteUserProfileRepo struct {
	db db.DBTX
}

func NewSQLiteUserProfileRepo(conn db.DBTX) *SQLiteUserProfileRepo {
	return &SQLiteUserProfileRepo{db: conn}
}

func (r *SQLiteUserProfileRepo) Get(ctx context.Context) (*domain.UserProfile, error) {
	query := `SELECT id, strategic_pillars, day_start, day_end, default_buffer_min,
		buffer_step_min, weight_urgency, weight_importance, weight_staleness, weight_type
		FROM user_profile WHERE id = 'default'`
	row := r.db.QueryRowContext(ctx, query)

	var p domain.UserProfile
	var pillarsStr string
	err := row.Scan(
		&p.ID,
		&pillarsStr,
		&p.DayStart,
		&p.DayEnd,
		&p.DefaultBufferMin,
		&p.BufferStepMin,
		&p.Weights.Urgency,
		&p.Weights.Importance,
		&p.Weights.Staleness,
		&p.Weights.Type,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user profile: %w", err)
	}
	p.StrategicPillars = splitList(pillarsStr)
	return &p, nil
}

func (r *SQLiteUserProfileRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	query := `INSERT OR REPLACE INTO user_profile (id, strategic_pillars, day_start, day_end,
		default_buffer_min, buffer_step_min, weight_urgency, weight_importance,
		weight_staleness, weight_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		joinList(p.StrategicPillars),
		p.DayStart,
		p.DayEnd,
		p.DefaultBufferMin,
		p.BufferStepMin,
		p.Weights.Urgency,
		p.Weights.Importance,
		p.Weights.Staleness,
		p.Weights.Type,
	)
	if err != nil {
		return fmt.Errorf("upserting user profile: %w", err)
	}
	return nil
}
