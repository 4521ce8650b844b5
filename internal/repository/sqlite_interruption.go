package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ebrandel/tempo/internal/db"
	"github.com/ebrandel/tempo/internal/domain"
)

const interruptionColumns = `id, routine_id, description, started_at, ended_at,
		buffer_available_min, delay_min, chosen_action, chosen_block_id, saved_min, created_at`

// SQLiteInterruptionRepo implements InterruptionRepo on SQLite.
type SQLiteInterruptionRepo struct {
	db db.DBTX
}

func NewSQLiteInterruptionRepo(conn db.DBTX) *SQLiteInterruptionRepo {
	return &SQLiteInterruptionRepo{db: conn}
}

func (r *SQLiteInterruptionRepo) Create(ctx context.Context, i *domain.Interruption) error {
	query := `INSERT INTO interruptions (` + interruptionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		i.ID,
		i.RoutineID,
		i.Description,
		i.StartedAt.Format(time.RFC3339),
		nullableTimeToString(i.EndedAt, time.RFC3339),
		i.BufferAvailableMin,
		i.DelayMin,
		string(i.ChosenAction),
		i.ChosenBlockID,
		i.SavedMin,
		i.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting interruption: %w", err)
	}
	return nil
}

func (r *SQLiteInterruptionRepo) GetByID(ctx context.Context, id string) (*domain.Interruption, error) {
	query := `SELECT ` + interruptionColumns + ` FROM interruptions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanInterruption(row.Scan)
}

func (r *SQLiteInterruptionRepo) GetOpenByRoutine(ctx context.Context, routineID string) (*domain.Interruption, error) {
	query := `SELECT ` + interruptionColumns + ` FROM interruptions
		WHERE routine_id = ? AND ended_at IS NULL`
	row := r.db.QueryRowContext(ctx, query, routineID)
	return scanInterruption(row.Scan)
}

func (r *SQLiteInterruptionRepo) ListByRoutine(ctx context.Context, routineID string) ([]*domain.Interruption, error) {
	query := `SELECT ` + interruptionColumns + ` FROM interruptions
		WHERE routine_id = ? ORDER BY started_at`
	rows, err := r.db.QueryContext(ctx, query, routineID)
	if err != nil {
		return nil, fmt.Errorf("listing interruptions: %w", err)
	}
	defer rows.Close()

	var interruptions []*domain.Interruption
	for rows.Next() {
		i, err := scanInterruption(rows.Scan)
		if err != nil {
			return nil, err
		}
		interruptions = append(interruptions, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interruptions: %w", err)
	}
	return interruptions, nil
}

func (r *SQLiteInterruptionRepo) Update(ctx context.Context, i *domain.Interruption) error {
	query := `UPDATE interruptions SET description = ?, ended_at = ?, buffer_available_min = ?,
		delay_min = ?, chosen_action = ?, chosen_block_id = ?, saved_min = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		i.Description,
		nullableTimeToString(i.EndedAt, time.RFC3339),
		i.BufferAvailableMin,
		i.DelayMin,
		string(i.ChosenAction),
		i.ChosenBlockID,
		i.SavedMin,
		i.ID,
	)
	if err != nil {
		return fmt.Errorf("updating interruption: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("interruption: %w", ErrNotFound)
	}
	return nil
}

func scanInterruption(scan func(...any) error) (*domain.Interruption, error) {
	var i domain.Interruption
	var startedAtStr, createdAtStr, actionStr string
	var endedAtStr sql.NullString

	err := scan(
		&i.ID, &i.RoutineID, &i.Description, &startedAtStr, &endedAtStr,
		&i.BufferAvailableMin, &i.DelayMin, &actionStr, &i.ChosenBlockID, &i.SavedMin,
		&createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("interruption: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning interruption: %w", err)
	}

	i.ChosenAction = domain.TradeOffAction(actionStr)
	i.EndedAt = parseNullableTime(endedAtStr, time.RFC3339)

	var parseErr error
	i.StartedAt, parseErr = time.Parse(time.RFC3339, startedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing started_at: %w", parseErr)
	}
	i.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return &i, nil
}
