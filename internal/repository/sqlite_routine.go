package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ebrandel/tempo/internal/db"
	"github.com/ebrandel/tempo/internal/domain"
)

// routineColumns is the canonical SELECT column list for daily_routines.
const routineColumns = `id, date, template_id, status, energy_pct, energy_multiplier,
		buffer_min, total_planned_min, created_at, updated_at`

const blockColumns = `id, routine_id, kind, title, start_at, duration_min, optional,
		work_item_id, step_name, estimate_suggested_min, estimate_confidence,
		estimate_applied, skipped, order_index`

// SQLiteRoutineRepo implements RoutineRepo on SQLite. Blocks are stored in
// their own table and rewritten wholesale on update; a routine is always
// loaded with its full block list.
type SQLiteRoutineRepo struct {
	db db.DBTX
}

func NewSQLiteRoutineRepo(conn db.DBTX) *SQLiteRoutineRepo {
	return &SQLiteRoutineRepo{db: conn}
}

func (r *SQLiteRoutineRepo) Create(ctx context.Context, routine *domain.DailyRoutine) error {
	query := `INSERT INTO daily_routines (` + routineColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		routine.ID,
		routine.Date.Format(dateLayout),
		routine.TemplateID,
		string(routine.Status),
		routine.EnergyPct,
		routine.EnergyMultiplier,
		routine.BufferMin,
		routine.TotalPlannedMin,
		routine.CreatedAt.Format(time.RFC3339),
		routine.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting daily routine: %w", err)
	}
	return r.insertBlocks(ctx, routine.ID, routine.Blocks)
}

func (r *SQLiteRoutineRepo) GetByID(ctx context.Context, id string) (*domain.DailyRoutine, error) {
	query := `SELECT ` + routineColumns + ` FROM daily_routines WHERE id = ?`
	return r.get(ctx, query, id)
}

func (r *SQLiteRoutineRepo) GetByDate(ctx context.Context, date time.Time) (*domain.DailyRoutine, error) {
	query := `SELECT ` + routineColumns + ` FROM daily_routines WHERE date = ?`
	return r.get(ctx, query, date.Format(dateLayout))
}

func (r *SQLiteRoutineRepo) GetActive(ctx context.Context) (*domain.DailyRoutine, error) {
	query := `SELECT ` + routineColumns + ` FROM daily_routines
		WHERE status IN ('running', 'paused')
		ORDER BY date DESC LIMIT 1`
	return r.get(ctx, query)
}

func (r *SQLiteRoutineRepo) Update(ctx context.Context, routine *domain.DailyRoutine) error {
	query := `UPDATE daily_routines SET template_id = ?, status = ?, energy_pct = ?,
		energy_multiplier = ?, buffer_min = ?, total_planned_min = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		routine.TemplateID,
		string(routine.Status),
		routine.EnergyPct,
		routine.EnergyMultiplier,
		routine.BufferMin,
		routine.TotalPlannedMin,
		routine.UpdatedAt.Format(time.RFC3339),
		routine.ID,
	)
	if err != nil {
		return fmt.Errorf("updating daily routine: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM blocks WHERE routine_id = ?`, routine.ID); err != nil {
		return fmt.Errorf("clearing routine blocks: %w", err)
	}
	return r.insertBlocks(ctx, routine.ID, routine.Blocks)
}

func (r *SQLiteRoutineRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM daily_routines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting daily routine: %w", err)
	}
	return nil
}

func (r *SQLiteRoutineRepo) get(ctx context.Context, query string, args ...any) (*domain.DailyRoutine, error) {
	row := r.db.QueryRowContext(ctx, query, args...)

	var routine domain.DailyRoutine
	var dateStr, statusStr, createdAtStr, updatedAtStr string
	err := row.Scan(
		&routine.ID, &dateStr, &routine.TemplateID, &statusStr,
		&routine.EnergyPct, &routine.EnergyMultiplier,
		&routine.BufferMin, &routine.TotalPlannedMin,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("daily routine: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning daily routine: %w", err)
	}

	routine.Status = domain.RoutineStatus(statusStr)
	var parseErr error
	routine.Date, parseErr = time.Parse(dateLayout, dateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing date: %w", parseErr)
	}
	routine.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	routine.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	if err := r.loadBlocks(ctx, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

func (r *SQLiteRoutineRepo) insertBlocks(ctx context.Context, routineID string, blocks []domain.Block) error {
	for _, b := range blocks {
		var suggestedMin, confidence, applied interface{}
		if b.EstimateFlag != nil {
			suggestedMin = b.EstimateFlag.SuggestedMin
			confidence = b.EstimateFlag.Confidence
			applied = boolToInt(b.EstimateFlag.Applied)
		} else {
			applied = 0
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO blocks (`+blockColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID,
			routineID,
			string(b.Kind),
			b.Title,
			b.Start.Format(time.RFC3339),
			b.DurationMin,
			boolToInt(b.Optional),
			b.WorkItemID,
			b.StepName,
			suggestedMin,
			confidence,
			applied,
			boolToInt(b.Skipped),
			b.OrderIndex,
		)
		if err != nil {
			return fmt.Errorf("inserting block %q: %w", b.Title, err)
		}
	}
	return nil
}

func (r *SQLiteRoutineRepo) loadBlocks(ctx context.Context, routine *domain.DailyRoutine) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+blockColumns+` FROM blocks WHERE routine_id = ? ORDER BY order_index`,
		routine.ID)
	if err != nil {
		return fmt.Errorf("loading routine blocks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.Block
		var kindStr, startStr string
		var optionalInt, appliedInt, skippedInt int
		var suggestedMin sql.NullInt64
		var confidence sql.NullFloat64

		err := rows.Scan(
			&b.ID, &b.RoutineID, &kindStr, &b.Title, &startStr, &b.DurationMin,
			&optionalInt, &b.WorkItemID, &b.StepName,
			&suggestedMin, &confidence, &appliedInt, &skippedInt, &b.OrderIndex,
		)
		if err != nil {
			return fmt.Errorf("scanning block: %w", err)
		}

		b.Kind = domain.BlockKind(kindStr)
		b.Optional = intToBool(optionalInt)
		b.Skipped = intToBool(skippedInt)
		b.Start, err = time.Parse(time.RFC3339, startStr)
		if err != nil {
			return fmt.Errorf("parsing block start: %w", err)
		}
		if suggestedMin.Valid {
			b.EstimateFlag = &domain.EstimateFlag{
				SuggestedMin: int(suggestedMin.Int64),
				Confidence:   confidence.Float64,
				Applied:      intToBool(appliedInt),
			}
		}
		routine.Blocks = append(routine.Blocks, b)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating routine blocks: %w", err)
	}
	return nil
}
