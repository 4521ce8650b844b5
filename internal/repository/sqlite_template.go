package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ebrandel/tempo/internal/db"
	"github.com/ebrandel/tempo/internal/domain"
)

// SQLiteTemplateRepo implements TemplateRepo on SQLite. Steps live in their
// own table keyed by (template_id, order_index) and are rewritten wholesale
// on update.
type SQLiteTemplateRepo struct {
	db db.DBTX
}

func NewSQLiteTemplateRepo(conn db.DBTX) *SQLiteTemplateRepo {
	return &SQLiteTemplateRepo{db: conn}
}

func (r *SQLiteTemplateRepo) Create(ctx context.Context, t *domain.RoutineTemplate) error {
	query := `INSERT INTO routine_templates (id, name, days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Name,
		joinDays(t.Days),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting routine template: %w", err)
	}
	return r.insertSteps(ctx, t.ID, t.Steps)
}

func (r *SQLiteTemplateRepo) GetByID(ctx context.Context, id string) (*domain.RoutineTemplate, error) {
	query := `SELECT id, name, days, created_at, updated_at FROM routine_templates WHERE id = ?`
	return r.get(ctx, query, id)
}

func (r *SQLiteTemplateRepo) GetByName(ctx context.Context, name string) (*domain.RoutineTemplate, error) {
	query := `SELECT id, name, days, created_at, updated_at FROM routine_templates WHERE name = ?`
	return r.get(ctx, query, name)
}

func (r *SQLiteTemplateRepo) List(ctx context.Context) ([]*domain.RoutineTemplate, error) {
	query := `SELECT id, name, days, created_at, updated_at FROM routine_templates ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing routine templates: %w", err)
	}
	defer rows.Close()

	var templates []*domain.RoutineTemplate
	for rows.Next() {
		t, err := r.scanTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating routine templates: %w", err)
	}
	for _, t := range templates {
		if err := r.loadSteps(ctx, t); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

func (r *SQLiteTemplateRepo) Update(ctx context.Context, t *domain.RoutineTemplate) error {
	query := `UPDATE routine_templates SET name = ?, days = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		t.Name,
		joinDays(t.Days),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating routine template: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM template_steps WHERE template_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clearing template steps: %w", err)
	}
	return r.insertSteps(ctx, t.ID, t.Steps)
}

func (r *SQLiteTemplateRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM routine_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting routine template: %w", err)
	}
	return nil
}

func (r *SQLiteTemplateRepo) get(ctx context.Context, query string, arg any) (*domain.RoutineTemplate, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	t, err := r.scanTemplate(row.Scan)
	if err != nil {
		return nil, err
	}
	if err := r.loadSteps(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTemplateRepo) scanTemplate(scan func(...any) error) (*domain.RoutineTemplate, error) {
	var t domain.RoutineTemplate
	var daysStr, createdAtStr, updatedAtStr string
	err := scan(&t.ID, &t.Name, &daysStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("routine template: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning routine template: %w", err)
	}
	t.Days = splitDays(daysStr)

	var parseErr error
	t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	t.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &t, nil
}

func (r *SQLiteTemplateRepo) insertSteps(ctx context.Context, templateID string, steps []domain.TemplateStep) error {
	for i, s := range steps {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO template_steps (template_id, order_index, name, nominal_min, optional)
			 VALUES (?, ?, ?, ?, ?)`,
			templateID, i, s.Name, s.NominalMin, boolToInt(s.Optional))
		if err != nil {
			return fmt.Errorf("inserting template step %q: %w", s.Name, err)
		}
	}
	return nil
}

func (r *SQLiteTemplateRepo) loadSteps(ctx context.Context, t *domain.RoutineTemplate) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, nominal_min, optional FROM template_steps
		 WHERE template_id = ? ORDER BY order_index`, t.ID)
	if err != nil {
		return fmt.Errorf("loading template steps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.TemplateStep
		var optionalInt int
		if err := rows.Scan(&s.Name, &s.NominalMin, &optionalInt); err != nil {
			return fmt.Errorf("scanning template step: %w", err)
		}
		s.Optional = intToBool(optionalInt)
		t.Steps = append(t.Steps, s)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating template steps: %w", err)
	}
	return nil
}
