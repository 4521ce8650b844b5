package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ebrandel/tempo/internal/db"
	"github.com/ebrandel/tempo/internal/domain"
)

// workItemColumns is the canonical SELECT column list for work_items.
const workItemColumns = `id, title, category, tags, estimate_min, due_date, pillar,
		contract_type, status, actual_min, last_touched, completed_at, archived_at,
		created_at, updated_at`

// SQLiteWorkItemRepo implements WorkItemRepo on SQLite.
type SQLiteWorkItemRepo struct {
	db db.DBTX
}

func NewSQLiteWorkItemRepo(conn db.DBTX) *SQLiteWorkItemRepo {
	return &SQLiteWorkItemRepo{db: conn}
}

func (r *SQLiteWorkItemRepo) Create(ctx context.Context, w *domain.WorkItem) error {
	query := `INSERT INTO work_items (` + workItemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.Title,
		w.Category,
		joinList(w.Tags),
		w.EstimateMin,
		nullableTimeToString(w.DueDate, dateLayout),
		w.Pillar,
		string(w.ContractType),
		string(w.Status),
		w.ActualMin,
		lastTouchedValue(w.LastTouched),
		nullableTimeToString(w.CompletedAt, time.RFC3339),
		nullableTimeToString(w.ArchivedAt, time.RFC3339),
		w.CreatedAt.Format(time.RFC3339),
		w.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanWorkItem(row)
}

func (r *SQLiteWorkItemRepo) List(ctx context.Context, includeArchived bool) ([]*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items ORDER BY created_at`
	if !includeArchived {
		query = `SELECT ` + workItemColumns + ` FROM work_items
			WHERE status != 'archived' ORDER BY created_at`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing work items: %w", err)
	}
	defer rows.Close()
	return r.scanWorkItems(rows)
}

// ListSchedulable returns the items the daily builder may place: pending or
// scheduled, not archived.
func (r *SQLiteWorkItemRepo) ListSchedulable(ctx context.Context) ([]*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items
		WHERE status IN ('pending', 'scheduled')
		  AND archived_at IS NULL
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing schedulable work items: %w", err)
	}
	defer rows.Close()
	return r.scanWorkItems(rows)
}

func (r *SQLiteWorkItemRepo) Update(ctx context.Context, w *domain.WorkItem) error {
	query := `UPDATE work_items SET title = ?, category = ?, tags = ?, estimate_min = ?,
		due_date = ?, pillar = ?, contract_type = ?, status = ?, actual_min = ?,
		last_touched = ?, completed_at = ?, archived_at = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		w.Title,
		w.Category,
		joinList(w.Tags),
		w.EstimateMin,
		nullableTimeToString(w.DueDate, dateLayout),
		w.Pillar,
		string(w.ContractType),
		string(w.Status),
		w.ActualMin,
		lastTouchedValue(w.LastTouched),
		nullableTimeToString(w.CompletedAt, time.RFC3339),
		nullableTimeToString(w.ArchivedAt, time.RFC3339),
		w.UpdatedAt.Format(time.RFC3339),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) Archive(ctx context.Context, id string) error {
	now := nowUTC()
	query := `UPDATE work_items SET status = 'archived', archived_at = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return fmt.Errorf("archiving work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM work_items WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting work item: %w", err)
	}
	return nil
}

func lastTouchedValue(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

func (r *SQLiteWorkItemRepo) scanWorkItem(row *sql.Row) (*domain.WorkItem, error) {
	var w domain.WorkItem
	var tagsStr, contractStr, statusStr string
	var dueDateStr, lastTouchedStr, completedAtStr, archivedAtStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&w.ID, &w.Title, &w.Category, &tagsStr, &w.EstimateMin, &dueDateStr, &w.Pillar,
		&contractStr, &statusStr, &w.ActualMin, &lastTouchedStr, &completedAtStr, &archivedAtStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("work item: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work item: %w", err)
	}
	return populateWorkItem(&w, tagsStr, contractStr, statusStr,
		dueDateStr, lastTouchedStr, completedAtStr, archivedAtStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteWorkItemRepo) scanWorkItems(rows *sql.Rows) ([]*domain.WorkItem, error) {
	var items []*domain.WorkItem
	for rows.Next() {
		var w domain.WorkItem
		var tagsStr, contractStr, statusStr string
		var dueDateStr, lastTouchedStr, completedAtStr, archivedAtStr sql.NullString
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&w.ID, &w.Title, &w.Category, &tagsStr, &w.EstimateMin, &dueDateStr, &w.Pillar,
			&contractStr, &statusStr, &w.ActualMin, &lastTouchedStr, &completedAtStr, &archivedAtStr,
			&createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning work item: %w", err)
		}
		item, err := populateWorkItem(&w, tagsStr, contractStr, statusStr,
			dueDateStr, lastTouchedStr, completedAtStr, archivedAtStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work items: %w", err)
	}
	return items, nil
}

// populateWorkItem fills in parsed fields after scanning raw values.
func populateWorkItem(
	w *domain.WorkItem,
	tagsStr, contractStr, statusStr string,
	dueDateStr, lastTouchedStr, completedAtStr, archivedAtStr sql.NullString,
	createdAtStr, updatedAtStr string,
) (*domain.WorkItem, error) {
	w.Tags = splitList(tagsStr)
	w.ContractType = domain.ContractType(contractStr)
	w.Status = domain.WorkItemStatus(statusStr)
	w.DueDate = parseNullableTime(dueDateStr, dateLayout)
	w.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)
	w.ArchivedAt = parseNullableTime(archivedAtStr, time.RFC3339)
	if lt := parseNullableTime(lastTouchedStr, time.RFC3339); lt != nil {
		w.LastTouched = *lt
	}

	var parseErr error
	w.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	w.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return w, nil
}
