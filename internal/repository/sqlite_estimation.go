package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ebrandel/tempo/internal/db"
	"github.com/ebrandel/tempo/internal/domain"
)

// SQLiteEstimationRepo implements EstimationRepo on SQLite. Samples are
// append-only; patterns are one row per category, replaced on every
// recomputation.
type SQLiteEstimationRepo struct {
	db db.DBTX
}

func NewSQLiteEstimationRepo(conn db.DBTX) *SQLiteEstimationRepo {
	return &SQLiteEstimationRepo{db: conn}
}

func (r *SQLiteEstimationRepo) AddSample(ctx context.Context, s *domain.EstimationSample) error {
	query := `INSERT INTO estimation_samples (id, category, tags, estimated_min, actual_min, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Category,
		joinList(s.Tags),
		s.EstimatedMin,
		s.ActualMin,
		s.RecordedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting estimation sample: %w", err)
	}
	return nil
}

func (r *SQLiteEstimationRepo) ListSamples(ctx context.Context, category string) ([]domain.EstimationSample, error) {
	query := `SELECT id, category, tags, estimated_min, actual_min, recorded_at
		FROM estimation_samples WHERE category = ? ORDER BY recorded_at`
	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("listing estimation samples: %w", err)
	}
	defer rows.Close()

	var samples []domain.EstimationSample
	for rows.Next() {
		var s domain.EstimationSample
		var tagsStr, recordedAtStr string
		if err := rows.Scan(&s.ID, &s.Category, &tagsStr, &s.EstimatedMin, &s.ActualMin, &recordedAtStr); err != nil {
			return nil, fmt.Errorf("scanning estimation sample: %w", err)
		}
		s.Tags = splitList(tagsStr)
		s.RecordedAt, err = time.Parse(time.RFC3339, recordedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating estimation samples: %w", err)
	}
	return samples, nil
}

func (r *SQLiteEstimationRepo) UpsertPattern(ctx context.Context, p *domain.EstimationPattern) error {
	query := `INSERT OR REPLACE INTO estimation_patterns (category, tags, sample_count,
		mean_estimated_min, mean_actual_min, stdev_actual_min, tendency, confidence, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.Category,
		joinList(p.Tags),
		p.SampleCount,
		p.MeanEstimatedMin,
		p.MeanActualMin,
		p.StdevActualMin,
		string(p.Tendency),
		p.Confidence,
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting estimation pattern: %w", err)
	}
	return nil
}

func (r *SQLiteEstimationRepo) GetPattern(ctx context.Context, category string) (*domain.EstimationPattern, error) {
	query := `SELECT category, tags, sample_count, mean_estimated_min, mean_actual_min,
		stdev_actual_min, tendency, confidence, updated_at
		FROM estimation_patterns WHERE category = ?`
	row := r.db.QueryRowContext(ctx, query, category)
	return scanPattern(row.Scan)
}

func (r *SQLiteEstimationRepo) ListPatterns(ctx context.Context) ([]*domain.EstimationPattern, error) {
	query := `SELECT category, tags, sample_count, mean_estimated_min, mean_actual_min,
		stdev_actual_min, tendency, confidence, updated_at
		FROM estimation_patterns ORDER BY category`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing estimation patterns: %w", err)
	}
	defer rows.Close()

	var patterns []*domain.EstimationPattern
	for rows.Next() {
		p, err := scanPattern(rows.Scan)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating estimation patterns: %w", err)
	}
	return patterns, nil
}

func scanPattern(scan func(...any) error) (*domain.EstimationPattern, error) {
	var p domain.EstimationPattern
	var tagsStr, tendencyStr, updatedAtStr string

	err := scan(
		&p.Category, &tagsStr, &p.SampleCount,
		&p.MeanEstimatedMin, &p.MeanActualMin, &p.StdevActualMin,
		&tendencyStr, &p.Confidence, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("estimation pattern: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning estimation pattern: %w", err)
	}

	p.Tags = splitList(tagsStr)
	p.Tendency = domain.Tendency(tendencyStr)

	var parseErr error
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &p, nil
}
