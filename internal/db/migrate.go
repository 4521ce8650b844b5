package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. The list only grows; every statement
// is safe to re-run against an already-migrated database.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements re-run on every start, so tolerate
			// columns that already exist.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS work_items (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		category      TEXT NOT NULL DEFAULT '',
		tags          TEXT NOT NULL DEFAULT '',
		estimate_min  INTEGER NOT NULL DEFAULT 0,
		due_date      TEXT,
		pillar        TEXT NOT NULL DEFAULT '',
		contract_type TEXT NOT NULL DEFAULT 'flexible_task'
		              CHECK(contract_type IN ('fixed_commitment','flexible_task','ongoing')),
		status        TEXT NOT NULL DEFAULT 'pending'
		              CHECK(status IN ('pending','scheduled','done','cancelled','archived')),
		actual_min    INTEGER NOT NULL DEFAULT 0,
		last_touched  TEXT,
		completed_at  TEXT,
		archived_at   TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_items_status ON work_items(status)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_category ON work_items(category)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_due ON work_items(due_date)`,

	`CREATE TABLE IF NOT EXISTS routine_templates (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		days       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS template_steps (
		template_id TEXT NOT NULL REFERENCES routine_templates(id) ON DELETE CASCADE,
		order_index INTEGER NOT NULL,
		name        TEXT NOT NULL,
		nominal_min INTEGER NOT NULL CHECK(nominal_min > 0),
		optional    INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (template_id, order_index)
	)`,

	`CREATE TABLE IF NOT EXISTS daily_routines (
		id                TEXT PRIMARY KEY,
		date              TEXT NOT NULL UNIQUE,
		template_id       TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT 'pending'
		                  CHECK(status IN ('pending','running','paused','completed','abandoned')),
		energy_pct        INTEGER NOT NULL DEFAULT 0,
		energy_multiplier REAL NOT NULL DEFAULT 1.0,
		buffer_min        INTEGER NOT NULL DEFAULT 0,
		total_planned_min INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_daily_routines_status ON daily_routines(status)`,

	`CREATE TABLE IF NOT EXISTS blocks (
		id                     TEXT PRIMARY KEY,
		routine_id             TEXT NOT NULL REFERENCES daily_routines(id) ON DELETE CASCADE,
		kind                   TEXT NOT NULL
		                       CHECK(kind IN ('morning_step','fixed_event','task','buffer')),
		title                  TEXT NOT NULL,
		start_at               TEXT NOT NULL,
		duration_min           INTEGER NOT NULL,
		optional               INTEGER NOT NULL DEFAULT 0,
		work_item_id           TEXT NOT NULL DEFAULT '',
		step_name              TEXT NOT NULL DEFAULT '',
		estimate_suggested_min INTEGER,
		estimate_confidence    REAL,
		estimate_applied       INTEGER NOT NULL DEFAULT 0,
		skipped                INTEGER NOT NULL DEFAULT 0,
		order_index            INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_blocks_routine ON blocks(routine_id)`,

	`CREATE TABLE IF NOT EXISTS interruptions (
		id                   TEXT PRIMARY KEY,
		routine_id           TEXT NOT NULL REFERENCES daily_routines(id) ON DELETE CASCADE,
		description          TEXT NOT NULL DEFAULT '',
		started_at           TEXT NOT NULL,
		ended_at             TEXT,
		buffer_available_min INTEGER NOT NULL DEFAULT 0,
		delay_min            INTEGER NOT NULL DEFAULT 0,
		chosen_action        TEXT NOT NULL DEFAULT '',
		chosen_block_id      TEXT NOT NULL DEFAULT '',
		saved_min            INTEGER NOT NULL DEFAULT 0,
		created_at           TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_interruptions_routine ON interruptions(routine_id)`,

	`CREATE TABLE IF NOT EXISTS estimation_samples (
		id            TEXT PRIMARY KEY,
		category      TEXT NOT NULL,
		tags          TEXT NOT NULL DEFAULT '',
		estimated_min INTEGER NOT NULL,
		actual_min    INTEGER NOT NULL,
		recorded_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_samples_category ON estimation_samples(category)`,

	`CREATE TABLE IF NOT EXISTS estimation_patterns (
		category           TEXT PRIMARY KEY,
		tags               TEXT NOT NULL DEFAULT '',
		sample_count       INTEGER NOT NULL DEFAULT 0,
		mean_estimated_min REAL NOT NULL DEFAULT 0,
		mean_actual_min    REAL NOT NULL DEFAULT 0,
		stdev_actual_min   REAL NOT NULL DEFAULT 0,
		tendency           TEXT NOT NULL DEFAULT '',
		confidence         REAL NOT NULL DEFAULT 0,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_profile (
		id                 TEXT PRIMARY KEY DEFAULT 'default',
		strategic_pillars  TEXT NOT NULL DEFAULT '',
		day_start          TEXT NOT NULL DEFAULT '07:00',
		day_end            TEXT NOT NULL DEFAULT '22:00',
		default_buffer_min INTEGER NOT NULL DEFAULT 30,
		weight_urgency     REAL NOT NULL DEFAULT 0.4,
		weight_importance  REAL NOT NULL DEFAULT 0.3,
		weight_staleness   REAL NOT NULL DEFAULT 0.2,
		weight_type        REAL NOT NULL DEFAULT 0.1
	)`,

	// Seed default user profile
	`INSERT OR IGNORE INTO user_profile (id) VALUES ('default')`,

	// Low-energy buffer step length became configurable
	`ALTER TABLE user_profile ADD COLUMN buffer_step_min INTEGER NOT NULL DEFAULT 15`,
}
