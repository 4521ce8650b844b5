package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_PreBufferStepSchema simulates a database created
// before buffer_step_min existed on user_profile. Migration must add the
// column with its default while preserving the stored profile.
func TestMigrate_UpgradePath_PreBufferStepSchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	_, err = db.Exec(`CREATE TABLE user_profile (
		id                 TEXT PRIMARY KEY DEFAULT 'default',
		strategic_pillars  TEXT NOT NULL DEFAULT '',
		day_start          TEXT NOT NULL DEFAULT '07:00',
		day_end            TEXT NOT NULL DEFAULT '22:00',
		default_buffer_min INTEGER NOT NULL DEFAULT 30,
		weight_urgency     REAL NOT NULL DEFAULT 0.4,
		weight_importance  REAL NOT NULL DEFAULT 0.3,
		weight_staleness   REAL NOT NULL DEFAULT 0.2,
		weight_type        REAL NOT NULL DEFAULT 0.1
	)`)
	require.NoError(t, err)

	// A customised legacy profile.
	_, err = db.Exec(`INSERT INTO user_profile (id, strategic_pillars, default_buffer_min) VALUES ('default', 'health,writing', 45)`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var pillars string
	var bufferMin, stepMin int
	err = db.QueryRow(`SELECT strategic_pillars, default_buffer_min, buffer_step_min FROM user_profile WHERE id = 'default'`).
		Scan(&pillars, &bufferMin, &stepMin)
	require.NoError(t, err)

	assert.Equal(t, "health,writing", pillars, "legacy data survives")
	assert.Equal(t, 45, bufferMin, "legacy data survives")
	assert.Equal(t, 15, stepMin, "new column gets its default")

	// Re-running is still safe.
	require.NoError(t, Migrate(db))
}
