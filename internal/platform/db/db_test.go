package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gourmetto/internal/domain/notify"
)

func TestMigrationsAreGooseFiles(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		raw, err := fs.ReadFile(migrationsFS, "migrations/"+entry.Name())
		require.NoError(t, err)
		body := string(raw)
		assert.True(t, strings.HasPrefix(body, "-- +goose Up"), entry.Name())
		assert.Contains(t, body, "-- +goose Down", entry.Name())
	}
}

// Every column the remediation script can add must also be created by
// the migrations, or a fresh install would start out drifted.
func TestMigrationsCoverRemediationColumns(t *testing.T) {
	raw, err := fs.ReadFile(migrationsFS, "migrations/00001_init.sql")
	require.NoError(t, err)
	migration := string(raw)

	for _, line := range strings.Split(notify.RemediationScript(), "\n") {
		const marker = "ADD COLUMN IF NOT EXISTS "
		idx := strings.Index(line, marker)
		if idx < 0 {
			continue
		}
		column := strings.Fields(line[idx+len(marker):])[0]
		assert.Contains(t, migration, "    "+column+" ", column)
	}
}

// The reverse holds too: a store created before a column existed must be
// repairable, so every migrated column has an ADD COLUMN line.
func TestRemediationAddsEveryMigratedColumn(t *testing.T) {
	raw, err := fs.ReadFile(migrationsFS, "migrations/00001_init.sql")
	require.NoError(t, err)
	script := notify.RemediationScript()

	for _, line := range strings.Split(string(raw), "\n") {
		if !strings.HasPrefix(line, "    ") {
			continue
		}
		column := strings.Fields(line)[0]
		if column == "id" {
			continue
		}
		assert.Contains(t, script, "ADD COLUMN IF NOT EXISTS "+column+" ", column)
	}
}
