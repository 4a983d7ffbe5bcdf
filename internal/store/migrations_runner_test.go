package store

import (
	"io/fs"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sriramramnath/EducationOS/internal/store/migrations"
)

func TestListMigrationFiles(t *testing.T) {
	names, err := listMigrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, names, "at least the initial migration must be embedded")

	assert.True(t, sort.StringsAreSorted(names), "migrations must apply in name order")
	for _, name := range names {
		assert.True(t, strings.HasSuffix(name, ".sql"), "unexpected file %s", name)
	}
}

func TestEmbeddedMigrationsNotEmpty(t *testing.T) {
	names, err := listMigrationFiles()
	require.NoError(t, err)

	for _, name := range names {
		content, err := fs.ReadFile(migrations.Files, name)
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(string(content)), "%s is empty", name)
	}
}

func TestInitialMigrationCreatesCoreTables(t *testing.T) {
	content, err := fs.ReadFile(migrations.Files, "0001_init.sql")
	require.NoError(t, err)

	sql := string(content)
	for _, table := range []string{
		"users", "sessions", "social_apps", "social_tokens",
		"goals", "achievements", "time_entries", "habits", "habit_completions",
	} {
		assert.Contains(t, sql, "CREATE TABLE "+table, "missing table %s", table)
	}
	assert.Contains(t, sql, "UNIQUE (habit_id, date)")
}
