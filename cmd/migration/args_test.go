package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{" 3 "})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	assert.Error(t, err)

	_, err = parseSteps([]string{"two"})
	assert.Error(t, err)
}

func TestParseVersionAndTarget(t *testing.T) {
	version, err := parseVersion("7")
	require.NoError(t, err)
	assert.Equal(t, 7, version)

	_, err = parseVersion("-1")
	assert.Error(t, err)

	target, err := parseTarget("12")
	require.NoError(t, err)
	assert.Equal(t, uint(12), target)

	_, err = parseTarget("-2")
	assert.Error(t, err)
}

func TestNormalizeDBURL(t *testing.T) {
	got := normalizeDBURL("postgres://u:p@localhost:5432/castaway_league?sslmode=disable", "castaway-league-migration")
	assert.Contains(t, got, "application_name=castaway-league-migration")
	assert.Contains(t, got, "sslmode=disable")

	dsn := "host=localhost dbname=castaway_league"
	assert.Equal(t, dsn, normalizeDBURL(dsn, "castaway-league-migration"))
}

func TestResolveMigrationsDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MIGRATIONS_DIR", "")
	t.Setenv("MIGRATIONS_PATH", "")

	got, err := resolveMigrationsDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = resolveDir("migration", filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration directory not found")
}

func TestResolveMigrationsDir_FromEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sql"), 0o755))
	t.Setenv("MIGRATIONS_DIR", filepath.Join(dir, "sql"))

	got, err := resolveMigrationsDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sql"), got)
}
