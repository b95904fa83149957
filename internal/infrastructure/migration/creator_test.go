package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add outlets table", "add_outlets_table"},
		{"Add-Lease-Records", "add_lease_records"},
		{"ADD_CYLINDERS", "add_cylinders"},
		{"seed__settings__defaults", "seed_settings_defaults"},
		{"Add Index 2", "add_index_2"},
		{"   padded   ", "padded"},
		{"drop!@#$join", "dropjoin"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug(tt.input))
		})
	}
}

func TestScaffold(t *testing.T) {
	t.Run("writes a matching up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		pair, err := Scaffold(dir, "add refill records", "refill ledger table")
		require.NoError(t, err)

		// version is a 14-digit timestamp so pairs sort by creation
		assert.Len(t, pair.Version, 14)
		assert.True(t, strings.HasSuffix(pair.UpPath, ".up.sql"))
		assert.True(t, strings.HasSuffix(pair.DownPath, ".down.sql"))

		upBase := strings.TrimSuffix(filepath.Base(pair.UpPath), ".up.sql")
		downBase := strings.TrimSuffix(filepath.Base(pair.DownPath), ".down.sql")
		assert.Equal(t, upBase, downBase)

		up, err := os.ReadFile(pair.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "add refill records")
		assert.Contains(t, string(up), "refill ledger table")

		down, err := os.ReadFile(pair.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "revert: add refill records")
	})

	t.Run("creates the directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "db", "migrations")

		_, err := Scaffold(dir, "init schema", "")
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestList(t *testing.T) {
	seed := func(t *testing.T, dir string, names ...string) {
		t.Helper()
		for _, name := range names {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0o644))
		}
	}

	t.Run("lists each pair once, sorted", func(t *testing.T) {
		dir := t.TempDir()
		seed(t, dir,
			"000002_seed_default_settings.up.sql",
			"000002_seed_default_settings.down.sql",
			"000001_init_schema.up.sql",
			"000001_init_schema.down.sql",
		)

		names, err := List(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init_schema", "000002_seed_default_settings"}, names)
	})

	t.Run("ignores files that are not up migrations", func(t *testing.T) {
		dir := t.TempDir()
		seed(t, dir,
			"000001_init_schema.up.sql",
			"000001_init_schema.down.sql",
			"README.md",
			".gitkeep",
		)

		names, err := List(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init_schema"}, names)
	})

	t.Run("ignores directories", func(t *testing.T) {
		dir := t.TempDir()
		seed(t, dir, "000001_init_schema.up.sql")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0o755))

		names, err := List(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init_schema"}, names)
	})

	t.Run("missing directory lists as empty", func(t *testing.T) {
		names, err := List(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
