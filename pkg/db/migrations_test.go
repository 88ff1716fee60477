package db_test

import (
	"path/filepath"
	"testing"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableNames(t *testing.T, path string) []string {
	t.Helper()
	conn, err := db.Open(path)
	require.NoError(t, err)
	defer db.Close(conn)

	var names []string
	require.NoError(t, conn.Select(&names,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`))
	return names
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")

	require.NoError(t, db.RunMigrations(path))
	require.NoError(t, db.RunMigrations(path))

	assert.Equal(t, []string{
		"DropOff", "Movie", "Scene", "SceneVariant", "SceneViewing",
		"User", "ViewingSession", "schema_migrations",
	}, tableNames(t, path))
}

func TestRunMigrations_PreservesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	require.NoError(t, db.RunMigrations(path))

	conn, err := db.Open(path)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO Movie (title, scene_count) VALUES ('kept', 1)`)
	require.NoError(t, err)
	db.Close(conn)

	require.NoError(t, db.PrepareSchema(path, false))

	conn, err = db.Open(path)
	require.NoError(t, err)
	defer db.Close(conn)
	var n int
	require.NoError(t, conn.Get(&n, `SELECT COUNT(*) FROM Movie`))
	assert.Equal(t, 1, n)
}

func TestResetSchema_DropsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	require.NoError(t, db.RunMigrations(path))

	conn, err := db.Open(path)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO Movie (title, scene_count) VALUES ('gone', 1)`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO Scene (movie_id, scene_index) VALUES (1, 1)`)
	require.NoError(t, err)
	db.Close(conn)

	require.NoError(t, db.PrepareSchema(path, true))

	conn, err = db.Open(path)
	require.NoError(t, err)
	defer db.Close(conn)
	var n int
	require.NoError(t, conn.Get(&n, `SELECT COUNT(*) FROM Movie`))
	assert.Zero(t, n)
	assert.Contains(t, tableNames(t, path), "SceneVariant")
}

func TestOpen_EnforcesForeignKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	require.NoError(t, db.RunMigrations(path))

	conn, err := db.Open(path)
	require.NoError(t, err)
	defer db.Close(conn)

	var enabled int
	require.NoError(t, conn.Get(&enabled, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, enabled)

	_, err = conn.Exec(`INSERT INTO Scene (movie_id, scene_index) VALUES (404, 1)`)
	assert.Error(t, err)
}
