// Package testhelpers provides a migrated throwaway SQLite database for
// package tests. It only depends on pkg/db so that DAO tests can import it.
package testhelpers

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates a migrated database file under t.TempDir() and closes
// it when the test finishes.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, db.RunMigrations(path), "migrating test database")

	conn, err := db.Open(path)
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { db.Close(conn) })
	return conn
}

// MovieFixture inserts a movie with one scene per entry of pacings; each
// inner slice lists the pacing labels of that scene's variants in insert
// order. Scenes are inserted in reverse index order so callers can check
// ordering. It returns the movie id.
func MovieFixture(t *testing.T, conn *sqlx.DB, title string, pacings [][]string) int64 {
	t.Helper()
	ctx := context.Background()

	res, err := conn.ExecContext(ctx,
		`INSERT INTO Movie (title, scene_count) VALUES (?, ?)`, title, len(pacings))
	require.NoError(t, err)
	movieID, err := res.LastInsertId()
	require.NoError(t, err)

	for i := len(pacings) - 1; i >= 0; i-- {
		res, err := conn.ExecContext(ctx,
			`INSERT INTO Scene (movie_id, scene_index) VALUES (?, ?)`, movieID, i+1)
		require.NoError(t, err)
		sceneID, err := res.LastInsertId()
		require.NoError(t, err)

		for j, pacing := range pacings[i] {
			_, err := conn.ExecContext(ctx,
				`INSERT INTO SceneVariant (scene_id, variant_name, pacing, duration, file_path) VALUES (?, ?, ?, ?, ?)`,
				sceneID, fmt.Sprintf("V%d", j+1), pacing, 20, fmt.Sprintf("%s_s%d_v%d.mp4", title, i+1, j+1))
			require.NoError(t, err)
		}
	}
	return movieID
}

// UserFixture inserts a user with a placeholder hash and returns its id.
func UserFixture(t *testing.T, conn *sqlx.DB, username string) int64 {
	t.Helper()
	res, err := conn.ExecContext(context.Background(),
		`INSERT INTO User (username, password_hash, dob, sex) VALUES (?, 'x', '2000-01-01', 'Female')`, username)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
