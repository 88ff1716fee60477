package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

type SceneDAO struct {
	db *sqlx.DB
}

func NewSceneDAO(conn *sqlx.DB) *SceneDAO {
	return &SceneDAO{db: conn}
}

func (d *SceneDAO) Insert(ctx context.Context, scene *db.Scene) error {
	result, err := d.db.ExecContext(ctx,
		`INSERT INTO Scene (movie_id, scene_index) VALUES (?, ?)`, scene.MovieID, scene.SceneIndex)
	if err != nil {
		log.Errorf("Error creating scene %d for movie %d: %v", scene.SceneIndex, scene.MovieID, err)
		return wrap("insert scene", err)
	}
	id, err := insertedID(result)
	if err != nil {
		return err
	}
	scene.ID = id
	return nil
}

func (d *SceneDAO) GetByID(ctx context.Context, id int64) (*db.Scene, error) {
	scene := &db.Scene{}
	err := d.db.GetContext(ctx, scene, `SELECT scene_id, movie_id, scene_index FROM Scene WHERE scene_id = ?`, id)
	if err != nil {
		// sql.ErrNoRows is the usual way a missing record shows up.
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("Scene with ID %d not found.", id)
			return nil, nil
		}
		log.Errorf("Error finding scene by ID %d: %v", id, err)
		return nil, wrap("get scene by id", err)
	}
	return scene, nil
}

// ListByMovie returns the movie's scenes ordered by scene_index.
func (d *SceneDAO) ListByMovie(ctx context.Context, movieID int64) ([]db.Scene, error) {
	scenes := []db.Scene{}
	query := `SELECT scene_id, movie_id, scene_index FROM Scene WHERE movie_id = ? ORDER BY scene_index`
	if err := d.db.SelectContext(ctx, &scenes, query, movieID); err != nil {
		log.Errorf("Error finding scenes for movie %d: %v", movieID, err)
		return nil, wrap("list scenes by movie", err)
	}
	return scenes, nil
}
