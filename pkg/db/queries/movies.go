package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

const movieColumns = `movie_id, title, release_year, duration, genres, rating, imdb_rating, scene_count`

type MovieDAO struct {
	db *sqlx.DB
}

func NewMovieDAO(conn *sqlx.DB) *MovieDAO {
	return &MovieDAO{db: conn}
}

// Insert creates a movie row and sets movie.ID. Optional columns are
// written as NULL when their sql.Null* wrapper is not valid.
func (d *MovieDAO) Insert(ctx context.Context, movie *db.Movie) error {
	query := `
		INSERT INTO Movie (title, release_year, duration, genres, rating, imdb_rating, scene_count)
		VALUES (:title, :release_year, :duration, :genres, :rating, :imdb_rating, :scene_count)`

	result, err := d.db.NamedExecContext(ctx, query, movie) // Named parameters bind from the db tags
	if err != nil {
		log.Errorf("Error creating movie '%s': %v", movie.Title, err)
		return wrap("insert movie", err)
	}
	id, err := insertedID(result)
	if err != nil {
		return err
	}
	movie.ID = id

	log.Infof("Movie '%s' created with ID: %d", movie.Title, movie.ID)
	return nil
}

func (d *MovieDAO) GetByID(ctx context.Context, id int64) (*db.Movie, error) {
	movie := &db.Movie{}
	err := d.db.GetContext(ctx, movie, `SELECT `+movieColumns+` FROM Movie WHERE movie_id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("Movie with ID %d not found.", id)
			return nil, nil // Not found is reported as nil, nil
		}
		log.Errorf("Error finding movie by ID %d: %v", id, err)
		return nil, wrap("get movie by id", err)
	}
	return movie, nil
}

func (d *MovieDAO) List(ctx context.Context) ([]db.Movie, error) {
	movies := []db.Movie{}
	if err := d.db.SelectContext(ctx, &movies, `SELECT `+movieColumns+` FROM Movie ORDER BY movie_id`); err != nil {
		log.Errorf("Error listing movies: %v", err)
		return nil, wrap("list movies", err)
	}
	return movies, nil
}

func (d *MovieDAO) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM Movie`); err != nil {
		log.Errorf("Error counting movies: %v", err)
		return 0, wrap("count movies", err)
	}
	return n, nil
}
