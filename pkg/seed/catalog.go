// Package seed loads the demo movie catalogue into an empty database.
package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

type MovieWriter interface {
	Insert(ctx context.Context, movie *db.Movie) error
	Count(ctx context.Context) (int, error)
}

type SceneWriter interface {
	Insert(ctx context.Context, scene *db.Scene) error
}

type VariantWriter interface {
	Insert(ctx context.Context, variant *db.SceneVariant) error
}

// scores are pacing, intensity, dialogue density, action level,
// character focus and emotional tone.
type variantRow struct {
	scores   [6]float64
	duration int
}

type movieRow struct {
	title      string
	year       int64
	minutes    int64
	genres     string
	rating     string
	imdb       float64
	filePrefix string
	scenes     [][3]variantRow
}

var variantNames = [3]string{"Alpha", "Beta", "Gamma"}
var variantSuffixes = [3]string{"A", "B", "C"}

func v(pacing, intensity, dialogue, action, focus, tone float64, duration int) variantRow {
	return variantRow{scores: [6]float64{pacing, intensity, dialogue, action, focus, tone}, duration: duration}
}

var catalogue = []movieRow{
	{
		title: "The Edge of Tomorrow", year: 2014, minutes: 113, genres: `["action", "sci-fi"]`,
		rating: "PG-13", imdb: 7.9, filePrefix: "edge1",
		scenes: [][3]variantRow{
			{v(7.5, 8.2, 3.1, 9.0, 4.3, 1.2, 22), v(6.9, 7.8, 4.2, 8.5, 4.0, 0.8, 23), v(8.1, 8.7, 2.5, 9.3, 3.8, 1.6, 21)},
			{v(6.4, 6.5, 5.8, 7.2, 5.1, 0.2, 20), v(6.7, 6.9, 5.0, 7.0, 5.5, -0.3, 19), v(7.2, 7.1, 4.9, 6.8, 5.2, 0.1, 20)},
			{v(8.5, 9.0, 3.0, 9.5, 4.0, 2.0, 24), v(8.0, 8.7, 3.5, 9.0, 4.1, 1.7, 23), v(8.3, 9.2, 2.8, 9.6, 3.9, 2.2, 25)},
			{v(5.5, 6.0, 6.5, 6.0, 6.2, -0.5, 19), v(5.8, 6.3, 6.0, 6.2, 6.0, -0.2, 18), v(6.1, 6.7, 5.5, 6.4, 5.8, -0.3, 19)},
			{v(7.0, 7.5, 4.0, 8.0, 4.5, 1.0, 21), v(7.3, 7.8, 3.8, 8.2, 4.6, 1.1, 22), v(7.1, 7.6, 4.1, 8.1, 4.4, 0.9, 21)},
		},
	},
	{
		title: "Whispers in the Dark", year: 2021, minutes: 98, genres: `["drama", "thriller"]`,
		rating: "R", imdb: 7.2, filePrefix: "whispers",
		scenes: [][3]variantRow{
			{v(4.0, 4.5, 7.5, 2.5, 8.0, -2.0, 20), v(3.8, 4.1, 7.2, 2.8, 8.2, -1.5, 21), v(4.2, 4.6, 7.8, 2.6, 8.1, -2.1, 20)},
			{v(5.0, 5.5, 6.5, 3.5, 7.0, -1.0, 22), v(5.2, 5.7, 6.2, 3.7, 6.8, -0.8, 21), v(5.1, 5.6, 6.3, 3.6, 7.1, -0.9, 22)},
			{v(6.5, 6.0, 5.0, 4.0, 6.0, 0.0, 23), v(6.7, 6.2, 5.2, 4.2, 6.2, 0.1, 22), v(6.6, 6.1, 5.1, 4.1, 6.1, -0.1, 23)},
			{v(4.5, 5.0, 6.8, 3.0, 7.0, -1.2, 21), v(4.8, 5.2, 6.5, 3.2, 7.1, -1.3, 22), v(4.6, 5.1, 6.6, 3.1, 7.2, -1.1, 21)},
			{v(6.0, 6.5, 5.5, 4.5, 6.5, 0.5, 24), v(6.2, 6.7, 5.7, 4.7, 6.7, 0.4, 25), v(6.1, 6.6, 5.6, 4.6, 6.6, 0.6, 24)},
		},
	},
	{
		title: "Adventures of Pixel", year: 2023, minutes: 88, genres: `["animation", "comedy"]`,
		rating: "PG", imdb: 6.8, filePrefix: "pixel",
		scenes: [][3]variantRow{
			{v(7.0, 5.0, 6.5, 5.0, 5.5, 2.0, 20), v(7.2, 5.2, 6.3, 5.2, 5.6, 1.8, 21), v(7.1, 5.1, 6.4, 5.1, 5.7, 2.1, 20)},
			{v(6.0, 4.5, 7.0, 4.5, 6.0, 1.5, 22), v(6.3, 4.7, 6.8, 4.7, 6.1, 1.6, 21), v(6.1, 4.6, 6.9, 4.6, 6.2, 1.4, 22)},
			{v(8.0, 6.0, 5.5, 6.5, 4.5, 2.5, 23), v(7.8, 5.8, 5.6, 6.3, 4.6, 2.3, 24), v(7.9, 5.9, 5.7, 6.4, 4.7, 2.4, 23)},
			{v(5.5, 3.5, 7.5, 3.5, 7.0, 1.0, 20), v(5.8, 3.8, 7.3, 3.8, 7.1, 1.1, 19), v(5.6, 3.6, 7.4, 3.6, 7.2, 1.2, 20)},
			{v(6.5, 4.5, 6.5, 4.5, 6.5, 1.3, 22), v(6.8, 4.8, 6.3, 4.8, 6.6, 1.4, 21), v(6.6, 4.6, 6.4, 4.6, 6.7, 1.2, 22)},
		},
	},
}

// PacingLabel buckets a 0-10 pacing score into the label used for variant
// selection.
func PacingLabel(score float64) string {
	switch {
	case score < 5:
		return "slow"
	case score < 7:
		return "medium"
	default:
		return "fast"
	}
}

// LoadCatalogue inserts the demo catalogue when no movie exists yet. It
// reports whether anything was inserted.
func LoadCatalogue(ctx context.Context, movies MovieWriter, scenes SceneWriter, variants VariantWriter) (bool, error) {
	count, err := movies.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count movies: %w", err)
	}
	if count > 0 {
		log.Infof("Catalogue already has %d movies, skipping seed.", count)
		return false, nil
	}

	for _, row := range catalogue {
		if err := insertMovie(ctx, movies, scenes, variants, row); err != nil {
			return false, err
		}
	}
	log.Infof("Seeded demo catalogue with %d movies.", len(catalogue))
	return true, nil
}

func insertMovie(ctx context.Context, movies MovieWriter, scenes SceneWriter, variants VariantWriter, row movieRow) error {
	movie := &db.Movie{
		Title:       row.title,
		ReleaseYear: sql.NullInt64{Int64: row.year, Valid: true},
		Duration:    sql.NullInt64{Int64: row.minutes, Valid: true},
		Genres:      sql.NullString{String: row.genres, Valid: true},
		Rating:      sql.NullString{String: row.rating, Valid: true},
		ImdbRating:  sql.NullFloat64{Float64: row.imdb, Valid: true},
		SceneCount:  len(row.scenes),
	}
	if err := movies.Insert(ctx, movie); err != nil {
		return fmt.Errorf("failed to seed movie %q: %w", row.title, err)
	}

	for i, sceneVariants := range row.scenes {
		scene := &db.Scene{MovieID: movie.ID, SceneIndex: i + 1}
		if err := scenes.Insert(ctx, scene); err != nil {
			return fmt.Errorf("failed to seed scene %d of %q: %w", i+1, row.title, err)
		}
		for j, vr := range sceneVariants {
			variant := &db.SceneVariant{
				SceneID:         scene.ID,
				Name:            sql.NullString{String: variantNames[j], Valid: true},
				Pacing:          sql.NullString{String: PacingLabel(vr.scores[0]), Valid: true},
				PacingScore:     score(vr.scores[0]),
				IntensityScore:  score(vr.scores[1]),
				DialogueDensity: score(vr.scores[2]),
				ActionLevel:     score(vr.scores[3]),
				CharacterFocus:  score(vr.scores[4]),
				EmotionalTone:   score(vr.scores[5]),
				Duration:        vr.duration,
				FilePath:        fmt.Sprintf("%s_scene%d_%s.jpg", row.filePrefix, i+1, variantSuffixes[j]),
			}
			if err := variants.Insert(ctx, variant); err != nil {
				return fmt.Errorf("failed to seed variant %s of scene %d of %q: %w", variantNames[j], i+1, row.title, err)
			}
		}
	}
	return nil
}

func score(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}
