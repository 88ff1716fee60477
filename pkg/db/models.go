package db

import (
	"database/sql"
	"time"
)

// Accepted values for enumerated columns. The schema CHECK constraints
// mirror these lists.
var (
	Sexes       = []string{"Male", "Female", "Non-binary", "Prefer not to say"}
	Pacings     = []string{"slow", "medium", "fast"}
	DeviceTypes = []string{"mobile", "desktop", "tv"}
	Ratings     = []string{"G", "PG", "PG-13", "R"}
)

type User struct {
	ID                int64          `db:"user_id"`
	Username          string         `db:"username"`
	PasswordHash      string         `db:"password_hash"`
	DOB               string         `db:"dob"` // YYYY-MM-DD
	Sex               string         `db:"sex"`
	Openness          float64        `db:"openness"`
	Conscientiousness float64        `db:"conscientiousness"`
	Extraversion      float64        `db:"extraversion"`
	Agreeableness     float64        `db:"agreeableness"`
	Neuroticism       float64        `db:"neuroticism"`
	TotalWatchTime    int64          `db:"total_watch_time"`
	PreferredPacing   sql.NullString `db:"preferred_pacing"`
	FavouriteGenres   sql.NullString `db:"favourite_genres"`
	AvgSessionLength  float64        `db:"avg_session_length"`
	RegistrationDate  time.Time      `db:"registration_date"`
}

// Pacing returns the preferred pacing label, or "" when none is set.
func (u *User) Pacing() string {
	if u == nil || !u.PreferredPacing.Valid {
		return ""
	}
	return u.PreferredPacing.String
}

type Movie struct {
	ID          int64           `db:"movie_id"`
	Title       string          `db:"title"`
	ReleaseYear sql.NullInt64   `db:"release_year"`
	Duration    sql.NullInt64   `db:"duration"` // minutes
	Genres      sql.NullString  `db:"genres"`
	Rating      sql.NullString  `db:"rating"`
	ImdbRating  sql.NullFloat64 `db:"imdb_rating"`
	SceneCount  int             `db:"scene_count"`
}

type Scene struct {
	ID         int64 `db:"scene_id"`
	MovieID    int64 `db:"movie_id"`
	SceneIndex int   `db:"scene_index"`
}

// SceneVariant is one rendering of a scene. Pacing is the label used for
// selection; the *Score fields are optional numeric descriptors.
type SceneVariant struct {
	ID              int64           `db:"variant_id"`
	SceneID         int64           `db:"scene_id"`
	Name            sql.NullString  `db:"variant_name"`
	Pacing          sql.NullString  `db:"pacing"`
	Tone            sql.NullString  `db:"tone"`
	Emphasis        sql.NullString  `db:"emphasis"`
	PacingScore     sql.NullFloat64 `db:"pacing_score"`
	IntensityScore  sql.NullFloat64 `db:"intensity_score"`
	DialogueDensity sql.NullFloat64 `db:"dialogue_density"`
	ActionLevel     sql.NullFloat64 `db:"action_level"`
	CharacterFocus  sql.NullFloat64 `db:"character_focus"`
	EmotionalTone   sql.NullFloat64 `db:"emotional_tone"`
	Duration        int             `db:"duration"` // seconds
	FilePath        string          `db:"file_path"`
}

type ViewingSession struct {
	ID         int64          `db:"session_id"`
	UserID     int64          `db:"user_id"`
	MovieID    int64          `db:"movie_id"`
	StartTime  time.Time      `db:"start_time"`
	EndTime    sql.NullTime   `db:"end_time"`
	DeviceType sql.NullString `db:"device_type"`
	Completed  bool           `db:"completed"`
}

type SceneViewing struct {
	ID            int64     `db:"viewing_id"`
	SessionID     int64     `db:"session_id"`
	VariantID     int64     `db:"variant_id"`
	WatchDuration int       `db:"watch_duration"` // seconds
	DroppedOff    bool      `db:"dropped_off"`
	Timestamp     time.Time `db:"timestamp"`
}

type DropOff struct {
	ID          int64     `db:"drop_off_id"`
	UserID      int64     `db:"user_id"`
	VariantID   int64     `db:"variant_id"`
	DropOffTime time.Time `db:"drop_off_time"`
}

// TraitScores holds the five normalised Big Five scores in [0,1].
type TraitScores struct {
	Openness          float64 `db:"openness" json:"openness"`
	Conscientiousness float64 `db:"conscientiousness" json:"conscientiousness"`
	Extraversion      float64 `db:"extraversion" json:"extraversion"`
	Agreeableness     float64 `db:"agreeableness" json:"agreeableness"`
	Neuroticism       float64 `db:"neuroticism" json:"neuroticism"`
}

// Traits returns the user's stored trait scores.
func (u *User) Traits() TraitScores {
	return TraitScores{
		Openness:          u.Openness,
		Conscientiousness: u.Conscientiousness,
		Extraversion:      u.Extraversion,
		Agreeableness:     u.Agreeableness,
		Neuroticism:       u.Neuroticism,
	}
}
