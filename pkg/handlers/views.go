package handlers

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/ASHISH26940/fablemaze-api/pkg/services"
)

// JSON shapes of the stored records. NULL columns become omitted fields.

type userView struct {
	ID               int64          `json:"user_id"`
	Username         string         `json:"username"`
	DOB              string         `json:"dob"`
	Sex              string         `json:"sex"`
	Traits           db.TraitScores `json:"traits"`
	TotalWatchTime   int64          `json:"total_watch_time"`
	PreferredPacing  *string        `json:"preferred_pacing,omitempty"`
	RegistrationDate time.Time      `json:"registration_date"`
}

type movieView struct {
	ID          int64           `json:"movie_id"`
	Title       string          `json:"title"`
	ReleaseYear *int64          `json:"release_year,omitempty"`
	Duration    *int64          `json:"duration,omitempty"`
	Genres      json.RawMessage `json:"genres,omitempty"`
	Rating      *string         `json:"rating,omitempty"`
	ImdbRating  *float64        `json:"imdb_rating,omitempty"`
	SceneCount  int             `json:"scene_count"`
}

type variantView struct {
	ID              int64    `json:"variant_id"`
	SceneID         int64    `json:"scene_id"`
	Name            *string  `json:"variant_name,omitempty"`
	Pacing          *string  `json:"pacing,omitempty"`
	Tone            *string  `json:"tone,omitempty"`
	Emphasis        *string  `json:"emphasis,omitempty"`
	PacingScore     *float64 `json:"pacing_score,omitempty"`
	IntensityScore  *float64 `json:"intensity_score,omitempty"`
	DialogueDensity *float64 `json:"dialogue_density,omitempty"`
	ActionLevel     *float64 `json:"action_level,omitempty"`
	CharacterFocus  *float64 `json:"character_focus,omitempty"`
	EmotionalTone   *float64 `json:"emotional_tone,omitempty"`
	Duration        int      `json:"duration"`
	FilePath        string   `json:"file_path"`
}

type sessionView struct {
	ID         int64      `json:"session_id"`
	MovieID    int64      `json:"movie_id"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	DeviceType *string    `json:"device_type,omitempty"`
	Completed  bool       `json:"completed"`
}

type viewingView struct {
	ID            int64     `json:"viewing_id"`
	SessionID     int64     `json:"session_id"`
	VariantID     int64     `json:"variant_id"`
	WatchDuration int       `json:"watch_duration"`
	DroppedOff    bool      `json:"dropped_off"`
	Timestamp     time.Time `json:"timestamp"`
}

type dropOffView struct {
	ID          int64     `json:"drop_off_id"`
	VariantID   int64     `json:"variant_id"`
	DropOffTime time.Time `json:"drop_off_time"`
}

type historyView struct {
	sessionView
	Viewings []viewingView `json:"viewings"`
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullInt(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	return &ni.Int64
}

func nullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Float64
}

func newUserView(u *db.User) userView {
	return userView{
		ID:               u.ID,
		Username:         u.Username,
		DOB:              u.DOB,
		Sex:              u.Sex,
		Traits:           u.Traits(),
		TotalWatchTime:   u.TotalWatchTime,
		PreferredPacing:  nullString(u.PreferredPacing),
		RegistrationDate: u.RegistrationDate,
	}
}

func newMovieView(m db.Movie) movieView {
	view := movieView{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseYear: nullInt(m.ReleaseYear),
		Duration:    nullInt(m.Duration),
		Rating:      nullString(m.Rating),
		ImdbRating:  nullFloat(m.ImdbRating),
		SceneCount:  m.SceneCount,
	}
	// genres is stored as a JSON array; anything else is passed as a string.
	if m.Genres.Valid {
		if json.Valid([]byte(m.Genres.String)) {
			view.Genres = json.RawMessage(m.Genres.String)
		} else if quoted, err := json.Marshal(m.Genres.String); err == nil {
			view.Genres = quoted
		}
	}
	return view
}

func newVariantView(v db.SceneVariant) variantView {
	return variantView{
		ID:              v.ID,
		SceneID:         v.SceneID,
		Name:            nullString(v.Name),
		Pacing:          nullString(v.Pacing),
		Tone:            nullString(v.Tone),
		Emphasis:        nullString(v.Emphasis),
		PacingScore:     nullFloat(v.PacingScore),
		IntensityScore:  nullFloat(v.IntensityScore),
		DialogueDensity: nullFloat(v.DialogueDensity),
		ActionLevel:     nullFloat(v.ActionLevel),
		CharacterFocus:  nullFloat(v.CharacterFocus),
		EmotionalTone:   nullFloat(v.EmotionalTone),
		Duration:        v.Duration,
		FilePath:        v.FilePath,
	}
}

func newSessionView(s *db.ViewingSession) sessionView {
	view := sessionView{
		ID:         s.ID,
		MovieID:    s.MovieID,
		StartTime:  s.StartTime,
		DeviceType: nullString(s.DeviceType),
		Completed:  s.Completed,
	}
	if s.EndTime.Valid {
		end := s.EndTime.Time
		view.EndTime = &end
	}
	return view
}

func newViewingView(v *db.SceneViewing) viewingView {
	return viewingView{
		ID:            v.ID,
		SessionID:     v.SessionID,
		VariantID:     v.VariantID,
		WatchDuration: v.WatchDuration,
		DroppedOff:    v.DroppedOff,
		Timestamp:     v.Timestamp,
	}
}

func newDropOffView(d *db.DropOff) dropOffView {
	return dropOffView{ID: d.ID, VariantID: d.VariantID, DropOffTime: d.DropOffTime}
}

func newHistoryView(h services.SessionHistory) historyView {
	view := historyView{
		sessionView: newSessionView(&h.Session),
		Viewings:    make([]viewingView, 0, len(h.Viewings)),
	}
	for i := range h.Viewings {
		view.Viewings = append(view.Viewings, newViewingView(&h.Viewings[i]))
	}
	return view
}
