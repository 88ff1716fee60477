package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ASHISH26940/fablemaze-api/pkg/apperrors"
	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

// SessionHistory is one viewing session with the segments watched in it.
type SessionHistory struct {
	Session  db.ViewingSession
	Viewings []db.SceneViewing
}

type ViewingService struct {
	sessions SessionStore
	viewings ViewingStore
	dropOffs DropOffStore
	variants VariantStore
	now      func() time.Time
}

func NewViewingService(sessions SessionStore, viewings ViewingStore, dropOffs DropOffStore, variants VariantStore) *ViewingService {
	return &ViewingService{
		sessions: sessions,
		viewings: viewings,
		dropOffs: dropOffs,
		variants: variants,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// StartSession opens a viewing session. deviceType may be empty.
func (s *ViewingService) StartSession(ctx context.Context, sess *Session, movieID int64, deviceType string) (*db.ViewingSession, error) {
	if !sess.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	deviceType = strings.ToLower(strings.TrimSpace(deviceType))
	if deviceType != "" && !slices.Contains(db.DeviceTypes, deviceType) {
		return nil, Rejection("Device type must be one of: " + strings.Join(db.DeviceTypes, ", "))
	}

	vs := &db.ViewingSession{
		UserID:     sess.User.ID,
		MovieID:    movieID,
		StartTime:  s.now(),
		DeviceType: sql.NullString{String: deviceType, Valid: deviceType != ""},
	}
	if err := s.sessions.Insert(ctx, vs); err != nil {
		return nil, err
	}
	return vs, nil
}

// RecordSceneViewing logs one watched segment and adds its duration to the
// user's total. A dropped-off segment also records a DropOff event. All three
// writes commit together; on error nothing was stored.
func (s *ViewingService) RecordSceneViewing(ctx context.Context, sess *Session, sessionID, variantID int64, watchSeconds int, droppedOff bool) (*db.SceneViewing, error) {
	if watchSeconds < 0 {
		return nil, Rejection("Watch duration cannot be negative!")
	}
	if _, err := s.ownedSession(ctx, sess, sessionID); err != nil {
		return nil, err
	}

	now := s.now()
	viewing := &db.SceneViewing{
		SessionID:     sessionID,
		VariantID:     variantID,
		WatchDuration: watchSeconds,
		DroppedOff:    droppedOff,
		Timestamp:     now,
	}
	var dropOff *db.DropOff
	if droppedOff {
		dropOff = &db.DropOff{UserID: sess.User.ID, VariantID: variantID, DropOffTime: now}
	}
	if err := s.viewings.Record(ctx, viewing, sess.User.ID, dropOff); err != nil {
		return nil, err
	}

	sess.User.TotalWatchTime += int64(watchSeconds)
	if dropOff != nil {
		log.Infof("User %d dropped off variant %d.", sess.User.ID, variantID)
	}
	return viewing, nil
}

// RecordDropOff logs that the user abandoned a variant.
func (s *ViewingService) RecordDropOff(ctx context.Context, sess *Session, variantID int64) (*db.DropOff, error) {
	if !sess.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	variant, err := s.variants.GetByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, fmt.Errorf("variant %d: %w", variantID, apperrors.ErrNotFound)
	}
	return s.recordDropOff(ctx, sess.User.ID, variantID, s.now())
}

// EndSession closes one of the user's sessions.
func (s *ViewingService) EndSession(ctx context.Context, sess *Session, sessionID int64, completed bool) (*db.ViewingSession, error) {
	vs, err := s.ownedSession(ctx, sess, sessionID)
	if err != nil {
		return nil, err
	}
	end := s.now()
	if err := s.sessions.End(ctx, sessionID, end, completed); err != nil {
		return nil, err
	}
	vs.EndTime = sql.NullTime{Time: end, Valid: true}
	vs.Completed = completed
	return vs, nil
}

// History returns the user's sessions, newest first, with their segments.
func (s *ViewingService) History(ctx context.Context, sess *Session) ([]SessionHistory, error) {
	if !sess.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	sessions, err := s.sessions.ListByUser(ctx, sess.User.ID)
	if err != nil {
		return nil, err
	}
	history := make([]SessionHistory, 0, len(sessions))
	for _, vs := range sessions {
		viewings, err := s.viewings.ListBySession(ctx, vs.ID)
		if err != nil {
			return nil, err
		}
		history = append(history, SessionHistory{Session: vs, Viewings: viewings})
	}
	return history, nil
}

func (s *ViewingService) DropOffs(ctx context.Context, sess *Session) ([]db.DropOff, error) {
	if !sess.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return s.dropOffs.ListByUser(ctx, sess.User.ID)
}

func (s *ViewingService) recordDropOff(ctx context.Context, userID, variantID int64, at time.Time) (*db.DropOff, error) {
	d := &db.DropOff{UserID: userID, VariantID: variantID, DropOffTime: at}
	if err := s.dropOffs.Insert(ctx, d); err != nil {
		return nil, err
	}
	log.Infof("User %d dropped off variant %d.", userID, variantID)
	return d, nil
}

// ownedSession loads a session and hides sessions of other users behind
// ErrNotFound.
func (s *ViewingService) ownedSession(ctx context.Context, sess *Session, sessionID int64) (*db.ViewingSession, error) {
	if !sess.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	vs, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if vs == nil || vs.UserID != sess.User.ID {
		return nil, fmt.Errorf("viewing session %d: %w", sessionID, apperrors.ErrNotFound)
	}
	return vs, nil
}
