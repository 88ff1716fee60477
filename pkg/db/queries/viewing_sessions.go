package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

const sessionColumns = `session_id, user_id, movie_id, start_time, end_time, device_type, completed`

type ViewingSessionDAO struct {
	db *sqlx.DB
}

func NewViewingSessionDAO(conn *sqlx.DB) *ViewingSessionDAO {
	return &ViewingSessionDAO{db: conn}
}

func (d *ViewingSessionDAO) Insert(ctx context.Context, session *db.ViewingSession) error {
	query := `
		INSERT INTO ViewingSession (user_id, movie_id, start_time, end_time, device_type, completed)
		VALUES (:user_id, :movie_id, :start_time, :end_time, :device_type, :completed)`

	// A NULL device_type comes from the sql.NullString field being invalid.
	result, err := d.db.NamedExecContext(ctx, query, session)
	if err != nil {
		log.Errorf("Error creating viewing session for user %d, movie %d: %v", session.UserID, session.MovieID, err)
		return wrap("insert viewing session", err)
	}
	id, err := insertedID(result)
	if err != nil {
		return err
	}
	session.ID = id

	log.Infof("Viewing session %d started for user %d.", session.ID, session.UserID)
	return nil
}

func (d *ViewingSessionDAO) GetByID(ctx context.Context, id int64) (*db.ViewingSession, error) {
	session := &db.ViewingSession{}
	err := d.db.GetContext(ctx, session, `SELECT `+sessionColumns+` FROM ViewingSession WHERE session_id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("Viewing session with ID %d not found.", id)
			return nil, nil // The service decides whether a missing session is a 404
		}
		log.Errorf("Error finding viewing session by ID %d: %v", id, err)
		return nil, wrap("get viewing session by id", err)
	}
	return session, nil
}

func (d *ViewingSessionDAO) List(ctx context.Context) ([]db.ViewingSession, error) {
	sessions := []db.ViewingSession{}
	if err := d.db.SelectContext(ctx, &sessions, `SELECT `+sessionColumns+` FROM ViewingSession ORDER BY session_id`); err != nil {
		log.Errorf("Error listing viewing sessions: %v", err)
		return nil, wrap("list viewing sessions", err)
	}
	return sessions, nil
}

// ListByUser returns the user's sessions, most recent first.
func (d *ViewingSessionDAO) ListByUser(ctx context.Context, userID int64) ([]db.ViewingSession, error) {
	sessions := []db.ViewingSession{}
	query := `SELECT ` + sessionColumns + ` FROM ViewingSession WHERE user_id = ? ORDER BY start_time DESC, session_id DESC`
	if err := d.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		log.Errorf("Error listing viewing sessions for user %d: %v", userID, err)
		return nil, wrap("list viewing sessions by user", err)
	}
	return sessions, nil
}

// End records the end of a session. Calling it twice overwrites the
// previous end time.
func (d *ViewingSessionDAO) End(ctx context.Context, id int64, endTime time.Time, completed bool) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE ViewingSession SET end_time = ?, completed = ? WHERE session_id = ?`, endTime, completed, id)
	if err != nil {
		log.Errorf("Error ending viewing session %d: %v", id, err)
		return wrap("end viewing session", err)
	}
	// Zero rows means the id was unknown; SQLite does not error on that by itself.
	if err := requireRow(result, "viewing session", id); err != nil {
		return err
	}

	log.Infof("Viewing session %d ended (completed=%t).", id, completed)
	return nil
}
