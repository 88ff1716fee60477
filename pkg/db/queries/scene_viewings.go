package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

const viewingColumns = `viewing_id, session_id, variant_id, watch_duration, dropped_off, timestamp`

type SceneViewingDAO struct {
	db *sqlx.DB
}

func NewSceneViewingDAO(conn *sqlx.DB) *SceneViewingDAO {
	return &SceneViewingDAO{db: conn}
}

func (d *SceneViewingDAO) Insert(ctx context.Context, viewing *db.SceneViewing) error {
	query := `
		INSERT INTO SceneViewing (session_id, variant_id, watch_duration, dropped_off, timestamp)
		VALUES (:session_id, :variant_id, :watch_duration, :dropped_off, :timestamp)`

	result, err := d.db.NamedExecContext(ctx, query, viewing) // Uses the db tags on SceneViewing
	if err != nil {
		log.Errorf("Error creating scene viewing for session %d: %v", viewing.SessionID, err)
		return wrap("insert scene viewing", err)
	}
	id, err := insertedID(result)
	if err != nil {
		return err
	}
	viewing.ID = id
	return nil
}

// Record stores a watched segment together with its side effects in one
// transaction: the segment row, the user's total_watch_time and, when dropOff
// is non-nil, the drop-off event. Either all of it lands or none of it does,
// so a failed call can be retried without duplicating the segment.
func (d *SceneViewingDAO) Record(ctx context.Context, viewing *db.SceneViewing, userID int64, dropOff *db.DropOff) (err error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Roll back on any error below; after a successful Commit this is a no-op.
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Errorf("Rollback of scene viewing for session %d failed: %v", viewing.SessionID, rbErr)
			}
		}
	}()

	result, err := tx.NamedExecContext(ctx, `
		INSERT INTO SceneViewing (session_id, variant_id, watch_duration, dropped_off, timestamp)
		VALUES (:session_id, :variant_id, :watch_duration, :dropped_off, :timestamp)`, viewing)
	if err != nil {
		log.Errorf("Error creating scene viewing for session %d: %v", viewing.SessionID, err)
		return wrap("insert scene viewing", err)
	}
	viewingID, err := insertedID(result)
	if err != nil {
		return err
	}

	// Zero seconds still runs the UPDATE so an unknown user fails the whole record.
	result, err = tx.ExecContext(ctx,
		`UPDATE User SET total_watch_time = total_watch_time + ? WHERE user_id = ?`, viewing.WatchDuration, userID)
	if err != nil {
		log.Errorf("Error adding watch time for user %d: %v", userID, err)
		return wrap("add watch time", err)
	}
	if err = requireRow(result, "user", userID); err != nil {
		return err
	}

	var dropOffID int64
	if dropOff != nil {
		result, err = tx.ExecContext(ctx,
			`INSERT INTO DropOff (user_id, variant_id, drop_off_time) VALUES (?, ?, ?)`,
			dropOff.UserID, dropOff.VariantID, dropOff.DropOffTime)
		if err != nil {
			log.Errorf("Error recording drop-off for user %d, variant %d: %v", dropOff.UserID, dropOff.VariantID, err)
			return wrap("insert drop-off", err)
		}
		if dropOffID, err = insertedID(result); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		log.Errorf("Error committing scene viewing for session %d: %v", viewing.SessionID, err)
		return wrap("commit scene viewing", err)
	}
	// IDs are only handed out once the rows are durable.
	viewing.ID = viewingID
	if dropOff != nil {
		dropOff.ID = dropOffID
	}
	return nil
}

func (d *SceneViewingDAO) GetByID(ctx context.Context, id int64) (*db.SceneViewing, error) {
	viewing := &db.SceneViewing{}
	err := d.db.GetContext(ctx, viewing, `SELECT `+viewingColumns+` FROM SceneViewing WHERE viewing_id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("Scene viewing with ID %d not found.", id)
			return nil, nil // Absent segment: no row, no error
		}
		log.Errorf("Error finding scene viewing by ID %d: %v", id, err)
		return nil, wrap("get scene viewing by id", err)
	}
	return viewing, nil
}

func (d *SceneViewingDAO) List(ctx context.Context) ([]db.SceneViewing, error) {
	viewings := []db.SceneViewing{}
	if err := d.db.SelectContext(ctx, &viewings, `SELECT `+viewingColumns+` FROM SceneViewing ORDER BY viewing_id`); err != nil {
		log.Errorf("Error listing scene viewings: %v", err)
		return nil, wrap("list scene viewings", err)
	}
	return viewings, nil
}

// ListBySession returns the segments watched in a session in playback order.
func (d *SceneViewingDAO) ListBySession(ctx context.Context, sessionID int64) ([]db.SceneViewing, error) {
	viewings := []db.SceneViewing{}
	query := `SELECT ` + viewingColumns + ` FROM SceneViewing WHERE session_id = ? ORDER BY timestamp, viewing_id`
	if err := d.db.SelectContext(ctx, &viewings, query, sessionID); err != nil {
		log.Errorf("Error listing scene viewings for session %d: %v", sessionID, err)
		return nil, wrap("list scene viewings by session", err)
	}
	return viewings, nil
}
