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

const userColumns = `user_id, username, password_hash, dob, sex,
	openness, conscientiousness, extraversion, agreeableness, neuroticism,
	total_watch_time, preferred_pacing, favourite_genres, avg_session_length, registration_date`

type UserDAO struct {
	db *sqlx.DB
}

func NewUserDAO(conn *sqlx.DB) *UserDAO {
	return &UserDAO{db: conn}
}

// Insert creates a user row and sets user.ID to the generated key.
// Trait scores and watch statistics start at their column defaults.
func (d *UserDAO) Insert(ctx context.Context, user *db.User) error {
	if user.RegistrationDate.IsZero() {
		user.RegistrationDate = time.Now().UTC()
	}

	query := `
		INSERT INTO User (username, password_hash, dob, sex, preferred_pacing, favourite_genres, registration_date)
		VALUES (:username, :password_hash, :dob, :sex, :preferred_pacing, :favourite_genres, :registration_date)`

	// NamedExecContext fills the :name placeholders from the struct's db tags.
	result, err := d.db.NamedExecContext(ctx, query, user)
	if err != nil {
		log.Errorf("Error creating user '%s': %v", user.Username, err)
		return wrap("insert user", err)
	}
	id, err := insertedID(result)
	if err != nil {
		log.Errorf("Error reading id of new user '%s': %v", user.Username, err)
		return err
	}
	user.ID = id

	log.Infof("User %s created with ID: %d", user.Username, user.ID)
	return nil
}

// GetByID returns nil, nil when no user has the given id.
func (d *UserDAO) GetByID(ctx context.Context, id int64) (*db.User, error) {
	user := &db.User{}
	query := `SELECT ` + userColumns + ` FROM User WHERE user_id = ?`
	err := d.db.GetContext(ctx, user, query, id) // GetContext scans exactly one row
	if err != nil {
		// A missing row comes back as sql.ErrNoRows, not as an empty struct.
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("User with ID %d not found.", id)
			return nil, nil // nil, nil means "no such user" without an error
		}
		log.Errorf("Error finding user by ID %d: %v", id, err)
		return nil, wrap("get user by id", err)
	}
	return user, nil
}

// GetByUsername returns nil, nil when the username is unknown.
func (d *UserDAO) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	user := &db.User{}
	query := `SELECT ` + userColumns + ` FROM User WHERE username = ?`
	err := d.db.GetContext(ctx, user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("User with username '%s' not found.", username)
			return nil, nil // Login and SignUp both rely on this to tell "unknown" from a failure
		}
		log.Errorf("Error finding user by username '%s': %v", username, err)
		return nil, wrap("get user by username", err)
	}
	return user, nil
}

func (d *UserDAO) List(ctx context.Context) ([]db.User, error) {
	users := []db.User{} // Non-nil so an empty table encodes as [] rather than null
	query := `SELECT ` + userColumns + ` FROM User ORDER BY user_id`
	if err := d.db.SelectContext(ctx, &users, query); err != nil {
		log.Errorf("Error listing users: %v", err)
		return nil, wrap("list users", err)
	}
	return users, nil
}

// SetTraits stores all five trait scores in a single UPDATE.
// It returns apperrors.ErrNotFound when the user does not exist.
func (d *UserDAO) SetTraits(ctx context.Context, userID int64, scores db.TraitScores) error {
	query := `
		UPDATE User
		SET openness = ?, conscientiousness = ?, extraversion = ?, agreeableness = ?, neuroticism = ?
		WHERE user_id = ?`

	result, err := d.db.ExecContext(ctx, query,
		scores.Openness, scores.Conscientiousness, scores.Extraversion,
		scores.Agreeableness, scores.Neuroticism, userID)
	if err != nil {
		log.Errorf("Error setting traits for user %d: %v", userID, err)
		return wrap("set user traits", err)
	}
	// SQLite does not fail an UPDATE that matches nothing, so count the rows.
	if err := requireRow(result, "user", userID); err != nil {
		return err
	}

	log.Infof("Traits for user %d updated.", userID)
	return nil
}

// SetPreferredPacing stores the pacing label used for variant selection.
func (d *UserDAO) SetPreferredPacing(ctx context.Context, userID int64, pacing string) error {
	result, err := d.db.ExecContext(ctx, `UPDATE User SET preferred_pacing = ? WHERE user_id = ?`, pacing, userID)
	if err != nil {
		log.Errorf("Error setting preferred pacing for user %d: %v", userID, err)
		return wrap("set preferred pacing", err)
	}
	return requireRow(result, "user", userID)
}

// AddWatchTime adds seconds to the user's running total_watch_time.
func (d *UserDAO) AddWatchTime(ctx context.Context, userID int64, seconds int) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE User SET total_watch_time = total_watch_time + ? WHERE user_id = ?`, seconds, userID)
	if err != nil {
		log.Errorf("Error adding watch time for user %d: %v", userID, err)
		return wrap("add watch time", err)
	}
	return requireRow(result, "user", userID)
}

// SetPasswordHash replaces the stored hash, e.g. when upgrading a legacy digest.
func (d *UserDAO) SetPasswordHash(ctx context.Context, userID int64, hash string) error {
	result, err := d.db.ExecContext(ctx, `UPDATE User SET password_hash = ? WHERE user_id = ?`, hash, userID)
	if err != nil {
		log.Errorf("Error updating password hash for user %d: %v", userID, err)
		return wrap("set password hash", err)
	}
	return requireRow(result, "user", userID)
}
