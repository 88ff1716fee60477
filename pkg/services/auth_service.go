package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/ASHISH26940/fablemaze-api/pkg/apperrors"
	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

const dobLayout = "2006-01-02"

type SignUpInput struct {
	Username string
	Password string
	DOB      time.Time
	Sex      string
}

type AuthService struct {
	users UserStore
	now   func() time.Time
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users, now: time.Now}
}

// Login checks the credentials and returns a fresh session for the user.
// Failures the user should see are Rejection values.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		log.Errorf("Login: error finding user '%s': %v", username, err)
		return nil, err
	}
	if user == nil {
		log.Debugf("Login: user '%s' not found.", username)
		return nil, ErrAccountNotFound
	}

	ok, legacy := CheckPassword(user.PasswordHash, password)
	if !ok {
		log.Debugf("Login: invalid password for user '%s'.", username)
		return nil, ErrInvalidPassword
	}
	if legacy {
		s.upgradeHash(ctx, user, password)
	}

	log.Infof("User %s logged in successfully.", user.Username)
	return NewSession(user), nil
}

// SignUp creates the account and returns a session for it.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := s.validate(in); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		log.Errorf("SignUp: error finding user '%s': %v", in.Username, err)
		return nil, errors.Join(ErrSignUpFailed, err)
	}
	if existing != nil {
		log.Debugf("SignUp: username '%s' already exists.", in.Username)
		return nil, ErrUsernameTaken
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		log.Errorf("SignUp: error hashing password: %v", err)
		return nil, errors.Join(ErrSignUpFailed, err)
	}

	user := &db.User{
		Username:     in.Username,
		PasswordHash: hash,
		DOB:          in.DOB.Format(dobLayout),
		Sex:          in.Sex,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		// Lost a race with a concurrent signup for the same name.
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, errors.Join(ErrSignUpFailed, err)
	}

	log.Infof("User with ID %d signed up.", user.ID)
	return NewSession(user), nil
}

// SessionFor rebuilds a session for an already authenticated user id. The
// session starts with an empty answer accumulator every time.
func (s *AuthService) SessionFor(ctx context.Context, userID int64) (*Session, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}
	return NewSession(user), nil
}

func (s *AuthService) validate(in SignUpInput) error {
	if in.Username == "" {
		return Rejection("Username is required!")
	}
	if in.Password == "" {
		return Rejection("Password is required!")
	}
	if in.DOB.IsZero() {
		return Rejection("Date of birth is required!")
	}
	if in.DOB.After(s.now()) {
		return Rejection("Date of birth cannot be in the future!")
	}
	if !slices.Contains(db.Sexes, in.Sex) {
		return Rejection("Sex must be one of: " + strings.Join(db.Sexes, ", "))
	}
	return nil
}

// upgradeHash replaces a legacy digest with bcrypt. Failure only costs the
// upgrade, so it is logged and the login proceeds.
func (s *AuthService) upgradeHash(ctx context.Context, user *db.User, password string) {
	hash, err := HashPassword(password)
	if err != nil {
		log.Warnf("Could not rehash legacy password for user %d: %v", user.ID, err)
		return
	}
	if err := s.users.SetPasswordHash(ctx, user.ID, hash); err != nil {
		log.Warnf("Could not store upgraded password hash for user %d: %v", user.ID, err)
		return
	}
	user.PasswordHash = hash
	log.Infof("Upgraded legacy password hash for user %d.", user.ID)
}

// ParseDOB parses a YYYY-MM-DD date of birth.
func ParseDOB(value string) (time.Time, error) {
	t, err := time.Parse(dobLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, Rejection("Date of birth must be a valid date (YYYY-MM-DD)!")
	}
	return t, nil
}
