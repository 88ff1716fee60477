package services

import (
	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/ASHISH26940/fablemaze-api/pkg/profile"
)

// Session is the signed-in user plus the questionnaire answers gathered so
// far. It is passed explicitly to every operation that needs a user.
type Session struct {
	User    *db.User
	Answers *profile.Accumulator
}

func NewSession(user *db.User) *Session {
	return &Session{User: user, Answers: profile.NewAccumulator()}
}

func (s *Session) LoggedIn() bool {
	return s != nil && s.User != nil
}
