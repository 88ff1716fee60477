package services

import (
	"context"
	"slices"
	"strings"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

type ProfileService struct {
	users UserStore
}

func NewProfileService(users UserStore) *ProfileService {
	return &ProfileService{users: users}
}

// RecordAnswers adds questionnaire answers to the session's accumulator.
func (s *ProfileService) RecordAnswers(sess *Session, answers map[string]int) error {
	if !sess.LoggedIn() {
		return ErrNotLoggedIn
	}
	if err := sess.Answers.RecordAnswers(answers); err != nil {
		return Rejection(err.Error())
	}
	return nil
}

// CompleteProfile stores the normalised trait scores of everything recorded
// so far in one update, then clears the accumulator.
func (s *ProfileService) CompleteProfile(ctx context.Context, sess *Session) (db.TraitScores, error) {
	if !sess.LoggedIn() {
		return db.TraitScores{}, ErrNotLoggedIn
	}

	scores := sess.Answers.Scores()
	if err := s.users.SetTraits(ctx, sess.User.ID, scores); err != nil {
		log.Errorf("CompleteProfile: error saving traits for user %d: %v", sess.User.ID, err)
		return db.TraitScores{}, err
	}

	sess.User.Openness = scores.Openness
	sess.User.Conscientiousness = scores.Conscientiousness
	sess.User.Extraversion = scores.Extraversion
	sess.User.Agreeableness = scores.Agreeableness
	sess.User.Neuroticism = scores.Neuroticism
	sess.Answers.Reset()

	log.Infof("Profile completed for user %d.", sess.User.ID)
	return scores, nil
}

// SetPreferredPacing validates and stores the user's pacing preference.
func (s *ProfileService) SetPreferredPacing(ctx context.Context, sess *Session, pacing string) error {
	if !sess.LoggedIn() {
		return ErrNotLoggedIn
	}
	pacing = strings.ToLower(strings.TrimSpace(pacing))
	if !slices.Contains(db.Pacings, pacing) {
		return Rejection("Pacing must be one of: " + strings.Join(db.Pacings, ", "))
	}
	if err := s.users.SetPreferredPacing(ctx, sess.User.ID, pacing); err != nil {
		return err
	}
	sess.User.PreferredPacing.String = pacing
	sess.User.PreferredPacing.Valid = true
	return nil
}
