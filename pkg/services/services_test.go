package services

import (
	"testing"

	"github.com/ASHISH26940/fablemaze-api/pkg/db/queries"
	"github.com/ASHISH26940/fablemaze-api/pkg/testhelpers"
	"github.com/jmoiron/sqlx"
)

// testEnv wires every service to real DAOs over a throwaway database.
type testEnv struct {
	conn     *sqlx.DB
	users    *queries.UserDAO
	auth     *AuthService
	profiles *ProfileService
	sequence *SequenceService
	viewing  *ViewingService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	conn := testhelpers.NewTestDB(t)

	users := queries.NewUserDAO(conn)
	movies := queries.NewMovieDAO(conn)
	scenes := queries.NewSceneDAO(conn)
	variants := queries.NewSceneVariantDAO(conn)

	return &testEnv{
		conn:     conn,
		users:    users,
		auth:     NewAuthService(users),
		profiles: NewProfileService(users),
		sequence: NewSequenceService(movies, scenes, variants),
		viewing: NewViewingService(
			queries.NewViewingSessionDAO(conn),
			queries.NewSceneViewingDAO(conn),
			queries.NewDropOffDAO(conn),
			variants),
	}
}
