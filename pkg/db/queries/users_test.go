package queries

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ASHISH26940/fablemaze-api/pkg/apperrors"
	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/ASHISH26940/fablemaze-api/pkg/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(username string) *db.User {
	return &db.User{
		Username:     username,
		PasswordHash: "hash",
		DOB:          "2000-01-01",
		Sex:          "Female",
	}
}

func TestUserDAO_InsertAssignsID(t *testing.T) {
	ctx := context.Background()
	dao := NewUserDAO(testhelpers.NewTestDB(t))

	first := newUser("alice1")
	second := newUser("bob2")
	require.NoError(t, dao.Insert(ctx, first))
	require.NoError(t, dao.Insert(ctx, second))

	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.False(t, first.RegistrationDate.IsZero())

	got, err := dao.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice1", got.Username)
	assert.Equal(t, "2000-01-01", got.DOB)
	assert.Equal(t, "Female", got.Sex)
	assert.Zero(t, got.Openness)
	assert.False(t, got.PreferredPacing.Valid)
}

func TestUserDAO_DuplicateUsernameIsConflict(t *testing.T) {
	ctx := context.Background()
	dao := NewUserDAO(testhelpers.NewTestDB(t))

	require.NoError(t, dao.Insert(ctx, newUser("alice1")))

	dup := newUser("alice1")
	err := dao.Insert(ctx, dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Zero(t, dup.ID)
}

func TestUserDAO_InvalidSexIsConstraint(t *testing.T) {
	ctx := context.Background()
	dao := NewUserDAO(testhelpers.NewTestDB(t))

	user := newUser("carol")
	user.Sex = "Robot"
	err := dao.Insert(ctx, user)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConstraint)
}

func TestUserDAO_LookupsReturnNilWhenAbsent(t *testing.T) {
	ctx := context.Background()
	dao := NewUserDAO(testhelpers.NewTestDB(t))

	byID, err := dao.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, byID)

	byName, err := dao.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, byName)
}

func TestUserDAO_SetTraits(t *testing.T) {
	ctx := context.Background()
	dao := NewUserDAO(testhelpers.NewTestDB(t))

	user := newUser("dave")
	require.NoError(t, dao.Insert(ctx, user))

	scores := db.TraitScores{
		Openness:          0.9,
		Conscientiousness: 0.8,
		Extraversion:      0.2,
		Agreeableness:     0.6,
		Neuroticism:       0.4,
	}
	require.NoError(t, dao.SetTraits(ctx, user.ID, scores))

	got, err := dao.GetByUsername(ctx, "dave")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, scores, got.Traits())
}

func TestUserDAO_UpdatesOnMissingUserAreNotFound(t *testing.T) {
	ctx := context.Background()
	dao := NewUserDAO(testhelpers.NewTestDB(t))

	assert.ErrorIs(t, dao.SetTraits(ctx, 42, db.TraitScores{}), apperrors.ErrNotFound)
	assert.ErrorIs(t, dao.SetPreferredPacing(ctx, 42, "fast"), apperrors.ErrNotFound)
	assert.ErrorIs(t, dao.AddWatchTime(ctx, 42, 10), apperrors.ErrNotFound)
}

func TestUserDAO_PreferredPacingAndWatchTime(t *testing.T) {
	ctx := context.Background()
	dao := NewUserDAO(testhelpers.NewTestDB(t))

	user := newUser("erin")
	user.FavouriteGenres = sql.NullString{String: `["drama"]`, Valid: true}
	require.NoError(t, dao.Insert(ctx, user))

	require.NoError(t, dao.SetPreferredPacing(ctx, user.ID, "fast"))
	require.NoError(t, dao.AddWatchTime(ctx, user.ID, 30))
	require.NoError(t, dao.AddWatchTime(ctx, user.ID, 12))

	got, err := dao.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "fast", got.Pacing())
	assert.Equal(t, int64(42), got.TotalWatchTime)
	assert.Equal(t, `["drama"]`, got.FavouriteGenres.String)

	assert.ErrorIs(t, dao.SetPreferredPacing(ctx, user.ID, "glacial"), apperrors.ErrConstraint)
}

func TestUserDAO_List(t *testing.T) {
	ctx := context.Background()
	dao := NewUserDAO(testhelpers.NewTestDB(t))

	users, err := dao.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, dao.Insert(ctx, newUser("u1")))
	require.NoError(t, dao.Insert(ctx, newUser("u2")))

	users, err = dao.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].Username)
	assert.Equal(t, "u2", users[1].Username)
}
