package queries

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ASHISH26940/fablemaze-api/pkg/apperrors"
	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/ASHISH26940/fablemaze-api/pkg/testhelpers"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewingFixture struct {
	conn      *sqlx.DB
	userID    int64
	movieID   int64
	variantID int64
}

func setupViewing(t *testing.T) viewingFixture {
	t.Helper()
	conn := testhelpers.NewTestDB(t)
	movieID := testhelpers.MovieFixture(t, conn, "edge", [][]string{{"fast", "slow"}})

	var variantID int64
	require.NoError(t, conn.Get(&variantID, `SELECT MIN(variant_id) FROM SceneVariant`))

	return viewingFixture{
		conn:      conn,
		userID:    testhelpers.UserFixture(t, conn, "viewer"),
		movieID:   movieID,
		variantID: variantID,
	}
}

func TestViewingSessionDAO_StartAndEnd(t *testing.T) {
	ctx := context.Background()
	f := setupViewing(t)
	dao := NewViewingSessionDAO(f.conn)

	start := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	session := &db.ViewingSession{
		UserID:     f.userID,
		MovieID:    f.movieID,
		StartTime:  start,
		DeviceType: sql.NullString{String: "tv", Valid: true},
	}
	require.NoError(t, dao.Insert(ctx, session))
	require.NotZero(t, session.ID)

	got, err := dao.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, start.Equal(got.StartTime))
	assert.False(t, got.EndTime.Valid)
	assert.False(t, got.Completed)
	assert.Equal(t, "tv", got.DeviceType.String)

	end := start.Add(95 * time.Minute)
	require.NoError(t, dao.End(ctx, session.ID, end, true))

	got, err = dao.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, got.EndTime.Valid)
	assert.True(t, end.Equal(got.EndTime.Time))
	assert.True(t, got.Completed)

	assert.ErrorIs(t, dao.End(ctx, session.ID+100, end, true), apperrors.ErrNotFound)
}

func TestViewingSessionDAO_ListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := setupViewing(t)
	dao := NewViewingSessionDAO(f.conn)
	otherUser := testhelpers.UserFixture(t, f.conn, "other")

	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	for i, uid := range []int64{f.userID, f.userID, otherUser} {
		s := &db.ViewingSession{UserID: uid, MovieID: f.movieID, StartTime: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, dao.Insert(ctx, s))
	}

	mine, err := dao.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].StartTime.After(mine[1].StartTime))

	all, err := dao.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestViewingSessionDAO_RejectsUnknownDeviceAndUser(t *testing.T) {
	ctx := context.Background()
	f := setupViewing(t)
	dao := NewViewingSessionDAO(f.conn)

	badDevice := &db.ViewingSession{
		UserID: f.userID, MovieID: f.movieID, StartTime: time.Now().UTC(),
		DeviceType: sql.NullString{String: "toaster", Valid: true},
	}
	assert.ErrorIs(t, dao.Insert(ctx, badDevice), apperrors.ErrConstraint)

	badUser := &db.ViewingSession{UserID: 9999, MovieID: f.movieID, StartTime: time.Now().UTC()}
	assert.ErrorIs(t, dao.Insert(ctx, badUser), apperrors.ErrConstraint)
}

func TestSceneViewingDAO_InsertAndListBySession(t *testing.T) {
	ctx := context.Background()
	f := setupViewing(t)
	session := &db.ViewingSession{UserID: f.userID, MovieID: f.movieID, StartTime: time.Now().UTC()}
	require.NoError(t, NewViewingSessionDAO(f.conn).Insert(ctx, session))

	dao := NewSceneViewingDAO(f.conn)
	ts := time.Date(2026, 3, 1, 20, 1, 0, 0, time.UTC)
	first := &db.SceneViewing{SessionID: session.ID, VariantID: f.variantID, WatchDuration: 22, Timestamp: ts}
	second := &db.SceneViewing{SessionID: session.ID, VariantID: f.variantID, WatchDuration: 5, DroppedOff: true, Timestamp: ts.Add(time.Minute)}
	require.NoError(t, dao.Insert(ctx, second))
	require.NoError(t, dao.Insert(ctx, first))

	list, err := dao.ListBySession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.True(t, list[1].DroppedOff)

	got, err := dao.GetByID(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.WatchDuration)

	all, err := dao.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	orphan := &db.SceneViewing{SessionID: session.ID, VariantID: 9999, WatchDuration: 1, Timestamp: ts}
	assert.ErrorIs(t, dao.Insert(ctx, orphan), apperrors.ErrConstraint)
}

func TestDropOffDAO_ListByUserAndVariant(t *testing.T) {
	ctx := context.Background()
	f := setupViewing(t)
	dao := NewDropOffDAO(f.conn)

	when := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)
	d := &db.DropOff{UserID: f.userID, VariantID: f.variantID, DropOffTime: when}
	require.NoError(t, dao.Insert(ctx, d))
	require.NotZero(t, d.ID)

	byUser, err := dao.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.True(t, when.Equal(byUser[0].DropOffTime))

	byVariant, err := dao.ListByVariant(ctx, f.variantID)
	require.NoError(t, err)
	require.Len(t, byVariant, 1)
	assert.Equal(t, d.ID, byVariant[0].ID)

	none, err := dao.ListByVariant(ctx, f.variantID+1)
	require.NoError(t, err)
	assert.Empty(t, none)

	missing, err := dao.GetByID(ctx, 777)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSceneViewingDAO_RecordCommitsAllEffects(t *testing.T) {
	ctx := context.Background()
	f := setupViewing(t)
	session := &db.ViewingSession{UserID: f.userID, MovieID: f.movieID, StartTime: time.Now().UTC()}
	require.NoError(t, NewViewingSessionDAO(f.conn).Insert(ctx, session))

	dao := NewSceneViewingDAO(f.conn)
	ts := time.Date(2026, 3, 1, 20, 1, 0, 0, time.UTC)
	viewing := &db.SceneViewing{SessionID: session.ID, VariantID: f.variantID, WatchDuration: 17, DroppedOff: true, Timestamp: ts}
	drop := &db.DropOff{UserID: f.userID, VariantID: f.variantID, DropOffTime: ts}
	require.NoError(t, dao.Record(ctx, viewing, f.userID, drop))
	assert.NotZero(t, viewing.ID)
	assert.NotZero(t, drop.ID)

	user, err := NewUserDAO(f.conn).GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(17), user.TotalWatchTime)

	drops, err := NewDropOffDAO(f.conn).ListByUser(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, drops, 1)
	assert.Equal(t, drop.ID, drops[0].ID)

	plain := &db.SceneViewing{SessionID: session.ID, VariantID: f.variantID, WatchDuration: 3, Timestamp: ts.Add(time.Minute)}
	require.NoError(t, dao.Record(ctx, plain, f.userID, nil))
	list, err := dao.ListBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSceneViewingDAO_RecordRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	f := setupViewing(t)
	session := &db.ViewingSession{UserID: f.userID, MovieID: f.movieID, StartTime: time.Now().UTC()}
	require.NoError(t, NewViewingSessionDAO(f.conn).Insert(ctx, session))
	dao := NewSceneViewingDAO(f.conn)
	ts := time.Now().UTC()

	// Unknown user: the segment insert succeeds inside the transaction, the
	// watch-time UPDATE matches nothing.
	viewing := &db.SceneViewing{SessionID: session.ID, VariantID: f.variantID, WatchDuration: 10, Timestamp: ts}
	assert.ErrorIs(t, dao.Record(ctx, viewing, 9999, nil), apperrors.ErrNotFound)
	assert.Zero(t, viewing.ID)

	// Bad drop-off: segment and watch time succeed, the last insert fails.
	viewing = &db.SceneViewing{SessionID: session.ID, VariantID: f.variantID, WatchDuration: 10, DroppedOff: true, Timestamp: ts}
	drop := &db.DropOff{UserID: f.userID, VariantID: 9999, DropOffTime: ts}
	assert.ErrorIs(t, dao.Record(ctx, viewing, f.userID, drop), apperrors.ErrConstraint)
	assert.Zero(t, drop.ID)

	list, err := dao.ListBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	user, err := NewUserDAO(f.conn).GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Zero(t, user.TotalWatchTime)

	drops, err := NewDropOffDAO(f.conn).ListByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, drops)

	// The same segment recorded again after the failures is stored exactly once.
	require.NoError(t, dao.Record(ctx, viewing, f.userID, nil))
	list, err = dao.ListBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
