package services

import (
	"context"
	"time"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
)

// The interfaces below are the slices of the DAOs in pkg/db/queries each
// service needs.

type UserStore interface {
	Insert(ctx context.Context, user *db.User) error
	GetByID(ctx context.Context, id int64) (*db.User, error)
	GetByUsername(ctx context.Context, username string) (*db.User, error)
	SetPasswordHash(ctx context.Context, userID int64, hash string) error
	SetTraits(ctx context.Context, userID int64, scores db.TraitScores) error
	SetPreferredPacing(ctx context.Context, userID int64, pacing string) error
}

type MovieStore interface {
	GetByID(ctx context.Context, id int64) (*db.Movie, error)
	List(ctx context.Context) ([]db.Movie, error)
}

type SceneStore interface {
	ListByMovie(ctx context.Context, movieID int64) ([]db.Scene, error)
}

type VariantStore interface {
	GetByID(ctx context.Context, id int64) (*db.SceneVariant, error)
	ListByScene(ctx context.Context, sceneID int64) ([]db.SceneVariant, error)
}

type SessionStore interface {
	Insert(ctx context.Context, session *db.ViewingSession) error
	GetByID(ctx context.Context, id int64) (*db.ViewingSession, error)
	ListByUser(ctx context.Context, userID int64) ([]db.ViewingSession, error)
	End(ctx context.Context, id int64, endTime time.Time, completed bool) error
}

// ViewingStore.Record writes a segment, the watch-time increment and an
// optional drop-off atomically.
type ViewingStore interface {
	Record(ctx context.Context, viewing *db.SceneViewing, userID int64, dropOff *db.DropOff) error
	ListBySession(ctx context.Context, sessionID int64) ([]db.SceneViewing, error)
}

type DropOffStore interface {
	Insert(ctx context.Context, dropOff *db.DropOff) error
	ListByUser(ctx context.Context, userID int64) ([]db.DropOff, error)
}
