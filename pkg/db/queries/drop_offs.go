package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

const dropOffColumns = `drop_off_id, user_id, variant_id, drop_off_time`

type DropOffDAO struct {
	db *sqlx.DB
}

func NewDropOffDAO(conn *sqlx.DB) *DropOffDAO {
	return &DropOffDAO{db: conn}
}

func (d *DropOffDAO) Insert(ctx context.Context, dropOff *db.DropOff) error {
	// Plain positional args; the drop-off has no optional columns to name.
	result, err := d.db.ExecContext(ctx,
		`INSERT INTO DropOff (user_id, variant_id, drop_off_time) VALUES (?, ?, ?)`,
		dropOff.UserID, dropOff.VariantID, dropOff.DropOffTime)
	if err != nil {
		log.Errorf("Error recording drop-off for user %d, variant %d: %v", dropOff.UserID, dropOff.VariantID, err)
		return wrap("insert drop-off", err)
	}
	id, err := insertedID(result)
	if err != nil {
		return err
	}
	dropOff.ID = id
	return nil
}

func (d *DropOffDAO) GetByID(ctx context.Context, id int64) (*db.DropOff, error) {
	dropOff := &db.DropOff{}
	err := d.db.GetContext(ctx, dropOff, `SELECT `+dropOffColumns+` FROM DropOff WHERE drop_off_id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("Drop-off with ID %d not found.", id)
			return nil, nil
		}
		log.Errorf("Error finding drop-off by ID %d: %v", id, err)
		return nil, wrap("get drop-off by id", err)
	}
	return dropOff, nil
}

func (d *DropOffDAO) ListByUser(ctx context.Context, userID int64) ([]db.DropOff, error) {
	return d.list(ctx, "user_id", userID)
}

func (d *DropOffDAO) ListByVariant(ctx context.Context, variantID int64) ([]db.DropOff, error) {
	return d.list(ctx, "variant_id", variantID)
}

// column is one of the two fixed names above, never caller input.
func (d *DropOffDAO) list(ctx context.Context, column string, id int64) ([]db.DropOff, error) {
	dropOffs := []db.DropOff{}
	query := `SELECT ` + dropOffColumns + ` FROM DropOff WHERE ` + column + ` = ? ORDER BY drop_off_time, drop_off_id`
	if err := d.db.SelectContext(ctx, &dropOffs, query, id); err != nil {
		log.Errorf("Error listing drop-offs by %s %d: %v", column, id, err)
		return nil, wrap("list drop-offs", err)
	}
	return dropOffs, nil
}
