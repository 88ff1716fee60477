package queries

import (
	"database/sql"
	"fmt"

	"github.com/ASHISH26940/fablemaze-api/pkg/apperrors"
	log "github.com/sirupsen/logrus"
)

// insertedID reads the autoincrement key SQLite assigned to the last INSERT.
func insertedID(result sql.Result) (int64, error) {
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read generated id: %w", err)
	}
	return id, nil
}

// wrap classifies constraint failures and adds the operation name.
func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, apperrors.ClassifySQLite(err))
}

// requireRow turns a zero-row UPDATE into apperrors.ErrNotFound.
func requireRow(result sql.Result, entity string, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		log.Warnf("No %s found with ID %d for update.", entity, id)
		return fmt.Errorf("%s %d: %w", entity, id, apperrors.ErrNotFound)
	}
	return nil
}
