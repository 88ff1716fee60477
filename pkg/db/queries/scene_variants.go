package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

const variantColumns = `variant_id, scene_id, variant_name, pacing, tone, emphasis,
	pacing_score, intensity_score, dialogue_density, action_level, character_focus, emotional_tone,
	duration, file_path`

type SceneVariantDAO struct {
	db *sqlx.DB
}

func NewSceneVariantDAO(conn *sqlx.DB) *SceneVariantDAO {
	return &SceneVariantDAO{db: conn}
}

// Insert creates a variant row and sets variant.ID. Variants are
// immutable once written; there is no update.
func (d *SceneVariantDAO) Insert(ctx context.Context, variant *db.SceneVariant) error {
	query := `
		INSERT INTO SceneVariant (scene_id, variant_name, pacing, tone, emphasis,
			pacing_score, intensity_score, dialogue_density, action_level, character_focus, emotional_tone,
			duration, file_path)
		VALUES (:scene_id, :variant_name, :pacing, :tone, :emphasis,
			:pacing_score, :intensity_score, :dialogue_density, :action_level, :character_focus, :emotional_tone,
			:duration, :file_path)`

	result, err := d.db.NamedExecContext(ctx, query, variant)
	if err != nil {
		log.Errorf("Error creating variant for scene %d: %v", variant.SceneID, err)
		return wrap("insert scene variant", err)
	}
	id, err := insertedID(result)
	if err != nil {
		return err
	}
	variant.ID = id
	return nil
}

func (d *SceneVariantDAO) GetByID(ctx context.Context, id int64) (*db.SceneVariant, error) {
	variant := &db.SceneVariant{}
	err := d.db.GetContext(ctx, variant, `SELECT `+variantColumns+` FROM SceneVariant WHERE variant_id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("Scene variant with ID %d not found.", id)
			return nil, nil // Callers map the nil to apperrors.ErrNotFound themselves
		}
		log.Errorf("Error finding scene variant by ID %d: %v", id, err)
		return nil, wrap("get scene variant by id", err)
	}
	return variant, nil
}

// ListByScene returns the scene's variants in insertion order, which is
// the order variant selection treats as "first listed".
func (d *SceneVariantDAO) ListByScene(ctx context.Context, sceneID int64) ([]db.SceneVariant, error) {
	variants := []db.SceneVariant{}
	query := `SELECT ` + variantColumns + ` FROM SceneVariant WHERE scene_id = ? ORDER BY variant_id`
	if err := d.db.SelectContext(ctx, &variants, query, sceneID); err != nil {
		log.Errorf("Error finding variants for scene %d: %v", sceneID, err)
		return nil, wrap("list scene variants", err)
	}
	return variants, nil
}
