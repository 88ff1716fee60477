package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ASHISH26940/fablemaze-api/pkg/apperrors"
	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

var ErrSceneHasNoVariants = errors.New("scene has no variants")

type SequenceService struct {
	movies   MovieStore
	scenes   SceneStore
	variants VariantStore
}

func NewSequenceService(movies MovieStore, scenes SceneStore, variants VariantStore) *SequenceService {
	return &SequenceService{movies: movies, scenes: scenes, variants: variants}
}

func (s *SequenceService) Movies(ctx context.Context) ([]db.Movie, error) {
	return s.movies.List(ctx)
}

// BuildSequenceForMovie picks one variant per scene, in scene order. A nil
// user or one without a preferred pacing always gets the first variant.
func (s *SequenceService) BuildSequenceForMovie(ctx context.Context, user *db.User, movieID int64) ([]db.SceneVariant, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %d: %w", movieID, apperrors.ErrNotFound)
	}

	scenes, err := s.scenes.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	pacing := user.Pacing()
	sequence := make([]db.SceneVariant, 0, len(scenes))
	for _, scene := range scenes {
		variants, err := s.variants.ListByScene(ctx, scene.ID)
		if err != nil {
			return nil, err
		}
		chosen, ok := SelectVariant(variants, pacing)
		if !ok {
			log.Warnf("Scene %d (index %d) of movie %d has no variants.", scene.ID, scene.SceneIndex, movieID)
			return nil, fmt.Errorf("scene %d: %w", scene.SceneIndex, ErrSceneHasNoVariants)
		}
		sequence = append(sequence, chosen)
	}

	log.Debugf("Built sequence of %d variants for movie %d (pacing %q).", len(sequence), movieID, pacing)
	return sequence, nil
}

// SelectVariant returns the first variant whose pacing equals pacing, or
// the first variant when none matches. ok is false only for an empty list.
func SelectVariant(variants []db.SceneVariant, pacing string) (db.SceneVariant, bool) {
	if len(variants) == 0 {
		return db.SceneVariant{}, false
	}
	if pacing != "" {
		for _, v := range variants {
			if v.Pacing.Valid && v.Pacing.String == pacing {
				return v, true
			}
		}
	}
	return variants[0], true
}
