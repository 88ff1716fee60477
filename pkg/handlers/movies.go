package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ASHISH26940/fablemaze-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handlers) ListMovies(c *gin.Context) {
	movies, err := h.Sequences.Movies(c.Request.Context())
	if err != nil {
		utils.ResponseFromError(c, err)
		return
	}
	views := make([]movieView, 0, len(movies))
	for _, m := range movies {
		views = append(views, newMovieView(m))
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Movies retrieved", views)
}

// GetSequence returns one variant per scene chosen by the caller's pacing.
func (h *Handlers) GetSequence(c *gin.Context) {
	movieID, ok := idParam(c, "id")
	if !ok {
		return // idParam already wrote the 400
	}
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}

	// The pacing comes from the stored user, not from the request.
	sequence, err := h.Sequences.BuildSequenceForMovie(c.Request.Context(), sess.User, movieID)
	if err != nil {
		utils.ResponseFromError(c, err)
		return
	}
	views := make([]variantView, 0, len(sequence))
	for _, v := range sequence {
		views = append(views, newVariantView(v))
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Sequence built", gin.H{
		"movie_id": movieID,
		"pacing":   sess.User.Pacing(),
		"variants": views,
	})
}

// GetPredictedSequence relays the prediction service's answer. Non-2xx
// answers are reported as 502 with the upstream body attached.
func (h *Handlers) GetPredictedSequence(c *gin.Context) {
	movieID, ok := idParam(c, "id")
	if !ok {
		return
	}
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}

	pred, err := h.Predictor.PredictSequence(c.Request.Context(), sess.User.ID, movieID, c.Query("device_type"))
	if err != nil { // Open breaker is a 503 and a 5xx a 502, see utils.StatusForError
		utils.ResponseFromError(c, err)
		return
	}
	if pred.StatusCode < 200 || pred.StatusCode >= 300 {
		log.Warnf("Prediction for user %d movie %d answered %d.", sess.User.ID, movieID, pred.StatusCode)
		utils.ResponseWithError(c, http.StatusBadGateway, "Prediction service rejected the request", gin.H{
			"status_code": pred.StatusCode,
			"body":        pred.Body,
		})
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Sequence predicted", gin.H{
		"movie_id":         movieID,
		"variant_sequence": pred.VariantSequence,
	})
}

// GetAlternatives relays the service's ranked variants for one scene.
func (h *Handlers) GetAlternatives(c *gin.Context) {
	movieID, ok := idParam(c, "id")
	if !ok {
		return
	}
	sceneIndex, ok := idParam(c, "index")
	if !ok {
		return
	}
	topN, err := strconv.Atoi(c.DefaultQuery("top_n", "3"))
	if err != nil || topN <= 0 {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid top_n parameter", c.Query("top_n"))
		return
	}
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}

	pred, err := h.Predictor.Alternatives(c.Request.Context(), sess.User.ID, movieID, int(sceneIndex), topN)
	if err != nil {
		utils.ResponseFromError(c, err)
		return
	}
	// The body is passed through untouched, so it has to be JSON to embed it.
	if pred.StatusCode < 200 || pred.StatusCode >= 300 || !json.Valid([]byte(pred.Body)) {
		utils.ResponseWithError(c, http.StatusBadGateway, "Prediction service rejected the request", gin.H{
			"status_code": pred.StatusCode,
			"body":        pred.Body,
		})
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Alternatives retrieved", json.RawMessage(pred.Body))
}
