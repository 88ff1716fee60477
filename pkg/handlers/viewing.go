package handlers

import (
	"net/http"

	"github.com/ASHISH26940/fablemaze-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

type StartSessionRequest struct {
	MovieID    int64  `json:"movie_id" binding:"required,gt=0"`
	DeviceType string `json:"device_type"`
}

type SceneViewingRequest struct {
	VariantID     int64 `json:"variant_id" binding:"required,gt=0"`
	WatchDuration int   `json:"watch_duration" binding:"gte=0"` // seconds
	DroppedOff    bool  `json:"dropped_off"`
}

type EndSessionRequest struct {
	Completed bool `json:"completed"`
}

type DropOffRequest struct {
	VariantID int64 `json:"variant_id" binding:"required,gt=0"`
}

func (h *Handlers) StartSession(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	var req StartSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	vs, err := h.Viewing.StartSession(c.Request.Context(), sess, req.MovieID, req.DeviceType)
	if err != nil {
		utils.ResponseFromError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusCreated, "Viewing session started", newSessionView(vs))
}

func (h *Handlers) RecordViewing(c *gin.Context) {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	var req SceneViewingRequest
	if !bindJSON(c, &req) {
		return
	}

	// Another user's session id comes back as ErrNotFound, i.e. a 404.
	viewing, err := h.Viewing.RecordSceneViewing(c.Request.Context(), sess, sessionID, req.VariantID, req.WatchDuration, req.DroppedOff)
	if err != nil {
		utils.ResponseFromError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusCreated, "Scene viewing recorded", newViewingView(viewing))
}

func (h *Handlers) EndSession(c *gin.Context) {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	var req EndSessionRequest
	// An empty body ends the session as not completed.
	if !bindOptionalJSON(c, &req) {
		return
	}

	vs, err := h.Viewing.EndSession(c.Request.Context(), sess, sessionID, req.Completed)
	if err != nil {
		utils.ResponseFromError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Viewing session ended", newSessionView(vs))
}

func (h *Handlers) RecordDropOff(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	var req DropOffRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.Viewing.RecordDropOff(c.Request.Context(), sess, req.VariantID)
	if err != nil {
		utils.ResponseFromError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusCreated, "Drop-off recorded", newDropOffView(d))
}

// GetHistory lists the caller's sessions with their segments and drop-offs.
func (h *Handlers) GetHistory(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	history, err := h.Viewing.History(ctx, sess)
	if err != nil {
		utils.ResponseFromError(c, err)
		return
	}
	dropOffs, err := h.Viewing.DropOffs(ctx, sess)
	if err != nil {
		utils.ResponseFromError(c, err)
		return
	}

	// make with len 0 keeps the JSON arrays as [] for a user with no history.
	sessions := make([]historyView, 0, len(history))
	for _, entry := range history {
		sessions = append(sessions, newHistoryView(entry))
	}
	drops := make([]dropOffView, 0, len(dropOffs))
	for i := range dropOffs {
		drops = append(drops, newDropOffView(&dropOffs[i]))
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Viewing history", gin.H{
		"total_watch_time": sess.User.TotalWatchTime,
		"sessions":         sessions,
		"drop_offs":        drops,
	})
}
