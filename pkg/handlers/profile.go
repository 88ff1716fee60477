package handlers

import (
	"net/http"

	"github.com/ASHISH26940/fablemaze-api/pkg/profile"
	"github.com/ASHISH26940/fablemaze-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// ProfileRequest maps question text to an answer between 1 and 5.
type ProfileRequest struct {
	Answers map[string]int `json:"answers" binding:"required"`
}

type PacingRequest struct {
	Pacing string `json:"pacing" binding:"required"`
}

func (h *Handlers) GetQuestionnaire(c *gin.Context) {
	utils.ResponseWithSuccess(c, http.StatusOK, "Questionnaire", gin.H{
		"questions": profile.Questions(),
		"options":   profile.Options(),
	})
}

// SubmitProfile records the answers and stores the resulting trait scores.
func (h *Handlers) SubmitProfile(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	var req ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	// sess is fresh for this request, so only the answers in this body are scored.
	if err := h.Profiles.RecordAnswers(sess, req.Answers); err != nil {
		utils.ResponseFromError(c, err)
		return
	}
	scores, err := h.Profiles.CompleteProfile(c.Request.Context(), sess)
	if err != nil {
		utils.ResponseFromError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Profile completed", scores)
}

func (h *Handlers) SetPacing(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	var req PacingRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Profiles.SetPreferredPacing(c.Request.Context(), sess, req.Pacing); err != nil {
		utils.ResponseFromError(c, err)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Preferred pacing updated", newUserView(sess.User))
}

func (h *Handlers) GetMe(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Current user", newUserView(sess.User))
}
