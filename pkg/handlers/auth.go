package handlers

import (
	"net/http"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/ASHISH26940/fablemaze-api/pkg/services"
	"github.com/ASHISH26940/fablemaze-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type SignUpRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,max=100"`
	DOB      string `json:"dob" binding:"required"` // YYYY-MM-DD
	Sex      string `json:"sex" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (h *Handlers) SignUp(c *gin.Context) {
	var req SignUpRequest
	// The binding tags reject missing fields before the service sees them.
	if !bindJSON(c, &req) {
		return
	}

	dob, err := services.ParseDOB(req.DOB)
	if err != nil {
		utils.ResponseFromError(c, err)
		return
	}

	sess, err := h.Auth.SignUp(c.Request.Context(), services.SignUpInput{
		Username: req.Username,
		Password: req.Password,
		DOB:      dob,
		Sex:      req.Sex,
	})
	if err != nil {
		utils.ResponseFromError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, "User created successfully", sess.User)
}

func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// Unknown account and wrong password both map to 401 here.
		utils.ResponseFromError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, "Login successful", sess.User)
}

func (h *Handlers) respondWithToken(c *gin.Context, status int, message string, user *db.User) {
	token, err := h.Tokens.GenerateToken(user)
	if err != nil {
		log.Errorf("Failed to generate JWT token for user %s: %v", user.Username, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to generate authentication token", nil)
		return
	}
	utils.ResponseWithSuccess(c, status, message, authResponse{Token: token, User: newUserView(user)})
}
