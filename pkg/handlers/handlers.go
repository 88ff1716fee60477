package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ASHISH26940/fablemaze-api/pkg/middleware"
	"github.com/ASHISH26940/fablemaze-api/pkg/predictor"
	"github.com/ASHISH26940/fablemaze-api/pkg/services"
	"github.com/ASHISH26940/fablemaze-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SequencePredictor is the part of predictor.Client the handlers call.
type SequencePredictor interface {
	PredictSequence(ctx context.Context, userID, movieID int64, deviceType string) (*predictor.Prediction, error)
	Alternatives(ctx context.Context, userID, movieID int64, sceneIndex, topN int) (*predictor.Prediction, error)
	State() string
}

// Handlers holds the dependencies of the HTTP endpoints.
type Handlers struct {
	DB        Pinger
	Auth      *services.AuthService
	Tokens    *services.TokenService
	Profiles  *services.ProfileService
	Sequences *services.SequenceService
	Viewing   *services.ViewingService
	Predictor SequencePredictor
}

// RegisterRoutes mounts every endpoint on router.
func (h *Handlers) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.HealthCheck)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/signup", h.SignUp)
		authRoutes.POST("/login", h.Login)
	}

	protectedRoutes := router.Group("/api")
	protectedRoutes.Use(middleware.AuthMiddleware(h.Tokens))
	{
		protectedRoutes.GET("/questionnaire", h.GetQuestionnaire)
		protectedRoutes.POST("/profile", h.SubmitProfile)
		protectedRoutes.PUT("/profile/pacing", h.SetPacing)
		protectedRoutes.GET("/me", h.GetMe)

		movieRoutes := protectedRoutes.Group("/movies")
		{
			movieRoutes.GET("", h.ListMovies)
			movieRoutes.GET("/:id/sequence", h.GetSequence)
			movieRoutes.GET("/:id/predicted-sequence", h.GetPredictedSequence)
			movieRoutes.GET("/:id/scenes/:index/alternatives", h.GetAlternatives)
		}

		sessionRoutes := protectedRoutes.Group("/sessions")
		{
			sessionRoutes.POST("", h.StartSession)
			sessionRoutes.POST("/:id/viewings", h.RecordViewing)
			sessionRoutes.POST("/:id/end", h.EndSession)
		}

		protectedRoutes.POST("/drop-offs", h.RecordDropOff)
		protectedRoutes.GET("/history", h.GetHistory)
	}
}

// currentSession rebuilds the caller's session from the token claims. It
// writes the error response itself and returns false on failure.
func (h *Handlers) currentSession(c *gin.Context) (*services.Session, bool) {
	claims, ok := middleware.GetUserClaimsFromContext(c)
	if !ok {
		log.Error("User claims not found in context for protected route.")
		utils.ResponseWithError(c, http.StatusUnauthorized, services.ErrNotLoggedIn.Error(), nil)
		return nil, false
	}
	// The token may outlive the account, so the user is reloaded every time.
	sess, err := h.Auth.SessionFor(c.Request.Context(), claims.UserID)
	if err != nil {
		utils.ResponseFromError(c, err)
		return nil, false
	}
	return sess, true
}

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		log.Debugf("Invalid %s parameter: %q", name, raw)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid "+name+" parameter", raw)
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		log.Debugf("%s %s: Invalid request body: %v", c.Request.Method, c.FullPath(), err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be left out. An
// empty body leaves req untouched whatever the Content-Length says; chunked
// requests report -1 there.
func bindOptionalJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	log.Debugf("%s %s: Invalid request body: %v", c.Request.Method, c.FullPath(), err)
	utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
	return false
}
