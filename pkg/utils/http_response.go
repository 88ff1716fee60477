package utils

import (
	"errors"
	"net/http"

	"github.com/ASHISH26940/fablemaze-api/pkg/apperrors"
	"github.com/ASHISH26940/fablemaze-api/pkg/predictor"
	"github.com/ASHISH26940/fablemaze-api/pkg/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// JSONResponse is the envelope of every API answer.
type JSONResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func ResponseWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, JSONResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ResponseWithError(c *gin.Context, statusCode int, message string, errorDetails interface{}) {
	c.JSON(statusCode, JSONResponse{
		Success: false,
		Message: message,
		Error:   errorDetails,
	})
}

// StatusForError picks the HTTP status and the message shown to the client
// for an error returned by the services.
func StatusForError(err error) (int, string) {
	var rejection services.Rejection
	var serverErr *predictor.ServerError

	switch {
	case errors.Is(err, services.ErrSignUpFailed):
		return http.StatusInternalServerError, services.ErrSignUpFailed.Error()
	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrInvalidPassword),
		errors.Is(err, services.ErrNotLoggedIn):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrUsernameTaken):
		return http.StatusConflict, err.Error()
	case errors.As(err, &rejection):
		return http.StatusBadRequest, rejection.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "Resource already exists"
	case errors.Is(err, apperrors.ErrConstraint):
		return http.StatusBadRequest, "Request references missing or invalid data"
	case errors.Is(err, services.ErrSceneHasNoVariants):
		return http.StatusUnprocessableEntity, "Movie has a scene without variants"
	case errors.Is(err, predictor.ErrUnavailable):
		return http.StatusServiceUnavailable, "Prediction service unavailable"
	case errors.As(err, &serverErr):
		return http.StatusBadGateway, "Prediction service failed"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// ResponseFromError writes the error envelope for err. Server-side failures
// are logged and their details withheld from the client.
func ResponseFromError(c *gin.Context, err error) {
	status, message := StatusForError(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		ResponseWithError(c, status, message, nil)
		return
	}
	log.Debugf("%s %s rejected with %d: %v", c.Request.Method, c.FullPath(), status, err)
	ResponseWithError(c, status, message, err.Error())
}
