// Package controllers holds the gin handlers behind /api. Every handler
// answers with a models.Envelope.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/franciscosanchezn/taist-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel follows the server's APP_ENV level.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// Messages shown by the app when the server cannot say anything better.
const (
	msgInvalidRequest = "Invalid request"
	msgServerError    = "Something went wrong. Please try again."
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, models.OK(data))
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.Failure(code, message))
}

// respondInternal logs err and hides it from the caller.
func respondInternal(c *gin.Context, err error, what string) {
	log.WithError(err).WithField("path", c.FullPath()).Error(what)
	respondError(c, http.StatusInternalServerError, models.ErrInternalServer, msgServerError)
}

// respondValidation reports a field rule failure with its user-facing
// message. It reports false when err is not a validation error.
func respondValidation(c *gin.Context, err error) bool {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return false
	}
	log.WithFields(logrus.Fields{"field": verr.Field, "path": c.FullPath()}).Debug("Validation failed")
	respondError(c, http.StatusBadRequest, models.ErrValidationFailed, verr.Message)
	return true
}

// paramID parses the :id path parameter.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, models.ErrBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

func bindForm(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBind(dst); err != nil {
		log.WithError(err).WithField("path", c.FullPath()).Debug("Failed to bind request")
		respondError(c, http.StatusBadRequest, models.ErrBadRequest, msgInvalidRequest)
		return false
	}
	return true
}

// respondInvalid reports err as a field failure when it is one and as a bad
// request otherwise.
func respondInvalid(c *gin.Context, err error) {
	if !respondValidation(c, err) {
		log.WithError(err).WithField("path", c.FullPath()).Debug("Invalid request")
		respondError(c, http.StatusBadRequest, models.ErrBadRequest, msgInvalidRequest)
	}
}
