package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesloop/salesloop-api/internal/application"
	"github.com/salesloop/salesloop-api/pkg/response"
)

// fail maps service errors onto the HTTP status categories the API
// promises: missing resources 404, foreign resources 401, rejected
// input (duplicate conversion included) 400, everything else 500.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrLeadNotFound),
		errors.Is(err, application.ErrContactNotFound),
		errors.Is(err, application.ErrDealNotFound),
		errors.Is(err, application.ErrStageNotFound),
		errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrAlreadyConverted),
		errors.Is(err, application.ErrEmailTaken),
		errors.Is(err, application.ErrNegativeValue):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
	}
}
