package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cya/internal/fleet"
)

// ErrorResponse is the standard error body returned by all API endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// badRequest writes a 400 response with code BAD_REQUEST and the provided message.
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Code: "BAD_REQUEST", Message: msg})
}

// unauthorized aborts the request with a 401 response.
func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHORIZED", Message: msg})
}

// writeError maps fleet errors to HTTP responses. Unknown errors become 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, fleet.ErrHostNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "NOT_FOUND", Message: fleet.ErrHostNotFound.Error()})
	case errors.Is(err, fleet.ErrContainerNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "NOT_FOUND", Message: fleet.ErrContainerNotFound.Error()})
	case errors.Is(err, fleet.ErrHostExists), errors.Is(err, fleet.ErrContainerExists):
		c.JSON(http.StatusConflict, ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, fleet.ErrInvalidTemplate), errors.Is(err, fleet.ErrInvalidRelease),
		errors.Is(err, fleet.ErrInvalidAPIKey), errors.Is(err, fleet.ErrNotRecreatable):
		badRequest(c, err.Error())
	case errors.Is(err, fleet.ErrNoHosts):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Code: "UNAVAILABLE", Message: fleet.ErrNoHosts.Error()})
	case errors.Is(err, fleet.ErrUnauthorized):
		unauthorized(c, fleet.ErrUnauthorized.Error())
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL_ERROR", Message: err.Error()})
	}
}
