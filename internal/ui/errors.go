package ui

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cya/internal/fleet"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: msg})
}

func mapError(c *gin.Context, err error) {
	if errors.Is(err, fleet.ErrHostNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Code: "NOT_FOUND", Message: fleet.ErrHostNotFound.Error()})
		return
	}
	if errors.Is(err, fleet.ErrContainerNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Code: "NOT_FOUND", Message: fleet.ErrContainerNotFound.Error()})
		return
	}
	if errors.Is(err, fleet.ErrNotRecreatable) {
		badRequest(c, fleet.ErrNotRecreatable.Error())
		return
	}
	c.JSON(http.StatusInternalServerError, errorResponse{Code: "INTERNAL_ERROR", Message: err.Error()})
}
