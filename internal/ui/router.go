package ui

import (
	"github.com/gin-gonic/gin"

	"cya/internal/dispatch"
)

// RegisterRoutes attaches the dashboard pages and the container action forms.
// The form paths are the ones the dispatcher posts to.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.index)
	r.GET("/host/:name/", h.host)

	r.POST(dispatch.PathRemoveContainer, h.removeContainer)
	r.POST(dispatch.PathRecreateContainer, h.recreateContainer)
	r.POST(dispatch.PathStartContainer, h.startContainer)
}
