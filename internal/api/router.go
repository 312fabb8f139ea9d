package api

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches the host API to the given router group, normally
// /api/v1. adminKey protects container creation and host enlistment; empty
// disables the check.
func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup, adminKey string) {
	var admin []gin.HandlerFunc
	if adminKey != "" {
		admin = append(admin, APIKeyAuth(adminKey))
	}

	v1.GET("/health", h.healthCheck)

	hosts := v1.Group("/host")
	hosts.GET("/", h.listHosts)
	hosts.POST("/", h.registerHost)
	hosts.GET("/:name/", h.hostTokenAuth, h.getHost)
	hosts.PATCH("/:name/", h.hostTokenAuth, h.updateHost)
	hosts.DELETE("/:name/", h.hostTokenAuth, h.deleteHost)
	hosts.PATCH("/:name/container/:container/", h.hostTokenAuth, h.updateContainer)
	hosts.PATCH("/:name/enlist/", append(admin, h.enlistHost)...)

	containers := v1.Group("/container", admin...)
	containers.POST("/", h.createContainer)
}
