package api

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"cya/models"
)

// Handler holds dependencies for all API handlers.
type Handler struct {
	fleet Fleet
}

// New creates a Handler over the given fleet inventory.
func New(f Fleet) *Handler {
	return &Handler{fleet: f}
}

// healthCheck handles GET /health.
// @Summary      Health check
// @Description  Returns the health status of the API and its inventory store.
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string  "status: healthy"
// @Failure      503  {object}  map[string]string  "status: unhealthy"
// @Router       /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	if err := h.fleet.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// listHosts handles GET /api/v1/host/.
// @Summary      List hosts
// @Description  Names of all registered hosts.
// @Tags         hosts
// @Produce      json
// @Success      200  {object}  models.HostListResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /host/ [get]
func (h *Handler) listHosts(c *gin.Context) {
	hosts, err := h.fleet.ListHosts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.HostListResponse{
		Hosts: lo.Map(hosts, func(h models.Host, _ int) string { return h.Name }),
	})
}

// registerHost handles POST /api/v1/host/.
// @Summary      Register a host
// @Description  Enlist a host and the containers it already runs. The api_key authenticates the host afterwards.
// @Tags         hosts
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterHostRequest  true  "Host properties"
// @Success      201   {object}  models.Host
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /host/ [post]
func (h *Handler) registerHost(c *gin.Context) {
	var req models.RegisterHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	host, err := h.fleet.RegisterHost(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Location", c.Request.URL.Path+url.PathEscape(host.Name)+"/")
	c.JSON(http.StatusCreated, host)
}

// getHost handles GET /api/v1/host/:name/.
// @Summary      Get a host
// @Description  Host properties. Add ?with_containers to include the desired containers.
// @Tags         hosts
// @Produce      json
// @Param        name             path   string  true   "Host name"
// @Param        with_containers  query  string  false  "Include containers"
// @Success      200  {object}  models.Host
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     HostToken
// @Router       /host/{name}/ [get]
func (h *Handler) getHost(c *gin.Context) {
	_, withContainers := c.GetQuery("with_containers")

	host, err := h.fleet.GetHost(c.Request.Context(), c.Param("name"), withContainers)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, host)
}

// updateHost handles PATCH /api/v1/host/:name/.
// @Summary      Update a host
// @Description  Partial update of host properties. A containers list is merged into the desired state.
// @Tags         hosts
// @Accept       json
// @Produce      json
// @Param        name  path      string                    true  "Host name"
// @Param        body  body      models.UpdateHostRequest  true  "Changed properties"
// @Success      200   {object}  map[string]string  "status: updated"
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Security     HostToken
// @Router       /host/{name}/ [patch]
func (h *Handler) updateHost(c *gin.Context) {
	var req models.UpdateHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.fleet.UpdateHost(c.Request.Context(), c.Param("name"), req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// deleteHost handles DELETE /api/v1/host/:name/.
// @Summary      Delete a host
// @Description  Remove a host and all of its containers from the inventory.
// @Tags         hosts
// @Param        name  path  string  true  "Host name"
// @Success      200   {object}  map[string]string  "status: deleted"
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Security     HostToken
// @Router       /host/{name}/ [delete]
func (h *Handler) deleteHost(c *gin.Context) {
	if err := h.fleet.DeleteHost(c.Request.Context(), c.Param("name")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// enlistHost handles PATCH /api/v1/host/:name/enlist/.
// @Summary      Enlist or withdraw a host
// @Description  Only enlisted hosts receive new containers.
// @Tags         hosts
// @Accept       json
// @Produce      json
// @Param        name  path      string                    true  "Host name"
// @Param        body  body      models.EnlistHostRequest  true  "Enlistment"
// @Success      200   {object}  map[string]string  "status: updated"
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Security     AdminKey
// @Router       /host/{name}/enlist/ [patch]
func (h *Handler) enlistHost(c *gin.Context) {
	var req models.EnlistHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.fleet.SetEnlisted(c.Request.Context(), c.Param("name"), *req.Enlisted); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// updateContainer handles PATCH /api/v1/host/:name/container/:container/.
// @Summary      Report a container
// @Description  Record the properties of a container as created on the host.
// @Tags         containers
// @Accept       json
// @Produce      json
// @Param        name       path      string                         true  "Host name"
// @Param        container  path      string                         true  "Container name"
// @Param        body       body      models.UpdateContainerRequest  true  "Container properties"
// @Success      200        {object}  map[string]string  "status: updated"
// @Failure      400        {object}  ErrorResponse
// @Failure      401        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Security     HostToken
// @Router       /host/{name}/container/{container}/ [patch]
func (h *Handler) updateContainer(c *gin.Context) {
	var req models.UpdateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.fleet.UpdateContainer(c.Request.Context(), c.Param("name"), c.Param("container"), req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// createContainer handles POST /api/v1/container/.
// @Summary      Request a container
// @Description  Place a new container on the least loaded enlisted host.
// @Tags         containers
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateContainerRequest  true  "Container request"
// @Success      201   {object}  models.CreateContainerResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Security     AdminKey
// @Router       /container/ [post]
func (h *Handler) createContainer(c *gin.Context) {
	var req models.CreateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.MaxMemory < 0 {
		badRequest(c, "max_memory must be >= 0")
		return
	}

	resp, err := h.fleet.CreateContainer(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Location", "/api/v1/host/"+url.PathEscape(resp.Host)+"/container/"+url.PathEscape(resp.Container.Name)+"/")
	c.JSON(http.StatusCreated, resp)
}
