// Package ui serves the dashboard pages and the container action forms they
// post. Every action ends with a redirect back to the page it came from.
package ui

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"cya/internal/dispatch"
	"cya/models"
)

var errBadKeepRunning = errors.New(dispatch.FieldKeepRunning + " must be true or false")

// Handler holds dependencies for the dashboard handlers.
type Handler struct {
	fleet  Fleet
	logger *slog.Logger
}

// New creates a Handler. A nil logger selects slog.Default.
func New(f Fleet, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{fleet: f, logger: logger}
}

func (h *Handler) index(c *gin.Context) {
	hosts, err := h.fleet.ListHosts(c.Request.Context())
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hosts": hosts})
}

func (h *Handler) host(c *gin.Context) {
	host, err := h.fleet.GetHost(c.Request.Context(), c.Param("name"), true)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, host)
}

// removeContainer handles POST /container/remove/.
func (h *Handler) removeContainer(c *gin.Context) {
	form, ok := bindContainerForm(c)
	if !ok {
		return
	}
	if err := h.fleet.RemoveContainer(c.Request.Context(), form.Host, form.Name); err != nil {
		mapError(c, err)
		return
	}
	h.redirectBack(c, form, dispatch.ActionRemoveContainer)
}

// recreateContainer handles POST /container/recreate/.
func (h *Handler) recreateContainer(c *gin.Context) {
	form, ok := bindContainerForm(c)
	if !ok {
		return
	}
	if err := h.fleet.RecreateContainer(c.Request.Context(), form.Host, form.Name); err != nil {
		mapError(c, err)
		return
	}
	h.redirectBack(c, form, dispatch.ActionRecreateContainer)
}

// startContainer handles POST /container/start/.
func (h *Handler) startContainer(c *gin.Context) {
	form, ok := bindContainerForm(c)
	if !ok {
		return
	}
	keepRunning, err := parseKeepRunning(form.KeepRunning)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.fleet.SetContainerState(c.Request.Context(), form.Host, form.Name, keepRunning); err != nil {
		mapError(c, err)
		return
	}
	h.redirectBack(c, form, dispatch.ActionStartContainer)
}

// bindContainerForm reads the posted form and rejects missing identifiers.
func bindContainerForm(c *gin.Context) (models.ContainerStateForm, bool) {
	var form models.ContainerStateForm
	if err := c.ShouldBindWith(&form, binding.FormPost); err != nil {
		badRequest(c, err.Error())
		return form, false
	}
	if form.Host == "" {
		badRequest(c, dispatch.FieldHost+" is required")
		return form, false
	}
	if form.Name == "" {
		badRequest(c, dispatch.FieldName+" is required")
		return form, false
	}
	return form, true
}

func (h *Handler) redirectBack(c *gin.Context, form models.ContainerStateForm, action dispatch.Action) {
	target := returnTarget(form.URL, c.Request.Host)
	h.logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "container action",
		slog.String("action", string(action)),
		slog.String("host", form.Host),
		slog.String("container", form.Name),
		slog.String("redirect", target),
	)
	c.Redirect(http.StatusSeeOther, target)
}

// parseKeepRunning accepts the spellings browsers and scripts send for a
// boolean form value.
func parseKeepRunning(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, errBadKeepRunning
	}
	return v, nil
}

// returnTarget picks where to send the user after an action: the posted url
// when it is a local path or points at this same host, otherwise "/".
func returnTarget(raw, requestHost string) string {
	if raw == "" || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, `/\`) {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "/"
	}
	if u.Scheme == "" && u.Host == "" {
		if strings.HasPrefix(u.Path, "/") {
			return raw
		}
		return "/"
	}
	if (u.Scheme == "http" || u.Scheme == "https") && strings.EqualFold(u.Host, requestHost) {
		return raw
	}
	return "/"
}
