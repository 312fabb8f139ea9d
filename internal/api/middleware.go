package api

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth returns a middleware that validates the Authorization: Bearer <key> header.
func APIKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
			unauthorized(c, "invalid or missing api key")
			return
		}
		c.Next()
	}
}

// hostTokenAuth validates the Authorization: Token <key> header against the
// api key of the host named in the path.
func (h *Handler) hostTokenAuth(c *gin.Context) {
	token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Token ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		unauthorized(c, "missing host token")
		return
	}
	if err := h.fleet.VerifyHostKey(c.Request.Context(), c.Param("name"), token); err != nil {
		writeError(c, err)
		c.Abort()
		return
	}
	c.Next()
}
