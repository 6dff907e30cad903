package handlers

import (
	"TeleClinic/middlewares"
	"strconv"

	"github.com/gin-gonic/gin"
)

// callerUserID returns the authenticated user's ID from the request context.
func callerUserID(c *gin.Context) (int64, error) {
	idStr, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// callerRole returns the authenticated user's role from the request context.
func callerRole(c *gin.Context) (string, error) {
	return middlewares.ExtractUserRoleFromContext(c.Request.Context())
}
