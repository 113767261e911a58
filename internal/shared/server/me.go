package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

// meHandler echoes the identity the request was attributed to.
func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	respond.OK(c, gin.H{
		"userId":  userID,
		"isGuest": middleware.IsGuest(c),
	})
}
