package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"legalteam-backend/internal/shared/server/middleware"
	"legalteam-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	// Clients use isGuest to decide whether to offer the sign-in prompt
	// that migrates guest sessions to the account.
	response := gin.H{
		"userId":  userID,
		"isGuest": c.GetBool("isGuest"),
	}
	if email := middleware.UserEmailFromContext(c); email != "" {
		response["email"] = email
	}
	if name := middleware.UserNameFromContext(c); name != "" {
		response["name"] = name
	}
	if picture := middleware.UserPictureFromContext(c); picture != "" {
		response["picture"] = picture
	}

	respond.JSON(c, http.StatusOK, response)
}
