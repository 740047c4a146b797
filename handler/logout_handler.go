package handler

import (
	"log"

	"main/model"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// LogoutHandler signs the caller out of both account namespaces. The
// platform session is ended through the identity backend, which pushes a
// sign-out notification to the bootstrapper; the client-profile session is
// simply removed from its store.
func LogoutHandler(c *gin.Context, identity services.IdentityProvider, store services.ProfileStore, security *services.SecurityService) {
	ctx := utils.WithUserAgent(c.Request.Context(), c.Request.UserAgent())

	if err := identity.SignOut(ctx); err != nil {
		log.Printf("Sign out error: %v", err)
		utils.TrackError("auth", "signout_failed")
		utils.InternalError(c, "Failed to sign out")
		return
	}

	if err := store.Clear(ctx); err != nil {
		log.Printf("Failed to clear client profile session: %v", err)
	}

	security.LogSecurityEvent(ctx, "logout", model.SeverityLow, map[string]interface{}{
		"user_id": c.GetString("user_id"),
	})

	utils.Success(c, gin.H{"message": "Logged out successfully"})
}
