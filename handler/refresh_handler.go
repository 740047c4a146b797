package handler

import (
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// RefreshTokenHandler reissues the caller's session token before it
// expires. Requires an authenticated, still-active session.
func RefreshTokenHandler(c *gin.Context, refresher services.TokenRefresher) {
	ctx := utils.WithUserAgent(c.Request.Context(), c.Request.UserAgent())

	session, err := refresher.RefreshToken(ctx)
	if err != nil {
		utils.TrackError("auth", "refresh_failed")
		utils.Unauthorized(c, "No active session to refresh")
		return
	}

	utils.Success(c, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
	})
}
