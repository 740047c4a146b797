package handler

import (
	"main/model"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// sessionView is the session shape returned on the public auth-state
// endpoint. The signed bearer token never leaves through this route; it
// is only issued by the login and refresh endpoints.
func sessionView(s *model.Session) gin.H {
	if s == nil {
		return nil
	}
	return gin.H{
		"user_id":     s.UserID,
		"email":       s.Email,
		"expires_at":  s.ExpiresAt,
		"device_info": s.DeviceInfo,
	}
}

// GetAuthStateHandler exposes the bootstrapper's principal/role/loading
// triple for route guards.
func GetAuthStateHandler(c *gin.Context, bootstrapper *services.SessionBootstrapper) {
	state := bootstrapper.Snapshot()

	role := state.Role
	if role == "" && state.Authenticated() {
		role = "user"
	}

	utils.Success(c, gin.H{
		"authenticated":  state.Authenticated(),
		"role":           role,
		"loading":        state.Loading,
		"session":        sessionView(state.Session),
		"client_profile": state.ClientProfile,
	})
}

// CSRFTokenHandler issues a token for state-changing form submissions.
func CSRFTokenHandler(c *gin.Context, security *services.SecurityService) {
	token := security.GenerateCSRFToken()
	if token == "" {
		utils.InternalError(c, "Failed to generate token")
		return
	}
	utils.Success(c, gin.H{"csrf_token": token})
}
