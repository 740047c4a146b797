package handler

import (
	"errors"
	"time"

	"main/dto"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// LoginHandler runs a login attempt through the throttled login service.
// The tenant client-profile path wins outright when it matches; the
// standard path enforces the failed-attempt lockout.
func LoginHandler(c *gin.Context, loginService *services.LoginService) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		utils.HTTPRequestDuration.WithLabelValues("POST", "/api/auth/login").Observe(duration)
	}()

	var loginReq dto.LoginRequest
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		utils.TrackError("auth", "invalid_request")
		utils.BadRequest(c, "Invalid Request")
		return
	}

	ctx := utils.WithUserAgent(c.Request.Context(), c.Request.UserAgent())

	result, err := loginService.AttemptLogin(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		var lockErr *services.LockoutError
		if errors.As(err, &lockErr) {
			data := gin.H{}
			if lockErr.Until != nil {
				data["locked_until"] = lockErr.Until
			}
			utils.TooManyRequests(c, lockErr.Error(), data)
			return
		}
		utils.Unauthorized(c, err.Error())
		return
	}

	if result.Kind == services.LoginKindClient {
		utils.Success(c, dto.LoginResponse{
			Message:       "Login successful",
			RedirectTo:    result.RedirectTo,
			ClientProfile: result.ClientProfile,
		})
		return
	}

	utils.Success(c, dto.LoginResponse{
		Message: "Login successful",
		Token:   result.Session.Token,
		User: &dto.SessionUser{
			ID:    result.Session.UserID,
			Email: result.Session.Email,
		},
	})
}
