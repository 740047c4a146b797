package dto

import "main/model"

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Message       string                      `json:"message"`
	Token         string                      `json:"token,omitempty"`
	RedirectTo    string                      `json:"redirect_to,omitempty"`
	User          *SessionUser                `json:"user,omitempty"`
	ClientProfile *model.ClientProfileSession `json:"client_profile,omitempty"`
}

type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
