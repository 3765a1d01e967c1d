package dto

import "teamhub.app/server/internal/model"

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=5,max=20,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ProfileUpdateRequest struct {
	FullName string `json:"fullName" binding:"required"`
}

type AccountUpdateRequest struct {
	Username string `json:"username" binding:"required,min=5,max=20,username"`
}

type PasswordChangeRequest struct {
	OldPassword string `json:"oldPassword" binding:"required,min=8"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type EmailChangeRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type UserResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	User        *model.User `json:"user"`
	AccessToken string      `json:"accessToken,omitempty"`
}
