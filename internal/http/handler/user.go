package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub.app/server/internal/http/dto"
	"teamhub.app/server/internal/model"
	"teamhub.app/server/internal/service"
)

type UserHandler struct {
	authService service.AuthService
	userService service.UserService
}

func NewUserHandler(authService service.AuthService, userService service.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	_, err := h.authService.Register(c.Request.Context(), &service.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{Success: true, Message: "Registration successful"})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	_, token, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: token})
}

func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, actor(c))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.ProfileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), actorID(c), service.ProfileUpdate{FullName: &req.FullName})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UserResponse{Success: true, Message: "Full name updated successfully", User: user})
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req dto.AccountUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateAccount(c.Request.Context(), actorID(c), service.AccountUpdate{Username: &req.Username})
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondWithToken(c, user, "Username updated successfully")
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	user := actor(c)
	if err := h.userService.DeleteAccount(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UserResponse{Success: true, Message: "Account deleted successfully", User: user})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.PasswordChangeRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.ChangePassword(c.Request.Context(), actorID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UserResponse{Success: true, Message: "Password updated successfully", User: user})
}

func (h *UserHandler) ChangeEmail(c *gin.Context) {
	var req dto.EmailChangeRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.ChangeEmail(c.Request.Context(), actorID(c), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondWithToken(c, user, "Email updated successfully")
}

// respondWithToken re-issues the access token since its claims carry the
// username and email.
func (h *UserHandler) respondWithToken(c *gin.Context, user *model.User, message string) {
	token, err := h.authService.IssueToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UserResponse{Success: true, Message: message, User: user, AccessToken: token})
}
