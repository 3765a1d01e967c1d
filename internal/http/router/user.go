package router

import (
	"github.com/gin-gonic/gin"

	"teamhub.app/server/internal/http/handler"
)

func UserRouter(rg *gin.RouterGroup, h *handler.UserHandler, requireAuth gin.HandlerFunc) {
	rg.POST("/user/register", h.Register)
	rg.POST("/user/login", h.Login)

	authed := rg.Group("", requireAuth)
	{
		authed.GET("/me", h.Me)
		authed.PATCH("/settings/profile", h.UpdateProfile)
		authed.PATCH("/settings/admin", h.UpdateAccount)
		authed.DELETE("/settings/admin", h.DeleteAccount)
		authed.PATCH("/settings/security/password", h.ChangePassword)
		authed.PATCH("/settings/security/email", h.ChangeEmail)
	}
}
