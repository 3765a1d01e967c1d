package router

import (
	"github.com/gin-gonic/gin"

	"teamhub.app/server/internal/http/handler"
)

// WorkspaceRouter expects rg to be authenticated already.
func WorkspaceRouter(rg *gin.RouterGroup, ws *handler.WorkspaceHandler, inv *handler.InviteHandler) {
	rg.GET("/home", ws.List)
	rg.POST("/new", ws.Create)

	rg.GET("/invites", inv.List)
	rg.PATCH("/invites/:inviteId", inv.Handle)

	workspace := rg.Group("/:username/:slug")
	{
		workspace.GET("", ws.Get)
		workspace.PATCH("/details", ws.UpdateName)
		workspace.PATCH("/admin", ws.Delete)

		workspace.POST("/members/invite", inv.Send)
		workspace.PATCH("/members/invite/:inviteId", inv.Cancel)
		workspace.DELETE("/members/me", ws.Leave)
		workspace.DELETE("/members/:memberId", ws.RemoveMember)
	}
}
