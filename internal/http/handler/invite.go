package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub.app/server/internal/http/dto"
	"teamhub.app/server/internal/model"
	"teamhub.app/server/internal/service"
)

type InviteHandler struct {
	invites service.InviteService
	users   service.UserService
}

func NewInviteHandler(invites service.InviteService, users service.UserService) *InviteHandler {
	return &InviteHandler{
		invites: invites,
		users:   users,
	}
}

// Send invites the user named in the body. An existing pending invite is
// returned as is.
func (h *InviteHandler) Send(c *gin.Context) {
	var req dto.SendInviteRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	invitee, err := h.users.GetUser(ctx, actorID(c), req.InviteeUsername)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.invites.CreateInvite(ctx, actorID(c), c.Param("username"), invitee.ID, req.WorkspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *InviteHandler) Cancel(c *gin.Context) {
	inviteID, ok := idParam(c, "inviteId")
	if !ok {
		return
	}

	inv, err := h.invites.CancelInvite(c.Request.Context(), actorID(c), c.Param("username"), inviteID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *InviteHandler) List(c *gin.Context) {
	page, err := h.invites.ListInvites(c.Request.Context(), actorID(c), pageOptions(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *InviteHandler) Handle(c *gin.Context) {
	var req dto.HandleInviteRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.invites.HandleInvite(c.Request.Context(), actorID(c), req.WorkspaceID, req.InviteeID, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Action == model.InviteStatusDeclined {
		c.JSON(http.StatusOK, result.Invite)
		return
	}
	c.JSON(http.StatusOK, result)
}
