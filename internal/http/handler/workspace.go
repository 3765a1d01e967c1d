package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub.app/server/common"
	"teamhub.app/server/internal/http/dto"
	"teamhub.app/server/internal/model"
	"teamhub.app/server/internal/service"
)

type WorkspaceHandler struct {
	workspaces service.WorkspaceService
}

func NewWorkspaceHandler(workspaces service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

func (h *WorkspaceHandler) List(c *gin.Context) {
	page, err := h.workspaces.FindAll(c.Request.Context(), actorID(c), c.Query("search"), pageOptions(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req dto.CreateWorkspaceRequest
	if !bindJSON(c, &req) {
		return
	}

	ws, err := h.workspaces.Create(c.Request.Context(), actorID(c), &service.CreateWorkspaceParams{
		Name:    req.Name,
		Slug:    common.Slugify(req.Name),
		Members: req.ToMembers(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateWorkspaceResponse{
		Success:   true,
		Message:   "Workspace created successfully",
		Workspace: ws,
	})
}

func (h *WorkspaceHandler) Get(c *gin.Context) {
	view, err := h.workspaces.Find(c.Request.Context(), actorID(c), c.Param("username"), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *WorkspaceHandler) UpdateName(c *gin.Context) {
	var req dto.UpdateWorkspaceRequest
	if !bindJSON(c, &req) {
		return
	}

	slug := common.Slugify(req.Name)
	view, err := h.workspaces.UpdateName(c.Request.Context(), actorID(c), c.Param("username"), c.Param("slug"), model.WorkspaceUpdate{
		Name: &req.Name,
		Slug: &slug,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *WorkspaceHandler) Delete(c *gin.Context) {
	if _, err := h.workspaces.Delete(c.Request.Context(), actorID(c), c.Param("username"), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Workspace deleted"})
}

func (h *WorkspaceHandler) Leave(c *gin.Context) {
	ws, err := h.workspaces.Leave(c.Request.Context(), actorID(c), c.Param("username"), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ws)
}

func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	memberID, ok := idParam(c, "memberId")
	if !ok {
		return
	}

	ws, err := h.workspaces.RemoveMember(c.Request.Context(), actorID(c), c.Param("username"), c.Param("slug"), memberID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ws)
}
