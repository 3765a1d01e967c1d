package dto

import "teamhub.app/server/internal/model"

type MemberRequest struct {
	User int64            `json:"user" binding:"required"`
	Role model.MemberRole `json:"role" binding:"omitempty,oneof=admin member"`
}

type CreateWorkspaceRequest struct {
	Name    string          `json:"name" binding:"required,min=5,workspacename"`
	Members []MemberRequest `json:"members" binding:"omitempty,dive"`
}

// ToMembers returns the requested members, defaulting the role to member.
func (r *CreateWorkspaceRequest) ToMembers() []model.Member {
	members := make([]model.Member, 0, len(r.Members))
	for _, m := range r.Members {
		role := m.Role
		if role == "" {
			role = model.MemberRoleMember
		}
		members = append(members, model.Member{UserID: m.User, Role: role})
	}
	return members
}

type UpdateWorkspaceRequest struct {
	Name string `json:"name" binding:"required,min=5,workspacename"`
}

type CreateWorkspaceResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Workspace *model.Workspace `json:"workspace"`
}

type SendInviteRequest struct {
	InviteeUsername string `json:"inviteeUsername" binding:"required"`
	WorkspaceID     int64  `json:"workspaceId" binding:"required"`
}

type HandleInviteRequest struct {
	WorkspaceID int64              `json:"workspaceId" binding:"required"`
	InviteeID   int64              `json:"inviteeId" binding:"required"`
	Action      model.InviteStatus `json:"action" binding:"required"`
}
