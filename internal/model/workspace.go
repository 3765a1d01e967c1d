package model

import "time"

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

type Member struct {
	UserID int64      `json:"user"`
	Role   MemberRole `json:"role"`
}

type Workspace struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	OwnerID   int64     `json:"owner"`
	Members   []Member  `json:"members"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (w *Workspace) HasMember(userID int64) bool {
	for _, m := range w.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// WorkspaceUpdate lists the only fields an owner may change on a workspace.
type WorkspaceUpdate struct {
	Name *string
	Slug *string
}

func (u WorkspaceUpdate) IsEmpty() bool {
	return u.Name == nil && u.Slug == nil
}

type MemberView struct {
	User UserBrief  `json:"user"`
	Role MemberRole `json:"role"`
}

// WorkspaceView is a workspace with owner and member users resolved.
type WorkspaceView struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Slug      string       `json:"slug"`
	Owner     UserBrief    `json:"owner"`
	Members   []MemberView `json:"members"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// WorkspaceSummary is a listing row: members stay as references, the owner is
// resolved to username and email.
type WorkspaceSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Owner     UserBrief `json:"owner"`
	Members   []Member  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
