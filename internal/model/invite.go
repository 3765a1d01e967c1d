package model

import "time"

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
	// InviteStatusExpired is a valid stored value; nothing transitions into it.
	InviteStatusExpired InviteStatus = "expired"
)

// IsResponse reports whether an invitee may move an invite into s.
func (s InviteStatus) IsResponse() bool {
	return s == InviteStatusAccepted || s == InviteStatusDeclined
}

type Invite struct {
	ID          int64        `json:"id"`
	OwnerID     int64        `json:"ownerId"`
	WorkspaceID int64        `json:"workspaceId"`
	InviteeID   int64        `json:"inviteeId"`
	Status      InviteStatus `json:"status"`
	IsDeleted   bool         `json:"-"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type WorkspaceRef struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}

// InviteView is an invite as shown to its invitee.
type InviteView struct {
	ID        int64        `json:"id"`
	Workspace WorkspaceRef `json:"workspace"`
	Owner     UserBrief    `json:"owner"`
	InviteeID int64        `json:"inviteeId"`
	Status    InviteStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
