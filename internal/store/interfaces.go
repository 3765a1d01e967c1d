package store

import (
	"context"
	"errors"

	"teamhub.app/server/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// UserPatch holds the user columns an update may touch. Nil fields are left as is.
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	FullName     *string
	FirstName    *string
	LastName     *string
}

// UserStore defines the contract for user data access. Soft-deleted users are
// invisible to every lookup except ListBriefs.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id int64, patch UserPatch) (*model.User, error)
	SoftDelete(ctx context.Context, id int64) error
	ListBriefs(ctx context.Context, ids []int64) ([]model.UserBrief, error)
}

// WorkspaceFilter narrows a workspace lookup. Zero fields are ignored and
// deleted workspaces never match.
type WorkspaceFilter struct {
	ID              *int64
	Slug            string
	OwnerID         *int64
	MemberID        *int64
	OwnerOrMemberID *int64
}

// WorkspaceStore defines the contract for workspace data access
type WorkspaceStore interface {
	Create(ctx context.Context, ws *model.Workspace) error
	FindOne(ctx context.Context, filter WorkspaceFilter) (*model.Workspace, error)
	ListForUser(ctx context.Context, userID int64, query string, opts model.PageOptions) ([]model.WorkspaceSummary, int, error)
	UpdateName(ctx context.Context, filter WorkspaceFilter, update model.WorkspaceUpdate) (*model.Workspace, error)
	SoftDelete(ctx context.Context, filter WorkspaceFilter) (*model.Workspace, error)
	// AddMember appends member unless the user is already present.
	AddMember(ctx context.Context, workspaceID int64, member model.Member) (*model.Workspace, error)
	// RemoveMember drops the user from members; ErrNotFound if absent.
	RemoveMember(ctx context.Context, workspaceID, userID int64) (*model.Workspace, error)
}

// InviteStore defines the contract for workspace invite data access
type InviteStore interface {
	Create(ctx context.Context, inv *model.Invite) error
	FindPending(ctx context.Context, workspaceID, inviteeID int64) (*model.Invite, error)
	Cancel(ctx context.Context, id, ownerID int64) (*model.Invite, error)
	// Respond moves the pending invite for (workspace, invitee) into status.
	Respond(ctx context.Context, workspaceID, inviteeID int64, status model.InviteStatus) (*model.Invite, error)
	ListPendingForInvitee(ctx context.Context, inviteeID int64, opts model.PageOptions) ([]model.InviteView, int, error)
}
