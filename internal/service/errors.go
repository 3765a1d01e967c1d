package service

import "teamhub.app/server/internal/apperr"

var (
	ErrMissingParameter = apperr.NewMissingParameter()
	ErrMissingBody      = apperr.NewMissingBody()
	ErrEmptyUpdate      = apperr.NewEmptyUpdate()
	ErrInvalidAction    = apperr.NewInvalidAction()

	ErrUserNotFound       = apperr.NewNotFound("User not found")
	ErrWorkspaceNotFound  = apperr.NewNotFound("Workspace not found")
	ErrMemberNotFound     = apperr.NewNotFound("User not found in members")
	ErrInviteNotFound     = apperr.NewNotFound("Invite not found")
	ErrPendingInviteGone  = apperr.NewNotFound("Invite not found or expired")
	ErrNotWorkspaceOwner  = apperr.NewUnauthorized("Only the owner can update workspace details")
	ErrActorGone          = apperr.NewUnauthorized("User not found")
	ErrRemoveOwner        = apperr.NewForbidden("Cannot remove workspace owner")
	ErrLeaveOwnWorkspace  = apperr.NewForbidden("Cannot leave your own workspace")
	ErrNotInvitee         = apperr.NewForbidden("You can only act on your own invites")
	ErrAlreadyMember      = apperr.NewConflict("User is already a member")
	ErrInviteNotCreated   = apperr.NewUnknown()
	ErrIncorrectPassword  = apperr.NewConflict("Incorrect password")
	ErrInvalidCredentials = apperr.NewUnprocessable("Incorrect email / password")
	ErrSamePassword       = apperr.NewConflict("New password must be different from current password")
	ErrInvalidToken       = apperr.NewForbidden("Invalid or expired token")
)

const (
	msgPendingInviteExists = "There is a pending invite for this user"
	msgWorkspaceNameTaken  = "Workspace name already exists on this account"
	msgWorkspaceSlugTaken  = "Workspace URL already exists on this account"
	msgEmailTaken          = "An account with this email already exists"
	msgUsernameTaken       = "Username %q is already taken"
)
