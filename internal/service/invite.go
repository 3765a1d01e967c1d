package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"teamhub.app/server/common/id"
	"teamhub.app/server/common/logger"
	"teamhub.app/server/internal/apperr"
	"teamhub.app/server/internal/cache"
	"teamhub.app/server/internal/model"
	"teamhub.app/server/internal/store"
)

const DefaultInvitePageLimit = 5

// InviteResult is returned by CreateInvite. Reused is set when a pending
// invite already existed and no new one was created.
type InviteResult struct {
	Reused  bool          `json:"reused,omitempty"`
	Message string        `json:"message,omitempty"`
	Invite  *model.Invite `json:"invite"`
}

// HandleInviteResult carries the updated invite and, for acceptances, the
// workspace after the member push. Workspace is nil when the push matched
// nothing.
type HandleInviteResult struct {
	Invite    *model.Invite    `json:"invite"`
	Workspace *model.Workspace `json:"workspace"`
}

type InviteService interface {
	CreateInvite(ctx context.Context, actorID int64, ownerUsername string, inviteeID, workspaceID int64) (*InviteResult, error)
	CancelInvite(ctx context.Context, actorID int64, ownerUsername string, inviteID int64) (*model.Invite, error)
	ListInvites(ctx context.Context, actorID int64, opts model.PageOptions) (*model.Page[model.InviteView], error)
	HandleInvite(ctx context.Context, actorID, workspaceID, inviteeID int64, action model.InviteStatus) (*HandleInviteResult, error)
}

type InviteServiceConfig struct {
	Invites    store.InviteStore
	Workspaces store.WorkspaceStore
	// Users resolves the owner of an accepted invite's workspace so the
	// members' cached views can be dropped.
	Users  store.UserStore
	Owners OwnershipValidator
	Cache  cache.Cache
	// TxRunner is used only when AtomicAccept is set.
	TxRunner     TxRunner
	AtomicAccept bool
}

type inviteService struct {
	invites      store.InviteStore
	workspaces   store.WorkspaceStore
	users        store.UserStore
	owners       OwnershipValidator
	cache        cache.Cache
	txRunner     TxRunner
	atomicAccept bool
}

func NewInviteService(cfg InviteServiceConfig) InviteService {
	c := cfg.Cache
	if c == nil {
		c = cache.NewNoop()
	}
	return &inviteService{
		invites:      cfg.Invites,
		workspaces:   cfg.Workspaces,
		users:        cfg.Users,
		owners:       cfg.Owners,
		cache:        c,
		txRunner:     cfg.TxRunner,
		atomicAccept: cfg.AtomicAccept && cfg.TxRunner != nil,
	}
}

func (s *inviteService) CreateInvite(ctx context.Context, actorID int64, ownerUsername string, inviteeID, workspaceID int64) (*InviteResult, error) {
	if inviteeID == 0 || workspaceID == 0 {
		return nil, ErrMissingParameter
	}

	owner, err := s.owners.ValidateOwner(ctx, actorID, ownerUsername)
	if err != nil {
		return nil, err
	}

	ws, err := s.workspaces.FindOne(ctx, store.WorkspaceFilter{ID: &workspaceID, OwnerID: &owner.ID})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("finding workspace: %w", err)
	}

	if ws.HasMember(inviteeID) {
		return nil, ErrAlreadyMember
	}

	existing, err := s.invites.FindPending(ctx, workspaceID, inviteeID)
	switch {
	case err == nil:
		return &InviteResult{Reused: true, Invite: existing, Message: msgPendingInviteExists}, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("checking pending invite: %w", err)
	}

	inv := &model.Invite{
		ID:          id.New(),
		OwnerID:     owner.ID,
		WorkspaceID: workspaceID,
		InviteeID:   inviteeID,
		Status:      model.InviteStatusPending,
	}
	if err := s.invites.Create(ctx, inv); err != nil {
		if conflict, ok := store.AsConflict(err); ok && conflict.Constraint == store.ConstraintPendingInvite {
			return nil, apperr.Wrap(apperr.Conflict, msgPendingInviteExists, conflict)
		}
		slog.ErrorContext(ctx, "failed to create invite", "error", err, "workspace_id", workspaceID)
		return nil, fmt.Errorf("creating invite: %w", err)
	}
	if inv.ID == 0 {
		return nil, ErrInviteNotCreated
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{InviteID: &inv.ID, WorkspaceID: &workspaceID})
	slog.InfoContext(ctx, "invite created", "invitee_id", inviteeID)
	return &InviteResult{Invite: inv}, nil
}

func (s *inviteService) CancelInvite(ctx context.Context, actorID int64, ownerUsername string, inviteID int64) (*model.Invite, error) {
	if ownerUsername == "" || inviteID == 0 {
		return nil, ErrMissingParameter
	}

	owner, err := s.owners.ValidateOwner(ctx, actorID, ownerUsername)
	if err != nil {
		return nil, err
	}

	inv, err := s.invites.Cancel(ctx, inviteID, owner.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("cancelling invite: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{InviteID: &inv.ID, WorkspaceID: &inv.WorkspaceID})
	slog.InfoContext(ctx, "invite cancelled")
	return inv, nil
}

func (s *inviteService) ListInvites(ctx context.Context, actorID int64, opts model.PageOptions) (*model.Page[model.InviteView], error) {
	opts = opts.Normalize(DefaultInvitePageLimit)

	items, total, err := s.invites.ListPendingForInvitee(ctx, actorID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing invites: %w", err)
	}

	page := model.NewPage(items, total, opts)
	return &page, nil
}

func (s *inviteService) HandleInvite(ctx context.Context, actorID, workspaceID, inviteeID int64, action model.InviteStatus) (*HandleInviteResult, error) {
	if !action.IsResponse() {
		return nil, ErrInvalidAction
	}
	if actorID != inviteeID {
		return nil, ErrNotInvitee
	}

	sc := logger.StartSpan(ctx, "service.invite.handle")
	defer sc.End()
	ctx = sc.Context()

	var (
		result *HandleInviteResult
		err    error
	)
	if action == model.InviteStatusAccepted && s.atomicAccept {
		err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
			result, err = respond(ctx, stores.Invites(), stores.Workspaces(), workspaceID, inviteeID, action)
			return err
		})
	} else {
		result, err = respond(ctx, s.invites, s.workspaces, workspaceID, inviteeID, action)
	}
	if err != nil {
		sc.RecordError(err)
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{InviteID: &result.Invite.ID, WorkspaceID: &workspaceID})
	if action == model.InviteStatusAccepted {
		s.cache.Delete(ctx, cache.WorkspaceListKey(inviteeID))
		if result.Workspace == nil {
			slog.WarnContext(ctx, "invite accepted but member push matched no workspace")
		} else {
			s.invalidateMembers(ctx, result.Workspace)
		}
	}
	slog.InfoContext(ctx, "invite handled", "status", result.Invite.Status)
	return result, nil
}

// respond transitions the pending invite and, on acceptance, pushes the
// invitee into the workspace. The two writes are independent unless the
// stores share a transaction.
func respond(ctx context.Context, invites store.InviteStore, workspaces store.WorkspaceStore, workspaceID, inviteeID int64, action model.InviteStatus) (*HandleInviteResult, error) {
	inv, err := invites.Respond(ctx, workspaceID, inviteeID, action)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPendingInviteGone
		}
		return nil, fmt.Errorf("updating invite: %w", err)
	}

	result := &HandleInviteResult{Invite: inv}
	if action != model.InviteStatusAccepted {
		return result, nil
	}

	ws, err := workspaces.AddMember(ctx, workspaceID, model.Member{UserID: inviteeID, Role: model.MemberRoleMember})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("adding member: %w", err)
	}
	result.Workspace = ws
	return result, nil
}

func (s *inviteService) invalidateMembers(ctx context.Context, ws *model.Workspace) {
	ownerUsername := ""
	if s.users != nil {
		owner, err := s.users.GetByID(ctx, ws.OwnerID)
		if err != nil {
			slog.WarnContext(ctx, "failed to resolve workspace owner for cache invalidation", "error", err, "owner_id", ws.OwnerID)
		} else {
			ownerUsername = owner.Username
		}
	}

	slug := ws.Slug
	if ownerUsername == "" {
		slug = ""
	}
	invalidateWorkspace(ctx, s.cache, ownerUsername, slug, ws)
}
