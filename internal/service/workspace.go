package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"teamhub.app/server/common"
	"teamhub.app/server/common/id"
	"teamhub.app/server/common/logger"
	"teamhub.app/server/internal/apperr"
	"teamhub.app/server/internal/cache"
	"teamhub.app/server/internal/model"
	"teamhub.app/server/internal/store"
)

const DefaultWorkspacePageLimit = 8

type CreateWorkspaceParams struct {
	Name string
	// Slug is derived from Name when empty.
	Slug    string
	Members []model.Member
}

type WorkspaceService interface {
	Create(ctx context.Context, actorID int64, params *CreateWorkspaceParams) (*model.Workspace, error)
	FindAll(ctx context.Context, actorID int64, query string, opts model.PageOptions) (*model.Page[model.WorkspaceSummary], error)
	Find(ctx context.Context, actorID int64, ownerUsername, slug string) (*model.WorkspaceView, error)
	Delete(ctx context.Context, actorID int64, ownerUsername, slug string) (*model.Workspace, error)
	UpdateName(ctx context.Context, actorID int64, ownerUsername, slug string, update model.WorkspaceUpdate) (*model.WorkspaceView, error)
	RemoveMember(ctx context.Context, actorID int64, ownerUsername, slug string, memberID int64) (*model.Workspace, error)
	Leave(ctx context.Context, actorID int64, ownerUsername, slug string) (*model.Workspace, error)
}

type workspaceService struct {
	workspaces store.WorkspaceStore
	users      store.UserStore
	owners     OwnershipValidator
	cache      cache.Cache
	cacheTTL   time.Duration
}

func NewWorkspaceService(workspaces store.WorkspaceStore, users store.UserStore, owners OwnershipValidator, c cache.Cache, cacheTTL time.Duration) WorkspaceService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &workspaceService{
		workspaces: workspaces,
		users:      users,
		owners:     owners,
		cache:      c,
		cacheTTL:   cacheTTL,
	}
}

func (s *workspaceService) Create(ctx context.Context, actorID int64, params *CreateWorkspaceParams) (*model.Workspace, error) {
	if params == nil {
		return nil, ErrMissingBody
	}

	slug := params.Slug
	if slug == "" {
		slug = common.Slugify(params.Name)
	}

	ws := &model.Workspace{
		ID:      id.New(),
		Name:    params.Name,
		Slug:    slug,
		OwnerID: actorID,
		Members: withAdmin(params.Members, actorID),
	}

	if err := s.workspaces.Create(ctx, ws); err != nil {
		if conflict, ok := store.AsConflict(err); ok {
			return nil, workspaceConflict(conflict)
		}
		slog.ErrorContext(ctx, "failed to create workspace", "error", err, "owner_id", actorID)
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	invalidateWorkspace(ctx, s.cache, "", "", ws)

	slog.InfoContext(ctx, "workspace created",
		"workspace_id", ws.ID,
		"owner_id", actorID,
		"slug", ws.Slug,
	)
	return ws, nil
}

func (s *workspaceService) FindAll(ctx context.Context, actorID int64, query string, opts model.PageOptions) (*model.Page[model.WorkspaceSummary], error) {
	opts = opts.Normalize(DefaultWorkspacePageLimit)

	// Only the unfiltered first page is cached under the actor's listing key.
	cacheable := query == "" && opts.Page == 1 && opts.Limit == DefaultWorkspacePageLimit
	key := cache.WorkspaceListKey(actorID)

	if cacheable {
		var cached model.Page[model.WorkspaceSummary]
		if s.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	items, total, err := s.workspaces.ListForUser(ctx, actorID, query, opts)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}

	page := model.NewPage(items, total, opts)
	if cacheable {
		s.cache.Set(ctx, key, page, s.cacheTTL)
	}
	return &page, nil
}

func (s *workspaceService) Find(ctx context.Context, actorID int64, ownerUsername, slug string) (*model.WorkspaceView, error) {
	if ownerUsername == "" || slug == "" {
		return nil, ErrMissingParameter
	}

	key := cache.WorkspaceKey(ownerUsername, slug, actorID)
	var cached model.WorkspaceView
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	owner, err := s.users.GetByUsername(ctx, ownerUsername)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolving owner: %w", err)
	}

	filter := store.WorkspaceFilter{Slug: slug}
	if owner.ID == actorID {
		filter.OwnerOrMemberID = &actorID
	} else {
		filter.OwnerID = &owner.ID
		filter.MemberID = &actorID
	}

	ws, err := s.findOne(ctx, filter)
	if err != nil {
		return nil, err
	}

	view, err := s.populate(ctx, ws)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, view, s.cacheTTL)
	return view, nil
}

func (s *workspaceService) Delete(ctx context.Context, actorID int64, ownerUsername, slug string) (*model.Workspace, error) {
	if ownerUsername == "" || slug == "" {
		return nil, ErrMissingParameter
	}

	owner, err := s.owners.ValidateOwner(ctx, actorID, ownerUsername)
	if err != nil {
		return nil, err
	}

	ws, err := s.workspaces.SoftDelete(ctx, store.WorkspaceFilter{Slug: slug, OwnerID: &owner.ID})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("deleting workspace: %w", err)
	}

	invalidateWorkspace(ctx, s.cache, ownerUsername, slug, ws)

	ctx = logger.WithLogFields(ctx, logger.LogFields{WorkspaceID: &ws.ID})
	slog.InfoContext(ctx, "workspace deleted", "slug", slug)
	return ws, nil
}

func (s *workspaceService) UpdateName(ctx context.Context, actorID int64, ownerUsername, slug string, update model.WorkspaceUpdate) (*model.WorkspaceView, error) {
	if ownerUsername == "" || slug == "" {
		return nil, ErrMissingParameter
	}
	if update.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	owner, err := s.owners.ValidateOwner(ctx, actorID, ownerUsername)
	if err != nil {
		return nil, err
	}

	ws, err := s.workspaces.UpdateName(ctx, store.WorkspaceFilter{Slug: slug, OwnerID: &owner.ID}, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		if conflict, ok := store.AsConflict(err); ok {
			return nil, workspaceConflict(conflict)
		}
		return nil, fmt.Errorf("updating workspace: %w", err)
	}

	invalidateWorkspace(ctx, s.cache, ownerUsername, slug, ws)

	view, err := s.populate(ctx, ws)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.WorkspaceKey(ownerUsername, ws.Slug, actorID), view, s.cacheTTL)

	ctx = logger.WithLogFields(ctx, logger.LogFields{WorkspaceID: &ws.ID})
	slog.InfoContext(ctx, "workspace renamed", "old_slug", slug, "slug", ws.Slug)
	return view, nil
}

func (s *workspaceService) RemoveMember(ctx context.Context, actorID int64, ownerUsername, slug string, memberID int64) (*model.Workspace, error) {
	if ownerUsername == "" || slug == "" || memberID == 0 {
		return nil, ErrMissingParameter
	}

	owner, err := s.owners.ValidateOwner(ctx, actorID, ownerUsername)
	if err != nil {
		return nil, err
	}
	if memberID == owner.ID {
		return nil, ErrRemoveOwner
	}

	ws, err := s.findOne(ctx, store.WorkspaceFilter{Slug: slug, OwnerID: &owner.ID})
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading member: %w", err)
	}

	if !ws.HasMember(memberID) {
		return nil, ErrMemberNotFound
	}

	updated, err := s.workspaces.RemoveMember(ctx, ws.ID, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("removing member: %w", err)
	}

	// ws still lists the removed member.
	invalidateWorkspace(ctx, s.cache, ownerUsername, slug, ws)

	ctx = logger.WithLogFields(ctx, logger.LogFields{WorkspaceID: &ws.ID})
	slog.InfoContext(ctx, "workspace member removed", "member_id", memberID)
	return updated, nil
}

// Leave removes the actor from a workspace owned by ownerUsername.
func (s *workspaceService) Leave(ctx context.Context, actorID int64, ownerUsername, slug string) (*model.Workspace, error) {
	if actorID == 0 || ownerUsername == "" || slug == "" {
		return nil, ErrMissingParameter
	}

	owner, err := s.users.GetByUsername(ctx, ownerUsername)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("resolving owner: %w", err)
	}

	ws, err := s.findOne(ctx, store.WorkspaceFilter{Slug: slug, OwnerID: &owner.ID, MemberID: &actorID})
	if err != nil {
		return nil, err
	}
	if ws.OwnerID == actorID {
		return nil, ErrLeaveOwnWorkspace
	}
	if !ws.HasMember(actorID) {
		return nil, ErrMemberNotFound
	}

	updated, err := s.workspaces.RemoveMember(ctx, ws.ID, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("leaving workspace: %w", err)
	}

	invalidateWorkspace(ctx, s.cache, ownerUsername, slug, ws)

	ctx = logger.WithLogFields(ctx, logger.LogFields{WorkspaceID: &ws.ID})
	slog.InfoContext(ctx, "workspace left")
	return updated, nil
}

func (s *workspaceService) findOne(ctx context.Context, filter store.WorkspaceFilter) (*model.Workspace, error) {
	ws, err := s.workspaces.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("finding workspace: %w", err)
	}
	return ws, nil
}

// populate resolves the owner to email and username and every member to
// email, username and full name.
func (s *workspaceService) populate(ctx context.Context, ws *model.Workspace) (*model.WorkspaceView, error) {
	ids := make([]int64, 0, len(ws.Members)+1)
	ids = append(ids, ws.OwnerID)
	for _, m := range ws.Members {
		if m.UserID != ws.OwnerID {
			ids = append(ids, m.UserID)
		}
	}

	briefs, err := s.users.ListBriefs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading workspace users: %w", err)
	}
	byID := make(map[int64]model.UserBrief, len(briefs))
	for _, b := range briefs {
		byID[b.ID] = b
	}

	owner := byID[ws.OwnerID]
	view := &model.WorkspaceView{
		ID:        ws.ID,
		Name:      ws.Name,
		Slug:      ws.Slug,
		Owner:     model.UserBrief{ID: ws.OwnerID, Username: owner.Username, Email: owner.Email},
		Members:   make([]model.MemberView, 0, len(ws.Members)),
		CreatedAt: ws.CreatedAt,
		UpdatedAt: ws.UpdatedAt,
	}
	for _, m := range ws.Members {
		user, ok := byID[m.UserID]
		if !ok {
			user = model.UserBrief{ID: m.UserID}
		}
		view.Members = append(view.Members, model.MemberView{User: user, Role: m.Role})
	}
	return view, nil
}

// withAdmin returns members with actorID present exactly once as admin.
func withAdmin(members []model.Member, actorID int64) []model.Member {
	out := make([]model.Member, 0, len(members)+1)
	seen := make(map[int64]bool, len(members)+1)
	for _, m := range members {
		if seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true
		if m.UserID == actorID {
			m.Role = model.MemberRoleAdmin
		}
		out = append(out, m)
	}
	if !seen[actorID] {
		out = append(out, model.Member{UserID: actorID, Role: model.MemberRoleAdmin})
	}
	return out
}

func workspaceConflict(c *store.ConflictError) error {
	msg := msgWorkspaceNameTaken
	if c.Constraint == store.ConstraintWorkspaceSlug {
		msg = msgWorkspaceSlugTaken
	}
	return apperr.Wrap(apperr.Conflict, msg, c)
}

// invalidateWorkspace drops the cached listing of the owner and every member
// of ws, and their cached views of ownerUsername/slug when a slug is given.
func invalidateWorkspace(ctx context.Context, c cache.Cache, ownerUsername, slug string, ws *model.Workspace) {
	viewers := make([]int64, 0, len(ws.Members)+1)
	viewers = append(viewers, ws.OwnerID)
	for _, m := range ws.Members {
		if m.UserID != ws.OwnerID {
			viewers = append(viewers, m.UserID)
		}
	}

	for _, viewerID := range viewers {
		c.Delete(ctx, cache.WorkspaceListKey(viewerID))
		if slug != "" {
			c.Delete(ctx, cache.WorkspaceKey(ownerUsername, slug, viewerID))
		}
	}
}
