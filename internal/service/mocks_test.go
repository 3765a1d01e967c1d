package service_test

import (
	"context"

	"teamhub.app/server/internal/model"
	"teamhub.app/server/internal/service"
	"teamhub.app/server/internal/store"
)

type mockUserStore struct {
	getByIDFn       func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*model.User, error)
	createFn        func(ctx context.Context, user *model.User) error
	updateFn        func(ctx context.Context, id int64, patch store.UserPatch) (*model.User, error)
	softDeleteFn    func(ctx context.Context, id int64) error
	listBriefsFn    func(ctx context.Context, ids []int64) ([]model.UserBrief, error)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) Update(ctx context.Context, id int64, patch store.UserPatch) (*model.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return &model.User{ID: id}, nil
}

func (m *mockUserStore) SoftDelete(ctx context.Context, id int64) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, id)
	}
	return nil
}

func (m *mockUserStore) ListBriefs(ctx context.Context, ids []int64) ([]model.UserBrief, error) {
	if m.listBriefsFn != nil {
		return m.listBriefsFn(ctx, ids)
	}
	return nil, nil
}

type mockWorkspaceStore struct {
	createFn       func(ctx context.Context, ws *model.Workspace) error
	findOneFn      func(ctx context.Context, filter store.WorkspaceFilter) (*model.Workspace, error)
	listForUserFn  func(ctx context.Context, userID int64, query string, opts model.PageOptions) ([]model.WorkspaceSummary, int, error)
	updateNameFn   func(ctx context.Context, filter store.WorkspaceFilter, update model.WorkspaceUpdate) (*model.Workspace, error)
	softDeleteFn   func(ctx context.Context, filter store.WorkspaceFilter) (*model.Workspace, error)
	addMemberFn    func(ctx context.Context, workspaceID int64, member model.Member) (*model.Workspace, error)
	removeMemberFn func(ctx context.Context, workspaceID, userID int64) (*model.Workspace, error)
	listCalls      int
}

func (m *mockWorkspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	if m.createFn != nil {
		return m.createFn(ctx, ws)
	}
	return nil
}

func (m *mockWorkspaceStore) FindOne(ctx context.Context, filter store.WorkspaceFilter) (*model.Workspace, error) {
	if m.findOneFn != nil {
		return m.findOneFn(ctx, filter)
	}
	return nil, store.ErrNotFound
}

func (m *mockWorkspaceStore) ListForUser(ctx context.Context, userID int64, query string, opts model.PageOptions) ([]model.WorkspaceSummary, int, error) {
	m.listCalls++
	if m.listForUserFn != nil {
		return m.listForUserFn(ctx, userID, query, opts)
	}
	return nil, 0, nil
}

func (m *mockWorkspaceStore) UpdateName(ctx context.Context, filter store.WorkspaceFilter, update model.WorkspaceUpdate) (*model.Workspace, error) {
	if m.updateNameFn != nil {
		return m.updateNameFn(ctx, filter, update)
	}
	return nil, store.ErrNotFound
}

func (m *mockWorkspaceStore) SoftDelete(ctx context.Context, filter store.WorkspaceFilter) (*model.Workspace, error) {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, filter)
	}
	return nil, store.ErrNotFound
}

func (m *mockWorkspaceStore) AddMember(ctx context.Context, workspaceID int64, member model.Member) (*model.Workspace, error) {
	if m.addMemberFn != nil {
		return m.addMemberFn(ctx, workspaceID, member)
	}
	return nil, store.ErrNotFound
}

func (m *mockWorkspaceStore) RemoveMember(ctx context.Context, workspaceID, userID int64) (*model.Workspace, error) {
	if m.removeMemberFn != nil {
		return m.removeMemberFn(ctx, workspaceID, userID)
	}
	return nil, store.ErrNotFound
}

type mockInviteStore struct {
	createFn      func(ctx context.Context, inv *model.Invite) error
	findPendingFn func(ctx context.Context, workspaceID, inviteeID int64) (*model.Invite, error)
	cancelFn      func(ctx context.Context, id, ownerID int64) (*model.Invite, error)
	respondFn     func(ctx context.Context, workspaceID, inviteeID int64, status model.InviteStatus) (*model.Invite, error)
	listFn        func(ctx context.Context, inviteeID int64, opts model.PageOptions) ([]model.InviteView, int, error)
}

func (m *mockInviteStore) Create(ctx context.Context, inv *model.Invite) error {
	if m.createFn != nil {
		return m.createFn(ctx, inv)
	}
	return nil
}

func (m *mockInviteStore) FindPending(ctx context.Context, workspaceID, inviteeID int64) (*model.Invite, error) {
	if m.findPendingFn != nil {
		return m.findPendingFn(ctx, workspaceID, inviteeID)
	}
	return nil, store.ErrNotFound
}

func (m *mockInviteStore) Cancel(ctx context.Context, id, ownerID int64) (*model.Invite, error) {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, id, ownerID)
	}
	return nil, store.ErrNotFound
}

func (m *mockInviteStore) Respond(ctx context.Context, workspaceID, inviteeID int64, status model.InviteStatus) (*model.Invite, error) {
	if m.respondFn != nil {
		return m.respondFn(ctx, workspaceID, inviteeID, status)
	}
	return nil, store.ErrNotFound
}

func (m *mockInviteStore) ListPendingForInvitee(ctx context.Context, inviteeID int64, opts model.PageOptions) ([]model.InviteView, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, inviteeID, opts)
	}
	return nil, 0, nil
}

type mockOwnershipValidator struct {
	validateOwnerFn func(ctx context.Context, actorID int64, ownerUsername string) (*model.User, error)
}

func (m *mockOwnershipValidator) ValidateOwner(ctx context.Context, actorID int64, ownerUsername string) (*model.User, error) {
	if m.validateOwnerFn != nil {
		return m.validateOwnerFn(ctx, actorID, ownerUsername)
	}
	return &model.User{ID: actorID, Username: ownerUsername}, nil
}

// mockTxRunner runs fn against the given stores and counts transactions.
type mockTxRunner struct {
	stores service.StoreProvider
	calls  int
}

func (m *mockTxRunner) WithTx(_ context.Context, fn func(stores service.StoreProvider) error) error {
	m.calls++
	return fn(m.stores)
}
