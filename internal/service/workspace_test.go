package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamhub.app/server/internal/apperr"
	"teamhub.app/server/internal/cache"
	"teamhub.app/server/internal/model"
	"teamhub.app/server/internal/service"
	"teamhub.app/server/internal/store"
)

const (
	aliceID int64 = 101
	bobID   int64 = 202
	carolID int64 = 303
)

func ptr[T any](v T) *T { return &v }

var _ = Describe("WorkspaceService", func() {
	var (
		ctx    context.Context
		stores *memStores
		spy    *spyCache
		svc    service.WorkspaceService
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newMemStores()
		stores.addUser(aliceID, "alice")
		stores.addUser(bobID, "bob")
		stores.addUser(carolID, "carol")
		spy = newSpyCache()
		svc = service.NewWorkspaceService(
			stores.Workspaces(),
			stores.Users(),
			service.NewOwnershipValidator(stores.Users()),
			spy,
			cache.DefaultTTL,
		)
	})

	create := func(name string, members ...model.Member) *model.Workspace {
		ws, err := svc.Create(ctx, aliceID, &service.CreateWorkspaceParams{Name: name, Members: members})
		Expect(err).NotTo(HaveOccurred())
		return ws
	}

	Describe("Create", func() {
		It("derives the slug and makes the actor the only admin", func() {
			ws := create("Design Team")

			Expect(ws.ID).NotTo(BeZero())
			Expect(ws.Slug).To(Equal("design-team"))
			Expect(ws.OwnerID).To(Equal(aliceID))
			Expect(ws.Members).To(Equal([]model.Member{{UserID: aliceID, Role: model.MemberRoleAdmin}}))
		})

		It("keeps the actor exactly once when listed among the members", func() {
			ws := create("Design Team",
				model.Member{UserID: aliceID, Role: model.MemberRoleMember},
				model.Member{UserID: bobID, Role: model.MemberRoleMember},
				model.Member{UserID: aliceID, Role: model.MemberRoleMember},
			)

			Expect(ws.Members).To(ConsistOf(
				model.Member{UserID: aliceID, Role: model.MemberRoleAdmin},
				model.Member{UserID: bobID, Role: model.MemberRoleMember},
			))
		})

		It("uses an explicit slug as given", func() {
			ws, err := svc.Create(ctx, aliceID, &service.CreateWorkspaceParams{Name: "Design Team", Slug: "design"})
			Expect(err).NotTo(HaveOccurred())
			Expect(ws.Slug).To(Equal("design"))
		})

		It("rejects a nil body", func() {
			_, err := svc.Create(ctx, aliceID, nil)
			Expect(err).To(MatchError(service.ErrMissingBody))
		})

		It("reports a duplicate name with the name message", func() {
			create("Design Team")

			_, err := svc.Create(ctx, aliceID, &service.CreateWorkspaceParams{Name: "Design Team", Slug: "other"})
			Expect(apperr.StatusOf(err)).To(Equal(409))
			Expect(apperr.MessageOf(err)).To(Equal("Workspace name already exists on this account"))

			var conflict *store.ConflictError
			Expect(errors.As(err, &conflict)).To(BeTrue())
		})

		It("reports a duplicate slug with the URL message", func() {
			create("Design Team")

			_, err := svc.Create(ctx, aliceID, &service.CreateWorkspaceParams{Name: "Design Crew", Slug: "design-team"})
			Expect(apperr.MessageOf(err)).To(Equal("Workspace URL already exists on this account"))
		})

		It("lets another owner reuse the name", func() {
			create("Design Team")

			_, err := svc.Create(ctx, bobID, &service.CreateWorkspaceParams{Name: "Design Team"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("invalidates the actor's listing", func() {
			create("Design Team")
			Expect(spy.deletes).To(ContainElement(cache.WorkspaceListKey(aliceID)))
		})
	})

	Describe("FindAll", func() {
		It("lists only workspaces the actor belongs to", func() {
			create("Design Team")
			create("Platform Crew", model.Member{UserID: bobID, Role: model.MemberRoleMember})

			page, err := svc.FindAll(ctx, bobID, "", model.PageOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(HaveLen(1))
			Expect(page.Items[0].Name).To(Equal("Platform Crew"))
			Expect(page.Items[0].Owner.Username).To(Equal("alice"))
			Expect(page.Limit).To(Equal(service.DefaultWorkspacePageLimit))
		})

		It("serves the default first page from cache", func() {
			ws := &mockWorkspaceStore{
				listForUserFn: func(_ context.Context, _ int64, _ string, _ model.PageOptions) ([]model.WorkspaceSummary, int, error) {
					return []model.WorkspaceSummary{{ID: 1, Name: "Design Team"}}, 1, nil
				},
			}
			svc = service.NewWorkspaceService(ws, stores.Users(), &mockOwnershipValidator{}, spy, cache.DefaultTTL)

			first, err := svc.FindAll(ctx, aliceID, "", model.PageOptions{})
			Expect(err).NotTo(HaveOccurred())
			second, err := svc.FindAll(ctx, aliceID, "", model.PageOptions{Page: 1})
			Expect(err).NotTo(HaveOccurred())

			Expect(ws.listCalls).To(Equal(1))
			Expect(second).To(Equal(first))
			Expect(spy.sets).To(ConsistOf(cache.WorkspaceListKey(aliceID)))
		})

		It("does not cache filtered or later pages", func() {
			ws := &mockWorkspaceStore{}
			svc = service.NewWorkspaceService(ws, stores.Users(), &mockOwnershipValidator{}, spy, cache.DefaultTTL)

			_, _ = svc.FindAll(ctx, aliceID, "design", model.PageOptions{})
			_, _ = svc.FindAll(ctx, aliceID, "", model.PageOptions{Page: 2})
			_, _ = svc.FindAll(ctx, aliceID, "", model.PageOptions{Limit: 3})

			Expect(ws.listCalls).To(Equal(3))
			Expect(spy.sets).To(BeEmpty())
		})

		It("wraps store failures", func() {
			ws := &mockWorkspaceStore{
				listForUserFn: func(_ context.Context, _ int64, _ string, _ model.PageOptions) ([]model.WorkspaceSummary, int, error) {
					return nil, 0, errors.New("connection reset")
				},
			}
			svc = service.NewWorkspaceService(ws, stores.Users(), &mockOwnershipValidator{}, nil, cache.DefaultTTL)

			_, err := svc.FindAll(ctx, aliceID, "", model.PageOptions{})
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
			Expect(apperr.StatusOf(err)).To(Equal(500))
		})
	})

	Describe("Find", func() {
		It("returns the owner's view with populated users", func() {
			create("Design Team", model.Member{UserID: bobID, Role: model.MemberRoleMember})

			view, err := svc.Find(ctx, aliceID, "alice", "design-team")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Owner).To(Equal(model.UserBrief{ID: aliceID, Username: "alice", Email: "alice@example.com"}))
			Expect(view.Members).To(HaveLen(2))
			Expect(view.Members).To(ContainElement(model.MemberView{
				User: model.UserBrief{ID: bobID, Username: "bob", Email: "bob@example.com", FullName: "Bob"},
				Role: model.MemberRoleMember,
			}))
		})

		It("lets a member view the workspace", func() {
			create("Design Team", model.Member{UserID: bobID, Role: model.MemberRoleMember})

			view, err := svc.Find(ctx, bobID, "alice", "design-team")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Slug).To(Equal("design-team"))
		})

		It("hides the workspace from non-members", func() {
			create("Design Team")

			_, err := svc.Find(ctx, carolID, "alice", "design-team")
			Expect(err).To(MatchError(service.ErrWorkspaceNotFound))
		})

		It("fails when the owner is unknown", func() {
			_, err := svc.Find(ctx, aliceID, "nobody", "design-team")
			Expect(err).To(MatchError(service.ErrUserNotFound))
		})

		It("requires owner and slug", func() {
			_, err := svc.Find(ctx, aliceID, "", "design-team")
			Expect(err).To(MatchError(service.ErrMissingParameter))
		})

		It("caches the view per viewer", func() {
			create("Design Team")

			_, err := svc.Find(ctx, aliceID, "alice", "design-team")
			Expect(err).NotTo(HaveOccurred())
			Expect(spy.sets).To(ContainElement(cache.WorkspaceKey("alice", "design-team", aliceID)))
		})
	})

	Describe("Delete", func() {
		It("soft deletes so the workspace no longer resolves", func() {
			ws := create("Design Team")

			deleted, err := svc.Delete(ctx, aliceID, "alice", "design-team")
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted.ID).To(Equal(ws.ID))
			Expect(stores.workspace(ws.ID).IsDeleted).To(BeTrue())

			_, err = svc.Find(ctx, aliceID, "alice", "design-team")
			Expect(err).To(MatchError(service.ErrWorkspaceNotFound))
			Expect(spy.deletes).To(ContainElements(
				cache.WorkspaceKey("alice", "design-team", aliceID),
				cache.WorkspaceListKey(aliceID),
			))
		})

		It("frees the name for a new workspace", func() {
			create("Design Team")
			_, err := svc.Delete(ctx, aliceID, "alice", "design-team")
			Expect(err).NotTo(HaveOccurred())

			create("Design Team")
		})

		It("rejects a non-owner", func() {
			create("Design Team", model.Member{UserID: bobID, Role: model.MemberRoleMember})

			_, err := svc.Delete(ctx, bobID, "alice", "design-team")
			Expect(err).To(MatchError(service.ErrNotWorkspaceOwner))
			Expect(apperr.StatusOf(err)).To(Equal(401))
		})

		It("reports an unknown slug", func() {
			_, err := svc.Delete(ctx, aliceID, "alice", "missing")
			Expect(err).To(MatchError(service.ErrWorkspaceNotFound))
		})
	})

	Describe("UpdateName", func() {
		It("round-trips through Find with the new slug", func() {
			create("Design Team")

			view, err := svc.UpdateName(ctx, aliceID, "alice", "design-team", model.WorkspaceUpdate{
				Name: ptr("Brand Studio"),
				Slug: ptr("brand-studio"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Name).To(Equal("Brand Studio"))
			Expect(spy.deletes).To(ContainElement(cache.WorkspaceKey("alice", "design-team", aliceID)))

			found, err := svc.Find(ctx, aliceID, "alice", "brand-studio")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Name).To(Equal("Brand Studio"))
			Expect(found.Slug).To(Equal("brand-studio"))
			Expect(found.Owner.ID).To(Equal(aliceID))
		})

		It("refreshes the cached view when only the name changes", func() {
			create("Design Team")

			_, err := svc.UpdateName(ctx, aliceID, "alice", "design-team", model.WorkspaceUpdate{Name: ptr("Design Crew")})
			Expect(err).NotTo(HaveOccurred())
			Expect(spy.sets).To(ContainElement(cache.WorkspaceKey("alice", "design-team", aliceID)))

			found, err := svc.Find(ctx, aliceID, "alice", "design-team")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Name).To(Equal("Design Crew"))
		})

		It("rejects an empty update", func() {
			create("Design Team")

			_, err := svc.UpdateName(ctx, aliceID, "alice", "design-team", model.WorkspaceUpdate{})
			Expect(err).To(MatchError(service.ErrEmptyUpdate))
			Expect(apperr.StatusOf(err)).To(Equal(400))
		})

		It("reports a taken name", func() {
			create("Design Team")
			create("Platform Crew")

			_, err := svc.UpdateName(ctx, aliceID, "alice", "platform-crew", model.WorkspaceUpdate{Name: ptr("Design Team")})
			Expect(apperr.StatusOf(err)).To(Equal(409))
		})

		It("rejects a non-owner", func() {
			create("Design Team")

			_, err := svc.UpdateName(ctx, bobID, "alice", "design-team", model.WorkspaceUpdate{Name: ptr("Taken Over")})
			Expect(err).To(MatchError(service.ErrNotWorkspaceOwner))
		})
	})

	Describe("RemoveMember", func() {
		BeforeEach(func() {
			create("Design Team", model.Member{UserID: bobID, Role: model.MemberRoleMember})
		})

		It("drops the member and their listing", func() {
			ws, err := svc.RemoveMember(ctx, aliceID, "alice", "design-team", bobID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ws.HasMember(bobID)).To(BeFalse())
			Expect(spy.deletes).To(ContainElement(cache.WorkspaceListKey(bobID)))
		})

		It("refuses to remove the owner", func() {
			_, err := svc.RemoveMember(ctx, aliceID, "alice", "design-team", aliceID)
			Expect(err).To(MatchError(service.ErrRemoveOwner))
			Expect(apperr.StatusOf(err)).To(Equal(403))
		})

		It("reports a user who is not a member", func() {
			_, err := svc.RemoveMember(ctx, aliceID, "alice", "design-team", carolID)
			Expect(err).To(MatchError(service.ErrMemberNotFound))
		})

		It("reports an unknown user", func() {
			_, err := svc.RemoveMember(ctx, aliceID, "alice", "design-team", 999)
			Expect(err).To(MatchError(service.ErrUserNotFound))
		})

		It("rejects a non-owner", func() {
			_, err := svc.RemoveMember(ctx, bobID, "alice", "design-team", bobID)
			Expect(err).To(MatchError(service.ErrNotWorkspaceOwner))
		})
	})

	Describe("Leave", func() {
		BeforeEach(func() {
			create("Design Team", model.Member{UserID: bobID, Role: model.MemberRoleMember})
		})

		It("removes the actor from the members", func() {
			ws, err := svc.Leave(ctx, bobID, "alice", "design-team")
			Expect(err).NotTo(HaveOccurred())
			Expect(ws.HasMember(bobID)).To(BeFalse())
			Expect(ws.HasMember(aliceID)).To(BeTrue())

			_, err = svc.Find(ctx, bobID, "alice", "design-team")
			Expect(err).To(MatchError(service.ErrWorkspaceNotFound))
		})

		It("refuses the owner", func() {
			_, err := svc.Leave(ctx, aliceID, "alice", "design-team")
			Expect(err).To(MatchError(service.ErrLeaveOwnWorkspace))
		})

		It("reports an unknown owner as a missing workspace", func() {
			_, err := svc.Leave(ctx, bobID, "nobody", "design-team")
			Expect(err).To(MatchError(service.ErrWorkspaceNotFound))
		})

		It("reports a workspace the actor is not in", func() {
			_, err := svc.Leave(ctx, carolID, "alice", "design-team")
			Expect(err).To(MatchError(service.ErrWorkspaceNotFound))
		})
	})

	Context("with the memory cache", func() {
		BeforeEach(func() {
			svc = service.NewWorkspaceService(
				stores.Workspaces(),
				stores.Users(),
				service.NewOwnershipValidator(stores.Users()),
				cache.NewMemory(),
				cache.DefaultTTL,
			)
			create("Design Team",
				model.Member{UserID: bobID, Role: model.MemberRoleMember},
				model.Member{UserID: carolID, Role: model.MemberRoleMember},
			)
		})

		viewAs := func(viewerID int64) error {
			_, err := svc.Find(ctx, viewerID, "alice", "design-team")
			return err
		}

		It("stops serving a removed member their cached view", func() {
			Expect(viewAs(bobID)).To(Succeed())

			_, err := svc.RemoveMember(ctx, aliceID, "alice", "design-team", bobID)
			Expect(err).NotTo(HaveOccurred())

			Expect(viewAs(bobID)).To(MatchError(service.ErrWorkspaceNotFound))
		})

		It("shows the remaining members the updated member list", func() {
			Expect(viewAs(carolID)).To(Succeed())

			_, err := svc.RemoveMember(ctx, aliceID, "alice", "design-team", bobID)
			Expect(err).NotTo(HaveOccurred())

			view, err := svc.Find(ctx, carolID, "alice", "design-team")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Members).To(HaveLen(2))
		})

		It("hides a deleted workspace from every member", func() {
			for _, viewerID := range []int64{aliceID, bobID, carolID} {
				Expect(viewAs(viewerID)).To(Succeed())
				_, err := svc.FindAll(ctx, viewerID, "", model.PageOptions{})
				Expect(err).NotTo(HaveOccurred())
			}

			_, err := svc.Delete(ctx, aliceID, "alice", "design-team")
			Expect(err).NotTo(HaveOccurred())

			for _, viewerID := range []int64{aliceID, bobID, carolID} {
				Expect(viewAs(viewerID)).To(MatchError(service.ErrWorkspaceNotFound))
				page, err := svc.FindAll(ctx, viewerID, "", model.PageOptions{})
				Expect(err).NotTo(HaveOccurred())
				Expect(page.Items).To(BeEmpty())
			}
		})

		It("stops serving a member who left their cached view", func() {
			Expect(viewAs(bobID)).To(Succeed())
			Expect(viewAs(aliceID)).To(Succeed())

			_, err := svc.Leave(ctx, bobID, "alice", "design-team")
			Expect(err).NotTo(HaveOccurred())

			Expect(viewAs(bobID)).To(MatchError(service.ErrWorkspaceNotFound))
			view, err := svc.Find(ctx, aliceID, "alice", "design-team")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Members).To(HaveLen(2))
		})
	})
})
