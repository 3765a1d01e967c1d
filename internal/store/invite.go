package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"teamhub.app/server/core/db"
	"teamhub.app/server/internal/model"
)

const inviteColumns = `id, owner_id, workspace_id, invitee_id, status, created_at, updated_at`

type inviteStore struct {
	db db.DBTX
}

func newInviteStore(conn db.DBTX) InviteStore {
	return &inviteStore{db: conn}
}

func (s *inviteStore) Create(ctx context.Context, inv *model.Invite) error {
	if inv.Status == "" {
		inv.Status = model.InviteStatusPending
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO workspace_invites (id, owner_id, workspace_id, invitee_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+inviteColumns,
		inv.ID, inv.OwnerID, inv.WorkspaceID, inv.InviteeID, string(inv.Status),
	)
	created, err := scanInvite(row)
	if err != nil {
		return err
	}
	*inv = *created
	return nil
}

func (s *inviteStore) FindPending(ctx context.Context, workspaceID, inviteeID int64) (*model.Invite, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+inviteColumns+` FROM workspace_invites
		WHERE workspace_id = $1 AND invitee_id = $2 AND status = 'pending' AND NOT deleted
		LIMIT 1`,
		workspaceID, inviteeID,
	)
	return scanInvite(row)
}

func (s *inviteStore) Cancel(ctx context.Context, id, ownerID int64) (*model.Invite, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE workspace_invites SET deleted = TRUE, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND status = 'pending' AND NOT deleted
		RETURNING `+inviteColumns,
		id, ownerID,
	)
	inv, err := scanInvite(row)
	if err != nil {
		return nil, err
	}
	inv.IsDeleted = true
	return inv, nil
}

func (s *inviteStore) Respond(ctx context.Context, workspaceID, inviteeID int64, status model.InviteStatus) (*model.Invite, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE workspace_invites SET status = $3, updated_at = now()
		WHERE workspace_id = $1 AND invitee_id = $2 AND status = 'pending' AND NOT deleted
		RETURNING `+inviteColumns,
		workspaceID, inviteeID, string(status),
	)
	return scanInvite(row)
}

func (s *inviteStore) ListPendingForInvitee(ctx context.Context, inviteeID int64, opts model.PageOptions) ([]model.InviteView, int, error) {
	var total int
	err := s.db.QueryRow(ctx, `
		SELECT count(*) FROM workspace_invites
		WHERE invitee_id = $1 AND status = 'pending' AND NOT deleted`,
		inviteeID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting invites: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT i.id, i.workspace_id, w.slug, i.owner_id, u.username, u.full_name, i.invitee_id, i.status, i.created_at, i.updated_at
		FROM workspace_invites i
		JOIN workspaces w ON w.id = i.workspace_id
		JOIN users u ON u.id = i.owner_id
		WHERE i.invitee_id = $1 AND i.status = 'pending' AND NOT i.deleted
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT $2 OFFSET $3`,
		inviteeID, opts.Limit, opts.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing invites: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.InviteView, error) {
		var (
			v      model.InviteView
			status string
		)
		err := row.Scan(&v.ID, &v.Workspace.ID, &v.Workspace.Slug, &v.Owner.ID, &v.Owner.Username, &v.Owner.FullName,
			&v.InviteeID, &status, &v.CreatedAt, &v.UpdatedAt)
		v.Status = model.InviteStatus(status)
		return v, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scanning invites: %w", err)
	}
	return items, total, nil
}

func scanInvite(row pgx.Row) (*model.Invite, error) {
	var (
		inv    model.Invite
		status string
	)
	if err := row.Scan(&inv.ID, &inv.OwnerID, &inv.WorkspaceID, &inv.InviteeID, &status, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	inv.Status = model.InviteStatus(status)
	return &inv, nil
}
