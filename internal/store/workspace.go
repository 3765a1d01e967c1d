package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"teamhub.app/server/core/db"
	"teamhub.app/server/internal/model"
)

const workspaceColumns = `id, name, slug, owner_id, members, created_at, updated_at`

// memberMatch is true when members contains an entry for the user bound at the given placeholder.
const memberMatch = `members @> jsonb_build_array(jsonb_build_object('user', $%d::bigint))`

type workspaceStore struct {
	db db.DBTX
}

func newWorkspaceStore(conn db.DBTX) WorkspaceStore {
	return &workspaceStore{db: conn}
}

func (s *workspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	if ws.Members == nil {
		ws.Members = []model.Member{}
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO workspaces (id, name, slug, owner_id, members)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+workspaceColumns,
		ws.ID, ws.Name, ws.Slug, ws.OwnerID, ws.Members,
	)
	created, err := scanWorkspace(row)
	if err != nil {
		return err
	}
	*ws = *created
	return nil
}

func (s *workspaceStore) FindOne(ctx context.Context, filter WorkspaceFilter) (*model.Workspace, error) {
	where, args := filter.clause(nil)
	row := s.db.QueryRow(ctx, `SELECT `+workspaceColumns+` FROM workspaces WHERE `+where+` LIMIT 1`, args...)
	return scanWorkspace(row)
}

func (s *workspaceStore) ListForUser(ctx context.Context, userID int64, query string, opts model.PageOptions) ([]model.WorkspaceSummary, int, error) {
	const where = `
		NOT w.deleted
		AND (w.owner_id = $1 OR w.members @> jsonb_build_array(jsonb_build_object('user', $1::bigint)))
		AND ($2::text = '' OR to_tsvector('simple', w.name) @@ plainto_tsquery('simple', $2::text))`

	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM workspaces w WHERE `+where, userID, query).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting workspaces: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT w.id, w.name, w.slug, w.owner_id, u.username, u.email, w.members, w.created_at, w.updated_at
		FROM workspaces w
		JOIN users u ON u.id = w.owner_id
		WHERE `+where+`
		ORDER BY w.created_at DESC, w.id DESC
		LIMIT $3 OFFSET $4`,
		userID, query, opts.Limit, opts.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing workspaces: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.WorkspaceSummary, error) {
		var w model.WorkspaceSummary
		err := row.Scan(&w.ID, &w.Name, &w.Slug, &w.Owner.ID, &w.Owner.Username, &w.Owner.Email,
			&w.Members, &w.CreatedAt, &w.UpdatedAt)
		return w, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scanning workspaces: %w", err)
	}
	return items, total, nil
}

func (s *workspaceStore) UpdateName(ctx context.Context, filter WorkspaceFilter, update model.WorkspaceUpdate) (*model.Workspace, error) {
	where, args := filter.clause([]any{update.Name, update.Slug})
	row := s.db.QueryRow(ctx, `
		UPDATE workspaces SET
			name       = COALESCE($1::text, name),
			slug       = COALESCE($2::text, slug),
			updated_at = now()
		WHERE `+where+`
		RETURNING `+workspaceColumns, args...)
	return scanWorkspace(row)
}

func (s *workspaceStore) SoftDelete(ctx context.Context, filter WorkspaceFilter) (*model.Workspace, error) {
	where, args := filter.clause(nil)
	row := s.db.QueryRow(ctx, `
		UPDATE workspaces SET deleted = TRUE, updated_at = now()
		WHERE `+where+`
		RETURNING `+workspaceColumns, args...)
	return scanWorkspace(row)
}

func (s *workspaceStore) AddMember(ctx context.Context, workspaceID int64, member model.Member) (*model.Workspace, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE workspaces SET
			members    = members || jsonb_build_array(jsonb_build_object('user', $2::bigint, 'role', $3::text)),
			updated_at = now()
		WHERE id = $1 AND NOT deleted AND NOT `+fmt.Sprintf(memberMatch, 2)+`
		RETURNING `+workspaceColumns,
		workspaceID, member.UserID, string(member.Role),
	)
	return scanWorkspace(row)
}

func (s *workspaceStore) RemoveMember(ctx context.Context, workspaceID, userID int64) (*model.Workspace, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE workspaces SET
			members = (
				SELECT COALESCE(jsonb_agg(e.m ORDER BY e.i), '[]'::jsonb)
				FROM jsonb_array_elements(members) WITH ORDINALITY AS e(m, i)
				WHERE (e.m->>'user')::bigint <> $2
			),
			updated_at = now()
		WHERE id = $1 AND NOT deleted AND `+fmt.Sprintf(memberMatch, 2)+`
		RETURNING `+workspaceColumns,
		workspaceID, userID,
	)
	return scanWorkspace(row)
}

// clause renders the filter as a WHERE body, appending its values to args.
func (f WorkspaceFilter) clause(args []any) (string, []any) {
	conds := []string{"NOT deleted"}
	add := func(expr string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if f.ID != nil {
		add("id = $%d", *f.ID)
	}
	if f.Slug != "" {
		add("slug = $%d", f.Slug)
	}
	if f.OwnerID != nil {
		add("owner_id = $%d", *f.OwnerID)
	}
	if f.MemberID != nil {
		add(memberMatch, *f.MemberID)
	}
	if f.OwnerOrMemberID != nil {
		args = append(args, *f.OwnerOrMemberID)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(owner_id = $%d OR "+memberMatch+")", n, n))
	}

	return strings.Join(conds, " AND "), args
}

func scanWorkspace(row pgx.Row) (*model.Workspace, error) {
	var ws model.Workspace
	if err := row.Scan(&ws.ID, &ws.Name, &ws.Slug, &ws.OwnerID, &ws.Members, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	if ws.Members == nil {
		ws.Members = []model.Member{}
	}
	return &ws, nil
}
