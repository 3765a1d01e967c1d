package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"teamhub.app/server/core/db"
	"teamhub.app/server/internal/model"
)

const userColumns = `id, username, email, password_hash, full_name, first_name, last_name, role, refresh_tokens, created_at, updated_at`

type userStore struct {
	db db.DBTX
}

func newUserStore(conn db.DBTX) UserStore {
	return &userStore{db: conn}
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND NOT deleted`, id)
	return scanUser(row)
}

func (s *userStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 AND NOT deleted`, username)
	return scanUser(row)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = lower($1) AND NOT deleted`, email)
	return scanUser(row)
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	if user.RefreshTokens == nil {
		user.RefreshTokens = []string{}
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, full_name, first_name, last_name, role, refresh_tokens)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7, $8, $9)
		RETURNING `+userColumns,
		user.ID, user.Username, user.Email, user.PasswordHash, user.FullName,
		user.FirstName, user.LastName, string(user.Role), user.RefreshTokens,
	)
	created, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *created
	return nil
}

func (s *userStore) Update(ctx context.Context, id int64, patch UserPatch) (*model.User, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE users SET
			username      = COALESCE($2, username),
			email         = COALESCE(lower($3), email),
			password_hash = COALESCE($4, password_hash),
			full_name     = COALESCE($5, full_name),
			first_name    = COALESCE($6, first_name),
			last_name     = COALESCE($7, last_name),
			updated_at    = now()
		WHERE id = $1 AND NOT deleted
		RETURNING `+userColumns,
		id, patch.Username, patch.Email, patch.PasswordHash, patch.FullName, patch.FirstName, patch.LastName,
	)
	return scanUser(row)
}

func (s *userStore) SoftDelete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET deleted = TRUE, updated_at = now() WHERE id = $1 AND NOT deleted`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *userStore) ListBriefs(ctx context.Context, ids []int64) ([]model.UserBrief, error) {
	if len(ids) == 0 {
		return []model.UserBrief{}, nil
	}
	rows, err := s.db.Query(ctx, `SELECT id, username, email, full_name FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.UserBrief, error) {
		var b model.UserBrief
		err := row.Scan(&b.ID, &b.Username, &b.Email, &b.FullName)
		return b, err
	})
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.FirstName, &u.LastName,
		&role, &u.RefreshTokens, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	u.Role = model.UserRole(role)
	return &u, nil
}
