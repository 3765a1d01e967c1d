package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"teamhub.app/server/common/id"
	"teamhub.app/server/internal/apperr"
	"teamhub.app/server/internal/auth"
	"teamhub.app/server/internal/model"
	"teamhub.app/server/internal/store"
)

type RegisterParams struct {
	Username string
	Email    string
	Password string
	FullName string
}

type AuthService interface {
	Register(ctx context.Context, params *RegisterParams) (*model.User, error)
	// SignIn checks credentials and returns the user with a fresh access token.
	SignIn(ctx context.Context, email, password string) (*model.User, string, error)
	// Authenticate resolves the live user behind an access token.
	Authenticate(ctx context.Context, token string) (*model.User, error)
	IssueToken(user *model.User) (string, error)
}

type authService struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	tokens auth.TokenIssuer
}

func NewAuthService(users store.UserStore, hasher auth.PasswordHasher, tokens auth.TokenIssuer) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *authService) Register(ctx context.Context, params *RegisterParams) (*model.User, error) {
	if params == nil {
		return nil, ErrMissingBody
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	fullName := strings.TrimSpace(params.FullName)
	first, last := splitFullName(fullName)
	user := &model.User{
		ID:           id.New(),
		Username:     params.Username,
		Email:        strings.ToLower(strings.TrimSpace(params.Email)),
		PasswordHash: hash,
		FullName:     fullName,
		FirstName:    first,
		LastName:     last,
		Role:         model.UserRoleDefault,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if conflict, ok := store.AsConflict(err); ok {
			return nil, userConflict(conflict, user.Username)
		}
		slog.ErrorContext(ctx, "failed to create user", "error", err)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("loading user: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		slog.WarnContext(ctx, "sign in with wrong password", "user_id", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading token user: %w", err)
	}
	return user, nil
}

func (s *authService) IssueToken(user *model.User) (string, error) {
	return s.tokens.Issue(user)
}

// splitFullName returns the first and last words of name.
func splitFullName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], parts[len(parts)-1]
}

func userConflict(c *store.ConflictError, username string) error {
	if c.Constraint == store.ConstraintEmail {
		return apperr.Wrap(apperr.Conflict, msgEmailTaken, c)
	}
	return apperr.Wrap(apperr.Conflict, fmt.Sprintf(msgUsernameTaken, username), c)
}
