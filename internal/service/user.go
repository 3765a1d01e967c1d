package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"teamhub.app/server/internal/auth"
	"teamhub.app/server/internal/model"
	"teamhub.app/server/internal/store"
)

// ProfileUpdate is the only profile field a user may change.
type ProfileUpdate struct {
	FullName *string
}

// AccountUpdate is the only account field a user may change.
type AccountUpdate struct {
	Username *string
}

type UserService interface {
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*model.User, error)
	UpdateAccount(ctx context.Context, userID int64, update AccountUpdate) (*model.User, error)
	DeleteAccount(ctx context.Context, userID int64) error
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) (*model.User, error)
	ChangeEmail(ctx context.Context, userID int64, email, password string) (*model.User, error)
	// GetUser looks up another user by username on behalf of actorID.
	GetUser(ctx context.Context, actorID int64, username string) (*model.User, error)
}

type userService struct {
	users  store.UserStore
	hasher auth.PasswordHasher
}

func NewUserService(users store.UserStore, hasher auth.PasswordHasher) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
	}
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*model.User, error) {
	if update.FullName == nil {
		return nil, ErrEmptyUpdate
	}

	fullName := strings.TrimSpace(*update.FullName)
	first, last := splitFullName(fullName)
	user, err := s.users.Update(ctx, userID, store.UserPatch{
		FullName:  &fullName,
		FirstName: &first,
		LastName:  &last,
	})
	if err != nil {
		return nil, s.mapUpdateErr(err, "")
	}

	slog.InfoContext(ctx, "profile updated", "user_id", userID)
	return user, nil
}

func (s *userService) UpdateAccount(ctx context.Context, userID int64, update AccountUpdate) (*model.User, error) {
	if update.Username == nil {
		return nil, ErrEmptyUpdate
	}

	user, err := s.users.Update(ctx, userID, store.UserPatch{Username: update.Username})
	if err != nil {
		return nil, s.mapUpdateErr(err, *update.Username)
	}

	slog.InfoContext(ctx, "username changed", "user_id", userID)
	return user, nil
}

func (s *userService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.users.SoftDelete(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting account: %w", err)
	}

	slog.InfoContext(ctx, "account deleted", "user_id", userID)
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) (*model.User, error) {
	if oldPassword == newPassword {
		return nil, ErrSamePassword
	}

	if _, err := s.verifyPassword(ctx, userID, oldPassword); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Update(ctx, userID, store.UserPatch{PasswordHash: &hash})
	if err != nil {
		return nil, s.mapUpdateErr(err, "")
	}

	slog.InfoContext(ctx, "password changed", "user_id", userID)
	return user, nil
}

func (s *userService) ChangeEmail(ctx context.Context, userID int64, email, password string) (*model.User, error) {
	if _, err := s.verifyPassword(ctx, userID, password); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.Update(ctx, userID, store.UserPatch{Email: &email})
	if err != nil {
		return nil, s.mapUpdateErr(err, "")
	}

	slog.InfoContext(ctx, "email changed", "user_id", userID)
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, actorID int64, username string) (*model.User, error) {
	if actorID == 0 || username == "" {
		return nil, ErrMissingParameter
	}

	if _, err := s.users.GetByID(ctx, actorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrActorGone
		}
		return nil, fmt.Errorf("loading actor: %w", err)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return user, nil
}

func (s *userService) verifyPassword(ctx context.Context, userID int64, password string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrIncorrectPassword
	}
	return user, nil
}

func (s *userService) mapUpdateErr(err error, username string) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if conflict, ok := store.AsConflict(err); ok {
		return userConflict(conflict, username)
	}
	return fmt.Errorf("updating user: %w", err)
}
