package service

import (
	"context"
	"errors"
	"fmt"

	"teamhub.app/server/internal/model"
	"teamhub.app/server/internal/store"
)

// OwnershipValidator resolves a claimed workspace owner and checks that the
// acting user is that owner.
type OwnershipValidator interface {
	ValidateOwner(ctx context.Context, actorID int64, ownerUsername string) (*model.User, error)
}

type ownershipValidator struct {
	users store.UserStore
}

func NewOwnershipValidator(users store.UserStore) OwnershipValidator {
	return &ownershipValidator{users: users}
}

func (v *ownershipValidator) ValidateOwner(ctx context.Context, actorID int64, ownerUsername string) (*model.User, error) {
	if actorID == 0 || ownerUsername == "" {
		return nil, ErrMissingParameter
	}

	owner, err := v.users.GetByUsername(ctx, ownerUsername)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolving workspace owner: %w", err)
	}

	if owner.ID != actorID {
		return nil, ErrNotWorkspaceOwner
	}
	return owner, nil
}
