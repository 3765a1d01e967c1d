package service

import (
	"time"

	"teamhub.app/server/internal/auth"
	"teamhub.app/server/internal/cache"
	"teamhub.app/server/internal/store"
)

type ServicesConfig struct {
	Stores       *store.Stores
	TxRunner     TxRunner
	Cache        cache.Cache
	CacheTTL     time.Duration
	Hasher       auth.PasswordHasher
	Tokens       auth.TokenIssuer
	AtomicAccept bool
}

type Services struct {
	cfg ServicesConfig
}

func NewServices(cfg ServicesConfig) *Services {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNoop()
	}
	return &Services{cfg: cfg}
}

func (s *Services) Owners() OwnershipValidator {
	return NewOwnershipValidator(s.cfg.Stores.Users())
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.cfg.Stores.Users(), s.cfg.Hasher, s.cfg.Tokens)
}

func (s *Services) Users() UserService {
	return NewUserService(s.cfg.Stores.Users(), s.cfg.Hasher)
}

func (s *Services) Workspaces() WorkspaceService {
	return NewWorkspaceService(
		s.cfg.Stores.Workspaces(),
		s.cfg.Stores.Users(),
		s.Owners(),
		s.cfg.Cache,
		s.cfg.CacheTTL,
	)
}

func (s *Services) Invites() InviteService {
	return NewInviteService(InviteServiceConfig{
		Invites:      s.cfg.Stores.Invites(),
		Workspaces:   s.cfg.Stores.Workspaces(),
		Users:        s.cfg.Stores.Users(),
		Owners:       s.Owners(),
		Cache:        s.cfg.Cache,
		TxRunner:     s.cfg.TxRunner,
		AtomicAccept: s.cfg.AtomicAccept,
	})
}
