package store

import (
	"teamhub.app/server/core/db"
)

type Stores struct {
	db db.DBTX
}

func NewStores(conn db.DBTX) *Stores {
	return &Stores{db: conn}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.db)
}

func (s *Stores) Workspaces() WorkspaceStore {
	return newWorkspaceStore(s.db)
}

func (s *Stores) Invites() InviteStore {
	return newInviteStore(s.db)
}
