// Package cache is a best-effort key/value layer in front of workspace reads.
// Backends never surface errors: a failed read is a miss and a failed write
// is logged and dropped.
package cache

import (
	"context"
	"fmt"
	"time"
)

const DefaultTTL = 5 * time.Minute

type Cache interface {
	// Get decodes the cached value for key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// WorkspaceListKey addresses the default workspace listing of a user.
func WorkspaceListKey(userID int64) string {
	return fmt.Sprintf("workspaceOwner:%d", userID)
}

// WorkspaceKey addresses a single workspace as seen by viewerID.
func WorkspaceKey(ownerUsername, slug string, viewerID int64) string {
	return fmt.Sprintf("workspace:%s:%s:%d", ownerUsername, slug, viewerID)
}

type noop struct{}

// NewNoop returns a cache that stores nothing.
func NewNoop() Cache {
	return noop{}
}

func (noop) Get(context.Context, string, any) bool { return false }

func (noop) Set(context.Context, string, any, time.Duration) {}

func (noop) Delete(context.Context, string) {}
