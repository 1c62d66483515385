package contracts

import (
	"context"
	"time"
)

// Cache keys for directory and configuration data.
const (
	CacheKeyRoles        = "roles"
	CacheKeyTemplates    = "templates"
	CacheKeyUserProfiles = "userprofiles"
)

// CacheStore stores raw cached values with a TTL.
type CacheStore interface {
	// Get returns found=false on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
