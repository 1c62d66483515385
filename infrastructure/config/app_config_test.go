package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadAppConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("SP_TENANT_ID", "tenant-1")
	t.Setenv("SP_CLIENT_ID", "client-1")

	cfg := LoadAppConfigFromEnv()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ListStoreSharePoint, cfg.ListStoreBackend)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "Opportunities", cfg.Lists.Opportunities)
	assert.Equal(t, "tenant-1", cfg.Graph.TenantID, "graph falls back to the SharePoint registration")
	assert.Equal(t, "client-1", cfg.Graph.ClientID)
	assert.Equal(t, "TempFolder", cfg.Workflow.TempFolder)
}

func TestLoadAppConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("LIST_STORE_BACKEND", "SQLITE")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("USER_PROFILE_CACHE_EXPIRATION", "5")
	t.Setenv("TENANT_HOST_URL", "https://contoso.sharepoint.com/")
	t.Setenv("DB_ENABLE_WAL", "off")
	t.Setenv("WEBHOOK_TIMEOUT", "2s")

	cfg := LoadAppConfigFromEnv()

	assert.Equal(t, ListStoreSqlite, cfg.ListStoreBackend)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, 3, cfg.Cache.RedisDB)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "https://contoso.sharepoint.com", cfg.Workflow.TenantHostURL)
	assert.False(t, cfg.Database.EnableWAL)
	assert.Equal(t, 2*time.Second, cfg.Workflow.WebhookTimeout)
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " on "} {
		assert.True(t, parseBool(v, false), v)
	}
	for _, v := range []string{"0", "false", "No", "off"} {
		assert.False(t, parseBool(v, true), v)
	}
	assert.True(t, parseBool("maybe", true))
}
