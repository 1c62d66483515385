package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"propmgmt/database"
	"propmgmt/domain/contracts"
	"propmgmt/logging"
)

// List store backends.
const (
	ListStoreSharePoint = "sharepoint"
	ListStoreSqlite     = "sqlite"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// AppConfig holds application-wide system configuration.
type AppConfig struct {
	HTTPAddr    string
	HTTPLogPath string
	// ListStoreBackend selects where list items live: SharePoint in production, sqlite for local runs.
	ListStoreBackend string
	Database         *database.Config
	Logging          *logging.Config
	SharePoint       *SharePointConfig
	Graph            *GraphConfig
	KeyVault         *KeyVaultConfig
	Cache            *CacheConfig
	Workflow         *WorkflowConfig
	Auth             *AuthConfig
	Lists            *ListNames
}

// SharePointConfig holds certificate auth settings for the proposal site.
type SharePointConfig struct {
	SiteURL      string
	TenantID     string
	ClientID     string
	CertPath     string
	CertPassword string
}

// GraphConfig holds app registration settings for Microsoft Graph.
type GraphConfig struct {
	TenantID             string
	ClientID             string
	ClientSecret         string
	ClientSecretVaultKey string
}

// KeyVaultConfig points at the vault used for secrets.
type KeyVaultConfig struct {
	URL string
}

// CacheConfig selects the cache backend and lifetime of cached directory data.
type CacheConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// WorkflowConfig holds provisioning settings.
type WorkflowConfig struct {
	AdminPrincipal       string
	AddInWebhookURL      string
	DocumentIDServiceURL string
	TenantHostURL        string
	TempFolder           string
	WebhookTimeout       time.Duration
}

// AuthConfig holds bearer token validation settings.
type AuthConfig struct {
	JWTSecret         string
	JWTSecretVaultKey string
	JWTIssuer         string
}

// ListNames maps logical lists to site list titles.
type ListNames struct {
	Opportunities string
	Dashboard     string
	Roles         string
	Permissions   string
	Templates     string
	Notifications string
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		HTTPAddr:         getEnvWithDefault("HTTP_ADDR", ":8080"),
		HTTPLogPath:      getEnvWithDefault("HTTP_LOG_PATH", ""),
		ListStoreBackend: strings.ToLower(getEnvWithDefault("LIST_STORE_BACKEND", ListStoreSharePoint)),
		Database:         LoadDatabaseConfigFromEnv(),
		Logging:          LoadLoggingConfigFromEnv(),
		SharePoint:       LoadSharePointConfigFromEnv(),
		Graph:            LoadGraphConfigFromEnv(),
		KeyVault:         &KeyVaultConfig{URL: getEnvWithDefault("KEYVAULT_URL", "")},
		Cache:            LoadCacheConfigFromEnv(),
		Workflow:         LoadWorkflowConfigFromEnv(),
		Auth:             LoadAuthConfigFromEnv(),
		Lists:            LoadListNamesFromEnv(),
	}
}

// LoadDatabaseConfigFromEnv loads database configuration from environment variables.
func LoadDatabaseConfigFromEnv() *database.Config {
	return &database.Config{
		Path:              getEnvWithDefault("DB_PATH", "./propmgmt.db"),
		MaxOpenConns:      getEnvIntWithDefault("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:      getEnvIntWithDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:   getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime:   getEnvDurationWithDefault("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
		BusyTimeoutMs:     getEnvIntWithDefault("DB_BUSY_TIMEOUT_MS", 5000),
		EnableForeignKeys: getEnvBoolWithDefault("DB_ENABLE_FOREIGN_KEYS", true),
		EnableWAL:         getEnvBoolWithDefault("DB_ENABLE_WAL", true),
	}
}

// LoadLoggingConfigFromEnv loads logging configuration from environment variables.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: getEnvWithDefault("LOG_FORMAT", "json"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stdout"),
	}
}

// LoadSharePointConfigFromEnv loads SharePoint certificate auth settings.
func LoadSharePointConfigFromEnv() *SharePointConfig {
	return &SharePointConfig{
		SiteURL:      getEnvWithDefault("SP_SITE_URL", ""),
		TenantID:     getEnvWithDefault("SP_TENANT_ID", ""),
		ClientID:     getEnvWithDefault("SP_CLIENT_ID", ""),
		CertPath:     getEnvWithDefault("SP_CERT_PATH", ""),
		CertPassword: getEnvWithDefault("SP_CERT_PASSWORD", ""),
	}
}

// LoadGraphConfigFromEnv loads Graph app registration settings. Tenant and client
// fall back to the SharePoint registration when unset.
func LoadGraphConfigFromEnv() *GraphConfig {
	return &GraphConfig{
		TenantID:             getEnvWithDefault("GRAPH_TENANT_ID", os.Getenv("SP_TENANT_ID")),
		ClientID:             getEnvWithDefault("GRAPH_CLIENT_ID", os.Getenv("SP_CLIENT_ID")),
		ClientSecret:         getEnvWithDefault("GRAPH_CLIENT_SECRET", ""),
		ClientSecretVaultKey: getEnvWithDefault("GRAPH_CLIENT_SECRET_VAULT_KEY", ""),
	}
}

// LoadCacheConfigFromEnv loads cache settings. USER_PROFILE_CACHE_EXPIRATION is in minutes.
func LoadCacheConfigFromEnv() *CacheConfig {
	return &CacheConfig{
		Backend:       strings.ToLower(getEnvWithDefault("CACHE_BACKEND", CacheMemory)),
		RedisAddr:     getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvWithDefault("REDIS_PASSWORD", ""),
		RedisDB:       getEnvIntWithDefault("REDIS_DB", 0),
		TTL:           time.Duration(getEnvIntWithDefault("USER_PROFILE_CACHE_EXPIRATION", 60)) * time.Minute,
	}
}

// LoadWorkflowConfigFromEnv loads provisioning settings.
func LoadWorkflowConfigFromEnv() *WorkflowConfig {
	return &WorkflowConfig{
		AdminPrincipal:       getEnvWithDefault("ADMIN_PRINCIPAL", ""),
		AddInWebhookURL:      getEnvWithDefault("ADDIN_WEBHOOK_URL", ""),
		DocumentIDServiceURL: getEnvWithDefault("DOCUMENT_ID_SERVICE_URL", ""),
		TenantHostURL:        strings.TrimRight(getEnvWithDefault("TENANT_HOST_URL", ""), "/"),
		TempFolder:           getEnvWithDefault("TEMP_FOLDER", "TempFolder"),
		WebhookTimeout:       getEnvDurationWithDefault("WEBHOOK_TIMEOUT", 30*time.Second),
	}
}

// LoadAuthConfigFromEnv loads bearer token settings.
func LoadAuthConfigFromEnv() *AuthConfig {
	return &AuthConfig{
		JWTSecret:         getEnvWithDefault("JWT_SECRET", ""),
		JWTSecretVaultKey: getEnvWithDefault("JWT_SECRET_VAULT_KEY", ""),
		JWTIssuer:         getEnvWithDefault("JWT_ISSUER", "propmgmt"),
	}
}

// LoadListNamesFromEnv loads list titles, defaulting to the standard names.
func LoadListNamesFromEnv() *ListNames {
	return &ListNames{
		Opportunities: getEnvWithDefault("LIST_OPPORTUNITIES", contracts.ListOpportunities),
		Dashboard:     getEnvWithDefault("LIST_DASHBOARD", contracts.ListDashboard),
		Roles:         getEnvWithDefault("LIST_ROLES", contracts.ListRoles),
		Permissions:   getEnvWithDefault("LIST_PERMISSIONS", contracts.ListPermissions),
		Templates:     getEnvWithDefault("LIST_TEMPLATES", contracts.ListTemplates),
		Notifications: getEnvWithDefault("LIST_NOTIFICATIONS", contracts.ListNotifications),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, def bool) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Helper functions for environment variable parsing.
func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value, defaultValue)
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
