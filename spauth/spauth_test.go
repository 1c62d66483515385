package spauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propmgmt/infrastructure/config"
)

func TestNewClient_RequiresCertificateSettings(t *testing.T) {
	_, err := NewClient(&config.SharePointConfig{SiteURL: "https://contoso.sharepoint.com/sites/proposals"})
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestNewClient_BuildsAuthConfig(t *testing.T) {
	cfg := &config.SharePointConfig{
		SiteURL:  "https://contoso.sharepoint.com/sites/proposals",
		TenantID: "tenant",
		ClientID: "client",
		CertPath: "/certs/app.pfx",
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.SiteURL, client.AuthCnfg.GetSiteURL())
}
