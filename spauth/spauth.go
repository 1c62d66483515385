package spauth

import (
	"fmt"

	"github.com/koltyakov/gosip"
	"github.com/koltyakov/gosip/auth/azurecert"

	"propmgmt/infrastructure/config"
)

// Validate reports the first missing certificate auth setting.
func Validate(cfg *config.SharePointConfig) error {
	if cfg == nil || cfg.SiteURL == "" || cfg.TenantID == "" || cfg.ClientID == "" || cfg.CertPath == "" {
		return fmt.Errorf("missing required configuration: SP_SITE_URL, SP_TENANT_ID, SP_CLIENT_ID, SP_CERT_PATH")
	}
	return nil
}

// NewClient builds an app-only SharePoint client for the proposal site.
func NewClient(cfg *config.SharePointConfig) (*gosip.SPClient, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	ac := &azurecert.AuthCnfg{
		SiteURL:  cfg.SiteURL,
		TenantID: cfg.TenantID,
		ClientID: cfg.ClientID,
		CertPath: cfg.CertPath,
		CertPass: cfg.CertPassword,
	}
	return &gosip.SPClient{AuthCnfg: ac}, nil
}
