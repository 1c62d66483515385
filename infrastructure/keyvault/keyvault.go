package keyvault

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	"propmgmt/logging"
)

// Service reads secrets from Azure Key Vault.
type Service struct {
	client *azsecrets.Client
	logger *logging.Logger
}

// NewService connects to the vault at vaultURL with the default Azure credential chain.
func NewService(vaultURL string) (*Service, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create key vault credential: %w", err)
	}
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create key vault client: %w", err)
	}
	return &Service{client: client, logger: logging.Default().WithComponent("keyvault")}, nil
}

// GetSecret returns the latest version of a secret.
func (s *Service) GetSecret(ctx context.Context, name string) (string, error) {
	resp, err := s.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		return "", fmt.Errorf("get secret %s: %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret %s has no value", name)
	}
	s.logger.Security("Secret loaded from vault", "name", name)
	return *resp.Value, nil
}
