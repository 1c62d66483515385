package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"propmgmt/domain/contracts"
)

// MockTeamsClient implements TeamsClient for testing
type MockTeamsClient struct {
	mock.Mock
}

func (m *MockTeamsClient) FindGroupByPrefix(ctx context.Context, prefix string) (*contracts.Group, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Group), args.Error(1)
}

func (m *MockTeamsClient) CreateTeam(ctx context.Context, displayName, mailNickname, description string) (*contracts.Group, error) {
	args := m.Called(ctx, displayName, mailNickname, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Group), args.Error(1)
}

func (m *MockTeamsClient) ListChannels(ctx context.Context, teamID string) ([]contracts.Channel, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contracts.Channel), args.Error(1)
}

func (m *MockTeamsClient) CreateChannel(ctx context.Context, teamID, displayName, description string) (*contracts.Channel, error) {
	args := m.Called(ctx, teamID, displayName, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Channel), args.Error(1)
}

func (m *MockTeamsClient) AddGroupOwner(ctx context.Context, groupID, userPrincipalName string) error {
	args := m.Called(ctx, groupID, userPrincipalName)
	return args.Error(0)
}

func (m *MockTeamsClient) AddGroupMember(ctx context.Context, groupID, userPrincipalName string) error {
	args := m.Called(ctx, groupID, userPrincipalName)
	return args.Error(0)
}

// MockDocumentClient implements DocumentClient for testing
type MockDocumentClient struct {
	mock.Mock
}

func (m *MockDocumentClient) ResolveSite(ctx context.Context, sitePath string) (*contracts.Site, error) {
	args := m.Called(ctx, sitePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Site), args.Error(1)
}

func (m *MockDocumentClient) MoveFile(ctx context.Context, site *contracts.Site, sourcePath, destPath string) error {
	args := m.Called(ctx, site, sourcePath, destPath)
	return args.Error(0)
}

func (m *MockDocumentClient) DeleteFolder(ctx context.Context, folderPath string) error {
	args := m.Called(ctx, folderPath)
	return args.Error(0)
}

// MockProvisioningHooks implements ProvisioningHooks for testing
type MockProvisioningHooks struct {
	mock.Mock
}

func (m *MockProvisioningHooks) NotifyAddIn(ctx context.Context, reference, opportunityName, channelID string) error {
	args := m.Called(ctx, reference, opportunityName, channelID)
	return args.Error(0)
}

func (m *MockProvisioningHooks) ActivateDocumentID(ctx context.Context, siteURL string) error {
	args := m.Called(ctx, siteURL)
	return args.Error(0)
}

// MockSecretStore implements SecretStore for testing
type MockSecretStore struct {
	mock.Mock
}

func (m *MockSecretStore) GetSecret(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}
