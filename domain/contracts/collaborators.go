package contracts

import "context"

// Group is a Microsoft 365 group backing an opportunity team.
type Group struct {
	ID           string
	DisplayName  string
	MailNickname string
}

// Channel is a channel inside a team.
type Channel struct {
	ID          string
	DisplayName string
}

// TeamsClient provisions teams, channels and memberships.
type TeamsClient interface {
	// FindGroupByPrefix returns the first group whose display name starts with prefix, or nil.
	FindGroupByPrefix(ctx context.Context, prefix string) (*Group, error)
	CreateTeam(ctx context.Context, displayName, mailNickname, description string) (*Group, error)
	ListChannels(ctx context.Context, teamID string) ([]Channel, error)
	CreateChannel(ctx context.Context, teamID, displayName, description string) (*Channel, error)
	AddGroupOwner(ctx context.Context, groupID, userPrincipalName string) error
	AddGroupMember(ctx context.Context, groupID, userPrincipalName string) error
}

// Site is a SharePoint site that stores documents.
type Site struct {
	ID  string
	URL string
}

// DocumentClient moves opportunity documents between sites.
type DocumentClient interface {
	ResolveSite(ctx context.Context, sitePath string) (*Site, error)
	// MoveFile moves sourcePath on the proposal site into destPath on site.
	MoveFile(ctx context.Context, site *Site, sourcePath, destPath string) error
	DeleteFolder(ctx context.Context, folderPath string) error
}

// SecretStore reads configuration secrets.
type SecretStore interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// ProvisioningHooks calls external automation endpoints after a team is provisioned.
type ProvisioningHooks interface {
	// NotifyAddIn tells the Office add-in that a team exists for an opportunity reference.
	NotifyAddIn(ctx context.Context, reference, opportunityName, channelID string) error
	ActivateDocumentID(ctx context.Context, siteURL string) error
}
