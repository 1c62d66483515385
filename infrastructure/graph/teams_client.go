package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go/groups"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	"propmgmt/domain/contracts"
	"propmgmt/infrastructure/cache"
	"propmgmt/logging"
)

const directoryObjectsURL = "https://graph.microsoft.com/v1.0/directoryObjects/"

// TeamsClient implements contracts.TeamsClient with the Microsoft Graph SDK.
type TeamsClient struct {
	client *msgraphsdk.GraphServiceClient
	cache  *cache.Cache
	logger *logging.Logger
}

// NewTeamsClient authenticates with a client secret. userCache may be nil.
func NewTeamsClient(tenantID, clientID, clientSecret string, userCache *cache.Cache) (*TeamsClient, error) {
	cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("create graph credential: %w", err)
	}
	client, err := msgraphsdk.NewGraphServiceClientWithCredentials(cred, []string{"https://graph.microsoft.com/.default"})
	if err != nil {
		return nil, fmt.Errorf("create graph client: %w", err)
	}
	return &TeamsClient{
		client: client,
		cache:  userCache,
		logger: logging.Default().WithComponent("graph_teams_client"),
	}, nil
}

// FindGroupByPrefix returns the first group whose display name starts with prefix, or nil
func (c *TeamsClient) FindGroupByPrefix(ctx context.Context, prefix string) (*contracts.Group, error) {
	filter := fmt.Sprintf("startswith(displayName,'%s')", strings.ReplaceAll(prefix, "'", "''"))
	resp, err := c.client.Groups().Get(ctx, &groups.GroupsRequestBuilderGetRequestConfiguration{
		QueryParameters: &groups.GroupsRequestBuilderGetQueryParameters{
			Filter: &filter,
			Select: []string{"id", "displayName", "mailNickname"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query groups %q: %w", prefix, err)
	}
	return firstGroup(resp), nil
}

// firstGroup returns the first group of a query response, or nil when it is empty
func firstGroup(resp models.GroupCollectionResponseable) *contracts.Group {
	if resp == nil {
		return nil
	}
	if v := resp.GetValue(); len(v) > 0 {
		return toGroup(v[0])
	}
	return nil
}

// CreateTeam creates a unified group and attaches a team to it
func (c *TeamsClient) CreateTeam(ctx context.Context, displayName, mailNickname, description string) (*contracts.Group, error) {
	group := models.NewGroup()
	group.SetDisplayName(&displayName)
	group.SetMailNickname(&mailNickname)
	if description != "" {
		group.SetDescription(&description)
	}
	mailEnabled, securityEnabled := true, false
	group.SetMailEnabled(&mailEnabled)
	group.SetSecurityEnabled(&securityEnabled)
	group.SetGroupTypes([]string{"Unified"})

	created, err := c.client.Groups().Post(ctx, group, nil)
	if err != nil {
		return nil, fmt.Errorf("create group %q: %w", displayName, err)
	}
	g := toGroup(created)
	c.logger.Graph("Group created", "group_id", g.ID, "display_name", displayName)

	if _, err := c.client.Groups().ByGroupId(g.ID).Team().Put(ctx, models.NewTeam(), nil); err != nil {
		return nil, fmt.Errorf("create team for group %s: %w", g.ID, err)
	}
	c.logger.Graph("Team created", "group_id", g.ID)
	return g, nil
}

// ListChannels returns the channels of a team
func (c *TeamsClient) ListChannels(ctx context.Context, teamID string) ([]contracts.Channel, error) {
	resp, err := c.client.Teams().ByTeamId(teamID).Channels().Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list channels of %s: %w", teamID, err)
	}
	channels := make([]contracts.Channel, 0, len(resp.GetValue()))
	for _, ch := range resp.GetValue() {
		channels = append(channels, contracts.Channel{ID: deref(ch.GetId()), DisplayName: deref(ch.GetDisplayName())})
	}
	return channels, nil
}

// CreateChannel adds a standard channel to a team
func (c *TeamsClient) CreateChannel(ctx context.Context, teamID, displayName, description string) (*contracts.Channel, error) {
	ch := models.NewChannel()
	ch.SetDisplayName(&displayName)
	if description != "" {
		ch.SetDescription(&description)
	}
	created, err := c.client.Teams().ByTeamId(teamID).Channels().Post(ctx, ch, nil)
	if err != nil {
		return nil, fmt.Errorf("create channel %q in %s: %w", displayName, teamID, err)
	}
	c.logger.Graph("Channel created", "team_id", teamID, "channel", displayName)
	return &contracts.Channel{ID: deref(created.GetId()), DisplayName: deref(created.GetDisplayName())}, nil
}

// AddGroupOwner adds a user to the group owners
func (c *TeamsClient) AddGroupOwner(ctx context.Context, groupID, userPrincipalName string) error {
	ref, err := c.userReference(ctx, userPrincipalName)
	if err != nil {
		return err
	}
	if err := c.client.Groups().ByGroupId(groupID).Owners().Ref().Post(ctx, ref, nil); err != nil {
		return fmt.Errorf("add owner %s to %s: %w", userPrincipalName, groupID, err)
	}
	c.logger.Graph("Group owner added", "group_id", groupID, "upn", userPrincipalName)
	return nil
}

// AddGroupMember adds a user to the group members
func (c *TeamsClient) AddGroupMember(ctx context.Context, groupID, userPrincipalName string) error {
	ref, err := c.userReference(ctx, userPrincipalName)
	if err != nil {
		return err
	}
	if err := c.client.Groups().ByGroupId(groupID).Members().Ref().Post(ctx, ref, nil); err != nil {
		return fmt.Errorf("add member %s to %s: %w", userPrincipalName, groupID, err)
	}
	c.logger.Graph("Group member added", "group_id", groupID, "upn", userPrincipalName)
	return nil
}

func (c *TeamsClient) userReference(ctx context.Context, userPrincipalName string) (models.ReferenceCreateable, error) {
	id, err := c.userID(ctx, userPrincipalName)
	if err != nil {
		return nil, err
	}
	odataID := directoryObjectsURL + id
	ref := models.NewReferenceCreate()
	ref.SetOdataId(&odataID)
	return ref, nil
}

// userID resolves a UPN to an object id, through the user profile cache when configured
func (c *TeamsClient) userID(ctx context.Context, userPrincipalName string) (string, error) {
	lookup := func(ctx context.Context) (string, error) {
		user, err := c.client.Users().ByUserId(userPrincipalName).Get(ctx, nil)
		if err != nil {
			return "", fmt.Errorf("get user %s: %w", userPrincipalName, err)
		}
		return deref(user.GetId()), nil
	}
	if c.cache == nil {
		return lookup(ctx)
	}
	key := contracts.CacheKeyUserProfiles + ":" + strings.ToLower(userPrincipalName)
	return cache.GetOrLoad(ctx, c.cache, key, lookup)
}

func toGroup(g models.Groupable) *contracts.Group {
	return &contracts.Group{
		ID:           deref(g.GetId()),
		DisplayName:  deref(g.GetDisplayName()),
		MailNickname: deref(g.GetMailNickname()),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
