package workflows

import (
	"context"
	"fmt"
	"strings"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
	"propmgmt/logging"
	"propmgmt/platform/executors"
)

const generalChannel = "General"

// Side effect step names reported in diagnostics and metrics.
const (
	StepAdminOwner       = "admin_owner"
	StepAdminMember      = "admin_member"
	StepAddInWebhook     = "addin_webhook"
	StepDocumentID       = "document_id"
	StepMembership       = "team_membership"
	StepMoveAttachment   = "move_attachment"
	StepResolveSite      = "resolve_site"
	StepDeleteTempFolder = "delete_temp_folder"
	StepDashboard        = "dashboard"
)

// ProvisionResult describes the team that backs an opportunity.
type ProvisionResult struct {
	Group            *contracts.Group
	GeneralChannelID string
	Created          bool
	Diagnostics      []Diagnostic
}

// TeamProvisioner creates the Teams workspace of an opportunity and grants membership.
type TeamProvisioner struct {
	teams          contracts.TeamsClient
	hooks          contracts.ProvisioningHooks
	executor       *executors.SideEffectExecutor
	adminPrincipal string
	tenantHostURL  string
	logger         *logging.Logger
}

// NewTeamProvisioner creates a provisioner. hooks may be nil.
func NewTeamProvisioner(teams contracts.TeamsClient, hooks contracts.ProvisioningHooks, executor *executors.SideEffectExecutor, adminPrincipal, tenantHostURL string) *TeamProvisioner {
	return &TeamProvisioner{
		teams:          teams,
		hooks:          hooks,
		executor:       executor,
		adminPrincipal: adminPrincipal,
		tenantHostURL:  strings.TrimSuffix(tenantHostURL, "/"),
		logger:         logging.Default().WithComponent("team_provisioner"),
	}
}

// Provision finds or creates the team for opp and ensures one channel per
// channel process of its deal type. Lookup and creation failures are returned;
// admin, add-in and document ID steps only produce diagnostics.
func (p *TeamProvisioner) Provision(ctx context.Context, opp *opportunity.Opportunity) (*ProvisionResult, error) {
	name := opportunity.SanitizeDisplayName(opp.DisplayName)
	if name == "" {
		return nil, fmt.Errorf("opportunity display name %q: %w", opp.DisplayName, contracts.ErrInvalidArgument)
	}

	group, err := p.teams.FindGroupByPrefix(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find team %s: %w", name, err)
	}

	result := &ProvisionResult{}
	if group == nil {
		group, err = p.teams.CreateTeam(ctx, name, name, opp.DisplayName)
		if err != nil {
			return nil, fmt.Errorf("create team %s: %w", name, err)
		}
		result.Created = true
		p.logger.Workflow("Team created", opp.ID, "group_id", group.ID, "name", name)
	}
	result.Group = group

	existing, err := p.teams.ListChannels(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list channels of %s: %w", name, err)
	}
	result.GeneralChannelID = findChannel(existing, generalChannel)

	for _, process := range opp.Content.DealType.ChannelProcesses() {
		if findChannel(existing, process.Channel) != "" {
			continue
		}
		channel, err := p.teams.CreateChannel(ctx, group.ID, process.Channel, process.ProcessStep)
		if err != nil {
			return nil, fmt.Errorf("create channel %s in %s: %w", process.Channel, name, err)
		}
		existing = append(existing, *channel)
	}
	opp.Metadata.OpportunityChannelID = result.GeneralChannelID

	if result.Created {
		result.Diagnostics = p.executor.Execute(ctx, opp.ID, p.creationEffects(opp, group, name, result.GeneralChannelID))
	}
	return result, nil
}

func (p *TeamProvisioner) creationEffects(opp *opportunity.Opportunity, group *contracts.Group, name, generalChannelID string) []executors.SideEffect {
	var effects []executors.SideEffect
	if p.adminPrincipal != "" {
		effects = append(effects,
			executors.SideEffect{Step: StepAdminOwner, Run: func(ctx context.Context) error {
				return p.teams.AddGroupOwner(ctx, group.ID, p.adminPrincipal)
			}},
			executors.SideEffect{Step: StepAdminMember, Run: func(ctx context.Context) error {
				return p.teams.AddGroupMember(ctx, group.ID, p.adminPrincipal)
			}},
		)
	}
	if p.hooks == nil {
		return effects
	}
	if opp.Reference != "" {
		effects = append(effects, executors.SideEffect{Step: StepAddInWebhook, Run: func(ctx context.Context) error {
			return p.hooks.NotifyAddIn(ctx, opp.Reference, name, generalChannelID)
		}})
	}
	effects = append(effects, executors.SideEffect{Step: StepDocumentID, Run: func(ctx context.Context) error {
		return p.hooks.ActivateDocumentID(ctx, p.siteURL(name))
	}})
	return effects
}

// GrantMembership adds the loan officers and relationship managers of opp to its
// team. Members whose role is a Teams owner are also added as owners.
func (p *TeamProvisioner) GrantMembership(ctx context.Context, opp *opportunity.Opportunity, group *contracts.Group) []Diagnostic {
	if group == nil {
		name := opportunity.SanitizeDisplayName(opp.DisplayName)
		found, err := p.teams.FindGroupByPrefix(ctx, name)
		if err != nil || found == nil {
			if err == nil {
				err = fmt.Errorf("team %s: %w", name, contracts.ErrNoItemsFound)
			}
			return p.executor.Execute(ctx, opp.ID, []executors.SideEffect{{Step: StepMembership, Run: func(context.Context) error { return err }}})
		}
		group = found
	}

	var effects []executors.SideEffect
	for _, role := range []string{opportunity.RoleLoanOfficer, opportunity.RoleRelationshipManager} {
		for _, member := range opp.MembersInRole(role) {
			upn := member.Fields.UserPrincipalName
			if upn == "" {
				continue
			}
			effects = append(effects, executors.SideEffect{Step: StepMembership, Run: func(ctx context.Context) error {
				return p.teams.AddGroupMember(ctx, group.ID, upn)
			}})
			if member.AssignedRole.IsOwner() {
				effects = append(effects, executors.SideEffect{Step: StepMembership, Run: func(ctx context.Context) error {
					return p.teams.AddGroupOwner(ctx, group.ID, upn)
				}})
			}
		}
	}
	return p.executor.Execute(ctx, opp.ID, effects)
}

func (p *TeamProvisioner) siteURL(name string) string {
	return p.tenantHostURL + "/sites/" + name
}

func findChannel(channels []contracts.Channel, name string) string {
	for _, c := range channels {
		if strings.EqualFold(strings.TrimSpace(c.DisplayName), strings.TrimSpace(name)) {
			return c.ID
		}
	}
	return ""
}
