// Package access resolves the partial/full/super permission tiers and gates
// opportunity operations on team membership.
package access

import (
	"strings"

	"propmgmt/domain/opportunity"
)

// Permission names carried in caller claims and role definitions.
const (
	PermissionOpportunityReadPartial      = "Opportunity_Read_Partial"
	PermissionOpportunitiesReadAll        = "Opportunities_Read_All"
	PermissionOpportunityReadWritePartial = "Opportunity_ReadWrite_Partial"
	PermissionOpportunitiesReadWriteAll   = "Opportunities_ReadWrite_All"
	PermissionOpportunityCreate           = "Opportunity_Create"
	PermissionAdministrator               = "Administrator"
)

// Level is the outcome of a three-tier permission check.
type Level struct {
	Partial bool `json:"partial"`
	Full    bool `json:"full"`
	Super   bool `json:"super"`
}

// Checker reports whether the caller holds a named permission.
type Checker func(permission string) bool

// Resolve evaluates super, then full, then partial. When none matches the
// result is {Partial:false, Full:true, Super:false}; this fallback is kept
// as-is pending product owner confirmation and is covered by tests.
func Resolve(has Checker, partial, full, super string) Level {
	switch {
	case has(super):
		return Level{Partial: true, Full: true, Super: true}
	case has(full):
		return Level{Partial: true, Full: true}
	case has(partial):
		return Level{Partial: true}
	default:
		return Level{Full: true}
	}
}

// Caller is the authenticated principal behind a request.
type Caller struct {
	UserPrincipalName string   `json:"upn"`
	DisplayName       string   `json:"name"`
	Groups            []string `json:"groups"`
	Permissions       []string `json:"permissions"`
}

// Has reports whether the caller holds permission (case-insensitive).
func (c Caller) Has(permission string) bool {
	if permission == "" {
		return false
	}
	for _, p := range c.Permissions {
		if strings.EqualFold(p, permission) {
			return true
		}
	}
	return false
}

// InGroup reports whether the caller is a member of group (case-insensitive).
func (c Caller) InGroup(group string) bool {
	for _, g := range c.Groups {
		if strings.EqualFold(g, group) {
			return true
		}
	}
	return false
}

// ReadLevel resolves the caller's read tier for opportunities.
func (c Caller) ReadLevel() Level {
	return Resolve(c.Has, PermissionOpportunityReadPartial, PermissionOpportunitiesReadAll, PermissionAdministrator)
}

// WriteLevel resolves the caller's write tier for opportunities.
func (c Caller) WriteLevel() Level {
	return Resolve(c.Has, PermissionOpportunityReadWritePartial, PermissionOpportunitiesReadWriteAll, PermissionAdministrator)
}

// CanAccess combines a resolved level with team membership. Super callers
// reach every opportunity; everyone else must be on the team.
func CanAccess(level Level, caller Caller, opp *opportunity.Opportunity) bool {
	if level.Super {
		return true
	}
	if !level.Partial && !level.Full {
		return false
	}
	return opp.IsTeamMember(caller.UserPrincipalName)
}

// Filter keeps the opportunities the caller may see at level.
func Filter(level Level, caller Caller, opps []*opportunity.Opportunity) []*opportunity.Opportunity {
	out := make([]*opportunity.Opportunity, 0, len(opps))
	for _, o := range opps {
		if CanAccess(level, caller, o) {
			out = append(out, o)
		}
	}
	return out
}
