package opportunity

import "strings"

// Role names with special meaning in the workflow.
const (
	RoleLoanOfficer         = "LoanOfficer"
	RoleRelationshipManager = "RelationshipManager"
)

// TeamMember is a user working on an opportunity.
type TeamMember struct {
	ID           string           `json:"id"`
	DisplayName  string           `json:"displayName"`
	RoleID       string           `json:"roleId"`
	AssignedRole Role             `json:"assignedRole"`
	Fields       TeamMemberFields `json:"fields"`
	Status       ActionStatus     `json:"status"`
}

// TeamMemberFields carries directory attributes of a team member.
type TeamMemberFields struct {
	UserPrincipalName string       `json:"userPrincipalName"`
	Mail              string       `json:"mail"`
	Title             string       `json:"title"`
	Permissions       []Permission `json:"permissions"`
}

// HasRole compares the assigned role display name case-insensitively.
func (m TeamMember) HasRole(roleName string) bool {
	return strings.EqualFold(m.AssignedRole.DisplayName, roleName) ||
		strings.EqualFold(m.AssignedRole.AdGroupName, roleName)
}

func (m TeamMember) clone() TeamMember {
	m.Fields.Permissions = cloneSlice(m.Fields.Permissions)
	m.AssignedRole.Permissions = cloneSlice(m.AssignedRole.Permissions)
	return m
}

// Role maps an Azure AD group to a set of permissions.
type Role struct {
	ID              string       `json:"id"`
	AdGroupName     string       `json:"adGroupName"`
	DisplayName     string       `json:"displayName"`
	TeamsMembership string       `json:"teamsMembership"`
	Permissions     []Permission `json:"permissions"`
}

// Membership levels a role can be granted on the opportunity team.
const (
	TeamsMembershipOwner  = "Owner"
	TeamsMembershipMember = "Member"
	TeamsMembershipNone   = "None"
)

// IsOwner reports whether role members are added as team owners.
func (r Role) IsOwner() bool {
	return strings.EqualFold(r.TeamsMembership, TeamsMembershipOwner)
}

// Permission is a named capability.
type Permission struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
