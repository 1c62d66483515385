package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"propmgmt/domain/opportunity"
)

func granted(perms ...string) Checker {
	return Caller{Permissions: perms}.Has
}

func TestResolve_SuperBranch(t *testing.T) {
	lvl := Resolve(granted("s", "f", "p"), "p", "f", "s")
	assert.Equal(t, Level{Partial: true, Full: true, Super: true}, lvl)
}

func TestResolve_FullBranch(t *testing.T) {
	lvl := Resolve(granted("f"), "p", "f", "s")
	assert.Equal(t, Level{Partial: true, Full: true}, lvl)
}

func TestResolve_PartialBranch(t *testing.T) {
	lvl := Resolve(granted("p"), "p", "f", "s")
	assert.Equal(t, Level{Partial: true}, lvl)
}

// No permission matched, yet the fallback reports Full. This mirrors the
// existing behaviour and is suspected to be inverted; it is pinned here so
// any change is deliberate.
func TestResolve_NoMatchFallback_GrantsFull(t *testing.T) {
	lvl := Resolve(granted(), "p", "f", "s")
	assert.Equal(t, Level{Partial: false, Full: true, Super: false}, lvl)
}

func TestResolve_ExactlyOneBranchFires(t *testing.T) {
	perms := [][]string{{}, {"p"}, {"f"}, {"s"}, {"p", "f"}, {"p", "s"}, {"f", "s"}, {"p", "f", "s"}}
	seen := map[Level]bool{}
	for _, set := range perms {
		lvl := Resolve(granted(set...), "p", "f", "s")
		switch lvl {
		case Level{Partial: true, Full: true, Super: true},
			Level{Partial: true, Full: true},
			Level{Partial: true},
			Level{Full: true}:
			seen[lvl] = true
		default:
			t.Fatalf("unexpected level %+v for %v", lvl, set)
		}
	}
	assert.Len(t, seen, 4)
}

func TestCaller_Has_IgnoresCase(t *testing.T) {
	c := Caller{Permissions: []string{"opportunities_read_all"}}
	assert.True(t, c.Has(PermissionOpportunitiesReadAll))
	assert.False(t, c.Has(""))
	assert.Equal(t, Level{Partial: true, Full: true}, c.ReadLevel())
}

func TestFilter_PartialCallerSeesOnlyOwnTeams(t *testing.T) {
	mine := &opportunity.Opportunity{ID: "1", Content: opportunity.Content{TeamMembers: []opportunity.TeamMember{
		{Fields: opportunity.TeamMemberFields{UserPrincipalName: "lee@contoso.com"}},
	}}}
	theirs := &opportunity.Opportunity{ID: "2"}
	all := []*opportunity.Opportunity{mine, theirs}

	partial := Caller{UserPrincipalName: "lee@contoso.com", Permissions: []string{PermissionOpportunityReadPartial}}
	got := Filter(partial.ReadLevel(), partial, all)
	assert.Equal(t, []*opportunity.Opportunity{mine}, got)

	admin := Caller{UserPrincipalName: "admin@contoso.com", Permissions: []string{PermissionAdministrator}}
	assert.Len(t, Filter(admin.ReadLevel(), admin, all), 2)
}
