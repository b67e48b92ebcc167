// Package permission names what each role may do on the backend.
package permission

import (
	"github.com/fitpass-app/fitpass/internal/domain/profile"
)

// Actions.
const (
	ActionRead    = "read"
	ActionWrite   = "write"
	ActionExecute = "execute"
)

// Table returns the resource name of a REST table.
func Table(name string) string { return "table:" + name }

// Procedure returns the resource name of a remote procedure.
func Procedure(name string) string { return "rpc:" + name }

// Bucket returns the resource name of a storage bucket.
func Bucket(name string) string { return "bucket:" + name }

// Enforcer decides whether a role may perform action on resource.
type Enforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

// Policy is one role, resource, action grant.
type Policy struct {
	Role     string
	Resource string
	Action   string
}

// RoleAnon is the role of requests without a user token.
const RoleAnon = "anon"

// RoleInheritance lists child, parent pairs: member has every anon grant,
// owner every member grant and superadmin every owner grant.
var RoleInheritance = [][2]string{
	{profile.RoleMember, RoleAnon},
	{profile.RoleOwner, profile.RoleMember},
	{profile.RoleSuperadmin, profile.RoleOwner},
}

// DefaultPolicies are seeded on first start. Row ownership is enforced by the
// handlers; these grants only gate the resource as a whole.
func DefaultPolicies() []Policy {
	var out []Policy
	grant := func(role, resource string, actions ...string) {
		for _, a := range actions {
			out = append(out, Policy{Role: role, Resource: resource, Action: a})
		}
	}

	grant(RoleAnon, Table("academies"), ActionRead)
	grant(RoleAnon, Table("competitions"), ActionRead)
	grant(RoleAnon, Table("competition_participants"), ActionRead)
	grant(RoleAnon, Table("reviews"), ActionRead)
	grant(RoleAnon, Bucket("avatars"), ActionRead)

	m := profile.RoleMember
	grant(m, Table("competition_participants"), ActionWrite)
	grant(m, Table("checkins"), ActionRead, ActionWrite)
	grant(m, Table("profiles"), ActionRead, ActionWrite)
	grant(m, Table("reviews"), ActionWrite)
	grant(m, Procedure("validate_checkin"), ActionExecute)
	grant(m, Procedure("get_or_create_referral_code"), ActionExecute)
	grant(m, Procedure("accept_family_invite"), ActionExecute)
	grant(m, Procedure("advance_user_onboarding"), ActionExecute)
	grant(m, Bucket("avatars"), ActionWrite)

	o := profile.RoleOwner
	grant(o, Procedure("create_family_invite"), ActionExecute)
	grant(o, Procedure("update_competition_rankings"), ActionExecute)
	grant(o, Table("academies"), ActionWrite)
	grant(o, Table("competitions"), ActionWrite)

	grant(profile.RoleSuperadmin, "*", ActionRead)
	grant(profile.RoleSuperadmin, "*", ActionWrite)
	grant(profile.RoleSuperadmin, "*", ActionExecute)
	return out
}
