package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/domain/permission"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

func TestEnforcer_DefaultPolicies(t *testing.T) {
	e, err := NewMemoryEnforcer(logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, e.Seed(permission.DefaultPolicies(), permission.RoleInheritance))

	tests := []struct {
		role, resource, action string
		want                   bool
	}{
		{profile.RoleMember, permission.Procedure("validate_checkin"), permission.ActionExecute, true},
		{profile.RoleMember, permission.Procedure("update_competition_rankings"), permission.ActionExecute, false},
		{profile.RoleMember, permission.Table("competitions"), permission.ActionWrite, false},
		{profile.RoleOwner, permission.Procedure("update_competition_rankings"), permission.ActionExecute, true},
		{profile.RoleOwner, permission.Table("checkins"), permission.ActionWrite, true},
		{profile.RoleSuperadmin, permission.Table("anything"), permission.ActionWrite, true},
		{profile.RoleSuperadmin, permission.Procedure("validate_checkin"), permission.ActionExecute, true},
		{permission.RoleAnon, permission.Table("academies"), permission.ActionRead, true},
		{permission.RoleAnon, permission.Table("checkins"), permission.ActionRead, false},
		{permission.RoleAnon, permission.Table("reviews"), permission.ActionWrite, false},
		{profile.RoleMember, permission.Table("academies"), permission.ActionRead, true},
		{profile.RoleSuperadmin, permission.Table("reviews"), permission.ActionRead, true},
	}
	for _, tt := range tests {
		t.Run(tt.role+" "+tt.resource+" "+tt.action, func(t *testing.T) {
			ok, err := e.Enforce(tt.role, tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestEnforcer_SeedKeepsStoredRules(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	extra := permission.Policy{Role: profile.RoleMember, Resource: permission.Table("competitions"), Action: permission.ActionWrite}

	e, err := NewEnforcer(db, logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, e.Seed([]permission.Policy{extra}, nil))
	require.NoError(t, e.Seed(permission.DefaultPolicies(), permission.RoleInheritance))
	require.NoError(t, e.Seed(permission.DefaultPolicies(), permission.RoleInheritance), "seeding twice is a no-op")

	reloaded, err := NewEnforcer(db, logger.NewNopLogger())
	require.NoError(t, err)

	ok, err := reloaded.Enforce(profile.RoleOwner, permission.Procedure("create_family_invite"), permission.ActionExecute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = reloaded.Enforce(profile.RoleMember, extra.Resource, extra.Action)
	require.NoError(t, err)
	assert.True(t, ok, "operator grants survive a restart")

	ok, err = reloaded.Enforce(permission.RoleAnon, extra.Resource, extra.Action)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnforcer_SeedSkipsEmptyRuleSets(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	e, err := NewEnforcer(db, logger.NewNopLogger())
	require.NoError(t, err)

	require.NoError(t, e.Seed(nil, nil))
	require.NoError(t, e.Seed(nil, permission.RoleInheritance))
	require.NoError(t, e.Seed(permission.DefaultPolicies(), nil))

	ok, err := e.Enforce(profile.RoleMember, permission.Procedure("validate_checkin"), permission.ActionExecute)
	require.NoError(t, err)
	assert.True(t, ok)
}
