// Package permission evaluates role grants with casbin. Policies live in
// the casbin_rule table so operators can add grants without a release.
package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/domain/permission"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

var _ permission.Enforcer = (*Enforcer)(nil)

// rbacModel: g(child, parent) gives child every grant of parent, and a "*"
// resource matches any table, procedure or bucket.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && r.act == p.act
`

type Enforcer struct {
	mu     sync.RWMutex
	casbin *casbin.Enforcer
	logger logger.Interface
}

// NewEnforcer loads the grants stored in db.
func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}
	return build(adapter, log)
}

// NewMemoryEnforcer starts empty and keeps grants in memory.
func NewMemoryEnforcer(log logger.Interface) (*Enforcer, error) {
	return build(nil, log)
}

func build(adapter persist.Adapter, log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	var e *casbin.Enforcer
	if adapter != nil {
		e, err = casbin.NewEnforcer(m, adapter)
	} else {
		e, err = casbin.NewEnforcer(m)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	return &Enforcer{casbin: e, logger: log.Named("permission")}, nil
}

func (e *Enforcer) Enforce(role, resource, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.casbin.Enforce(role, resource, action)
	if err != nil {
		e.logger.Errorw("permission check failed", "role", role, "resource", resource, "action", action, "error", err)
		return false, fmt.Errorf("permission check failed: %w", err)
	}
	return allowed, nil
}

// Seed adds grants and child, parent role pairs. Rules already present are
// skipped, so seeding on every start keeps operator-added rules intact.
func (e *Enforcer) Seed(grants []permission.Policy, inheritance [][2]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rules := make([][]string, 0, len(grants))
	for _, g := range grants {
		rules = append(rules, []string{g.Role, g.Resource, g.Action})
	}
	if len(rules) > 0 {
		if _, err := e.casbin.AddPoliciesEx(rules); err != nil {
			return fmt.Errorf("failed to seed grants: %w", err)
		}
	}

	roles := make([][]string, 0, len(inheritance))
	for _, pair := range inheritance {
		roles = append(roles, []string{pair[0], pair[1]})
	}
	if len(roles) > 0 {
		if _, err := e.casbin.AddGroupingPoliciesEx(roles); err != nil {
			return fmt.Errorf("failed to seed role inheritance: %w", err)
		}
	}

	e.logger.Infow("permission policies seeded", "grants", len(rules), "roles", len(roles))
	return nil
}
