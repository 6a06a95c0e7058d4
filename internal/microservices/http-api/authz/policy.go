// Package authz holds the authorization gate: who the caller is and the
// policies deciding what they may do.
//
// There are two independent policies. Admin admits callers holding the admin
// role and guards catalog mutation. Owner admits only the user who created a
// resource and guards review mutation. Admins get no ownership override.
package authz

import (
	"reviewhub/internal/microservices/http-api/apperr"
	"reviewhub/internal/microservices/http-api/models"
)

// Principal is an authenticated caller with its role resolved.
type Principal struct {
	User     *models.User
	RoleName string
}

func (p *Principal) UserID() int64 {
	if p == nil || p.User == nil {
		return 0
	}
	return p.User.ID
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.User != nil && p.RoleName == models.RoleAdmin
}

// Policy admits or rejects a principal. A nil error means admitted.
type Policy func(p *Principal) error

// Authenticated admits any resolved principal.
func Authenticated(p *Principal) error {
	if p == nil || p.User == nil {
		return apperr.Unauthorized("not authenticated")
	}
	return nil
}

// Admin admits principals holding the admin role.
func Admin(p *Principal) error {
	if err := Authenticated(p); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return apperr.Forbidden("admin role required")
	}
	return nil
}

// Owner admits only the user whose id is ownerID.
func Owner(ownerID int64) Policy {
	return func(p *Principal) error {
		if err := Authenticated(p); err != nil {
			return err
		}
		if p.User.ID != ownerID {
			return apperr.Forbidden("only the author may modify this resource")
		}
		return nil
	}
}

// Check runs policy against p.
func Check(p *Principal, policy Policy) error {
	return policy(p)
}
