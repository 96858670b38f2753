package auth

import (
	"github.com/olegkurtov/accesshub/internal/common"
	"github.com/olegkurtov/accesshub/internal/server/models"
)

// RequireMinimumRole denies unless the caller is authenticated and holds at
// least minRole.
func RequireMinimumRole(claims *Claims, minRole models.Role) error {
	if claims == nil {
		return common.ErrUnauthenticated
	}
	if claims.Role < minRole {
		return common.ErrForbidden
	}
	return nil
}

// CheckAssignableRole denies granting a role above the actor's own. Roles
// outside [1,5] are rejected as invalid input before any hierarchy
// comparison.
func CheckAssignableRole(actorRole, targetRole models.Role) error {
	if !targetRole.Valid() {
		return common.ErrInvalidInput
	}
	if targetRole > actorRole {
		return common.ErrForbidden
	}
	return nil
}

// GuardSelfModification denies admin mutations where the actor targets its
// own account, forcing self-service flows through non-admin operations.
func GuardSelfModification(actorID, targetID int64) error {
	if actorID == targetID {
		return common.ErrForbidden
	}
	return nil
}

// CheckTargetCeiling denies acting on a target whose current stored role
// exceeds the actor's. The stored role always wins over any role carried in
// the request body.
func CheckTargetCeiling(actorRole, currentTargetRole models.Role) error {
	if currentTargetRole > actorRole {
		return common.ErrForbidden
	}
	return nil
}

// MutationCheck threads the admin-mutation authorization pipeline as an
// explicit value: the caller fetches the target account once and the checks
// run against that snapshot, in a fixed order, short-circuiting on the first
// denial.
type MutationCheck struct {
	Actor  *Claims
	Target *models.Account
}

// Authorize runs minimum-role, self-modification, and target-ceiling checks,
// in that order.
func (c *MutationCheck) Authorize(minRole models.Role) error {
	if err := RequireMinimumRole(c.Actor, minRole); err != nil {
		return err
	}
	if err := GuardSelfModification(c.Actor.AccountID, c.Target.ID); err != nil {
		return err
	}
	return CheckTargetCeiling(c.Actor.Role, c.Target.Role)
}

// AuthorizeRoleChange runs Authorize and then checks the requested role from
// the mutation body last.
func (c *MutationCheck) AuthorizeRoleChange(minRole, newRole models.Role) error {
	if err := c.Authorize(minRole); err != nil {
		return err
	}
	return CheckAssignableRole(c.Actor.Role, newRole)
}
