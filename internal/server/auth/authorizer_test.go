package auth

import (
	"errors"
	"testing"

	"github.com/olegkurtov/accesshub/internal/common"
	"github.com/olegkurtov/accesshub/internal/server/models"
)

func claimsFor(id int64, role models.Role) *Claims {
	return &Claims{AccountID: id, Role: role}
}

func TestRequireMinimumRole(t *testing.T) {
	t.Parallel()

	if err := RequireMinimumRole(nil, models.RoleUser); !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("nil claims: want ErrUnauthenticated, got %v", err)
	}
	if err := RequireMinimumRole(claimsFor(1, models.RoleAdmin), models.RoleAdmin); err != nil {
		t.Fatalf("equal role should pass, got %v", err)
	}
	if err := RequireMinimumRole(claimsFor(1, models.RoleOwner), models.RoleUser); err != nil {
		t.Fatalf("higher role should pass, got %v", err)
	}
	if err := RequireMinimumRole(claimsFor(1, models.RoleModerator), models.RoleAdmin); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("lower role: want ErrForbidden, got %v", err)
	}
}

func TestCheckAssignableRole_FullMatrix(t *testing.T) {
	t.Parallel()

	for actor := models.RoleUser; actor <= models.RoleOwner; actor++ {
		for target := models.RoleUser; target <= models.RoleOwner; target++ {
			err := CheckAssignableRole(actor, target)
			if target <= actor && err != nil {
				t.Fatalf("actor=%d target=%d: expected allow, got %v", actor, target, err)
			}
			if target > actor && !errors.Is(err, common.ErrForbidden) {
				t.Fatalf("actor=%d target=%d: expected ErrForbidden, got %v", actor, target, err)
			}
		}
	}
}

func TestCheckAssignableRole_OutOfRange(t *testing.T) {
	t.Parallel()

	for _, target := range []models.Role{0, 6, -1, 42} {
		if err := CheckAssignableRole(models.RoleOwner, target); !errors.Is(err, common.ErrInvalidInput) {
			t.Fatalf("target=%d: want ErrInvalidInput, got %v", target, err)
		}
	}
}

func TestGuardSelfModification(t *testing.T) {
	t.Parallel()

	if err := GuardSelfModification(1, 1); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("self target: want ErrForbidden, got %v", err)
	}
	if err := GuardSelfModification(1, 2); err != nil {
		t.Fatalf("distinct target should pass, got %v", err)
	}
}

func TestCheckTargetCeiling(t *testing.T) {
	t.Parallel()

	if err := CheckTargetCeiling(models.RoleAdmin, models.RoleSuperAdmin); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("higher target: want ErrForbidden, got %v", err)
	}
	if err := CheckTargetCeiling(models.RoleAdmin, models.RoleAdmin); err != nil {
		t.Fatalf("peer target should pass, got %v", err)
	}
	if err := CheckTargetCeiling(models.RoleAdmin, models.RoleUser); err != nil {
		t.Fatalf("lower target should pass, got %v", err)
	}
}

func TestMutationCheck_ShortCircuitOrder(t *testing.T) {
	t.Parallel()

	target := &models.Account{ID: 2, Role: models.RoleOwner}

	// Minimum role fails first, even though the ceiling would also deny.
	check := &MutationCheck{Actor: claimsFor(1, models.RoleUser), Target: target}
	if err := check.Authorize(models.RoleAdmin); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("want ErrForbidden from minimum-role check, got %v", err)
	}

	// Self guard fires before the target ceiling.
	self := &models.Account{ID: 3, Role: models.RoleUser}
	check = &MutationCheck{Actor: claimsFor(3, models.RoleAdmin), Target: self}
	if err := check.Authorize(models.RoleAdmin); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("want ErrForbidden from self guard, got %v", err)
	}

	// Stored-role ceiling denies even when the mutation body carries no role.
	promoted := &models.Account{ID: 4, Role: models.RoleSuperAdmin}
	check = &MutationCheck{Actor: claimsFor(3, models.RoleAdmin), Target: promoted}
	if err := check.Authorize(models.RoleAdmin); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("want ErrForbidden from target ceiling, got %v", err)
	}
}

func TestMutationCheck_AuthorizeRoleChange(t *testing.T) {
	t.Parallel()

	target := &models.Account{ID: 2, Role: models.RoleUser}
	check := &MutationCheck{Actor: claimsFor(1, models.RoleAdmin), Target: target}

	if err := check.AuthorizeRoleChange(models.RoleAdmin, models.RoleAdmin); err != nil {
		t.Fatalf("elevation to own level should pass, got %v", err)
	}
	if err := check.AuthorizeRoleChange(models.RoleAdmin, models.RoleSuperAdmin); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("elevation above own level: want ErrForbidden, got %v", err)
	}
	if err := check.AuthorizeRoleChange(models.RoleAdmin, models.Role(9)); !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("out-of-range role: want ErrInvalidInput, got %v", err)
	}
}
