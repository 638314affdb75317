// Package access holds the role guard shared by the HTTP middleware and the
// services that expose staff- or student-only operations.
package access

import (
	"github.com/noah-isme/campus-activities-api/internal/models"
	appErrors "github.com/noah-isme/campus-activities-api/pkg/errors"
)

// Require returns nil when the principal holds one of roles. A nil principal
// is unauthenticated; a role mismatch is forbidden.
func Require(p *models.Principal, roles ...models.UserRole) error {
	if p == nil || p.UserID == 0 {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		if p.Role == role {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions")
}

// Staff is shorthand for Require(p, models.RoleEmployee).
func Staff(p *models.Principal) error {
	return Require(p, models.RoleEmployee)
}

// Student is shorthand for Require(p, models.RoleStudent).
func Student(p *models.Principal) error {
	return Require(p, models.RoleStudent)
}
