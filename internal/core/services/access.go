package services

import "github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"

// requireRole is the authoritative role gate. Route-level checks in the HTTP
// layer only short-circuit the same decision.
func requireRole(actor domain.Identity, roles ...domain.Role) error {
	if actor.UserID == 0 {
		return domain.ErrUnauthenticated
	}
	if !actor.Is(roles...) {
		return domain.ErrForbidden
	}
	return nil
}
