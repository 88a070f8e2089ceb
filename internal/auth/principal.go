package auth

import "github.com/mrlokans/hanzi/internal/entities"

// DefaultUserID is used when authentication is disabled
const DefaultUserID = uint(0)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   uint
	Username string
	Role     entities.UserRole
}

// anonymousAdmin is injected for every request when auth is disabled.
var anonymousAdmin = Principal{UserID: DefaultUserID, Username: "local", Role: entities.UserRoleAdmin}

// Authorize reports whether the principal may act with the required role.
// Admin satisfies every role.
func Authorize(p Principal, required entities.UserRole) bool {
	if p.Role == entities.UserRoleAdmin {
		return true
	}
	return p.Role != "" && p.Role == required
}
