package auth

import (
	"strings"

	"school-navigator/internal/models"
)

// IdentityFromClaims maps verified provider claims onto an identity record
func IdentityFromClaims(c *Claims) models.Identity {
	return models.Identity{
		ExternalID:  c.Subject,
		Email:       c.Email,
		DisplayName: c.Name,
		AvatarRef:   c.Picture,
	}
}

// RoleFor returns admin when the verified email is on the allow-list and viewer otherwise
func RoleFor(c *Claims, adminEmails []string) models.Role {
	if c == nil || !c.EmailVerified || c.Email == "" {
		return models.RoleViewer
	}
	for _, admin := range adminEmails {
		if strings.EqualFold(admin, c.Email) {
			return models.RoleAdmin
		}
	}
	return models.RoleViewer
}
