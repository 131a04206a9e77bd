package models

import "time"

// Role is the coarse access level of a session
type Role string

const (
	RoleViewer Role = "viewer"
	RoleAdmin  Role = "admin"
)

// SignInMethod records how a session was established
type SignInMethod string

const (
	MethodPassword SignInMethod = "password"
	MethodIdentity SignInMethod = "identity"
)

// SessionState is one of the four guard states
type SessionState string

const (
	StateAnonymousViewer SessionState = "anonymous-viewer"
	StatePasswordAdmin   SessionState = "password-admin"
	StateIdentityViewer  SessionState = "identity-viewer"
	StateIdentityAdmin   SessionState = "identity-admin"
)

// Identity is the signed-in user as reported by the identity provider
type Identity struct {
	ExternalID  string `json:"externalId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	AvatarRef   string `json:"avatarRef,omitempty"`
}

// Session is the persisted sign-in record behind a session token
type Session struct {
	ID        string       `json:"id"`
	Identity  *Identity    `json:"identity,omitempty"`
	Role      Role         `json:"role"`
	Method    SignInMethod `json:"method"`
	CreatedAt time.Time    `json:"createdAt"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// AnonymousSession returns the session used for requests without a token
func AnonymousSession() *Session {
	return &Session{Role: RoleViewer}
}

// IsAdmin reports whether the session holds either admin state
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// State derives the guard state from the sign-in method and role
func (s *Session) State() SessionState {
	if s == nil {
		return StateAnonymousViewer
	}
	switch s.Method {
	case MethodPassword:
		if s.Role == RoleAdmin {
			return StatePasswordAdmin
		}
	case MethodIdentity:
		if s.Role == RoleAdmin {
			return StateIdentityAdmin
		}
		return StateIdentityViewer
	}
	return StateAnonymousViewer
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
