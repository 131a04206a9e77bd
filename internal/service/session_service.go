package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"school-navigator/internal/auth"
	"school-navigator/internal/models"
	"school-navigator/pkg/utils"
)

// SessionStore persists session records
type SessionStore interface {
	LoadSession(ctx context.Context, id string) (*models.Session, bool)
	SaveSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, id string) error
}

// CredentialVerifier checks an identity provider credential
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) (*auth.Claims, error)
}

type SessionService struct {
	sessions          SessionStore
	verifier          CredentialVerifier
	audit             AuditLogger
	adminPasswordHash string
	adminEmails       []string
	now               func() time.Time
}

// LoginResponse represents the response structure for sign-in
type LoginResponse struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expiresAt"`
	State     models.SessionState `json:"state"`
	Session   *models.Session     `json:"session"`
}

func NewSessionService(sessions SessionStore, verifier CredentialVerifier, audit AuditLogger, adminPasswordHash string, adminEmails []string) *SessionService {
	return &SessionService{
		sessions:          sessions,
		verifier:          verifier,
		audit:             audit,
		adminPasswordHash: adminPasswordHash,
		adminEmails:       adminEmails,
		now:               time.Now,
	}
}

// LoginWithPassword signs in as admin with the shared admin password
func (s *SessionService) LoginWithPassword(ctx context.Context, password string) (*LoginResponse, error) {
	if password == "" || !utils.ComparePassword(s.adminPasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.start(ctx, &models.Session{
		Role:   models.RoleAdmin,
		Method: models.MethodPassword,
	})
}

// LoginWithCredential signs in with a provider ID token. The token is
// verified before any of its claims are used.
func (s *SessionService) LoginWithCredential(ctx context.Context, credential string) (*LoginResponse, error) {
	if s.verifier == nil {
		return nil, fmt.Errorf("%w: identity sign-in is not configured", ErrInvalidCredential)
	}

	claims, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		log.Printf("Rejected identity credential: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	identity := auth.IdentityFromClaims(claims)
	return s.start(ctx, &models.Session{
		Identity: &identity,
		Role:     auth.RoleFor(claims, s.adminEmails),
		Method:   models.MethodIdentity,
	})
}

// Logout deletes the session record
func (s *SessionService) Logout(ctx context.Context, session *models.Session) error {
	if session == nil || session.ID == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.auditLog(ctx, session, "session_logout", fmt.Sprintf("Session %s signed out", session.ID))
	return nil
}

// Resolve returns the stored session behind a session token
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	claims, err := utils.ValidateSessionToken(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	session, ok := s.sessions.LoadSession(ctx, claims.SessionID)
	if !ok {
		return nil, ErrInvalidSession
	}
	if session.Expired(s.now()) {
		if err := s.sessions.DeleteSession(ctx, session.ID); err != nil {
			log.Printf("Warning: failed to delete expired session %s: %v", session.ID, err)
		}
		return nil, ErrInvalidSession
	}
	return session, nil
}

func (s *SessionService) start(ctx context.Context, session *models.Session) (*LoginResponse, error) {
	now := s.now()
	session.ID = utils.GenerateSessionID()
	session.CreatedAt = now
	session.ExpiresAt = now.Add(utils.GetSessionExpiry())

	token, err := utils.GenerateSessionToken(session.ID, string(session.Role), session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	details := fmt.Sprintf("Signed in by %s as %s", session.Method, session.Role)
	if session.Identity != nil {
		details = fmt.Sprintf("%s signed in as %s", session.Identity.Email, session.Role)
	}
	s.auditLog(ctx, session, "session_login", details)

	return &LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		State:     session.State(),
		Session:   session,
	}, nil
}

func (s *SessionService) auditLog(ctx context.Context, session *models.Session, action, details string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, sessionID(session), action, details); err != nil {
		log.Printf("Warning: failed to write audit log for %s: %v", action, err)
	}
}
