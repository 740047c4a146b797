package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"main/model"
	"main/utils"
)

const (
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
)

// ClientAuthenticator is the secure tenant login lookup. A failed match
// returns (nil, nil).
type ClientAuthenticator interface {
	Authenticate(ctx context.Context, identifier, password string) (*model.ClientProfile, error)
	UpdateLastLogin(ctx context.Context, clientID string) error
}

// LoginAttemptStore reads and updates the server-resident failed-attempt
// counters keyed by account email.
type LoginAttemptStore interface {
	AttemptState(ctx context.Context, email string) (*model.LoginAttemptState, error)
	ResetAttempts(ctx context.Context, email string) error
	RecordFailure(ctx context.Context, email string, lockAfter int, lockFor time.Duration) (int, *time.Time, error)
}

// LockoutError rejects a login without credential verification while the
// lockout window is open, or reports a lock that was just applied.
type LockoutError struct {
	Until   *time.Time
	message string
}

func (e *LockoutError) Error() string { return e.message }

type LoginKind string

const (
	LoginKindUser   LoginKind = "user"
	LoginKindClient LoginKind = "client"
)

type LoginResult struct {
	Kind          LoginKind
	Session       *model.Session
	ClientProfile *model.ClientProfileSession
	RedirectTo    string
}

// LoginService executes a login attempt against the two account
// namespaces and enforces brute-force protection on the standard one.
type LoginService struct {
	clients  ClientAuthenticator
	attempts LoginAttemptStore
	identity IdentityProvider
	store    ProfileStore
	security *SecurityService

	mu      sync.Mutex
	loading bool
}

func NewLoginService(clients ClientAuthenticator, attempts LoginAttemptStore, identity IdentityProvider, store ProfileStore, security *SecurityService) *LoginService {
	return &LoginService{
		clients:  clients,
		attempts: attempts,
		identity: identity,
		store:    store,
		security: security,
	}
}

func (s *LoginService) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Loading reports whether a login attempt is in flight.
func (s *LoginService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// AttemptLogin tries the tenant client-profile path first; any returned
// profile wins outright regardless of standard-table state. Otherwise the
// standard path runs with lockout checks. The loading flag clears on every
// branch, including error returns.
func (s *LoginService) AttemptLogin(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	clientProfile, err := s.clients.Authenticate(ctx, identifier, secret)
	if err != nil {
		// Lookup failures fall through to the standard path.
		log.Printf("Client profile lookup error: %v", err)
	}

	if clientProfile != nil {
		return s.finishClientLogin(ctx, identifier, clientProfile)
	}

	state, err := s.attempts.AttemptState(ctx, identifier)
	if err != nil {
		log.Printf("Failed to fetch login attempt state: %v", err)
		state = nil
	}

	// Lockout clock is wall-clock with strict greater-than; an exactly
	// expired lock admits the attempt.
	if state != nil && state.LockedUntil != nil && state.LockedUntil.After(time.Now()) {
		utils.TrackAuthAttempt("failure", "lockout")
		s.security.LogSecurityEvent(ctx, "login_attempt_on_locked_account", model.SeverityHigh, map[string]interface{}{
			"email":        identifier,
			"locked_until": state.LockedUntil,
		})
		return nil, &LockoutError{
			Until:   state.LockedUntil,
			message: "Account is temporarily locked due to multiple failed login attempts. Please try again later.",
		}
	}

	session, signErr := s.identity.SignIn(ctx, identifier, secret)
	if signErr == nil {
		if err := s.attempts.ResetAttempts(ctx, identifier); err != nil {
			log.Printf("Failed to reset login attempts: %v", err)
		}
		utils.TrackAuthAttempt("success", "login")
		s.security.LogSecurityEvent(ctx, "successful_login", model.SeverityLow, map[string]interface{}{
			"email": identifier,
		})
		return &LoginResult{Kind: LoginKindUser, Session: session}, nil
	}

	return nil, s.recordFailedLogin(ctx, identifier, state, signErr)
}

func (s *LoginService) finishClientLogin(ctx context.Context, identifier string, profile *model.ClientProfile) (*LoginResult, error) {
	if err := s.clients.UpdateLastLogin(ctx, profile.ClientID); err != nil {
		log.Printf("Failed to update client last login: %v", err)
	}

	utils.TrackAuthAttempt("success", "client_login")
	s.security.LogSecurityEvent(ctx, "successful_client_login", model.SeverityLow, map[string]interface{}{
		"client_id":   profile.ClientID,
		"client_name": profile.ClientName,
	})

	email := profile.Email
	if email == "" {
		email = identifier
	}
	session := &model.ClientProfileSession{
		ID:         profile.ClientID,
		ClientName: profile.ClientName,
		Email:      email,
		Phone:      profile.Phone,
	}

	if err := s.store.Save(ctx, session); err != nil {
		log.Printf("Failed to persist client profile session: %v", err)
	}

	return &LoginResult{
		Kind:          LoginKindClient,
		ClientProfile: session,
		RedirectTo:    "/dashboard",
	}, nil
}

func (s *LoginService) recordFailedLogin(ctx context.Context, identifier string, state *model.LoginAttemptState, signErr error) error {
	utils.TrackAuthAttempt("failure", "login")

	if state == nil {
		s.security.LogSecurityEvent(ctx, "failed_login_unknown_email", model.SeverityMedium, map[string]interface{}{
			"email":         identifier,
			"error_message": signErr.Error(),
		})
		return errors.New("Invalid email or password")
	}

	count, lockedUntil, err := s.attempts.RecordFailure(ctx, identifier, maxFailedAttempts, lockoutDuration)
	if err != nil {
		log.Printf("Failed to record login failure: %v", err)
		return errors.New("Invalid email or password")
	}

	if lockedUntil != nil {
		utils.AccountLockouts.Inc()
		s.security.LogSecurityEvent(ctx, "account_locked", model.SeverityHigh, map[string]interface{}{
			"email":           identifier,
			"failed_attempts": count,
			"locked_until":    lockedUntil,
		})
		return &LockoutError{
			Until:   lockedUntil,
			message: "Account locked due to multiple failed login attempts. Please try again in 15 minutes.",
		}
	}

	s.security.LogSecurityEvent(ctx, "failed_login_attempt", model.SeverityMedium, map[string]interface{}{
		"email":           identifier,
		"failed_attempts": count,
		"error_message":   signErr.Error(),
	})
	return fmt.Errorf("Invalid credentials. %d attempts remaining before account lock.", maxFailedAttempts-count)
}
