package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"main/model"
	"main/utils"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for any standard sign-in failure. The
// caller cannot distinguish an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid login credentials")

type AuthEvent string

const (
	AuthSignedIn       AuthEvent = "SIGNED_IN"
	AuthSignedOut      AuthEvent = "SIGNED_OUT"
	AuthTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// AuthChange is pushed to subscribers whenever the platform auth state
// moves. Changes are delivered in the order they occur.
type AuthChange struct {
	Event   AuthEvent
	Session *model.Session
}

// IdentityProvider is the session backend consumed by the bootstrapper and
// the login service.
type IdentityProvider interface {
	GetSession(ctx context.Context) (*model.Session, error)
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(fn func(AuthChange)) (unsubscribe func())
}

// ProfileReader is the slice of the profile repository the identity
// provider needs for credential verification.
type ProfileReader interface {
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
}

// SessionStore persists platform sessions and serves session lookups.
type SessionStore interface {
	CreateSession(ctx context.Context, session *model.Session) error
	EndSession(ctx context.Context, sessionID string) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	TouchSession(ctx context.Context, sessionID string) error
	RefreshSessionToken(ctx context.Context, sessionID, token string, expiresAt time.Time) error
	CountActiveSessions(ctx context.Context, userID string) (int64, error)
}

// TokenRefresher reissues the current session's token. Implemented by
// PlatformIdentity and consumed by the refresh endpoint.
type TokenRefresher interface {
	RefreshToken(ctx context.Context) (*model.Session, error)
}

type subscriber struct {
	id int
	fn func(AuthChange)
}

// PlatformIdentity verifies credentials against the profiles collection
// and tracks the current session, mirroring a hosted identity backend.
type PlatformIdentity struct {
	profiles ProfileReader
	sessions SessionStore
	cache    *SessionCache

	mu      sync.Mutex
	current *model.Session

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

func NewPlatformIdentity(profiles ProfileReader, sessions SessionStore, cache *SessionCache) *PlatformIdentity {
	return &PlatformIdentity{
		profiles: profiles,
		sessions: sessions,
		cache:    cache,
	}
}

func (p *PlatformIdentity) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	profile, err := p.profiles.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile == nil || !profile.IsActive {
		return nil, ErrInvalidCredentials
	}

	match, err := VerifyPassword(profile.Password, password)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(profile.ProfileID, profile.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &model.Session{
		SessionID:      uuid.New().String(),
		UserID:         profile.ProfileID,
		Email:          profile.Email,
		Token:          token,
		CreatedAt:      now,
		ExpiresAt:      now.Add(time.Duration(utils.JWTExpirationTime) * time.Second),
		LastActivityAt: now,
		DeviceInfo:     utils.DescribeDevice(utils.UserAgentFromContext(ctx)),
		IsActive:       true,
	}

	if err := p.sessions.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.SetSession(ctx, session); err != nil {
			log.Printf("Failed to cache session: %v", err)
		}
	}

	p.mu.Lock()
	p.current = session
	p.mu.Unlock()

	p.updateSessionGauge(ctx)
	p.notify(AuthChange{Event: AuthSignedIn, Session: session})
	return session, nil
}

func (p *PlatformIdentity) SignOut(ctx context.Context) error {
	p.mu.Lock()
	session := p.current
	p.current = nil
	p.mu.Unlock()

	if session == nil {
		return nil
	}

	if err := p.sessions.EndSession(ctx, session.SessionID); err != nil {
		log.Printf("Failed to end session: %v", err)
	}
	if p.cache != nil {
		if err := p.cache.DeleteSession(ctx, session.SessionID); err != nil {
			log.Printf("Failed to evict cached session: %v", err)
		}
	}

	p.updateSessionGauge(ctx)
	p.notify(AuthChange{Event: AuthSignedOut})
	return nil
}

// updateSessionGauge refreshes the active-sessions gauge from the store.
func (p *PlatformIdentity) updateSessionGauge(ctx context.Context) {
	count, err := p.sessions.CountActiveSessions(ctx, "")
	if err != nil {
		log.Printf("Failed to count active sessions: %v", err)
		return
	}
	utils.UpdateActiveSessions(float64(count))
}

// GetSession returns the current session, or (nil, nil) when there is
// none, it has expired, or it was ended elsewhere. The freshest copy is
// read through the cache with a store fallback, and activity is recorded
// on every hit.
func (p *PlatformIdentity) GetSession(ctx context.Context) (*model.Session, error) {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()

	if current == nil {
		return nil, nil
	}

	session := p.lookupSession(ctx, current.SessionID)
	if session == nil {
		session = current
	}

	if !session.IsActive || time.Now().After(session.ExpiresAt) {
		p.mu.Lock()
		if p.current != nil && p.current.SessionID == session.SessionID {
			p.current = nil
		}
		p.mu.Unlock()
		return nil, nil
	}

	if err := p.sessions.TouchSession(ctx, session.SessionID); err != nil {
		log.Printf("Failed to record session activity: %v", err)
	}
	session.LastActivityAt = time.Now()

	p.mu.Lock()
	p.current = session
	p.mu.Unlock()

	out := *session
	return &out, nil
}

// lookupSession reads the session through the cache, falling back to the
// store on a miss and re-priming the cache from the stored row. A nil
// return means neither layer had a usable copy.
func (p *PlatformIdentity) lookupSession(ctx context.Context, sessionID string) *model.Session {
	if p.cache != nil {
		cached, err := p.cache.GetSession(ctx, sessionID)
		if err != nil {
			log.Printf("Session cache read failed: %v", err)
		} else if cached != nil {
			return cached
		}
	}

	stored, err := p.sessions.GetSession(ctx, sessionID)
	if err != nil {
		log.Printf("Session lookup failed: %v", err)
		return nil
	}
	if stored == nil {
		return nil
	}

	if stored.IsActive && p.cache != nil {
		if err := p.cache.SetSession(ctx, stored); err != nil {
			log.Printf("Failed to cache session: %v", err)
		}
	}
	return stored
}

// RefreshToken reissues the session token, persists the new expiry to the
// store and cache, and notifies subscribers with a TOKEN_REFRESHED change.
func (p *PlatformIdentity) RefreshToken(ctx context.Context) (*model.Session, error) {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return nil, errors.New("no session to refresh")
	}
	userID := p.current.UserID
	p.mu.Unlock()

	token, err := GenerateToken(userID, "")
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return nil, errors.New("no session to refresh")
	}
	p.current.Token = token
	p.current.ExpiresAt = time.Now().Add(time.Duration(utils.JWTExpirationTime) * time.Second)
	refreshed := *p.current
	p.mu.Unlock()

	if err := p.sessions.RefreshSessionToken(ctx, refreshed.SessionID, token, refreshed.ExpiresAt); err != nil {
		log.Printf("Failed to persist refreshed token: %v", err)
	}
	if p.cache != nil {
		if err := p.cache.SetSession(ctx, &refreshed); err != nil {
			log.Printf("Failed to cache refreshed session: %v", err)
		}
	}

	p.notify(AuthChange{Event: AuthTokenRefreshed, Session: &refreshed})
	return &refreshed, nil
}

// OnAuthStateChange registers a callback for auth state changes. Callbacks
// run synchronously in registration order so deliveries cannot reorder.
func (p *PlatformIdentity) OnAuthStateChange(fn func(AuthChange)) func() {
	p.subMu.Lock()
	p.nextID++
	id := p.nextID
	p.subs = append(p.subs, subscriber{id: id, fn: fn})
	p.subMu.Unlock()

	return func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		for i, s := range p.subs {
			if s.id == id {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				break
			}
		}
	}
}

func (p *PlatformIdentity) notify(change AuthChange) {
	p.subMu.Lock()
	subs := make([]subscriber, len(p.subs))
	copy(subs, p.subs)
	p.subMu.Unlock()

	for _, s := range subs {
		s.fn(change)
	}
}
