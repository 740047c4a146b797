package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"main/model"
)

const (
	defaultRole = "user"

	defaultSessionTimeout = 10 * time.Second
	defaultRoleTimeout    = 5 * time.Second
	defaultRetryDelay     = 1 * time.Second
	defaultRefreshDelay   = 100 * time.Millisecond
)

// RoleSource resolves the role attribute for a principal id. A missing
// role record returns an empty string, not an error.
type RoleSource interface {
	RoleByID(ctx context.Context, profileID string) (string, error)
}

// AuthState is the principal/role/loading triple consumed by route guards.
type AuthState struct {
	Session       *model.Session              `json:"session,omitempty"`
	ClientProfile *model.ClientProfileSession `json:"client_profile,omitempty"`
	Role          string                      `json:"role,omitempty"`
	Loading       bool                        `json:"loading"`
}

// Authenticated reports whether either principal kind is present.
func (s AuthState) Authenticated() bool {
	return s.Session != nil || s.ClientProfile != nil
}

// SessionBootstrapper establishes the current principal and role on start
// and on every pushed auth change, and never leaves callers in an
// indefinite loading state. Every network failure degrades to a safe
// default instead of propagating.
type SessionBootstrapper struct {
	identity IdentityProvider
	roles    RoleSource
	store    ProfileStore
	security *SecurityService

	SessionTimeout time.Duration
	RoleTimeout    time.Duration
	RetryDelay     time.Duration
	RefreshDelay   time.Duration

	mu            sync.Mutex
	session       *model.Session
	clientProfile *model.ClientProfileSession
	role          string
	loading       bool
	generation    uint64

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
}

func NewSessionBootstrapper(identity IdentityProvider, roles RoleSource, store ProfileStore, security *SecurityService) *SessionBootstrapper {
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionBootstrapper{
		identity:       identity,
		roles:          roles,
		store:          store,
		security:       security,
		SessionTimeout: defaultSessionTimeout,
		RoleTimeout:    defaultRoleTimeout,
		RetryDelay:     defaultRetryDelay,
		RefreshDelay:   defaultRefreshDelay,
		loading:        true,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start resolves the initial auth state and subscribes to pushed changes.
// It always returns nil for transport failures; the state simply ends up
// unauthenticated.
func (b *SessionBootstrapper) Start(ctx context.Context) error {
	b.unsubscribe = b.identity.OnAuthStateChange(b.handleAuthChange)

	// A persisted client-profile session wins and skips the platform
	// session lookup entirely.
	profile, err := b.store.Load(ctx)
	if err != nil {
		log.Printf("Discarding malformed client profile session: %v", err)
		if clearErr := b.store.Clear(ctx); clearErr != nil {
			log.Printf("Failed to clear client profile session: %v", clearErr)
		}
	}
	if profile != nil {
		b.mu.Lock()
		b.clientProfile = profile
		b.role = defaultRole
		b.loading = false
		b.mu.Unlock()
		return nil
	}

	session, err := b.getSessionWithTimeout(ctx)
	if err != nil {
		if isNetworkError(err) {
			log.Printf("Network issue checking session, continuing unauthenticated: %v", err)
		} else {
			log.Printf("Error getting session: %v", err)
		}
		b.mu.Lock()
		b.loading = false
		b.mu.Unlock()
		return nil
	}

	if session == nil {
		b.mu.Lock()
		b.loading = false
		b.mu.Unlock()
		return nil
	}

	b.mu.Lock()
	b.session = session
	b.generation++
	gen := b.generation
	b.mu.Unlock()

	role := b.resolveRole(ctx, session.UserID)
	b.adoptRole(gen, role)

	b.mu.Lock()
	b.loading = false
	b.mu.Unlock()
	return nil
}

// Close unsubscribes from auth change notifications and stops any pending
// deferred role resolution. This is the only required cleanup.
func (b *SessionBootstrapper) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
	b.cancel()
	b.wg.Wait()
}

// Snapshot returns the current auth state.
func (b *SessionBootstrapper) Snapshot() AuthState {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := AuthState{
		Role:    b.role,
		Loading: b.loading,
	}
	if b.session != nil {
		session := *b.session
		state.Session = &session
	}
	if b.clientProfile != nil {
		profile := *b.clientProfile
		state.ClientProfile = &profile
	}
	return state
}

func (b *SessionBootstrapper) getSessionWithTimeout(ctx context.Context) (*model.Session, error) {
	// The timeout context cancels the losing call instead of leaking it.
	tctx, cancel := context.WithTimeout(ctx, b.SessionTimeout)
	defer cancel()
	return b.identity.GetSession(tctx)
}

// resolveRole fetches the role under its own timeout with exactly one
// retry on non-network errors. Network errors and missing role records
// both default to "user".
func (b *SessionBootstrapper) resolveRole(ctx context.Context, userID string) string {
	role, err := b.fetchRole(ctx, userID)
	if err == nil {
		if role == "" {
			return defaultRole
		}
		return role
	}

	if isNetworkError(err) {
		log.Printf("Network issue fetching role, defaulting to %s: %v", defaultRole, err)
		return defaultRole
	}

	log.Printf("Role fetch error, retrying once: %v", err)
	select {
	case <-time.After(b.RetryDelay):
	case <-ctx.Done():
		return defaultRole
	}

	role, err = b.fetchRole(ctx, userID)
	if err != nil || role == "" {
		if err != nil {
			log.Printf("Role retry failed, defaulting to %s: %v", defaultRole, err)
		}
		return defaultRole
	}
	return role
}

func (b *SessionBootstrapper) fetchRole(ctx context.Context, userID string) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, b.RoleTimeout)
	defer cancel()
	return b.roles.RoleByID(tctx, userID)
}

// adoptRole applies a resolved role only if no newer session change has
// superseded the resolution attempt.
func (b *SessionBootstrapper) adoptRole(gen uint64, role string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		return
	}
	b.role = role
}

func (b *SessionBootstrapper) handleAuthChange(change AuthChange) {
	if change.Event == AuthSignedOut || change.Session == nil {
		b.mu.Lock()
		b.session = nil
		b.role = ""
		b.generation++
		b.loading = false
		b.mu.Unlock()
		return
	}

	// Platform auth takes precedence over a stored client-profile session.
	if err := b.store.Clear(b.ctx); err != nil {
		log.Printf("Failed to clear client profile session: %v", err)
	}

	b.mu.Lock()
	b.clientProfile = nil
	b.session = change.Session
	b.generation++
	gen := b.generation
	b.loading = false
	userID := change.Session.UserID
	b.mu.Unlock()

	// Deferred briefly to avoid racing the notification delivery. A stale
	// resolution is discarded by the generation check.
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		select {
		case <-time.After(b.RefreshDelay):
		case <-b.ctx.Done():
			return
		}
		role := b.resolveRole(b.ctx, userID)
		b.adoptRole(gen, role)
	}()
}

// isNetworkError classifies transport-level failures that must degrade to
// a safe default instead of surfacing.
func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := err.Error()
	for _, pattern := range []string{
		"Failed to fetch",
		"timeout",
		"connection refused",
		"no reachable servers",
		"network",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
