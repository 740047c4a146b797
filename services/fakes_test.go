package services

import (
	"context"
	"sync"
	"time"

	"main/model"
)

// recordingSink captures emitted security events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []model.SecurityEvent
}

func (s *recordingSink) Insert(ctx context.Context, event *model.SecurityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

func (s *recordingSink) byType(eventType string) []model.SecurityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.SecurityEvent
	for _, e := range s.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeIdentity struct {
	mu      sync.Mutex
	session *model.Session

	getSession func(ctx context.Context) (*model.Session, error)
	signIn     func(ctx context.Context, email, password string) (*model.Session, error)

	signInCalls int
	subs        []func(AuthChange)
}

func (f *fakeIdentity) GetSession(ctx context.Context) (*model.Session, error) {
	if f.getSession != nil {
		return f.getSession(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, nil
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	f.mu.Lock()
	f.signInCalls++
	f.mu.Unlock()
	if f.signIn != nil {
		return f.signIn(ctx, email, password)
	}
	return nil, ErrInvalidCredentials
}

func (f *fakeIdentity) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.session = nil
	f.mu.Unlock()
	f.emit(AuthChange{Event: AuthSignedOut})
	return nil
}

func (f *fakeIdentity) OnAuthStateChange(fn func(AuthChange)) func() {
	f.mu.Lock()
	f.subs = append(f.subs, fn)
	f.mu.Unlock()
	return func() {}
}

func (f *fakeIdentity) emit(change AuthChange) {
	f.mu.Lock()
	subs := make([]func(AuthChange), len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(change)
	}
}

type fakeProfileStore struct {
	mu         sync.Mutex
	session    *model.ClientProfileSession
	loadErr    error
	saveCalls  int
	clearCalls int
}

func (f *fakeProfileStore) Load(ctx context.Context) (*model.ClientProfileSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.session, nil
}

func (f *fakeProfileStore) Save(ctx context.Context, session *model.ClientProfileSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = session
	f.saveCalls++
	return nil
}

func (f *fakeProfileStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = nil
	f.clearCalls++
	return nil
}

func (f *fakeProfileStore) clears() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clearCalls
}

type fakeRoleSource struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, profileID string) (string, error)
}

func (f *fakeRoleSource) RoleByID(ctx context.Context, profileID string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(ctx, profileID)
	}
	return "", nil
}

func (f *fakeRoleSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeClientAuth struct {
	profile        *model.ClientProfile
	err            error
	lastLoginCalls int
}

func (f *fakeClientAuth) Authenticate(ctx context.Context, identifier, password string) (*model.ClientProfile, error) {
	return f.profile, f.err
}

func (f *fakeClientAuth) UpdateLastLogin(ctx context.Context, clientID string) error {
	f.lastLoginCalls++
	return nil
}

// fakeSessionStore is an in-memory SessionStore mirroring the
// repository's semantics.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session

	createCalls  int
	getCalls     int
	touchCalls   int
	refreshCalls int
	endCalls     int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.Session)}
}

func (f *fakeSessionStore) CreateSession(ctx context.Context, session *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	copied := *session
	f.sessions[session.SessionID] = &copied
	return nil
}

func (f *fakeSessionStore) EndSession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endCalls++
	if s, ok := f.sessions[sessionID]; ok {
		s.IsActive = false
	}
	return nil
}

func (f *fakeSessionStore) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionStore) TouchSession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touchCalls++
	if s, ok := f.sessions[sessionID]; ok {
		s.LastActivityAt = time.Now()
	}
	return nil
}

func (f *fakeSessionStore) RefreshSessionToken(ctx context.Context, sessionID, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	if s, ok := f.sessions[sessionID]; ok {
		s.Token = token
		s.ExpiresAt = expiresAt
	}
	return nil
}

func (f *fakeSessionStore) CountActiveSessions(ctx context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, s := range f.sessions {
		if !s.IsActive {
			continue
		}
		if userID != "" && s.UserID != userID {
			continue
		}
		count++
	}
	return count, nil
}

// fakeAttemptStore mirrors the repository's atomic counter semantics in
// memory.
type fakeAttemptStore struct {
	mu          sync.Mutex
	known       bool
	state       model.LoginAttemptState
	stateCalls  int
	resetCalls  int
	recordCalls int
}

func (f *fakeAttemptStore) AttemptState(ctx context.Context, email string) (*model.LoginAttemptState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stateCalls++
	if !f.known {
		return nil, nil
	}
	state := f.state
	return &state, nil
}

func (f *fakeAttemptStore) ResetAttempts(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetCalls++
	f.state.FailedLoginAttempts = 0
	f.state.LockedUntil = nil
	return nil
}

func (f *fakeAttemptStore) RecordFailure(ctx context.Context, email string, lockAfter int, lockFor time.Duration) (int, *time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordCalls++
	if !f.known {
		return 0, nil, nil
	}
	f.state.FailedLoginAttempts++
	if f.state.FailedLoginAttempts >= lockAfter {
		lockedUntil := time.Now().Add(lockFor)
		f.state.LockedUntil = &lockedUntil
		return f.state.FailedLoginAttempts, &lockedUntil, nil
	}
	return f.state.FailedLoginAttempts, nil, nil
}
