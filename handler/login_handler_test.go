package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"main/model"
	"main/services"

	"github.com/gin-gonic/gin"
)

type stubClientAuth struct {
	profile *model.ClientProfile
}

func (s *stubClientAuth) Authenticate(ctx context.Context, identifier, password string) (*model.ClientProfile, error) {
	return s.profile, nil
}

func (s *stubClientAuth) UpdateLastLogin(ctx context.Context, clientID string) error { return nil }

type stubAttemptStore struct {
	state *model.LoginAttemptState
}

func (s *stubAttemptStore) AttemptState(ctx context.Context, email string) (*model.LoginAttemptState, error) {
	return s.state, nil
}

func (s *stubAttemptStore) ResetAttempts(ctx context.Context, email string) error { return nil }

func (s *stubAttemptStore) RecordFailure(ctx context.Context, email string, lockAfter int, lockFor time.Duration) (int, *time.Time, error) {
	if s.state == nil {
		return 0, nil, nil
	}
	s.state.FailedLoginAttempts++
	if s.state.FailedLoginAttempts >= lockAfter {
		until := time.Now().Add(lockFor)
		s.state.LockedUntil = &until
		return s.state.FailedLoginAttempts, &until, nil
	}
	return s.state.FailedLoginAttempts, nil, nil
}

type stubIdentity struct {
	session *model.Session
}

func (s *stubIdentity) GetSession(ctx context.Context) (*model.Session, error) {
	return s.session, nil
}

func (s *stubIdentity) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	if s.session == nil {
		return nil, services.ErrInvalidCredentials
	}
	return s.session, nil
}

func (s *stubIdentity) SignOut(ctx context.Context) error { return nil }

func (s *stubIdentity) OnAuthStateChange(fn func(services.AuthChange)) func() {
	return func() {}
}

type stubProfileStore struct{}

func (s *stubProfileStore) Load(ctx context.Context) (*model.ClientProfileSession, error) {
	return nil, nil
}

func (s *stubProfileStore) Save(ctx context.Context, session *model.ClientProfileSession) error {
	return nil
}

func (s *stubProfileStore) Clear(ctx context.Context) error { return nil }

type discardSink struct{}

func (discardSink) Insert(ctx context.Context, event *model.SecurityEvent) error { return nil }

func newLoginRouter(clients *stubClientAuth, attempts *stubAttemptStore, identity *stubIdentity) *gin.Engine {
	gin.SetMode(gin.TestMode)

	security := services.NewSecurityService(discardSink{}, nil)
	loginService := services.NewLoginService(clients, attempts, identity, &stubProfileStore{}, security)

	router := gin.New()
	router.POST("/api/auth/login", func(c *gin.Context) {
		LoginHandler(c, loginService)
	})
	return router
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginHandlerRejectsBadPayload(t *testing.T) {
	router := newLoginRouter(&stubClientAuth{}, &stubAttemptStore{}, &stubIdentity{})

	w := postLogin(router, `{"email": "user@example.com"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	router := newLoginRouter(&stubClientAuth{}, &stubAttemptStore{}, &stubIdentity{})

	w := postLogin(router, `{"email": "nobody@example.com", "password": "wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Error != "Invalid email or password" {
		t.Errorf("error = %q, want generic invalid-credentials message", resp.Error)
	}
}

func TestLoginHandlerLockedAccount(t *testing.T) {
	until := time.Now().Add(10 * time.Minute)
	attempts := &stubAttemptStore{
		state: &model.LoginAttemptState{FailedLoginAttempts: 5, LockedUntil: &until},
	}
	router := newLoginRouter(&stubClientAuth{}, attempts, &stubIdentity{})

	w := postLogin(router, `{"email": "user@example.com", "password": "whatever"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}

	var resp struct {
		Error string `json:"error"`
		Data  struct {
			LockedUntil *time.Time `json:"locked_until"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data.LockedUntil == nil {
		t.Error("locked response should carry the lock expiry")
	}
	if !strings.Contains(resp.Error, "locked") {
		t.Errorf("error = %q, want lockout message", resp.Error)
	}
}

func TestLoginHandlerClientLogin(t *testing.T) {
	clients := &stubClientAuth{
		profile: &model.ClientProfile{ClientID: "c1", ClientName: "Acme Telecom", Email: "ops@acme.example"},
	}
	router := newLoginRouter(clients, &stubAttemptStore{}, &stubIdentity{})

	w := postLogin(router, `{"email": "ops@acme.example", "password": "secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data struct {
			Message       string                      `json:"message"`
			RedirectTo    string                      `json:"redirect_to"`
			ClientProfile *model.ClientProfileSession `json:"client_profile"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data.RedirectTo != "/dashboard" {
		t.Errorf("redirect_to = %q, want /dashboard", resp.Data.RedirectTo)
	}
	if resp.Data.ClientProfile == nil || resp.Data.ClientProfile.ClientName != "Acme Telecom" {
		t.Errorf("client profile missing from response: %+v", resp.Data.ClientProfile)
	}
}

func TestLoginHandlerStandardLogin(t *testing.T) {
	identity := &stubIdentity{
		session: &model.Session{SessionID: "s1", UserID: "u1", Email: "user@example.com", Token: "jwt-token"},
	}
	attempts := &stubAttemptStore{state: &model.LoginAttemptState{}}
	router := newLoginRouter(&stubClientAuth{}, attempts, identity)

	w := postLogin(router, `{"email": "user@example.com", "password": "right"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data struct {
			Token string `json:"token"`
			User  *struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data.Token != "jwt-token" {
		t.Errorf("token = %q, want jwt-token", resp.Data.Token)
	}
	if resp.Data.User == nil || resp.Data.User.ID != "u1" {
		t.Errorf("user missing from response: %+v", resp.Data.User)
	}
}
