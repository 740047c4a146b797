package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"main/utils"
)

func TestCheckRateLimit(t *testing.T) {
	sink := &recordingSink{}
	security := NewSecurityService(sink, nil)

	now := time.Now()
	security.now = func() time.Time { return now }

	ctx := context.Background()
	window := 1000 * time.Millisecond

	// Three calls within the window pass, the fourth is rejected.
	for i := 0; i < 3; i++ {
		if !security.CheckRateLimit(ctx, "login:1.2.3.4", 3, window) {
			t.Fatalf("call %d should have been allowed", i+1)
		}
	}
	if security.CheckRateLimit(ctx, "login:1.2.3.4", 3, window) {
		t.Fatal("fourth call within window should have been rejected")
	}

	// Only the first rejection emits an event.
	if security.CheckRateLimit(ctx, "login:1.2.3.4", 3, window) {
		t.Fatal("fifth call within window should have been rejected")
	}
	if got := len(sink.byType("rate_limit_exceeded")); got != 1 {
		t.Fatalf("expected exactly one rate_limit_exceeded event, got %d", got)
	}

	// After the window elapses the counter lazily resets.
	now = now.Add(window + time.Millisecond)
	if !security.CheckRateLimit(ctx, "login:1.2.3.4", 3, window) {
		t.Fatal("call after window elapsed should have been allowed")
	}
}

func TestCheckRateLimitIndependentKeys(t *testing.T) {
	security := NewSecurityService(&recordingSink{}, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		security.CheckRateLimit(ctx, "key-a", 3, time.Second)
	}
	if security.CheckRateLimit(ctx, "key-a", 3, time.Second) {
		t.Fatal("key-a should be exhausted")
	}
	if !security.CheckRateLimit(ctx, "key-b", 3, time.Second) {
		t.Fatal("key-b should not be affected by key-a")
	}
}

func TestEnforcePasswordPolicy(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		wantValid  bool
		wantErrors int
	}{
		{"too short only", "Ab1!", false, 1},
		{"missing upper digit special", "password", false, 3},
		{"strong password", "Str0ng!Pass", true, 0},
		{"empty", "", false, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EnforcePasswordPolicy(tt.password)
			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("got %d errors, want %d: %v", len(result.Errors), tt.wantErrors, result.Errors)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`<script>alert("x")</script>hello`, "hello"},
		{`<b>bold</b>`, "bold"},
		{`javascript:alert(1)`, "alert(1)"},
		{`<img src=x onerror=alert(1)>`, ""},
		{`plain text`, "plain text"},
	}

	for _, tt := range tests {
		if got := SanitizeInput(tt.input); got != tt.want {
			t.Errorf("SanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCSRFToken(t *testing.T) {
	security := NewSecurityService(&recordingSink{}, nil)

	token := security.GenerateCSRFToken()
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	if !security.ValidateCSRFToken(token) {
		t.Error("freshly issued token should validate")
	}
	if security.ValidateCSRFToken("bogus") {
		t.Error("unknown token should not validate")
	}
	if security.ValidateCSRFToken("") {
		t.Error("empty token should never validate")
	}

	// Issuing a new token invalidates the previous one.
	second := security.GenerateCSRFToken()
	if security.ValidateCSRFToken(token) {
		t.Error("stale token should not validate after reissue")
	}
	if !security.ValidateCSRFToken(second) {
		t.Error("current token should validate")
	}
}

func TestEncodeDecodeSensitive(t *testing.T) {
	original := "api-key-254700000000"
	encoded := EncodeSensitive(original)
	if encoded == original {
		t.Error("encoded value should differ from input")
	}
	if got := DecodeSensitive(encoded); got != original {
		t.Errorf("round trip = %q, want %q", got, original)
	}
	if got := DecodeSensitive("not base64!!!"); got != "" {
		t.Errorf("invalid input should decode to empty string, got %q", got)
	}
}

func TestLogSecurityEventCarriesRequestID(t *testing.T) {
	sink := &recordingSink{}
	security := NewSecurityService(sink, nil)

	ctx := utils.WithRequestID(context.Background(), "req-42")
	security.LogSecurityEvent(ctx, "logout", "low", nil)

	events := sink.byType("logout")
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if got := events[0].Details["request_id"]; got != "req-42" {
		t.Errorf("request_id = %v, want req-42", got)
	}
}

func TestLogSecurityEventNeverFails(t *testing.T) {
	// A nil sink must not panic; telemetry failures stay out of the
	// caller's error path.
	security := NewSecurityService(nil, nil)
	security.LogSecurityEvent(context.Background(), "test_event", "low", nil)
}

func TestPasswordPolicyMessages(t *testing.T) {
	result := EnforcePasswordPolicy("abc")
	joined := strings.Join(result.Errors, "; ")
	if !strings.Contains(joined, "at least 8 characters") {
		t.Errorf("expected length message, got %q", joined)
	}
}
