package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log"
	"regexp"
	"sync"
	"time"

	"main/model"
	"main/utils"

	"github.com/google/uuid"
)

// EventSink receives audit records. Satisfied by the security events
// repository.
type EventSink interface {
	Insert(ctx context.Context, event *model.SecurityEvent) error
}

type rateWindow struct {
	count    int
	resetAt  time.Time
	notified bool
}

// SecurityService emits audit/security telemetry and runs a fixed-window
// rate limiter. It is constructed once and passed to call sites; the
// caches are owned fields, not globals.
type SecurityService struct {
	events   EventSink
	identity IdentityProvider

	mu        sync.Mutex
	rateCache map[string]*rateWindow
	csrfToken string

	// now is swappable for tests
	now func() time.Time
}

func NewSecurityService(events EventSink, identity IdentityProvider) *SecurityService {
	return &SecurityService{
		events:    events,
		identity:  identity,
		rateCache: make(map[string]*rateWindow),
		now:       time.Now,
	}
}

// LogSecurityEvent appends an audit record. It never returns the failure
// to the caller; telemetry must not block or fail the primary operation.
func (s *SecurityService) LogSecurityEvent(ctx context.Context, eventType, severity string, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	if rid := utils.RequestIDFromContext(ctx); rid != "" {
		if _, ok := details["request_id"]; !ok {
			details["request_id"] = rid
		}
	}

	event := &model.SecurityEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Severity:  severity,
		Details:   details,
		UserAgent: utils.UserAgentFromContext(ctx),
		Timestamp: s.now(),
	}

	if s.identity != nil {
		if session, err := s.identity.GetSession(ctx); err == nil && session != nil {
			event.UserID = session.UserID
		}
	}

	utils.TrackSecurityEvent(eventType, severity)

	if s.events == nil {
		return
	}
	if err := s.events.Insert(ctx, event); err != nil {
		log.Printf("Failed to log security event %s: %v", eventType, err)
	}
}

// CheckRateLimit applies a fixed-window counter per key. The window only
// resets lazily on the next call after it elapses; an idle key is never
// proactively reset. The first rejection in a window emits a
// rate_limit_exceeded event.
func (s *SecurityService) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) bool {
	s.mu.Lock()
	now := s.now()

	w, ok := s.rateCache[key]
	if !ok || now.After(w.resetAt) {
		s.rateCache[key] = &rateWindow{count: 1, resetAt: now.Add(window)}
		s.mu.Unlock()
		return true
	}

	if w.count >= limit {
		first := !w.notified
		w.notified = true
		s.mu.Unlock()

		utils.RateLimitRejections.WithLabelValues(key).Inc()
		if first {
			s.LogSecurityEvent(ctx, "rate_limit_exceeded", model.SeverityMedium, map[string]interface{}{
				"identifier": key,
				"limit":      limit,
				"window_ms":  window.Milliseconds(),
			})
		}
		return false
	}

	w.count++
	s.mu.Unlock()
	return true
}

// GenerateCSRFToken issues a new token and remembers it for validation.
func (s *SecurityService) GenerateCSRFToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Printf("Failed to generate CSRF token: %v", err)
		return ""
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	s.mu.Lock()
	s.csrfToken = token
	s.mu.Unlock()
	return token
}

func (s *SecurityService) ValidateCSRFToken(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token != "" && token == s.csrfToken
}

// EncodeSensitive applies basic reversible encoding to a value
func EncodeSensitive(data string) string {
	return base64.StdEncoding.EncodeToString([]byte(data))
}

func DecodeSensitive(encoded string) string {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		log.Printf("Decoding error: %v", err)
		return ""
	}
	return string(decoded)
}

var (
	scriptTagPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	htmlTagPattern   = regexp.MustCompile(`<[^>]*>`)
	jsSchemePattern  = regexp.MustCompile(`(?i)javascript:`)
	jsHandlerPattern = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// SanitizeInput strips markup and script fragments from untrusted input.
func SanitizeInput(input string) string {
	out := scriptTagPattern.ReplaceAllString(input, "")
	out = htmlTagPattern.ReplaceAllString(out, "")
	out = jsSchemePattern.ReplaceAllString(out, "")
	out = jsHandlerPattern.ReplaceAllString(out, "")
	return out
}

type PasswordPolicyResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

var (
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// EnforcePasswordPolicy checks the five password rules independently and
// reports every violated rule.
func EnforcePasswordPolicy(password string) PasswordPolicyResult {
	var errs []string

	if len(password) < 8 {
		errs = append(errs, "Password must be at least 8 characters long")
	}
	if !upperPattern.MatchString(password) {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}
	if !lowerPattern.MatchString(password) {
		errs = append(errs, "Password must contain at least one lowercase letter")
	}
	if !digitPattern.MatchString(password) {
		errs = append(errs, "Password must contain at least one number")
	}
	if !specialPattern.MatchString(password) {
		errs = append(errs, "Password must contain at least one special character")
	}

	return PasswordPolicyResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}
