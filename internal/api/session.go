package api

import (
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Session holds the process-wide credential pair. Every adapter reads it per
// request; only login, refresh and logout write it. Reads and writes are
// individually atomic, which is all the single-writer discipline needs.
type Session struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func NewSession() *Session {
	return &Session{}
}

// Set stores a new credential pair. An empty refresh token keeps the previous
// one: the backend only rotates the refresh token on some responses.
func (s *Session) Set(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}
}

func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

// Clear drops both credentials. Subsequent requests carry no Authorization
// header until the next login.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
}

func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// ExpiresWithin peeks at the access token's exp claim without verifying the
// signature (the client has no key material; verification is the server's
// job). It reports whether the token expires within d. Tokens that cannot be
// parsed or carry no expiry are treated as not expiring, leaving the 401 path
// to sort them out.
func (s *Session) ExpiresWithin(d time.Duration) bool {
	token := s.AccessToken()
	if token == "" {
		return false
	}

	parser := jwtlib.NewParser()
	claims := jwtlib.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) <= d
}
