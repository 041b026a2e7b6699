package auth

import (
	"context"
	"sync"

	"github.com/bemooooooooo/coworking-client/internal/api"
	"github.com/bemooooooooo/coworking-client/internal/domain"
)

// Service wraps the identity endpoints (/auth-api base). It owns the cached
// credential pair through the shared session and implements api.Refresher so
// the workspace/reservation clients can silently recover from a rejected
// access token.
type Service struct {
	client  *api.Client
	session *api.Session

	mu   sync.Mutex
	user *domain.User
}

func NewService(client *api.Client, session *api.Session) *Service {
	return &Service{client: client, session: session}
}

// Login exchanges credentials for a token pair and the user profile.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrEmptyCredential
	}

	var resp LoginResponse
	err := s.client.PostBare(ctx, "/auth/login", LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	s.session.Set(resp.AccessToken, resp.RefreshToken)
	s.setUser(&resp.User)
	return &resp.User, nil
}

// Register creates an account; the backend logs the new user straight in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	var resp LoginResponse
	if err := s.client.PostBare(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}

	s.session.Set(resp.AccessToken, resp.RefreshToken)
	s.setUser(&resp.User)
	return &resp.User, nil
}

// RefreshSession implements api.Refresher: it trades the cached refresh token
// for a new access token. Called by the client core on a 401; callers of the
// adapters never invoke it directly.
func (s *Service) RefreshSession(ctx context.Context) error {
	refresh := s.session.RefreshToken()
	if refresh == "" {
		return ErrNoRefreshToken
	}

	var resp RefreshResponse
	if err := s.client.PostBare(ctx, "/auth/refresh", RefreshRequest{RefreshToken: refresh}, &resp); err != nil {
		return err
	}

	s.session.Set(resp.AccessToken, resp.RefreshToken)
	return nil
}

// Profile fetches the current user from the auth service.
func (s *Service) Profile(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := s.client.Get(ctx, "/users/profile", nil, &user); err != nil {
		return nil, err
	}
	s.setUser(&user)
	return &user, nil
}

// UpdateProfile sends the changed fields and returns the updated user.
func (s *Service) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*domain.User, error) {
	var user domain.User
	if err := s.client.Put(ctx, "/users/profile", nil, req, &user); err != nil {
		return nil, err
	}
	s.setUser(&user)
	return &user, nil
}

// Logout drops the cached credentials and identity. Purely client-side, like
// the original: the backend keeps no session state worth revoking.
func (s *Service) Logout() {
	s.session.Clear()
	s.setUser(nil)
}

// CurrentUser returns the last profile seen by login/register/profile calls,
// or nil when nobody is logged in.
func (s *Service) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Service) setUser(u *domain.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}
