package api

import (
	"context"
	"errors"
	"sync"
)

// ErrNoCredential is returned by a session with nothing to offer; the proxy
// maps it to 401 without contacting the backend.
var ErrNoCredential = errors.New("no credential in session")

// Session supplies the caller's bearer credential and identity. Refreshing an
// expired credential is the session's concern; the proxy only asks again
// through Refresh when the backend reports expiry.
type Session interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
	Username() string
}

// StaticSession holds a fixed token, typically read from the environment.
// RefreshFunc, when set, supplies a replacement token on expiry.
type StaticSession struct {
	mu          sync.Mutex
	token       string
	username    string
	RefreshFunc func(ctx context.Context) (string, error)
}

// NewStaticSession creates a session around a fixed token.
func NewStaticSession(token, username string) *StaticSession {
	return &StaticSession{token: token, username: username}
}

func (s *StaticSession) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", ErrNoCredential
	}
	return s.token, nil
}

func (s *StaticSession) Refresh(ctx context.Context) (string, error) {
	if s.RefreshFunc == nil {
		return s.Token(ctx)
	}
	token, err := s.RefreshFunc(ctx)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return token, nil
}

func (s *StaticSession) Username() string { return s.username }
