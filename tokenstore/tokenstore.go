// Package tokenstore holds the session's tokens. The access token only ever
// lives in memory. The refresh token is kept by a durable Persister when the
// user asked to be remembered and by a session-scoped one otherwise.
package tokenstore

import (
	"context"
	"sync"

	"github.com/go-playground/errors/v5"
	"golang.org/x/oauth2"
)

// Location records which persister holds the refresh token.
type Location int

const (
	LocationNone Location = iota
	LocationDurable
	LocationSession
)

func (l Location) String() string {
	switch l {
	case LocationDurable:
		return "durable"
	case LocationSession:
		return "session"
	default:
		return "none"
	}
}

// Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	access   *oauth2.Token
	location Location
	durable  Persister
	volatile Persister
}

// New returns a Store. A nil volatile persister defaults to a MemoryPersister.
// A nil durable persister makes every token session-scoped.
func New(durable, volatile Persister) *Store {
	if volatile == nil {
		volatile = NewMemoryPersister()
	}

	return &Store{durable: durable, volatile: volatile}
}

// AccessToken returns a copy of the current access token, or nil.
func (s *Store) AccessToken() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.access == nil {
		return nil
	}
	tok := *s.access

	return &tok
}

// SetAccessToken replaces the in-memory access token.
func (s *Store) SetAccessToken(tok *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok == nil {
		s.access = nil

		return
	}
	cp := *tok
	s.access = &cp
}

// Location reports where the refresh token was last written.
func (s *Store) Location() Location {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.location
}

// SetRefreshToken writes token durably when remember is set and to the
// session-scoped persister otherwise. A copy left in the other persister is removed.
func (s *Store) SetRefreshToken(ctx context.Context, token string, remember bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, other, loc := s.volatile, s.durable, LocationSession
	if remember && s.durable != nil {
		target, other, loc = s.durable, s.volatile, LocationDurable
	}

	if err := target.Save(ctx, token); err != nil {
		return errors.Wrap(err, "Persister.Save()")
	}
	if other != nil {
		if err := other.Delete(ctx); err != nil {
			return errors.Wrap(err, "Persister.Delete()")
		}
	}
	s.location = loc

	return nil
}

// RefreshToken returns the refresh token and where it came from. Before any
// token was written in this process the durable persister is probed, so a
// remembered session can be restored.
func (s *Store) RefreshToken(ctx context.Context) (string, Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.location {
	case LocationSession:
		tok, err := s.volatile.Load(ctx)
		if err != nil {
			return "", LocationNone, errors.Wrap(err, "Persister.Load()")
		}

		return tok, LocationSession, nil
	case LocationDurable:
		tok, err := s.durable.Load(ctx)
		if err != nil {
			return "", LocationNone, errors.Wrap(err, "Persister.Load()")
		}

		return tok, LocationDurable, nil
	}

	if s.durable == nil {
		return "", LocationNone, nil
	}

	tok, err := s.durable.Load(ctx)
	if err != nil {
		return "", LocationNone, errors.Wrap(err, "Persister.Load()")
	}
	if tok == "" {
		return "", LocationNone, nil
	}
	s.location = LocationDurable

	return tok, LocationDurable, nil
}

// Clear drops the access token and the refresh token from the flagged
// persister, or from both when the location is unknown.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = nil

	var targets []Persister
	switch s.location {
	case LocationDurable:
		targets = []Persister{s.durable}
	case LocationSession:
		targets = []Persister{s.volatile}
	default:
		targets = []Persister{s.durable, s.volatile}
	}
	s.location = LocationNone

	var firstErr error
	for _, p := range targets {
		if p == nil {
			continue
		}
		if err := p.Delete(ctx); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "Persister.Delete()")
		}
	}

	return firstErr
}

// Close ends the session scope: the access token and the session-scoped
// refresh token are dropped. A durable token is left in place.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = nil
	if s.location == LocationSession {
		s.location = LocationNone
	}

	if err := s.volatile.Delete(ctx); err != nil {
		return errors.Wrap(err, "Persister.Delete()")
	}

	return nil
}
