// Package service provides the entity synchronization services for
// Meridian. Each service owns one remotely-sourced entity: it talks to
// the storefront API through a narrow client interface, keeps the
// result in a synchronized store, and persists whatever must survive a
// restart through the local session store.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/meridian-commerce/meridian/internal/adapter/outbound/localstore"
	"github.com/meridian-commerce/meridian/internal/metrics"
	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

// Session slot names in the local store. The three slots are written
// and cleared together; a session is only as valid as its access token.
const (
	SlotAccessToken  = "access_token"
	SlotRefreshToken = "refresh_token"
	SlotAdminUser    = "adminUser"
)

// ErrNotAuthenticated is returned by operations that need a session
// when none is active.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthClient is the slice of the storefront API the session service
// uses.
type AuthClient interface {
	Login(ctx context.Context, in storeapi.LoginInput) (*storeapi.TokenPair, error)
	AdminLogin(ctx context.Context, email, password string) (*storeapi.AdminSession, error)
	Register(ctx context.Context, in storeapi.RegisterInput) (*storeapi.Customer, *storeapi.TokenPair, error)
}

// SessionService owns the authentication session: the token pair, the
// optional admin profile, and their persisted copies in the local
// store. Its Token method plugs into storeapi.WithTokenSource so every
// API request carries the current credential.
type SessionService struct {
	client  AuthClient
	kv      localstore.KV
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	access  string
	refresh string
	admin   *storeapi.AdminUser
}

// NewSessionService creates a SessionService. Call Rehydrate before
// first use to restore a persisted session.
func NewSessionService(client AuthClient, kv localstore.KV, logger *slog.Logger, m *metrics.Metrics) *SessionService {
	return &SessionService{
		client:  client,
		kv:      kv,
		logger:  logger,
		metrics: m,
	}
}

// Rehydrate restores the session from the local store.
//
// The access token is the anchor slot: when it is missing, any leftover
// admin profile is purged from the store and the session starts
// anonymous. A corrupt admin profile is likewise purged rather than
// trusted. Storage errors degrade to an anonymous session.
func (s *SessionService) Rehydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	access, ok, err := s.kv.Get(SlotAccessToken)
	if err != nil {
		s.logger.Warn("session restore failed, starting anonymous", "error", err)
		s.clearMemoryLocked()
		return
	}
	if !ok || access == "" {
		if delErr := s.kv.Delete(SlotAdminUser); delErr != nil {
			s.logger.Warn("failed to purge stale admin profile", "error", delErr)
		}
		s.clearMemoryLocked()
		return
	}

	s.access = access
	if refresh, ok, err := s.kv.Get(SlotRefreshToken); err == nil && ok {
		s.refresh = refresh
	}

	if raw, ok, err := s.kv.Get(SlotAdminUser); err == nil && ok {
		var admin storeapi.AdminUser
		if jsonErr := json.Unmarshal([]byte(raw), &admin); jsonErr != nil {
			s.logger.Warn("stored admin profile is corrupt, purging", "error", jsonErr)
			_ = s.kv.Delete(SlotAdminUser)
		} else {
			s.admin = &admin
		}
	}

	s.metrics.SetSessionActive(true)
	s.logger.Debug("session restored", "admin", s.admin != nil)
}

// Token returns the current access token; ok is false when the session
// is anonymous. The signature matches storeapi.WithTokenSource.
func (s *SessionService) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.access != ""
}

// Authenticated reports whether a session is active.
func (s *SessionService) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// AdminUser returns the admin profile, or nil for a customer session.
func (s *SessionService) AdminUser() *storeapi.AdminUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin == nil {
		return nil
	}
	copied := *s.admin
	return &copied
}

// Login authenticates as a customer and persists the token pair. Any
// previous admin profile is cleared in the same store write.
func (s *SessionService) Login(ctx context.Context, in storeapi.LoginInput) error {
	tokens, err := s.client.Login(ctx, in)
	if err != nil {
		return err
	}
	return s.establish(tokens, nil)
}

// AdminLogin authenticates against the admin endpoint and persists the
// token pair together with the admin profile.
func (s *SessionService) AdminLogin(ctx context.Context, email, password string) (*storeapi.AdminUser, error) {
	sess, err := s.client.AdminLogin(ctx, email, password)
	if err != nil {
		return nil, err
	}
	admin := sess.User
	if err := s.establish(&sess.Tokens, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// Register creates an account. When the backend returns tokens with the
// new account the session is established immediately.
func (s *SessionService) Register(ctx context.Context, in storeapi.RegisterInput) (*storeapi.Customer, error) {
	customer, tokens, err := s.client.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	if tokens != nil {
		if err := s.establish(tokens, nil); err != nil {
			return nil, err
		}
	}
	return customer, nil
}

// Logout drops the session from memory and removes all three slots from
// the local store in one step.
func (s *SessionService) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearMemoryLocked()
	if err := s.kv.Delete(SlotAccessToken, SlotRefreshToken, SlotAdminUser); err != nil {
		return fmt.Errorf("clear session slots: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// establish stores tokens (and the admin profile, if any) in memory and
// persists all slots in a single durable write.
func (s *SessionService) establish(tokens *storeapi.TokenPair, admin *storeapi.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := map[string]string{
		SlotAccessToken:  tokens.Access,
		SlotRefreshToken: tokens.Refresh,
	}
	if admin != nil {
		raw, err := json.Marshal(admin)
		if err != nil {
			return fmt.Errorf("encode admin profile: %w", err)
		}
		slots[SlotAdminUser] = string(raw)
	}

	if err := s.kv.SetMany(slots); err != nil {
		return fmt.Errorf("persist session slots: %w", err)
	}
	if admin == nil {
		// A customer login invalidates any previous admin session.
		if err := s.kv.Delete(SlotAdminUser); err != nil {
			s.logger.Warn("failed to clear admin profile", "error", err)
		}
	}

	s.access = tokens.Access
	s.refresh = tokens.Refresh
	s.admin = admin
	s.metrics.SetSessionActive(true)
	s.logger.Info("session established", "admin", admin != nil)
	return nil
}

func (s *SessionService) clearMemoryLocked() {
	s.access = ""
	s.refresh = ""
	s.admin = nil
	s.metrics.SetSessionActive(false)
}
