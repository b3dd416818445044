package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

// memKV is an in-memory localstore.KV for tests.
type memKV struct {
	slots   map[string]string
	failAll bool
}

func newMemKV() *memKV { return &memKV{slots: map[string]string{}} }

func (m *memKV) Get(key string) (string, bool, error) {
	if m.failAll {
		return "", false, errors.New("kv unavailable")
	}
	v, ok := m.slots[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	return m.SetMany(map[string]string{key: value})
}

func (m *memKV) SetMany(slots map[string]string) error {
	if m.failAll {
		return errors.New("kv unavailable")
	}
	for k, v := range slots {
		m.slots[k] = v
	}
	return nil
}

func (m *memKV) Delete(keys ...string) error {
	if m.failAll {
		return errors.New("kv unavailable")
	}
	for _, k := range keys {
		delete(m.slots, k)
	}
	return nil
}

func (m *memKV) Keys() ([]string, error) {
	keys := make([]string, 0, len(m.slots))
	for k := range m.slots {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *memKV) Close() error { return nil }

type fakeAuthClient struct {
	tokens *storeapi.TokenPair
	admin  *storeapi.AdminSession
	err    error
}

func (f *fakeAuthClient) Login(_ context.Context, _ storeapi.LoginInput) (*storeapi.TokenPair, error) {
	return f.tokens, f.err
}

func (f *fakeAuthClient) AdminLogin(_ context.Context, _, _ string) (*storeapi.AdminSession, error) {
	return f.admin, f.err
}

func (f *fakeAuthClient) Register(_ context.Context, _ storeapi.RegisterInput) (*storeapi.Customer, *storeapi.TokenPair, error) {
	return &storeapi.Customer{ID: 1, Username: "new"}, f.tokens, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoginPersistsAllSlotsTogether(t *testing.T) {
	kv := newMemKV()
	client := &fakeAuthClient{tokens: &storeapi.TokenPair{Access: "acc-1", Refresh: "ref-1"}}
	s := NewSessionService(client, kv, testLogger(), nil)

	if err := s.Login(context.Background(), storeapi.LoginInput{UsernameOrEmail: "u", Password: "p"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if kv.slots[SlotAccessToken] != "acc-1" || kv.slots[SlotRefreshToken] != "ref-1" {
		t.Errorf("token slots not persisted: %v", kv.slots)
	}
	if tok, ok := s.Token(); !ok || tok != "acc-1" {
		t.Errorf("Token() = %q, %v", tok, ok)
	}
}

func TestLogoutClearsAllSlotsTogether(t *testing.T) {
	kv := newMemKV()
	kv.slots[SlotAccessToken] = "acc"
	kv.slots[SlotRefreshToken] = "ref"
	kv.slots[SlotAdminUser] = `{"id":"a1"}`

	s := NewSessionService(&fakeAuthClient{}, kv, testLogger(), nil)
	s.Rehydrate()

	if err := s.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(kv.slots) != 0 {
		t.Errorf("slots remain after logout: %v", kv.slots)
	}
	if s.Authenticated() {
		t.Error("session should be anonymous after logout")
	}
	if s.AdminUser() != nil {
		t.Error("admin profile should be gone after logout")
	}
}

func TestRehydratePurgesOrphanedAdminProfile(t *testing.T) {
	kv := newMemKV()
	// Admin profile present but no access token: the profile is stale
	// and must be purged rather than trusted.
	kv.slots[SlotAdminUser] = `{"id":"a1","email":"admin@x","name":"A","role":"admin"}`

	s := NewSessionService(&fakeAuthClient{}, kv, testLogger(), nil)
	s.Rehydrate()

	if s.Authenticated() {
		t.Error("no access token means anonymous")
	}
	if _, ok := kv.slots[SlotAdminUser]; ok {
		t.Error("orphaned admin profile must be removed from the store")
	}
}

func TestRehydratePurgesCorruptAdminProfile(t *testing.T) {
	kv := newMemKV()
	kv.slots[SlotAccessToken] = "acc"
	kv.slots[SlotAdminUser] = `{not json`

	s := NewSessionService(&fakeAuthClient{}, kv, testLogger(), nil)
	s.Rehydrate()

	if !s.Authenticated() {
		t.Error("access token should restore the session")
	}
	if s.AdminUser() != nil {
		t.Error("corrupt profile must not produce an admin user")
	}
	if _, ok := kv.slots[SlotAdminUser]; ok {
		t.Error("corrupt admin profile must be removed from the store")
	}
}

func TestRehydrateRestoresAdminSession(t *testing.T) {
	kv := newMemKV()
	admin := storeapi.AdminUser{ID: "a1", Email: "admin@x", Name: "Ada", Role: storeapi.RoleAdmin}
	raw, _ := json.Marshal(admin)
	kv.slots[SlotAccessToken] = "acc"
	kv.slots[SlotAdminUser] = string(raw)

	s := NewSessionService(&fakeAuthClient{}, kv, testLogger(), nil)
	s.Rehydrate()

	got := s.AdminUser()
	if got == nil || got.Email != "admin@x" || got.Role != storeapi.RoleAdmin {
		t.Errorf("AdminUser() = %+v", got)
	}
}

func TestRehydrateDegradesToAnonymousOnStorageError(t *testing.T) {
	kv := newMemKV()
	kv.failAll = true

	s := NewSessionService(&fakeAuthClient{}, kv, testLogger(), nil)
	s.Rehydrate()

	if s.Authenticated() {
		t.Error("storage failure must degrade to anonymous, not panic or guess")
	}
}

func TestAdminLoginPersistsProfileWithTokens(t *testing.T) {
	kv := newMemKV()
	client := &fakeAuthClient{admin: &storeapi.AdminSession{
		User:   storeapi.AdminUser{ID: "a1", Email: "admin@x", Name: "Ada", Role: storeapi.RoleManager},
		Tokens: storeapi.TokenPair{Access: "acc-a", Refresh: "ref-a"},
	}}
	s := NewSessionService(client, kv, testLogger(), nil)

	admin, err := s.AdminLogin(context.Background(), "admin@x", "pw")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if admin.Role != storeapi.RoleManager {
		t.Errorf("role = %v", admin.Role)
	}
	if kv.slots[SlotAccessToken] != "acc-a" {
		t.Error("access token not persisted")
	}
	if _, ok := kv.slots[SlotAdminUser]; !ok {
		t.Error("admin profile not persisted")
	}
}

func TestCustomerLoginClearsAdminProfile(t *testing.T) {
	kv := newMemKV()
	kv.slots[SlotAdminUser] = `{"id":"a1"}`
	client := &fakeAuthClient{tokens: &storeapi.TokenPair{Access: "acc", Refresh: "ref"}}
	s := NewSessionService(client, kv, testLogger(), nil)

	if err := s.Login(context.Background(), storeapi.LoginInput{UsernameOrEmail: "u", Password: "p"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, ok := kv.slots[SlotAdminUser]; ok {
		t.Error("customer login must clear any previous admin profile")
	}
}
