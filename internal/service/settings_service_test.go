package service

import (
	"context"
	"testing"

	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

type fakeSettingsBackend struct {
	settings storeapi.StoreSettings
	fail     error
}

func (f *fakeSettingsBackend) GetStoreSettings(_ context.Context) (*storeapi.StoreSettings, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	copied := f.settings
	return &copied, nil
}

func (f *fakeSettingsBackend) UpdateSettingsSection(_ context.Context, section storeapi.SettingsSection, in storeapi.StoreSettings) (*storeapi.StoreSettings, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.settings = storeapi.MergeSection(f.settings, in, section)
	// The section endpoint echoes only the section it saved; other
	// fields come back zeroed, as some backends do.
	resp := storeapi.MergeSection(storeapi.StoreSettings{}, f.settings, section)
	return &resp, nil
}

func TestUpdateSectionDoesNotClobberOtherSections(t *testing.T) {
	backend := &fakeSettingsBackend{settings: storeapi.StoreSettings{
		StoreName:          "Meridian",
		Currency:           "USD",
		EmailNotifications: true,
		AllowGuestCheckout: true,
	}}
	svc := NewSettingsService(backend, testLogger(), nil)
	defer svc.Close()

	ctx := context.Background()
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	update := svc.Snapshot().Data
	update.EmailNotifications = false
	update.InventoryAlerts = true
	if err := svc.UpdateSection(ctx, storeapi.SectionNotifications, update); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := svc.Snapshot().Data
	if got.EmailNotifications || !got.InventoryAlerts {
		t.Errorf("notification fields not applied: %+v", got)
	}
	if got.StoreName != "Meridian" || got.Currency != "USD" {
		t.Error("general fields must survive a notifications save untouched")
	}
	if !got.AllowGuestCheckout {
		t.Error("security fields must survive a notifications save untouched")
	}
}

func TestUpdateUnknownSectionRejectedLocally(t *testing.T) {
	backend := &fakeSettingsBackend{}
	svc := NewSettingsService(backend, testLogger(), nil)
	defer svc.Close()

	err := svc.UpdateSection(context.Background(), "shipping", storeapi.StoreSettings{})
	if err == nil {
		t.Fatal("unknown section must be rejected")
	}
}

func TestSettingsRefreshFailureKeepsLastGood(t *testing.T) {
	backend := &fakeSettingsBackend{settings: storeapi.StoreSettings{StoreName: "Meridian"}}
	svc := NewSettingsService(backend, testLogger(), nil)
	defer svc.Close()

	ctx := context.Background()
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	backend.fail = &storeapi.APIError{StatusCode: 502, Message: "down"}
	if err := svc.Refresh(ctx); err == nil {
		t.Fatal("expected refresh to fail")
	}
	if got := svc.Snapshot().Data.StoreName; got != "Meridian" {
		t.Errorf("settings lost on failure: %q", got)
	}
}
