package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridian-commerce/meridian/internal/metrics"
	"github.com/meridian-commerce/meridian/internal/store"
	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

// SettingsClient is the slice of the storefront API the settings
// service uses.
type SettingsClient interface {
	GetStoreSettings(ctx context.Context) (*storeapi.StoreSettings, error)
	UpdateSettingsSection(ctx context.Context, section storeapi.SettingsSection, in storeapi.StoreSettings) (*storeapi.StoreSettings, error)
}

// SettingsService keeps the back-office store settings synchronized.
// Updates are sectioned: saving the notifications tab must not clobber
// concurrent edits to general or security, so only the fields of the
// saved section are merged into the committed record.
type SettingsService struct {
	client   SettingsClient
	settings *store.Synced[storeapi.StoreSettings]
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewSettingsService creates a SettingsService with an empty store.
func NewSettingsService(client SettingsClient, logger *slog.Logger, m *metrics.Metrics) *SettingsService {
	return &SettingsService{
		client:   client,
		settings: store.NewSynced[storeapi.StoreSettings](),
		logger:   logger,
		metrics:  m,
	}
}

// Snapshot returns the current settings view.
func (s *SettingsService) Snapshot() store.Snapshot[storeapi.StoreSettings] {
	return s.settings.Snapshot()
}

// Subscribe registers a listener for settings snapshots.
func (s *SettingsService) Subscribe() (<-chan store.Snapshot[storeapi.StoreSettings], func()) {
	return s.settings.Subscribe()
}

// Refresh fetches the settings record.
func (s *SettingsService) Refresh(ctx context.Context) error {
	token, err := s.settings.BeginRefresh()
	if err != nil {
		return err
	}
	start := time.Now()
	cfg, err := s.client.GetStoreSettings(ctx)
	s.metrics.ObserveRefresh("settings", time.Since(start), err)
	if err != nil {
		s.logger.Warn("settings refresh failed", "error", err)
		s.settings.Fail(token, err)
		return err
	}
	if !s.settings.Commit(token, *cfg) {
		s.metrics.ObserveStaleDrop("settings")
	}
	return nil
}

// UpdateSection saves one section of the settings. The committed record
// takes only that section's fields from the server response; the other
// sections keep their locally loaded values.
func (s *SettingsService) UpdateSection(ctx context.Context, section storeapi.SettingsSection, in storeapi.StoreSettings) error {
	if !storeapi.ValidSection(section) {
		return &storeapi.APIError{StatusCode: 400, Message: "unknown settings section: " + string(section)}
	}
	token, err := s.settings.BeginMutation()
	if err != nil {
		return err
	}
	start := time.Now()
	updated, err := s.client.UpdateSettingsSection(ctx, section, in)
	s.metrics.ObserveMutation("settings", string(section), time.Since(start), err)
	if err != nil {
		s.logger.Warn("settings update failed", "section", section, "error", err)
		s.settings.Fail(token, err)
		return err
	}
	current := s.settings.Snapshot().Data
	merged := storeapi.MergeSection(current, *updated, section)
	if !s.settings.Commit(token, merged) {
		s.metrics.ObserveStaleDrop("settings")
	}
	return nil
}

// Close releases the store.
func (s *SettingsService) Close() { s.settings.Close() }
