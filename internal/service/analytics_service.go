package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridian-commerce/meridian/internal/metrics"
	"github.com/meridian-commerce/meridian/internal/store"
	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

// AnalyticsClient is the slice of the storefront API the analytics
// service uses.
type AnalyticsClient interface {
	SalesAnalytics(ctx context.Context) ([]storeapi.SalesPoint, error)
	TopProductAnalytics(ctx context.Context) ([]storeapi.TopProduct, error)
	CustomerAnalytics(ctx context.Context) ([]storeapi.CustomerMetric, error)
	TrafficAnalytics(ctx context.Context) ([]storeapi.TrafficSource, error)
	ConversionAnalytics(ctx context.Context) (*storeapi.ConversionRate, error)
	AnalyticsDashboardAll(ctx context.Context) (*storeapi.AnalyticsDashboard, error)
}

// AnalyticsService keeps the admin dashboard feeds synchronized. A
// failed fetch surfaces as an error with the previous data retained;
// there is no fabricated placeholder data.
type AnalyticsService struct {
	client    AnalyticsClient
	dashboard *store.Synced[storeapi.AnalyticsDashboard]
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewAnalyticsService creates an AnalyticsService with an empty store.
func NewAnalyticsService(client AnalyticsClient, logger *slog.Logger, m *metrics.Metrics) *AnalyticsService {
	return &AnalyticsService{
		client:    client,
		dashboard: store.NewSynced[storeapi.AnalyticsDashboard](),
		logger:    logger,
		metrics:   m,
	}
}

// Snapshot returns the current dashboard view.
func (s *AnalyticsService) Snapshot() store.Snapshot[storeapi.AnalyticsDashboard] {
	return s.dashboard.Snapshot()
}

// Subscribe registers a listener for dashboard snapshots.
func (s *AnalyticsService) Subscribe() (<-chan store.Snapshot[storeapi.AnalyticsDashboard], func()) {
	return s.dashboard.Subscribe()
}

// Refresh fetches every dashboard feed in one request.
func (s *AnalyticsService) Refresh(ctx context.Context) error {
	token, err := s.dashboard.BeginRefresh()
	if err != nil {
		return err
	}
	start := time.Now()
	dash, err := s.client.AnalyticsDashboardAll(ctx)
	s.metrics.ObserveRefresh("analytics", time.Since(start), err)
	if err != nil {
		s.logger.Warn("analytics refresh failed", "error", err)
		s.dashboard.Fail(token, err)
		return err
	}
	if !s.dashboard.Commit(token, *dash) {
		s.metrics.ObserveStaleDrop("analytics")
	}
	return nil
}

// Sales fetches the sales feed alone, bypassing the store.
func (s *AnalyticsService) Sales(ctx context.Context) ([]storeapi.SalesPoint, error) {
	return s.client.SalesAnalytics(ctx)
}

// TopProducts fetches the product feed alone, bypassing the store.
func (s *AnalyticsService) TopProducts(ctx context.Context) ([]storeapi.TopProduct, error) {
	return s.client.TopProductAnalytics(ctx)
}

// Customers fetches the customer feed alone, bypassing the store.
func (s *AnalyticsService) Customers(ctx context.Context) ([]storeapi.CustomerMetric, error) {
	return s.client.CustomerAnalytics(ctx)
}

// Traffic fetches the traffic feed alone, bypassing the store.
func (s *AnalyticsService) Traffic(ctx context.Context) ([]storeapi.TrafficSource, error) {
	return s.client.TrafficAnalytics(ctx)
}

// Conversion fetches the conversion summary alone, bypassing the store.
func (s *AnalyticsService) Conversion(ctx context.Context) (*storeapi.ConversionRate, error) {
	return s.client.ConversionAnalytics(ctx)
}

// Close releases the store.
func (s *AnalyticsService) Close() { s.dashboard.Close() }
