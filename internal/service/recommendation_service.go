package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridian-commerce/meridian/internal/media"
	"github.com/meridian-commerce/meridian/internal/metrics"
	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

// RecommendationClient is the slice of the storefront API the
// recommendation service uses.
type RecommendationClient interface {
	RelatedProducts(ctx context.Context, productID int64) ([]storeapi.ProductSummary, error)
	TopSellers(ctx context.Context) ([]storeapi.ProductSummary, error)
	NewArrivals(ctx context.Context) ([]storeapi.ProductSummary, error)
	PersonalizedProducts(ctx context.Context, category string) ([]storeapi.ProductSummary, error)
}

// RecommendationService fetches product recommendation feeds. The feeds
// are ephemeral: each call goes to the backend, and results are not
// held in a synchronized store. Image references are resolved to
// absolute URLs before the results are returned.
type RecommendationService struct {
	client  RecommendationClient
	media   *media.Resolver
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewRecommendationService creates a RecommendationService.
func NewRecommendationService(client RecommendationClient, resolver *media.Resolver, logger *slog.Logger, m *metrics.Metrics) *RecommendationService {
	return &RecommendationService{
		client:  client,
		media:   resolver,
		logger:  logger,
		metrics: m,
	}
}

// Fetch returns the feed for the given strategy. Related requires a
// product ID; personalized accepts an optional category.
func (s *RecommendationService) Fetch(ctx context.Context, strategy storeapi.RecommendationStrategy, productID int64, category string) ([]storeapi.ProductSummary, error) {
	start := time.Now()
	var (
		items []storeapi.ProductSummary
		err   error
	)
	switch strategy {
	case storeapi.RecommendRelated:
		items, err = s.client.RelatedProducts(ctx, productID)
	case storeapi.RecommendNewArrivals:
		items, err = s.client.NewArrivals(ctx)
	case storeapi.RecommendPersonalized:
		items, err = s.client.PersonalizedProducts(ctx, category)
	default:
		items, err = s.client.TopSellers(ctx)
	}
	s.metrics.ObserveRefresh("recommendations", time.Since(start), err)
	if err != nil {
		s.logger.Warn("recommendation fetch failed", "strategy", strategy, "error", err)
		return nil, err
	}
	for i := range items {
		items[i].Image = s.media.Resolve(items[i].Image)
	}
	return items, nil
}
