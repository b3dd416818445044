package storeapi

import "context"

// SalesPoint is one period's revenue/order aggregate.
type SalesPoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
	Change  string  `json:"change"`
}

// TopProduct is a best-performing product row.
type TopProduct struct {
	Name    string  `json:"name"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
	Views   int     `json:"views"`
}

// CustomerMetric is a single labelled customer KPI.
type CustomerMetric struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
	Change string `json:"change"`
	Trend  string `json:"trend"`
}

// TrafficSource is a visitor-share row.
type TrafficSource struct {
	Source     string  `json:"source"`
	Visitors   int     `json:"visitors"`
	Percentage float64 `json:"percentage"`
}

// ConversionRate is the today-vs-yesterday conversion summary.
type ConversionRate struct {
	Rate              string `json:"rate"`
	Change            string `json:"change"`
	Trend             string `json:"trend"`
	TodayOrders       int    `json:"today_orders"`
	TodaySessions     int    `json:"today_sessions"`
	YesterdayOrders   int    `json:"yesterday_orders"`
	YesterdaySessions int    `json:"yesterday_sessions"`
}

// AnalyticsDashboard bundles all analytics feeds for the admin dashboard.
// There is deliberately no client-side placeholder data: when the backend
// fails, the caller sees the error, not plausible-looking numbers.
type AnalyticsDashboard struct {
	Sales           []SalesPoint     `json:"salesData"`
	TopProducts     []TopProduct     `json:"topProducts"`
	CustomerMetrics []CustomerMetric `json:"customerMetrics"`
	TrafficSources  []TrafficSource  `json:"trafficSources"`
	Conversion      ConversionRate   `json:"conversionRate"`
}

// SalesAnalytics fetches the per-period sales aggregates.
func (c *Client) SalesAnalytics(ctx context.Context) ([]SalesPoint, error) {
	var resp []SalesPoint
	if err := c.get(ctx, "/admin/analytics/sales/", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// TopProductAnalytics fetches the best-performing products.
func (c *Client) TopProductAnalytics(ctx context.Context) ([]TopProduct, error) {
	var resp []TopProduct
	if err := c.get(ctx, "/admin/analytics/products/", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CustomerAnalytics fetches the customer KPI rows.
func (c *Client) CustomerAnalytics(ctx context.Context) ([]CustomerMetric, error) {
	var resp []CustomerMetric
	if err := c.get(ctx, "/admin/analytics/customers/", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// TrafficAnalytics fetches the visitor-share breakdown.
func (c *Client) TrafficAnalytics(ctx context.Context) ([]TrafficSource, error) {
	var resp []TrafficSource
	if err := c.get(ctx, "/admin/analytics/traffic/", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ConversionAnalytics fetches the conversion-rate summary.
func (c *Client) ConversionAnalytics(ctx context.Context) (*ConversionRate, error) {
	var resp ConversionRate
	if err := c.get(ctx, "/admin/analytics/conversion/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnalyticsDashboardAll fetches every analytics feed in one request.
// Failures are returned as-is; there is no client-side placeholder data.
func (c *Client) AnalyticsDashboardAll(ctx context.Context) (*AnalyticsDashboard, error) {
	var resp AnalyticsDashboard
	if err := c.get(ctx, "/admin/analytics/dashboard/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
