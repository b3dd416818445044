// Package storeapi is the typed Go client for the Meridian commerce backend.
//
// Each REST resource (cart, wishlist, orders, payments, settings, analytics,
// products, auth) gets one method per operation on Client. Non-2xx responses
// are normalized into *APIError with a best-effort human-readable message and
// a sentinel category usable with errors.Is; transport failures surface as
// ErrUnavailable. Mutating operations never silently return a sentinel value
// on error.
//
// Quick start:
//
//	client := storeapi.NewClient(
//	    storeapi.WithBaseURL("https://shop.example.com/api"),
//	    storeapi.WithTokenSource(session.Token),
//	)
//	cart, err := client.GetCart(ctx)
//	if errors.Is(err, storeapi.ErrUnauthenticated) {
//	    // send the user to login
//	}
package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Client talks to the Meridian commerce backend REST API.
type Client struct {
	baseURL     string
	timeout     time.Duration
	httpClient  *http.Client
	tokenSource func() (string, bool)
	logger      *slog.Logger
	tracer      trace.Tracer
	validate    *validator.Validate
}

// NewClient creates a new backend API client.
// It reads the base URL from the MERIDIAN_API_BASE_URL environment variable by
// default. Options can be used to override the defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: os.Getenv("MERIDIAN_API_BASE_URL"),
		timeout: 10 * time.Second,
		logger:  slog.Default(),
		tracer:  noop.NewTracerProvider().Tracer("storeapi"),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
		}
	}
	c.validate = validator.New(validator.WithRequiredStructEnabled())

	return c
}

// validateInput runs struct-tag validation on a request payload before it is
// sent. Failures are reported as a local *APIError matching ErrValidation so
// callers handle them exactly like a backend 400.
func (c *Client) validateInput(in any) error {
	if err := c.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string][]string, len(verrs))
			for _, fe := range verrs {
				name := strings.ToLower(fe.Field())
				fields[name] = append(fields[name], "failed "+fe.Tag()+" validation")
			}
			return &APIError{StatusCode: 400, Message: "invalid request data", Fields: fields}
		}
		return err
	}
	return nil
}

// do performs an HTTP request against the backend and decodes the JSON
// response into result (when non-nil). Mutating methods carry an
// Idempotency-Key header so a retried request cannot double-apply.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, result any) error {
	reqURL := strings.TrimRight(c.baseURL, "/") + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		))
	defer span.End()

	httpReq, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.tokenSource != nil {
		if token, ok := c.tokenSource(); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if method != http.MethodGet && method != http.MethodHead {
		httpReq.Header.Set("Idempotency-Key", uuid.NewString())
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.SetStatus(codes.Error, "transport failure")
		return &TransportError{Cause: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := newAPIError(httpResp.StatusCode, respBody)
		span.SetStatus(codes.Error, apiErr.Message)
		c.logger.Debug("backend request failed",
			"method", method,
			"path", path,
			"status", httpResp.StatusCode,
			"message", apiErr.Message,
		)
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, result)
}

func (c *Client) patch(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, result)
}

func (c *Client) delete(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodDelete, path, nil, body, result)
}

// newAPIError builds the normalized error for a non-2xx response. The
// message is extracted from the body in order of preference: a structured
// "error" field, a structured "detail" field, flattened field-level
// validation messages, then a generic fallback.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg, ok := stringField(payload, "error"); ok {
			apiErr.Message = msg
		} else if msg, ok := stringField(payload, "detail"); ok {
			apiErr.Message = msg
		} else if fields := fieldMessages(payload); len(fields) > 0 {
			apiErr.Fields = fields
		}
	}

	if apiErr.Message == "" {
		if flat := apiErr.FieldMessages(); flat != "" {
			apiErr.Message = flat
		} else {
			apiErr.Message = genericMessage(status)
		}
	}
	return apiErr
}

// stringField extracts a non-empty top-level string field from the payload.
func stringField(payload map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := payload[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

// fieldMessages collects per-field validation messages. Backends report them
// either as {"field": ["msg", ...]} or as {"field": "msg"}.
func fieldMessages(payload map[string]json.RawMessage) map[string][]string {
	fields := make(map[string][]string)
	for name, raw := range payload {
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			fields[name] = list
			continue
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil && single != "" {
			fields[name] = []string{single}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func genericMessage(status int) string {
	switch status {
	case 400:
		return "invalid request data"
	case 401:
		return "authentication required"
	case 403:
		return "permission denied"
	case 404:
		return "resource not found"
	default:
		return fmt.Sprintf("request failed with status %d", status)
	}
}
