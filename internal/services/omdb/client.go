package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/amaumene/cinesearch/internal/config"
	"github.com/amaumene/cinesearch/internal/metrics"
	"github.com/amaumene/cinesearch/internal/models"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	userAgent  = "cinesearch/1.0"
	tracerName = "github.com/amaumene/cinesearch/internal/services/omdb"

	// Responses are small JSON documents; anything bigger is not the API talking
	maxBodySize = 2 * 1024 * 1024
)

// Client wraps direct OMDb API HTTP calls
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	tracer     trace.Tracer
	metrics    *metrics.Metrics
	logger     *logrus.Logger
}

// NewClient creates a new OMDb client
func NewClient(cfg *config.Config, m *metrics.Metrics, logger *logrus.Logger) (*Client, error) {
	if cfg.OMDbBaseURL == "" {
		return nil, fmt.Errorf("omdb base URL is required")
	}
	if cfg.OMDbAPIKey == "" {
		return nil, fmt.Errorf("omdb API key is required")
	}
	if _, err := url.Parse(cfg.OMDbBaseURL); err != nil {
		return nil, fmt.Errorf("invalid omdb base URL: %w", err)
	}

	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.OMDbBaseURL,
		apiKey:  cfg.OMDbAPIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tracer:  otel.Tracer(tracerName),
		metrics: m,
		logger:  logger,
	}, nil
}

// Fetch performs exactly one GET with the given parameters and returns the
// raw JSON body. Every error returned is an *Error.
func (c *Client) Fetch(ctx context.Context, params url.Values) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, "omdb.Fetch", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()
	body, apiErr := c.fetch(ctx, params)
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	if apiErr != nil {
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Message)
		span.SetAttributes(attribute.String("omdb.error.kind", string(apiErr.Kind)))
		if apiErr.StatusCode != 0 {
			span.SetAttributes(attribute.Int("http.status_code", apiErr.StatusCode))
		}
		c.metrics.UpstreamRequests.WithLabelValues(string(apiErr.Kind)).Inc()
		return nil, apiErr
	}

	c.metrics.UpstreamRequests.WithLabelValues("ok").Inc()
	return body, nil
}

func (c *Client) fetch(ctx context.Context, params url.Values) (json.RawMessage, *Error) {
	outbound := outboundParams(params)

	c.logger.WithField("query", outbound.Encode()).Debug("Performing OMDb request")

	outbound.Set(paramAPIKey, c.apiKey)
	reqURL, err := c.buildURL(outbound)
	if err != nil {
		return nil, normalize(failure{transport: err})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, normalize(failure{transport: fmt.Errorf("failed to create request: %w", err)})
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(redact(err)).Warn("OMDb request failed")
		return nil, normalize(failure{transport: redact(err)})
	}
	defer resp.Body.Close()

	if apiErr := normalize(failure{statusCode: resp.StatusCode}); apiErr != nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		c.logger.WithField("status_code", resp.StatusCode).Error("OMDb API returned non-OK status")
		return nil, apiErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, normalize(failure{transport: fmt.Errorf("failed to read response: %w", err)})
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &Error{Kind: KindAPI, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	if apiErr := normalize(failure{body: &env}); apiErr != nil {
		c.logger.WithField("message", apiErr.Message).Debug("OMDb API reported failure")
		return nil, apiErr
	}

	return body, nil
}

// Search fetches one page of search results
func (c *Client) Search(ctx context.Context, q SearchQuery) (*models.SearchResultPage, error) {
	body, err := c.Fetch(ctx, q.Params())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: fmt.Sprintf("failed to decode search response: %v", err)}
	}

	page := resp.toPage()
	c.logger.WithFields(logrus.Fields{
		"term":  q.Term,
		"page":  q.Page,
		"count": len(page.Items),
		"total": page.TotalResults,
	}).Debug("OMDb search completed")

	return page, nil
}

// Detail fetches the full metadata of a single title
func (c *Client) Detail(ctx context.Context, q DetailQuery) (*models.MovieDetail, error) {
	body, err := c.Fetch(ctx, q.Params())
	if err != nil {
		return nil, err
	}

	var resp detailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: fmt.Sprintf("failed to decode detail response: %v", err)}
	}

	return resp.toDetail(), nil
}

// Ping reports whether the upstream host answers at all. Any HTTP response
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return normalize(failure{transport: redact(err)})
	}
	resp.Body.Close()
	return nil
}

func (c *Client) buildURL(params url.Values) (string, error) {
	apiURL, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid omdb URL: %w", err)
	}
	if apiURL.Path == "" {
		apiURL.Path = "/"
	}
	apiURL.RawQuery = params.Encode()
	return apiURL.String(), nil
}

// outboundParams copies params without the client-only entries
func outboundParams(params url.Values) url.Values {
	outbound := make(url.Values, len(params)+1)
	for key, values := range params {
		outbound[key] = append([]string(nil), values...)
	}
	for _, key := range clientOnlyParams {
		outbound.Del(key)
	}
	return outbound
}

// redact drops the request URL (which carries the api key) from transport errors
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
