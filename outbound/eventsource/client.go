package eventsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"seatmap/common"
	"seatmap/common/constant"
	"seatmap/common/otel"
	"seatmap/model"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultTimeout   = 15 * time.Second
	maxDocumentBytes = 16 << 20
)

// Client loads the events document over HTTP. Every request carries a
// cache-busting token and no-store headers so that intermediaries never
// answer with a stale copy.
type Client struct {
	HttpClient *http.Client
	BaseURL    string
	Path       string

	// TokenNow generates the cache-busting token when the caller does not
	// supply one.
	TokenNow func() string
}

type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("events source error: %s: %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, baseURL string, path string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if path == "" {
		path = constant.DefaultEventsPath
	}

	return &Client{
		HttpClient: httpClient,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Path:       path,
		TokenNow:   TimestampToken,
	}
}

// TimestampToken is the default cache-busting token: the current Unix time
// in milliseconds.
func TimestampToken() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

func (c *Client) LoadEvents(ctx context.Context) ([]model.Event, error) {
	return c.LoadEventsWithToken(ctx, c.TokenNow())
}

// LoadEventsWithToken fetches the document once. There are no retries: a
// failed attempt is returned to the caller as is.
func (c *Client) LoadEventsWithToken(ctx context.Context, token string) ([]model.Event, error) {
	ctx, span := otel.Tracer.Start(ctx, "eventsource.LoadEvents")
	defer span.End()

	endpoint, err := c.endpoint(token)
	if err != nil {
		common.UtilSpanError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("http.url", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		common.UtilSpanError(span, err)
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")

	res, err := c.HttpClient.Do(req)
	if err != nil {
		common.UtilSpanError(span, err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
		apiErr := &APIError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Endpoint:   endpoint,
			Body:       strings.TrimSpace(string(snippet)),
		}
		common.UtilSpanError(span, apiErr)
		return nil, apiErr
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxDocumentBytes))
	if err != nil {
		common.UtilSpanError(span, err)
		return nil, fmt.Errorf("read response from %s: %w", endpoint, err)
	}

	events, err := model.DecodeEvents(body)
	if err != nil {
		common.UtilSpanError(span, err)
		return nil, fmt.Errorf("decode response from %s: %w", endpoint, err)
	}

	span.SetAttributes(attribute.Int("events.count", len(events)))
	return events, nil
}

// LoadEventsOrEmpty logs any failure and returns an empty list instead. An
// empty result therefore means "nothing to show", not "no events exist".
func (c *Client) LoadEventsOrEmpty(ctx context.Context) []model.Event {
	return c.LoadEventsOrEmptyWithToken(ctx, c.TokenNow())
}

func (c *Client) LoadEventsOrEmptyWithToken(ctx context.Context, token string) []model.Event {
	events, err := c.LoadEventsWithToken(ctx, token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load events",
			common.ExtractTraceIDFromCtx(ctx),
			slog.String(constant.LogFieldToken, token),
			slog.Any(constant.LogFieldErr, err),
		)
		return []model.Event{}
	}

	if events == nil {
		return []model.Event{}
	}

	return events
}

func (c *Client) endpoint(token string) (string, error) {
	if token == "" {
		return "", errors.New("cache-busting token is required")
	}

	u, err := url.Parse(c.BaseURL + c.Path)
	if err != nil {
		return "", fmt.Errorf("parse events url: %w", err)
	}

	query := u.Query()
	query.Set(constant.CacheBustingParam, token)
	u.RawQuery = query.Encode()

	return u.String(), nil
}
