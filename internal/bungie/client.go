package bungie

import (
	"context"
	"destinystats/internal/assert"
	"destinystats/lib/restyutil"
	"destinystats/lib/telemetry"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

const (
	report_client_fetch = "client.fetch"
)

// Fetcher fetches a platform resource with the given api key and returns
// its decoded envelope. Transport and decoding failures are returned as
// errors, the envelope status is left for the caller to check.
type Fetcher interface {
	Fetch(ctx context.Context, apiKey, path string) (Envelope, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, apiKey, path string) (Envelope, error)

func (f FetcherFunc) Fetch(ctx context.Context, apiKey, path string) (Envelope, error) {
	return f(ctx, apiKey, path)
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// defaults to a minute
	Timeout   time.Duration
	UserAgent string
	// receives full request/response dumps in debug mode, can be nil
	Output restyutil.InstrumentOutput
}

// Client implements Fetcher over HTTP.
type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil("tel", tel)
	tel = telemetry.NewScopedAPI("bungie", tel)

	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseUrl)
	httpClient.SetTimeout(timeout)
	httpClient.SetHeader("accept", "application/json")
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	restyutil.InstrumentClient(httpClient, otel.Tracer("destinystats/bungie"), opts.Output)

	return &Client{http: httpClient, tel: tel}
}

func (c *Client) Fetch(ctx context.Context, apiKey, path string) (Envelope, error) {
	c.tel.ReportDebug(report_client_fetch, path)

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-API-Key", apiKey).
		Get(path)
	if err != nil {
		c.tel.ReportBroken(
			report_client_fetch,
			fmt.Errorf("fetch: %w", err),
			path,
		)
		return Envelope{}, fmt.Errorf("fetch %s: %w", path, err)
	}

	// the platform reports most failures inside the envelope, so the body is
	// decoded regardless of the http status
	var envelope Envelope
	err = json.Unmarshal(res.Body(), &envelope)
	if err != nil {
		c.tel.ReportBroken(
			report_client_fetch,
			fmt.Errorf("unmarshal json: %w", err),
			path,
			res.StatusCode(),
		)
		return Envelope{}, fmt.Errorf("decode envelope (http %d): %w", res.StatusCode(), err)
	}

	if envelope.ThrottleSeconds > 0 {
		c.tel.ReportWarning(report_client_fetch, "throttled", envelope.ThrottleSeconds)
	}

	return envelope, nil
}
