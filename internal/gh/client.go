// Package gh provides a GraphQL client for classic GitHub project boards.
// It implements a deep module interface - simple methods hiding the GraphQL queries.
package gh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/machinebox/graphql"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the public GitHub GraphQL API.
const DefaultEndpoint = "https://api.github.com/graphql"

// TransportError wraps any failure of a read or write call against the API:
// network errors, authentication failures, rate limits and malformed responses.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client is a GitHub GraphQL API client for project boards.
// It is safe for concurrent use.
type Client struct {
	gql     *graphql.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

type options struct {
	endpoint string
	base     *http.Client
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// Option configures a Client.
type Option func(*options)

// WithEndpoint overrides the GraphQL endpoint (GitHub Enterprise Server).
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		if endpoint != "" {
			o.endpoint = endpoint
		}
	}
}

// WithHTTPClient sets the base HTTP client the token transport wraps.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.base = c
	}
}

// WithRateLimit paces outgoing requests. It never retries.
// A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates a new GitHub GraphQL client authenticated with token.
func New(token string, opts ...Option) *Client {
	o := options{
		endpoint: DefaultEndpoint,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	base := http.DefaultClient
	if o.base != nil {
		base = o.base
	}
	checked := *base
	checked.Transport = &statusTransport{next: base.Transport}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &checked)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))

	return &Client{
		gql:     graphql.NewClient(o.endpoint, graphql.WithHTTPClient(httpClient)),
		limiter: o.limiter,
		logger:  o.logger,
	}
}

// makeRequest executes a GraphQL request, honoring the rate limiter.
// Any failure is reported as a TransportError for op.
func (c *Client) makeRequest(ctx context.Context, op string, req *graphql.Request, resp interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Op: op, Err: err}
		}
	}

	c.logger.Debug("graphql request", zap.String("op", op))
	if err := c.gql.Run(ctx, req, resp); err != nil {
		c.logger.Debug("graphql request failed", zap.String("op", op), zap.Error(err))
		return &TransportError{Op: op, Err: err}
	}
	return nil
}

// statusTransport turns non-2xx responses into errors. The graphql client
// would otherwise decode an error body such as {"message":"Bad credentials"}
// as an empty, successful result.
type statusTransport struct {
	next http.RoundTripper
}

func (t *statusTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}

	resp, err := next.RoundTrip(r)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var apiErr struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return nil, fmt.Errorf("server returned %s: %s", resp.Status, apiErr.Message)
	}
	return nil, fmt.Errorf("server returned %s", resp.Status)
}
