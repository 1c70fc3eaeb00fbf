package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/beer-client/internal/auth"
	"github.com/fivetwenty-io/beer-client/internal/constants"
	"github.com/fivetwenty-io/beer-client/pkg/beer"
)

// Request describes a single API call. Path is resolved against the base URL
// unless it is already absolute, and any query it carries is sent verbatim.
// BeerID is passed to interceptors for calls addressing a single beer.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
	BeerID  uuid.UUID
}

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client performs JSON requests against the API.
type Client struct {
	baseURL      *url.URL
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	interceptors *beer.InterceptorChain
	headers      map[string]string
	logger       beer.Logger
	userAgent    string
	debug        bool

	baseTransport http.RoundTripper
	timeout       time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger beer.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig enables transport-level retries of 5xx, 429 and
// connection errors.
func WithRetryConfig(retryMax int, retryWaitMin, retryWaitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		if retryWaitMin > 0 {
			c.httpClient.RetryWaitMin = retryWaitMin
		}

		if retryWaitMax > 0 {
			c.httpClient.RetryWaitMax = retryWaitMax
		}
	}
}

// WithTimeout bounds each HTTP attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithTransport sets the base transport beneath authentication.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.baseTransport = transport
	}
}

// WithInterceptors runs chain around every request.
func WithInterceptors(chain *beer.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for key, value := range headers {
			c.headers[key] = value
		}
	}
}

// NewClient creates a client for baseURL. When tokenManager is non-nil every
// request is sent with a bearer token from it. Retries are disabled unless
// WithRetryConfig is given.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		parsed = &url.URL{}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.CheckRetry = checkRetry

	client := &Client{
		baseURL:      parsed,
		httpClient:   retryClient,
		tokenManager: tokenManager,
		headers:      make(map[string]string),
		userAgent:    constants.DefaultUserAgent,
		timeout:      constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	transport := client.baseTransport
	if transport == nil {
		transport = http.DefaultTransport
	}

	if tokenManager != nil {
		transport = auth.NewTransport(tokenManager, transport)
	}

	retryClient.HTTPClient = &http.Client{
		Timeout:   client.timeout,
		Transport: transport,
	}

	if client.logger != nil && client.debug {
		retryClient.Logger = &leveledLogger{logger: client.logger}
	}

	return client
}

// checkRetry never retries a failed token exchange.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if errors.Is(err, beer.ErrAuthenticationFailure) {
		return false, nil
	}

	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// ResolveURL returns the absolute URL for path.
func (c *Client) ResolveURL(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing path %q: %w", path, err)
	}

	if ref.IsAbs() {
		return ref, nil
	}

	resolved := *c.baseURL
	resolved.Path = c.baseURL.Path + ref.Path
	resolved.RawPath = ""
	resolved.RawQuery = ref.RawQuery

	return &resolved, nil
}

// Do performs req. A non-2xx status returns the response together with a
// *beer.RemoteError carrying its status and body.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := c.ResolveURL(req.Path)
	if err != nil {
		return nil, err
	}

	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body []byte

	if req.Body != nil {
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
	}

	intercepted := &beer.Request{
		Method:  req.Method,
		Path:    target.String(),
		BeerID:  req.BeerID,
		Headers: make(http.Header),
	}

	for key, value := range c.headers {
		intercepted.Headers.Set(key, value)
	}

	for key, value := range req.Headers {
		intercepted.Headers.Set(key, value)
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
		if err != nil {
			return nil, err
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, values := range intercepted.Headers {
		httpReq.Header[key] = values
	}

	c.logDebug("HTTP Request", map[string]interface{}{
		"method": req.Method,
		"url":    target.String(),
	})

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		_ = c.runResponseInterceptors(ctx, intercepted, &beer.Response{Error: err})

		return nil, fmt.Errorf("%s %s: %w", req.Method, target.Path, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	c.logDebug("HTTP Response", map[string]interface{}{
		"method":      req.Method,
		"url":         target.String(),
		"status_code": resp.StatusCode,
		"bytes":       len(respBody),
	})

	var respErr error
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respErr = &beer.RemoteError{StatusCode: resp.StatusCode, Body: respBody}
	}

	err = c.runResponseInterceptors(ctx, intercepted, &beer.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Error:      respErr,
	})
	if err != nil {
		return resp, err
	}

	return resp, respErr
}

func (c *Client) runResponseInterceptors(ctx context.Context, req *beer.Request, resp *beer.Response) error {
	if c.interceptors == nil {
		return nil
	}

	return c.interceptors.ExecuteResponseInterceptors(ctx, req, resp)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

func (c *Client) logDebug(msg string, fields map[string]interface{}) {
	if c.debug && c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

// leveledLogger adapts beer.Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger beer.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}
