package beer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Request is the view of an outgoing Beer API call handed to interceptors.
// BeerID is set for calls addressing a single beer.
type Request struct {
	Method  string
	Path    string
	BeerID  uuid.UUID
	Headers http.Header
}

// Response is the view of a Beer API reply handed to interceptors. Error is
// the transport failure or *RemoteError the call will return.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor runs before a request is sent. Returning an error
// aborts the call.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor runs after a response, or a transport failure, is
// received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain holds the interceptors applied to every resource request.
// It is assembled while the client is built and read-only afterwards.
type InterceptorChain struct {
	onRequest  []RequestInterceptor
	onResponse []ResponseInterceptor
}

// NewInterceptorChain creates an empty chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor appends a request interceptor.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.onRequest = append(c.onRequest, interceptor)
}

// AddResponseInterceptor appends a response interceptor.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.onResponse = append(c.onResponse, interceptor)
}

// ExecuteRequestInterceptors runs the request interceptors in order and stops
// at the first failure.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	for i, intercept := range c.onRequest {
		err := intercept(ctx, req)
		if err != nil {
			return fmt.Errorf("%s %s: request interceptor %d: %w", req.Method, req.Path, i, err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs the response interceptors in order and
// stops at the first failure.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	for i, intercept := range c.onResponse {
		err := intercept(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("%s %s: response interceptor %d: %w", req.Method, req.Path, i, err)
		}
	}

	return nil
}

func requestFields(req *Request) map[string]interface{} {
	fields := map[string]interface{}{
		"method": req.Method,
		"path":   req.Path,
	}

	if req.BeerID != uuid.Nil {
		fields["beer_id"] = req.BeerID.String()
	}

	return fields
}

// LoggingInterceptor logs each outgoing call at debug level. Headers are
// never logged.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("Beer API request", requestFields(req))

		return nil
	}
}

// LoggingResponseInterceptor logs each reply at a level matching its outcome:
// a missing beer is informational, rejected credentials are a warning and
// any other failure is an error.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := requestFields(req)
		fields["status_code"] = resp.StatusCode

		if resp.Error != nil {
			fields["error"] = resp.Error.Error()
		}

		switch {
		case resp.Error == nil:
			fields["bytes"] = len(resp.Body)
			logger.Debug("Beer API response", fields)
		case resp.StatusCode == http.StatusNotFound:
			logger.Info("Beer not found", fields)
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			logger.Warn("Beer API rejected credentials", fields)
		default:
			logger.Error("Beer API request failed", fields)
		}

		return nil
	}
}

// RateLimitInterceptor blocks until the limiter admits the request or the
// context is done.
func RateLimitInterceptor(requestsPerSecond float64) RequestInterceptor {
	burst := max(int(requestsPerSecond), 1)
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

	return func(ctx context.Context, req *Request) error {
		err := limiter.Wait(ctx)
		if err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		return nil
	}
}

// AuthenticationInterceptor attaches a bearer token from tokenProvider. An
// empty token aborts the call rather than sending an anonymous request.
func AuthenticationInterceptor(tokenProvider func(context.Context) (string, error)) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		token, err := tokenProvider(ctx)
		if err != nil {
			return fmt.Errorf("obtaining access token: %w", err)
		}

		if token == "" {
			return ErrEmptyAccessToken
		}

		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		req.Headers.Set("Authorization", "Bearer "+token)

		return nil
	}
}

// HeaderInterceptor sets static headers on every request. Authorization is
// owned by the token layer and is never overridden here.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	static := make(http.Header, len(headers))

	for key, value := range headers {
		if http.CanonicalHeaderKey(key) == "Authorization" {
			continue
		}

		static.Set(key, value)
	}

	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, values := range static {
			req.Headers[key] = values
		}

		return nil
	}
}
