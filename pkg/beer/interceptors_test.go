package beer_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/beer-client/pkg/beer"
)

var errInterceptorTest = errors.New("interceptor error")

func TestInterceptorChain_RequestInterceptors(t *testing.T) {
	t.Parallel()

	chain := beer.NewInterceptorChain()
	ctx := context.Background()

	var executionOrder []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *beer.Request) error {
		executionOrder = append(executionOrder, "first")

		return nil
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *beer.Request) error {
		executionOrder = append(executionOrder, "second")

		return nil
	})

	err := chain.ExecuteRequestInterceptors(ctx, &beer.Request{Method: "GET", Path: "/api/v1/beer"})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, executionOrder)
}

func TestInterceptorChain_StopsOnError(t *testing.T) {
	t.Parallel()

	chain := beer.NewInterceptorChain()
	called := false

	chain.AddResponseInterceptor(func(ctx context.Context, req *beer.Request, resp *beer.Response) error {
		return errInterceptorTest
	})
	chain.AddResponseInterceptor(func(ctx context.Context, req *beer.Request, resp *beer.Response) error {
		called = true

		return nil
	})

	err := chain.ExecuteResponseInterceptors(context.Background(), &beer.Request{}, &beer.Response{})
	require.ErrorIs(t, err, errInterceptorTest)
	assert.False(t, called)
}

func TestHeaderAndAuthenticationInterceptors(t *testing.T) {
	t.Parallel()

	req := &beer.Request{Method: "GET", Path: "/api/v1/beer"}

	err := beer.HeaderInterceptor(map[string]string{"X-Request-Source": "cli"})(context.Background(), req)
	require.NoError(t, err)

	err = beer.AuthenticationInterceptor(func(context.Context) (string, error) {
		return "static-token", nil
	})(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "cli", req.Headers.Get("X-Request-Source"))
	assert.Equal(t, "Bearer static-token", req.Headers.Get("Authorization"))

	err = beer.AuthenticationInterceptor(func(context.Context) (string, error) {
		return "", errInterceptorTest
	})(context.Background(), req)
	require.ErrorIs(t, err, errInterceptorTest)

	err = beer.AuthenticationInterceptor(func(context.Context) (string, error) {
		return "", nil
	})(context.Background(), req)
	require.ErrorIs(t, err, beer.ErrEmptyAccessToken)
}

func TestHeaderInterceptor_KeepsAuthorization(t *testing.T) {
	t.Parallel()

	req := &beer.Request{Headers: http.Header{"Authorization": []string{"Bearer issued"}}}

	err := beer.HeaderInterceptor(map[string]string{
		"authorization":    "Bearer forged",
		"X-Request-Source": "inventory-sync",
	})(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Bearer issued", req.Headers.Get("Authorization"))
	assert.Equal(t, "inventory-sync", req.Headers.Get("X-Request-Source"))
}

type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

type recordingLogger struct {
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

func TestLoggingInterceptors(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	tests := []struct {
		name      string
		resp      *beer.Response
		wantLevel string
		wantMsg   string
	}{
		{
			name:      "success",
			resp:      &beer.Response{StatusCode: http.StatusOK, Body: []byte("{}")},
			wantLevel: "debug",
			wantMsg:   "Beer API response",
		},
		{
			name:      "missing beer",
			resp:      &beer.Response{StatusCode: http.StatusNotFound, Error: &beer.RemoteError{StatusCode: http.StatusNotFound}},
			wantLevel: "info",
			wantMsg:   "Beer not found",
		},
		{
			name:      "rejected credentials",
			resp:      &beer.Response{StatusCode: http.StatusUnauthorized, Error: &beer.RemoteError{StatusCode: http.StatusUnauthorized}},
			wantLevel: "warn",
			wantMsg:   "Beer API rejected credentials",
		},
		{
			name:      "server failure",
			resp:      &beer.Response{StatusCode: http.StatusInternalServerError, Error: &beer.RemoteError{StatusCode: http.StatusInternalServerError}},
			wantLevel: "error",
			wantMsg:   "Beer API request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger := &recordingLogger{}
			req := &beer.Request{Method: "GET", Path: "/api/v1/beer/" + id.String(), BeerID: id}

			require.NoError(t, beer.LoggingInterceptor(logger)(context.Background(), req))
			require.NoError(t, beer.LoggingResponseInterceptor(logger)(context.Background(), req, tt.resp))

			require.Len(t, logger.entries, 2)
			assert.Equal(t, "Beer API request", logger.entries[0].msg)
			assert.Equal(t, id.String(), logger.entries[0].fields["beer_id"])

			assert.Equal(t, tt.wantLevel, logger.entries[1].level)
			assert.Equal(t, tt.wantMsg, logger.entries[1].msg)
			assert.Equal(t, id.String(), logger.entries[1].fields["beer_id"])
			assert.Equal(t, tt.resp.StatusCode, logger.entries[1].fields["status_code"])
		})
	}

	logger := &recordingLogger{}
	require.NoError(t, beer.LoggingInterceptor(logger)(context.Background(), &beer.Request{Method: "GET", Path: "/api/v1/beer"}))
	assert.NotContains(t, logger.entries[0].fields, "beer_id")
}

func TestRateLimitInterceptor_HonorsContext(t *testing.T) {
	t.Parallel()

	interceptor := beer.RateLimitInterceptor(1)
	req := &beer.Request{}

	require.NoError(t, interceptor(context.Background(), req))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := interceptor(ctx, req)
	assert.Error(t, err)
}
