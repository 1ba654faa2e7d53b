package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/usersapi/users-api/internal/config"
)

const testDomain = "abc123.execute-api.us-east-1.amazonaws.com"

func newMemoryApp(t *testing.T) *AppState {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Common.Store.Backend = config.BackendMemory
	require.NoError(t, cfg.Validate())

	as, err := newAppState(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(as.Close)
	return as
}

func TestNewAppStateRejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Common.Store.Backend = "cassandra"

	_, err := newAppState(context.Background(), cfg, zap.NewNop())

	assert.ErrorContains(t, err, "unsupported store backend")
}

func TestMemoryAppIsHealthy(t *testing.T) {
	as := newMemoryApp(t)

	assert.NoError(t, as.Health.StartupHealthCheck(context.Background()))
}

func TestLambdaPayloadV2(t *testing.T) {
	as := newMemoryApp(t)
	handler, ok := lambdaHandler(as.Router(), 2).(func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error))
	require.True(t, ok)

	request := func(method, path, body string) events.APIGatewayV2HTTPResponse {
		resp, err := handler(context.Background(), events.APIGatewayV2HTTPRequest{
			Version:  "2.0",
			RawPath:  path,
			Headers:  map[string]string{"content-type": "application/json"},
			Body:     body,
			RouteKey: "$default",
			RequestContext: events.APIGatewayV2HTTPRequestContext{
				DomainName: testDomain,
				HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
					Method: method,
					Path:   path,
				},
			},
		})
		require.NoError(t, err)
		return resp
	}

	resp := request(http.MethodPost, "/users", `{"userId":"u1","name":"Alice"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"userId":"u1","name":"Alice"}`, resp.Body)

	resp = request(http.MethodGet, "/users/u1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"userId":"u1","name":"Alice"}`, resp.Body)

	resp = request(http.MethodGet, "/users/u2", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"User does not exist"}`, resp.Body)
}

func TestLambdaPayloadV1(t *testing.T) {
	as := newMemoryApp(t)
	handler, ok := lambdaHandler(as.Router(), 1).(func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error))
	require.True(t, ok)

	request := func(method, path, body string) events.APIGatewayProxyResponse {
		resp, err := handler(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod: method,
			Path:       path,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       body,
			RequestContext: events.APIGatewayProxyRequestContext{
				DomainName: testDomain,
				HTTPMethod: method,
				Path:       path,
			},
		})
		require.NoError(t, err)
		return resp
	}

	resp := request(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello World", resp.Body)

	request(http.MethodPost, "/users", `{"userId":"u1","name":"Alice"}`)
	request(http.MethodPost, "/users", `{"userId":"u2","name":"Bob"}`)

	resp = request(http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got []map[string]string
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &got))
	assert.Len(t, got, 2)

	resp = request(http.MethodPost, "/users", `{"userId":"u3"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Please provide userId or name"}`, resp.Body)
}

func TestInitLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := initLogger(config.LogConfig{Level: "debug", Format: format})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zap.DebugLevel))
	}

	logger, err := initLogger(config.LogConfig{Level: "bogus", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
}
