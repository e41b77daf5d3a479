package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddhardh4356/slipwise/internal/auth"
	"github.com/siddhardh4356/slipwise/internal/metrics"
	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/pkg/api"
	"github.com/siddhardh4356/slipwise/pkg/api/apiconnect"
)

// whoami echoes the authenticated user back as a balance response.
type whoami struct{}

func (whoami) GetUserBalance(ctx context.Context, _ *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error) {
	return connect.NewResponse(&api.GetUserBalanceResponse{UserID: GetUserID(ctx)}), nil
}

func (whoami) GetUserStats(ctx context.Context, _ *connect.Request[api.GetUserStatsRequest]) (*connect.Response[api.GetUserStatsResponse], error) {
	return connect.NewResponse(&api.GetUserStatsResponse{
		Monthly: []*api.NamedValue{{Name: GetUserID(ctx)}},
	}), nil
}

func (whoami) Search(context.Context, *connect.Request[api.SearchRequest]) (*connect.Response[api.SearchResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, nil)
}

type fixture struct {
	client apiconnect.UserServiceClient
	jwt    *auth.JWTManager
	reg    *prometheus.Registry
	logs   *bytes.Buffer
}

func setup(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		jwt:  auth.NewJWTManager("middleware-test-secret", time.Hour),
		reg:  prometheus.NewRegistry(),
		logs: &bytes.Buffer{},
	}
	logger := slog.New(slog.NewJSONHandler(f.logs, nil))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewUserServiceHandler(whoami{}, connect.WithInterceptors(
		MetricsInterceptor(metrics.New(f.reg)),
		RequireAuth(f.jwt, apiconnect.UserServiceGetUserStatsProcedure),
		LoggingInterceptor(logger),
	)))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	f.client = apiconnect.NewUserServiceClient(http.DefaultClient, server.URL)
	return f
}

func (f *fixture) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := f.jwt.Generate(&models.User{ID: userID, Email: userID + "@example.com"})
	require.NoError(t, err)
	return token
}

func withHeader[T any](msg *T, authorization string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if authorization != "" {
		req.Header().Set("Authorization", authorization)
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	valid := "Bearer " + f.token(t, "u1")

	t.Run("valid token", func(t *testing.T) {
		resp, err := f.client.GetUserBalance(ctx, withHeader(&api.GetUserBalanceRequest{}, valid))
		require.NoError(t, err)
		assert.Equal(t, "u1", resp.Msg.UserID)
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		resp, err := f.client.GetUserBalance(ctx, withHeader(&api.GetUserBalanceRequest{}, "bearer "+f.token(t, "u2")))
		require.NoError(t, err)
		assert.Equal(t, "u2", resp.Msg.UserID)
	})

	rejected := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic dXNlcjpwYXNz",
		"empty token":    "Bearer ",
		"bad token":      "Bearer not-a-jwt",
	}
	for name, header := range rejected {
		t.Run(name, func(t *testing.T) {
			_, err := f.client.GetUserBalance(ctx, withHeader(&api.GetUserBalanceRequest{}, header))
			require.Error(t, err)
			assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
		})
	}

	t.Run("public procedure without token", func(t *testing.T) {
		resp, err := f.client.GetUserStats(ctx, withHeader(&api.GetUserStatsRequest{}, ""))
		require.NoError(t, err)
		assert.Equal(t, "", resp.Msg.Monthly[0].Name)
	})

	t.Run("public procedure with bad token", func(t *testing.T) {
		_, err := f.client.GetUserStats(ctx, withHeader(&api.GetUserStatsRequest{}, "Bearer junk"))
		assert.NoError(t, err)
	})

	t.Run("public procedure still sees a valid user", func(t *testing.T) {
		resp, err := f.client.GetUserStats(ctx, withHeader(&api.GetUserStatsRequest{}, valid))
		require.NoError(t, err)
		assert.Equal(t, "u1", resp.Msg.Monthly[0].Name)
	})
}

func TestMetricsInterceptor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.client.GetUserBalance(ctx, withHeader(&api.GetUserBalanceRequest{}, "Bearer "+f.token(t, "u1")))
	require.NoError(t, err)
	_, err = f.client.GetUserBalance(ctx, withHeader(&api.GetUserBalanceRequest{}, ""))
	require.Error(t, err)

	count, err := testutil.GatherAndCount(f.reg, "slipwise_rpc_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per result code")
}

func TestLoggingInterceptor(t *testing.T) {
	f := setup(t)

	_, err := f.client.GetUserBalance(context.Background(), withHeader(&api.GetUserBalanceRequest{}, "Bearer "+f.token(t, "u7")))
	require.NoError(t, err)

	out := f.logs.String()
	assert.Contains(t, out, `"msg":"RPC ok"`)
	assert.Contains(t, out, `"user_id":"u7"`)
	assert.Contains(t, out, apiconnect.UserServiceGetUserBalanceProcedure)
}

func TestWithUser(t *testing.T) {
	ctx := WithUser(context.Background(), "u1", "u1@example.com")
	assert.Equal(t, "u1", GetUserID(ctx))
	assert.Equal(t, "u1@example.com", GetEmail(ctx))
	assert.Empty(t, GetUserID(context.Background()))
}
