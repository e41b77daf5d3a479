package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/siddhardh4356/slipwise/pkg/api"
)

// UserServiceName is the fully-qualified name of the UserService.
const UserServiceName = "slipwise.v1.UserService"

const (
	UserServiceGetUserBalanceProcedure = "/" + UserServiceName + "/GetUserBalance"
	UserServiceGetUserStatsProcedure   = "/" + UserServiceName + "/GetUserStats"
	UserServiceSearchProcedure         = "/" + UserServiceName + "/Search"
)

// UserServiceHandler serves per-user totals across groups and quick search.
type UserServiceHandler interface {
	GetUserBalance(context.Context, *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error)
	GetUserStats(context.Context, *connect.Request[api.GetUserStatsRequest]) (*connect.Response[api.GetUserStatsResponse], error)
	Search(context.Context, *connect.Request[api.SearchRequest]) (*connect.Response[api.SearchResponse], error)
}

// NewUserServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getUserBalance := connect.NewUnaryHandler(UserServiceGetUserBalanceProcedure, svc.GetUserBalance, opts...)
	getUserStats := connect.NewUnaryHandler(UserServiceGetUserStatsProcedure, svc.GetUserStats, opts...)
	search := connect.NewUnaryHandler(UserServiceSearchProcedure, svc.Search, opts...)
	return "/" + UserServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case UserServiceGetUserBalanceProcedure:
			getUserBalance.ServeHTTP(w, r)
		case UserServiceGetUserStatsProcedure:
			getUserStats.ServeHTTP(w, r)
		case UserServiceSearchProcedure:
			search.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UserServiceClient is a client for the UserService.
type UserServiceClient interface {
	GetUserBalance(context.Context, *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error)
	GetUserStats(context.Context, *connect.Request[api.GetUserStatsRequest]) (*connect.Response[api.GetUserStatsResponse], error)
	Search(context.Context, *connect.Request[api.SearchRequest]) (*connect.Response[api.SearchResponse], error)
}

type userServiceClient struct {
	getUserBalance *connect.Client[api.GetUserBalanceRequest, api.GetUserBalanceResponse]
	getUserStats   *connect.Client[api.GetUserStatsRequest, api.GetUserStatsResponse]
	search         *connect.Client[api.SearchRequest, api.SearchResponse]
}

// NewUserServiceClient returns a client for the UserService served at baseURL.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	opts = clientOptions(opts)
	return &userServiceClient{
		getUserBalance: connect.NewClient[api.GetUserBalanceRequest, api.GetUserBalanceResponse](httpClient, baseURL+UserServiceGetUserBalanceProcedure, opts...),
		getUserStats:   connect.NewClient[api.GetUserStatsRequest, api.GetUserStatsResponse](httpClient, baseURL+UserServiceGetUserStatsProcedure, opts...),
		search:         connect.NewClient[api.SearchRequest, api.SearchResponse](httpClient, baseURL+UserServiceSearchProcedure, opts...),
	}
}

func (c *userServiceClient) GetUserBalance(ctx context.Context, req *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error) {
	return c.getUserBalance.CallUnary(ctx, req)
}

func (c *userServiceClient) GetUserStats(ctx context.Context, req *connect.Request[api.GetUserStatsRequest]) (*connect.Response[api.GetUserStatsResponse], error) {
	return c.getUserStats.CallUnary(ctx, req)
}

func (c *userServiceClient) Search(ctx context.Context, req *connect.Request[api.SearchRequest]) (*connect.Response[api.SearchResponse], error) {
	return c.search.CallUnary(ctx, req)
}
