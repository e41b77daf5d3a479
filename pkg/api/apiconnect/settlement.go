package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/siddhardh4356/slipwise/pkg/api"
)

// SettlementServiceName is the fully-qualified name of the SettlementService.
const SettlementServiceName = "slipwise.v1.SettlementService"

const (
	SettlementServiceCreateSettlementProcedure       = "/" + SettlementServiceName + "/CreateSettlement"
	SettlementServiceListSettlementsByGroupProcedure = "/" + SettlementServiceName + "/ListSettlementsByGroup"
	SettlementServiceDeleteSettlementProcedure       = "/" + SettlementServiceName + "/DeleteSettlement"
)

// SettlementServiceHandler serves payments between group members.
type SettlementServiceHandler interface {
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	ListSettlementsByGroup(context.Context, *connect.Request[api.ListSettlementsByGroupRequest]) (*connect.Response[api.ListSettlementsByGroupResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createSettlement := connect.NewUnaryHandler(SettlementServiceCreateSettlementProcedure, svc.CreateSettlement, opts...)
	listSettlementsByGroup := connect.NewUnaryHandler(SettlementServiceListSettlementsByGroupProcedure, svc.ListSettlementsByGroup, opts...)
	deleteSettlement := connect.NewUnaryHandler(SettlementServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts...)
	return "/" + SettlementServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettlementServiceCreateSettlementProcedure:
			createSettlement.ServeHTTP(w, r)
		case SettlementServiceListSettlementsByGroupProcedure:
			listSettlementsByGroup.ServeHTTP(w, r)
		case SettlementServiceDeleteSettlementProcedure:
			deleteSettlement.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// SettlementServiceClient is a client for the SettlementService.
type SettlementServiceClient interface {
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	ListSettlementsByGroup(context.Context, *connect.Request[api.ListSettlementsByGroupRequest]) (*connect.Response[api.ListSettlementsByGroupResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
}

type settlementServiceClient struct {
	createSettlement       *connect.Client[api.CreateSettlementRequest, api.CreateSettlementResponse]
	listSettlementsByGroup *connect.Client[api.ListSettlementsByGroupRequest, api.ListSettlementsByGroupResponse]
	deleteSettlement       *connect.Client[api.DeleteSettlementRequest, api.DeleteSettlementResponse]
}

// NewSettlementServiceClient returns a client for the SettlementService served at baseURL.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	opts = clientOptions(opts)
	return &settlementServiceClient{
		createSettlement:       connect.NewClient[api.CreateSettlementRequest, api.CreateSettlementResponse](httpClient, baseURL+SettlementServiceCreateSettlementProcedure, opts...),
		listSettlementsByGroup: connect.NewClient[api.ListSettlementsByGroupRequest, api.ListSettlementsByGroupResponse](httpClient, baseURL+SettlementServiceListSettlementsByGroupProcedure, opts...),
		deleteSettlement:       connect.NewClient[api.DeleteSettlementRequest, api.DeleteSettlementResponse](httpClient, baseURL+SettlementServiceDeleteSettlementProcedure, opts...),
	}
}

func (c *settlementServiceClient) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	return c.createSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSettlementsByGroup(ctx context.Context, req *connect.Request[api.ListSettlementsByGroupRequest]) (*connect.Response[api.ListSettlementsByGroupResponse], error) {
	return c.listSettlementsByGroup.CallUnary(ctx, req)
}

func (c *settlementServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}
