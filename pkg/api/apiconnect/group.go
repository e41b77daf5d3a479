package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/siddhardh4356/slipwise/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService.
const GroupServiceName = "slipwise.v1.GroupService"

const (
	GroupServiceCreateGroupProcedure           = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceGetGroupProcedure              = "/" + GroupServiceName + "/GetGroup"
	GroupServiceListGroupsProcedure            = "/" + GroupServiceName + "/ListGroups"
	GroupServiceAddGroupMembersProcedure       = "/" + GroupServiceName + "/AddGroupMembers"
	GroupServiceDeleteGroupProcedure           = "/" + GroupServiceName + "/DeleteGroup"
	GroupServiceGetGroupBalancesProcedure      = "/" + GroupServiceName + "/GetGroupBalances"
	GroupServiceListGroupTransactionsProcedure = "/" + GroupServiceName + "/ListGroupTransactions"
	GroupServiceJoinGroupProcedure             = "/" + GroupServiceName + "/JoinGroup"
	GroupServiceListJoinRequestsProcedure      = "/" + GroupServiceName + "/ListJoinRequests"
	GroupServiceListPendingRequestsProcedure   = "/" + GroupServiceName + "/ListPendingRequests"
	GroupServiceResolveJoinRequestProcedure    = "/" + GroupServiceName + "/ResolveJoinRequest"
)

// GroupServiceHandler serves groups, membership, join requests and group balances.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	AddGroupMembers(context.Context, *connect.Request[api.AddGroupMembersRequest]) (*connect.Response[api.AddGroupMembersResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	ListGroupTransactions(context.Context, *connect.Request[api.ListGroupTransactionsRequest]) (*connect.Response[api.ListGroupTransactionsResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
	ListJoinRequests(context.Context, *connect.Request[api.ListJoinRequestsRequest]) (*connect.Response[api.ListJoinRequestsResponse], error)
	ListPendingRequests(context.Context, *connect.Request[api.ListPendingRequestsRequest]) (*connect.Response[api.ListPendingRequestsResponse], error)
	ResolveJoinRequest(context.Context, *connect.Request[api.ResolveJoinRequestRequest]) (*connect.Response[api.ResolveJoinRequestResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createGroup := connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...)
	getGroup := connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...)
	listGroups := connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...)
	addGroupMembers := connect.NewUnaryHandler(GroupServiceAddGroupMembersProcedure, svc.AddGroupMembers, opts...)
	deleteGroup := connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...)
	getGroupBalances := connect.NewUnaryHandler(GroupServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...)
	listGroupTransactions := connect.NewUnaryHandler(GroupServiceListGroupTransactionsProcedure, svc.ListGroupTransactions, opts...)
	joinGroup := connect.NewUnaryHandler(GroupServiceJoinGroupProcedure, svc.JoinGroup, opts...)
	listJoinRequests := connect.NewUnaryHandler(GroupServiceListJoinRequestsProcedure, svc.ListJoinRequests, opts...)
	listPendingRequests := connect.NewUnaryHandler(GroupServiceListPendingRequestsProcedure, svc.ListPendingRequests, opts...)
	resolveJoinRequest := connect.NewUnaryHandler(GroupServiceResolveJoinRequestProcedure, svc.ResolveJoinRequest, opts...)
	return "/" + GroupServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			createGroup.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			getGroup.ServeHTTP(w, r)
		case GroupServiceListGroupsProcedure:
			listGroups.ServeHTTP(w, r)
		case GroupServiceAddGroupMembersProcedure:
			addGroupMembers.ServeHTTP(w, r)
		case GroupServiceDeleteGroupProcedure:
			deleteGroup.ServeHTTP(w, r)
		case GroupServiceGetGroupBalancesProcedure:
			getGroupBalances.ServeHTTP(w, r)
		case GroupServiceListGroupTransactionsProcedure:
			listGroupTransactions.ServeHTTP(w, r)
		case GroupServiceJoinGroupProcedure:
			joinGroup.ServeHTTP(w, r)
		case GroupServiceListJoinRequestsProcedure:
			listJoinRequests.ServeHTTP(w, r)
		case GroupServiceListPendingRequestsProcedure:
			listPendingRequests.ServeHTTP(w, r)
		case GroupServiceResolveJoinRequestProcedure:
			resolveJoinRequest.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// GroupServiceClient is a client for the GroupService.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	AddGroupMembers(context.Context, *connect.Request[api.AddGroupMembersRequest]) (*connect.Response[api.AddGroupMembersResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	ListGroupTransactions(context.Context, *connect.Request[api.ListGroupTransactionsRequest]) (*connect.Response[api.ListGroupTransactionsResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
	ListJoinRequests(context.Context, *connect.Request[api.ListJoinRequestsRequest]) (*connect.Response[api.ListJoinRequestsResponse], error)
	ListPendingRequests(context.Context, *connect.Request[api.ListPendingRequestsRequest]) (*connect.Response[api.ListPendingRequestsResponse], error)
	ResolveJoinRequest(context.Context, *connect.Request[api.ResolveJoinRequestRequest]) (*connect.Response[api.ResolveJoinRequestResponse], error)
}

type groupServiceClient struct {
	createGroup           *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup              *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups            *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	addGroupMembers       *connect.Client[api.AddGroupMembersRequest, api.AddGroupMembersResponse]
	deleteGroup           *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	getGroupBalances      *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
	listGroupTransactions *connect.Client[api.ListGroupTransactionsRequest, api.ListGroupTransactionsResponse]
	joinGroup             *connect.Client[api.JoinGroupRequest, api.JoinGroupResponse]
	listJoinRequests      *connect.Client[api.ListJoinRequestsRequest, api.ListJoinRequestsResponse]
	listPendingRequests   *connect.Client[api.ListPendingRequestsRequest, api.ListPendingRequestsResponse]
	resolveJoinRequest    *connect.Client[api.ResolveJoinRequestRequest, api.ResolveJoinRequestResponse]
}

// NewGroupServiceClient returns a client for the GroupService served at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup:           connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:              connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:            connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		addGroupMembers:       connect.NewClient[api.AddGroupMembersRequest, api.AddGroupMembersResponse](httpClient, baseURL+GroupServiceAddGroupMembersProcedure, opts...),
		deleteGroup:           connect.NewClient[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
		getGroupBalances:      connect.NewClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](httpClient, baseURL+GroupServiceGetGroupBalancesProcedure, opts...),
		listGroupTransactions: connect.NewClient[api.ListGroupTransactionsRequest, api.ListGroupTransactionsResponse](httpClient, baseURL+GroupServiceListGroupTransactionsProcedure, opts...),
		joinGroup:             connect.NewClient[api.JoinGroupRequest, api.JoinGroupResponse](httpClient, baseURL+GroupServiceJoinGroupProcedure, opts...),
		listJoinRequests:      connect.NewClient[api.ListJoinRequestsRequest, api.ListJoinRequestsResponse](httpClient, baseURL+GroupServiceListJoinRequestsProcedure, opts...),
		listPendingRequests:   connect.NewClient[api.ListPendingRequestsRequest, api.ListPendingRequestsResponse](httpClient, baseURL+GroupServiceListPendingRequestsProcedure, opts...),
		resolveJoinRequest:    connect.NewClient[api.ResolveJoinRequestRequest, api.ResolveJoinRequestResponse](httpClient, baseURL+GroupServiceResolveJoinRequestProcedure, opts...),
	}
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddGroupMembers(ctx context.Context, req *connect.Request[api.AddGroupMembersRequest]) (*connect.Response[api.AddGroupMembersResponse], error) {
	return c.addGroupMembers.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroupTransactions(ctx context.Context, req *connect.Request[api.ListGroupTransactionsRequest]) (*connect.Response[api.ListGroupTransactionsResponse], error) {
	return c.listGroupTransactions.CallUnary(ctx, req)
}

func (c *groupServiceClient) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListJoinRequests(ctx context.Context, req *connect.Request[api.ListJoinRequestsRequest]) (*connect.Response[api.ListJoinRequestsResponse], error) {
	return c.listJoinRequests.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListPendingRequests(ctx context.Context, req *connect.Request[api.ListPendingRequestsRequest]) (*connect.Response[api.ListPendingRequestsResponse], error) {
	return c.listPendingRequests.CallUnary(ctx, req)
}

func (c *groupServiceClient) ResolveJoinRequest(ctx context.Context, req *connect.Request[api.ResolveJoinRequestRequest]) (*connect.Response[api.ResolveJoinRequestResponse], error) {
	return c.resolveJoinRequest.CallUnary(ctx, req)
}
