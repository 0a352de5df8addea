package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// SettleServiceName is the fully-qualified name of the settle service.
	SettleServiceName = "halfsies.v1.SettleService"

	SettleProcedure  = "/" + SettleServiceName + "/Settle"
	ResolveProcedure = "/" + SettleServiceName + "/Resolve"
	EncodeProcedure  = "/" + SettleServiceName + "/Encode"
)

// NewSettleServiceHandler builds an HTTP handler for svc and returns the path
// to mount it on.
func NewSettleServiceHandler(svc *SettleService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	settle := connect.NewUnaryHandler(SettleProcedure, svc.Settle, opts...)
	resolve := connect.NewUnaryHandler(ResolveProcedure, svc.Resolve, opts...)
	encode := connect.NewUnaryHandler(EncodeProcedure, svc.Encode, opts...)

	return "/" + SettleServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettleProcedure:
			settle.ServeHTTP(w, r)
		case ResolveProcedure:
			resolve.ServeHTTP(w, r)
		case EncodeProcedure:
			encode.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// SettleServiceClient calls a remote SettleService.
type SettleServiceClient struct {
	settle  *connect.Client[SettleRequest, SettleResponse]
	resolve *connect.Client[ResolveRequest, ResolveResponse]
	encode  *connect.Client[EncodeRequest, EncodeResponse]
}

// NewSettleServiceClient creates a client for the service at baseURL.
func NewSettleServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SettleServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &SettleServiceClient{
		settle:  connect.NewClient[SettleRequest, SettleResponse](httpClient, baseURL+SettleProcedure, opts...),
		resolve: connect.NewClient[ResolveRequest, ResolveResponse](httpClient, baseURL+ResolveProcedure, opts...),
		encode:  connect.NewClient[EncodeRequest, EncodeResponse](httpClient, baseURL+EncodeProcedure, opts...),
	}
}

func (c *SettleServiceClient) Settle(ctx context.Context, req *connect.Request[SettleRequest]) (*connect.Response[SettleResponse], error) {
	return c.settle.CallUnary(ctx, req)
}

func (c *SettleServiceClient) Resolve(ctx context.Context, req *connect.Request[ResolveRequest]) (*connect.Response[ResolveResponse], error) {
	return c.resolve.CallUnary(ctx, req)
}

func (c *SettleServiceClient) Encode(ctx context.Context, req *connect.Request[EncodeRequest]) (*connect.Response[EncodeResponse], error) {
	return c.encode.CallUnary(ctx, req)
}
