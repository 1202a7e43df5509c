package rpc

import (
	"context"
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"
	"golang.org/x/xerrors"
)

// GRPCWebTransport speaks gRPC-web over plain HTTP/1.1. Not safe for
// concurrent use.
type GRPCWebTransport struct {
	baseURL    string
	httpClient *http.Client
	options    []connect.ClientOption
	clients    map[string]*connect.Client[any, json.RawMessage]
}

func NewGRPCWebTransport(baseURL, token string, httpClient *http.Client, runID string) *GRPCWebTransport {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GRPCWebTransport{
		baseURL:    baseURL,
		httpClient: httpClient,
		options: []connect.ClientOption{
			connect.WithGRPCWeb(),
			connect.WithCodec(Codec{}),
			connect.WithInterceptors(headerInterceptor(token, runID)),
		},
		clients: make(map[string]*connect.Client[any, json.RawMessage]),
	}
}

func (t *GRPCWebTransport) Invoke(ctx context.Context, procedure string, req, res any) error {
	client, ok := t.clients[procedure]
	if !ok {
		client = connect.NewClient[any, json.RawMessage](t.httpClient, t.baseURL+procedure, t.options...)
		t.clients[procedure] = client
	}

	msg := req
	response, err := client.CallUnary(ctx, connect.NewRequest(&msg))
	if err != nil {
		return xerrors.Errorf("call %s: %w", procedure, err)
	}
	if response.Msg == nil || len(*response.Msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(*response.Msg, res); err != nil {
		return xerrors.Errorf("decode %s response: %w", procedure, err)
	}
	return nil
}

func (t *GRPCWebTransport) Close() error {
	t.httpClient.CloseIdleConnections()
	return nil
}

func headerInterceptor(token, runID string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				if token != "" {
					req.Header().Set(authorizationHeader, bearer(token))
				}
				if runID != "" {
					req.Header().Set(runHeader, runID)
				}
			}
			return next(ctx, req)
		}
	}
}
