package rpc

import (
	"context"
	"crypto/tls"
	"net"
	"net/url"
	"strings"

	"golang.org/x/xerrors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// GRPCTransport calls the API over native gRPC (HTTP/2) with JSON payloads.
type GRPCTransport struct {
	conn   *grpc.ClientConn
	prefix string
	token  string
	runID  string
}

func NewGRPCTransport(baseURL, token, runID string) (*GRPCTransport, error) {
	target, secure, err := grpcTarget(baseURL)
	if err != nil {
		return nil, err
	}

	creds := insecure.NewCredentials()
	if secure {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{})),
	)
	if err != nil {
		return nil, xerrors.Errorf("cannot dial %s: %w", target, err)
	}

	return &GRPCTransport{conn: conn, prefix: pathPrefix(baseURL), token: token, runID: runID}, nil
}

func (t *GRPCTransport) Invoke(ctx context.Context, procedure string, req, res any) error {
	var pairs []string
	if t.token != "" {
		pairs = append(pairs, strings.ToLower(authorizationHeader), bearer(t.token))
	}
	if t.runID != "" {
		pairs = append(pairs, strings.ToLower(runHeader), t.runID)
	}
	if len(pairs) > 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, pairs...)
	}

	// A base path on API_URL is kept so gRPC and gRPC-web reach the same routes.
	method := t.prefix + procedure
	if err := t.conn.Invoke(ctx, method, req, res); err != nil {
		return xerrors.Errorf("call %s: %w", method, err)
	}
	return nil
}

func (t *GRPCTransport) Close() error {
	return t.conn.Close()
}

// grpcTarget turns an API base URL into a host:port dial target.
func grpcTarget(baseURL string) (string, bool, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", false, xerrors.Errorf("invalid api url: %w", err)
	}
	if u.Host == "" {
		return "", false, xerrors.Errorf("invalid api url %q: missing host", baseURL)
	}

	secure := u.Scheme == "https"
	port := u.Port()
	if port == "" {
		port = "80"
		if secure {
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), secure, nil
}

func pathPrefix(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}
