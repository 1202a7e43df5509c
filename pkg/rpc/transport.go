package rpc

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/nvbf/event-seed/pkg/config"
	"golang.org/x/xerrors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	authorizationHeader = "Authorization"
	runHeader           = "X-Seed-Run"
)

// Transport invokes unary procedures on the event API. res must be a pointer.
type Transport interface {
	Invoke(ctx context.Context, procedure string, req, res any) error
	Close() error
}

// NewTransport builds the transport selected by cfg.Transport.
func NewTransport(cfg config.SeedConfig, httpClient *http.Client, runID string) (Transport, error) {
	switch cfg.Transport {
	case config.TransportGRPCWeb, "":
		return NewGRPCWebTransport(cfg.APIURL, cfg.APIToken, httpClient, runID), nil
	case config.TransportGRPC:
		return NewGRPCTransport(cfg.APIURL, cfg.APIToken, runID)
	default:
		return nil, xerrors.Errorf("unsupported transport %q", cfg.Transport)
	}
}

// IsNotFound reports whether err carries a not-found status from either transport.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Code() == connect.CodeNotFound
	}
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.NotFound
	}
	return false
}

func bearer(token string) string {
	return "Bearer " + token
}
