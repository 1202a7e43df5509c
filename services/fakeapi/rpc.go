package fakeapi

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/nvbf/event-seed/pkg/rpc"
	"github.com/nvbf/event-seed/repos/eventapi"
)

// newRPCHandlers serves the six event API procedures over gRPC-web,
// gRPC and the Connect protocol, all with JSON payloads.
func newRPCHandlers(api API) map[string]http.Handler {
	opts := []connect.HandlerOption{connect.WithCodec(rpc.Codec{})}

	return map[string]http.Handler{
		eventapi.CreateUserProcedure:  connect.NewUnaryHandler(eventapi.CreateUserProcedure, unary(api.CreateUser), opts...),
		eventapi.FindUserProcedure:    connect.NewUnaryHandler(eventapi.FindUserProcedure, unary(api.FindUser), opts...),
		eventapi.CreateTagProcedure:   connect.NewUnaryHandler(eventapi.CreateTagProcedure, unary(api.CreateTag), opts...),
		eventapi.FindTagProcedure:     connect.NewUnaryHandler(eventapi.FindTagProcedure, unary(api.FindTag), opts...),
		eventapi.CreateEventProcedure: connect.NewUnaryHandler(eventapi.CreateEventProcedure, unary(api.CreateEvent), opts...),
		eventapi.FindEventProcedure:   connect.NewUnaryHandler(eventapi.FindEventProcedure, unary(api.FindEvent), opts...),
	}
}

func unary[Req, Res any](fn func(context.Context, Req) (*Res, error)) func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error) {
	return func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
		res, err := fn(ctx, *req.Msg)
		if err != nil {
			return nil, connectError(err)
		}
		return connect.NewResponse(res), nil
	}
}

func connectError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrUnknownReference):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
