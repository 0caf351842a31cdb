package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	pb "github.com/dmitrijs2005/gophtodo/internal/proto"
	"github.com/dmitrijs2005/gophtodo/internal/server/access"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var publicMethods = map[string]bool{
	pb.TodoService_Ping_FullMethodName:     true,
	pb.TodoService_Register_FullMethodName: true,
	pb.TodoService_Login_FullMethodName:    true,
}

// accessTokenInterceptor runs the access pipeline for every method that is
// not public and stores the resolved user in the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.TokenHeaderName)
		if len(values) > 0 {
			token = values[0]
		}
	}

	out, err := s.pipeline.Run(ctx, access.Request{Credentials: access.Credentials{Header: token}})
	if err != nil {
		return nil, toStatus(err)
	}

	return handler(access.WithUser(ctx, out.User), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	if code == codes.Internal {
		s.logger.Error(ctx, "rpc failed", "method", info.FullMethod, "latency", time.Since(start), "error", err)
	} else {
		s.logger.Info(ctx, "rpc completed", "method", info.FullMethod, "code", code.String(), "latency", time.Since(start))
	}
	return resp, err
}

// toStatus maps the common error taxonomy onto gRPC status codes. Details of
// internal failures are not sent to the client.
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrorUnauthenticated):
		return status.Error(codes.Unauthenticated, "unauthenticated")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.PermissionDenied, "not permitted")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case common.IsPartial(err):
		return status.Error(codes.Internal, "operation partially applied")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
