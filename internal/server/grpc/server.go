package grpc

import (
	"context"
	"net"
	"sync"

	"github.com/dmitrijs2005/gophtodo/internal/logging"
	pb "github.com/dmitrijs2005/gophtodo/internal/proto"
	"github.com/dmitrijs2005/gophtodo/internal/server/access"
	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
	"github.com/dmitrijs2005/gophtodo/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address  string
	users    *services.UserService
	todos    *services.TodoService
	tokens   *auth.TokenService
	pipeline access.Pipeline
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, us *services.UserService, ts *services.TodoService, tokens *auth.TokenService) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		users:    us,
		todos:    ts,
		tokens:   tokens,
		pipeline: access.NewPipeline(access.Authenticate{Tokens: tokens, Users: us}),
	}
}

// newServer builds a gRPC server with the service and its interceptors
// registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	pb.RegisterTodoServiceServer(srv, &handler{s: s})
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled. It returns
// only after the shutdown goroutine has exited.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-done:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	err := srv.Serve(listen)
	close(done)
	wg.Wait()

	return err
}
