package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	pb "github.com/dmitrijs2005/gophtodo/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.TodoServiceClient

	mu    sync.RWMutex
	token string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.TokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the session token, when there is one, to
// every outgoing call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.currentToken(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewTodoClientService(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewTodoServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) currentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Logout forgets the session token. The server keeps no session state, so
// there is nothing to call.
func (s *GRPCClient) Logout() {
	s.setToken("")
}

func (s *GRPCClient) LoggedIn() bool {
	return s.currentToken() != ""
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &structpb.Struct{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.GetFields()["status"].GetStringValue() != "OK" {
		return ErrUnavailable
	}

	return nil

}

func (s *GRPCClient) Register(ctx context.Context, email, password string) (*models.User, error) {
	return s.session(ctx, s.client.Register, email, password)
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	return s.session(ctx, s.client.Login, email, password)
}

type rpc func(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)

func (s *GRPCClient) session(ctx context.Context, call rpc, email, password string) (*models.User, error) {

	ctx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()

	req, err := structpb.NewStruct(map[string]any{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	resp, err := call(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	s.setToken(resp.GetFields()["token"].GetStringValue())
	return userFromStruct(resp.GetFields()["user"].GetStructValue()), nil
}

func (s *GRPCClient) ListTodos(ctx context.Context) ([]models.Todo, error) {

	resp, err := s.client.ListTodos(ctx, &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err)
	}

	values := resp.GetFields()["todos"].GetListValue().GetValues()
	result := make([]models.Todo, 0, len(values))
	for _, v := range values {
		result = append(result, todoFromStruct(v.GetStructValue()))
	}
	return result, nil
}

func (s *GRPCClient) CreateTodo(ctx context.Context, title string) (*models.Todo, error) {

	req, err := structpb.NewStruct(map[string]any{"title": title})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.CreateTodo(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	t := todoFromStruct(resp.GetFields()["todo"].GetStructValue())
	return &t, nil
}

func (s *GRPCClient) UpdateTodo(ctx context.Context, id string, title *string, completed *bool) (*models.Todo, error) {

	fields := map[string]any{"id": id}
	if title != nil {
		fields["title"] = *title
	}
	if completed != nil {
		fields["completed"] = *completed
	}

	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.UpdateTodo(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	t := todoFromStruct(resp.GetFields()["todo"].GetStructValue())
	return &t, nil
}

func (s *GRPCClient) DeleteTodo(ctx context.Context, id string) error {

	req, err := structpb.NewStruct(map[string]any{"id": id})
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteTodo(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

// DeleteAccount removes the logged in account on the server and forgets the
// token.
func (s *GRPCClient) DeleteAccount(ctx context.Context) error {

	if _, err := s.client.DeleteAccount(ctx, &structpb.Struct{}); err != nil {
		return s.mapError(err)
	}

	s.setToken("")
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func userFromStruct(s *structpb.Struct) *models.User {
	f := s.GetFields()
	return &models.User{
		ID:      f["id"].GetStringValue(),
		Email:   f["email"].GetStringValue(),
		IsAdmin: f["isAdmin"].GetBoolValue(),
	}
}

func todoFromStruct(s *structpb.Struct) models.Todo {
	f := s.GetFields()
	created, _ := time.Parse(time.RFC3339Nano, f["createdAt"].GetStringValue())
	return models.Todo{
		ID:        f["id"].GetStringValue(),
		Title:     f["title"].GetStringValue(),
		Completed: f["completed"].GetBoolValue(),
		CreatorID: f["creatorId"].GetStringValue(),
		CreatedAt: created,
	}
}
