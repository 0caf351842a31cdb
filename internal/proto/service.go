// Package proto describes the gophtodo.TodoService gRPC service declared in
// todo.proto. Requests and responses are google.protobuf.Struct values, so
// the service needs no generated message types.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "gophtodo.TodoService"

const (
	TodoService_Ping_FullMethodName          = "/gophtodo.TodoService/Ping"
	TodoService_Register_FullMethodName      = "/gophtodo.TodoService/Register"
	TodoService_Login_FullMethodName         = "/gophtodo.TodoService/Login"
	TodoService_ListTodos_FullMethodName     = "/gophtodo.TodoService/ListTodos"
	TodoService_CreateTodo_FullMethodName    = "/gophtodo.TodoService/CreateTodo"
	TodoService_UpdateTodo_FullMethodName    = "/gophtodo.TodoService/UpdateTodo"
	TodoService_DeleteTodo_FullMethodName    = "/gophtodo.TodoService/DeleteTodo"
	TodoService_DeleteAccount_FullMethodName = "/gophtodo.TodoService/DeleteAccount"
)

// TodoServiceServer is the server API for gophtodo.TodoService.
type TodoServiceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTodos(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateTodo(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateTodo(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteTodo(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterTodoServiceServer(s grpc.ServiceRegistrar, srv TodoServiceServer) {
	s.RegisterService(&TodoService_ServiceDesc, srv)
}

type method func(TodoServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func handler(fullMethod string, call method) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TodoServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		h := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TodoServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, h)
	}
}

var TodoService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TodoServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: handler(TodoService_Ping_FullMethodName, TodoServiceServer.Ping)},
		{MethodName: "Register", Handler: handler(TodoService_Register_FullMethodName, TodoServiceServer.Register)},
		{MethodName: "Login", Handler: handler(TodoService_Login_FullMethodName, TodoServiceServer.Login)},
		{MethodName: "ListTodos", Handler: handler(TodoService_ListTodos_FullMethodName, TodoServiceServer.ListTodos)},
		{MethodName: "CreateTodo", Handler: handler(TodoService_CreateTodo_FullMethodName, TodoServiceServer.CreateTodo)},
		{MethodName: "UpdateTodo", Handler: handler(TodoService_UpdateTodo_FullMethodName, TodoServiceServer.UpdateTodo)},
		{MethodName: "DeleteTodo", Handler: handler(TodoService_DeleteTodo_FullMethodName, TodoServiceServer.DeleteTodo)},
		{MethodName: "DeleteAccount", Handler: handler(TodoService_DeleteAccount_FullMethodName, TodoServiceServer.DeleteAccount)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "todo.proto",
}

// TodoServiceClient is the client API for gophtodo.TodoService.
type TodoServiceClient interface {
	Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListTodos(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreateTodo(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateTodo(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteTodo(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteAccount(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type todoServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTodoServiceClient(cc grpc.ClientConnInterface) TodoServiceClient {
	return &todoServiceClient{cc}
}

func (c *todoServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *todoServiceClient) Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TodoService_Ping_FullMethodName, in, opts)
}

func (c *todoServiceClient) Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TodoService_Register_FullMethodName, in, opts)
}

func (c *todoServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TodoService_Login_FullMethodName, in, opts)
}

func (c *todoServiceClient) ListTodos(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TodoService_ListTodos_FullMethodName, in, opts)
}

func (c *todoServiceClient) CreateTodo(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TodoService_CreateTodo_FullMethodName, in, opts)
}

func (c *todoServiceClient) UpdateTodo(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TodoService_UpdateTodo_FullMethodName, in, opts)
}

func (c *todoServiceClient) DeleteTodo(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TodoService_DeleteTodo_FullMethodName, in, opts)
}

func (c *todoServiceClient) DeleteAccount(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TodoService_DeleteAccount_FullMethodName, in, opts)
}
