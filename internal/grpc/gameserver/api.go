package gameserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name. Requests and replies
// are google.protobuf.Struct messages; see converters.go for the field layout.
const ServiceName = "minesweeper.v1.GameService"

const (
	createGameMethod = "/" + ServiceName + "/CreateGame"
	getGameMethod    = "/" + ServiceName + "/GetGame"
	revealMethod     = "/" + ServiceName + "/Reveal"
	toggleFlagMethod = "/" + ServiceName + "/ToggleFlag"
	restartMethod    = "/" + ServiceName + "/Restart"
	deleteGameMethod = "/" + ServiceName + "/DeleteGame"
	watchGameMethod  = "/" + ServiceName + "/WatchGame"
)

// GameServiceServer is the server API for the game service
type GameServiceServer interface {
	CreateGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reveal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleFlag(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Restart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteGame(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	WatchGame(*structpb.Struct, WatchGameServer) error
}

// WatchGameServer is the server side of a WatchGame stream
type WatchGameServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type watchGameServer struct {
	grpc.ServerStream
}

func (x *watchGameServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

// RegisterGameServiceServer registers srv on s
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&GameServiceDesc, srv)
}

type unaryCall func(srv GameServiceServer, ctx context.Context, in *structpb.Struct) (interface{}, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(GameServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(GameServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchGameHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(GameServiceServer).WatchGame(in, &watchGameServer{stream})
}

// GameServiceDesc describes the game service for grpc.Server.RegisterService
var GameServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateGame",
			Handler: unaryHandler(createGameMethod, func(srv GameServiceServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
				return srv.CreateGame(ctx, in)
			}),
		},
		{
			MethodName: "GetGame",
			Handler: unaryHandler(getGameMethod, func(srv GameServiceServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
				return srv.GetGame(ctx, in)
			}),
		},
		{
			MethodName: "Reveal",
			Handler: unaryHandler(revealMethod, func(srv GameServiceServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
				return srv.Reveal(ctx, in)
			}),
		},
		{
			MethodName: "ToggleFlag",
			Handler: unaryHandler(toggleFlagMethod, func(srv GameServiceServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
				return srv.ToggleFlag(ctx, in)
			}),
		},
		{
			MethodName: "Restart",
			Handler: unaryHandler(restartMethod, func(srv GameServiceServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
				return srv.Restart(ctx, in)
			}),
		},
		{
			MethodName: "DeleteGame",
			Handler: unaryHandler(deleteGameMethod, func(srv GameServiceServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
				return srv.DeleteGame(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchGame",
			Handler:       watchGameHandler,
			ServerStreams: true,
		},
	},
}

// GameServiceClient is the client API for the game service
type GameServiceClient interface {
	CreateGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Reveal(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ToggleFlag(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Restart(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	WatchGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (WatchGameClient, error)
}

// WatchGameClient is the client side of a WatchGame stream
type WatchGameClient interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

type gameServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGameServiceClient wraps a client connection
func NewGameServiceClient(cc grpc.ClientConnInterface) GameServiceClient {
	return &gameServiceClient{cc}
}

func (c *gameServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameServiceClient) CreateGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, createGameMethod, in, opts)
}

func (c *gameServiceClient) GetGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, getGameMethod, in, opts)
}

func (c *gameServiceClient) Reveal(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, revealMethod, in, opts)
}

func (c *gameServiceClient) ToggleFlag(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, toggleFlagMethod, in, opts)
}

func (c *gameServiceClient) Restart(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, restartMethod, in, opts)
}

func (c *gameServiceClient) DeleteGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, deleteGameMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameServiceClient) WatchGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (WatchGameClient, error) {
	stream, err := c.cc.NewStream(ctx, &GameServiceDesc.Streams[0], watchGameMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &watchGameClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type watchGameClient struct {
	grpc.ClientStream
}

func (x *watchGameClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
