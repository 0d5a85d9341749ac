// Package rpc serves the session over gRPC as gacha.v1.GachaService.
// Requests and responses are google.protobuf.Struct messages, so the
// service needs no generated code.
package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/gacha-economy/internal/ledger"
	"github.com/xtding233/gacha-economy/internal/session"
)

const ServiceName = "gacha.v1.GachaService"

// GachaServer is the server API for gacha.v1.GachaService.
type GachaServer interface {
	Pull(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PullMany(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Sell(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Inventory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Balance(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// SessionSource yields the live session; api.Server implements it.
type SessionSource interface {
	Session() *session.Session
}

// Service implements GachaServer over a SessionSource.
type Service struct {
	sessions SessionSource
}

func NewService(src SessionSource) *Service {
	return &Service{sessions: src}
}

// RegisterGachaServer registers srv on s.
func RegisterGachaServer(s grpc.ServiceRegistrar, srv GachaServer) {
	s.RegisterService(&gachaServiceDesc, srv)
}

func unary(method string, call func(GachaServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(GachaServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(GachaServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var gachaServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GachaServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Pull", GachaServer.Pull),
		unary("PullMany", GachaServer.PullMany),
		unary("Sell", GachaServer.Sell),
		unary("Inventory", GachaServer.Inventory),
		unary("Balance", GachaServer.Balance),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gacha/v1/gacha.proto",
}

// toStatus maps session errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ledger.ErrInventoryFull):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, ledger.ErrInvalidSlot),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, session.ErrInvalidCount):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// intField reads an optional integral number field.
func intField(in *structpb.Struct, key string) (int, bool, error) {
	v, ok := in.GetFields()[key]
	if !ok {
		return 0, false, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != float64(int(n.NumberValue)) {
		return 0, false, status.Errorf(codes.InvalidArgument, "%s must be an integer", key)
	}
	return int(n.NumberValue), true, nil
}

func reply(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *Service) Pull(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess := s.sessions.Session()
	cost, ok, err := intField(in, "cost")
	if err != nil {
		return nil, err
	}
	if !ok {
		cost = sess.Price().TokensForDraws(1)
	}
	res, err := sess.PullAt(cost)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(map[string]any{
		"name":           res.Item.Name(),
		"rarity":         int(res.Item.Rarity()),
		"currency":       res.NewCurrency,
		"inventory_size": res.NewInventorySize,
		"pity_activated": res.PityActivated,
	})
}

func (s *Service) PullMany(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	n, ok, err := intField(in, "n")
	if err != nil {
		return nil, err
	}
	if !ok {
		n = 10
	}
	res, err := s.sessions.Session().PullMany(n)
	if err != nil {
		return nil, toStatus(err)
	}
	items := make([]any, len(res.Items))
	for i, it := range res.Items {
		items[i] = map[string]any{"name": it.Name(), "rarity": int(it.Rarity())}
	}
	return reply(map[string]any{
		"items":            items,
		"cost":             res.Cost,
		"currency":         res.NewCurrency,
		"inventory_size":   res.NewInventorySize,
		"pity_activations": res.PityActivations,
	})
}

func (s *Service) Sell(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	slot, ok, err := intField(in, "slot")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "slot is required")
	}
	res, err := s.sessions.Session().Sell(slot)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(map[string]any{
		"item_name": res.ItemName,
		"refund":    res.RefundAmount,
		"currency":  res.NewCurrency,
	})
}

func (s *Service) Inventory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	inv := s.sessions.Session().Inventory()
	items := make([]any, len(inv))
	for i, e := range inv {
		items[i] = map[string]any{"slot": e.Slot, "name": e.Name, "rarity": int(e.Rarity)}
	}
	return reply(map[string]any{"items": items})
}

func (s *Service) Balance(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return reply(map[string]any{"currency": s.sessions.Session().Currency()})
}
