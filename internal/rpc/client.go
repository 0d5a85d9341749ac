package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls gacha.v1.GachaService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) call(ctx context.Context, method string, args map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(args)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Pull draws once at the configured price.
func (c *Client) Pull(ctx context.Context) (*structpb.Struct, error) {
	return c.call(ctx, "Pull", nil)
}

// PullAt draws once at an explicit cost.
func (c *Client) PullAt(ctx context.Context, cost int) (*structpb.Struct, error) {
	return c.call(ctx, "Pull", map[string]any{"cost": cost})
}

func (c *Client) PullMany(ctx context.Context, n int) (*structpb.Struct, error) {
	return c.call(ctx, "PullMany", map[string]any{"n": n})
}

func (c *Client) Sell(ctx context.Context, slot int) (*structpb.Struct, error) {
	return c.call(ctx, "Sell", map[string]any{"slot": slot})
}

func (c *Client) Inventory(ctx context.Context) (*structpb.Struct, error) {
	return c.call(ctx, "Inventory", nil)
}

func (c *Client) Balance(ctx context.Context) (*structpb.Struct, error) {
	return c.call(ctx, "Balance", nil)
}
