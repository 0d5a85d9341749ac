package rpc

import (
	"context"
	"io"
	"log"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/xtding233/gacha-economy/internal/game"
	"github.com/xtding233/gacha-economy/internal/session"
)

type fixedSource struct{ sess *session.Session }

func (f fixedSource) Session() *session.Session { return f.sess }

func startServer(t *testing.T, mutate func(*game.Settings)) (*Client, *grpc.ClientConn) {
	t.Helper()
	settings := game.DefaultSettings()
	settings.Seed = 11
	if mutate != nil {
		mutate(&settings)
	}
	sess, err := session.New(settings, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}

	lis := bufconn.Listen(1 << 20)
	srv := NewWithListener(lis, fixedSource{sess: sess})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Errorf("server did not stop")
		}
	})
	return NewClient(conn), conn
}

func number(t *testing.T, m map[string]any, key string) int {
	t.Helper()
	v, ok := m[key].(float64)
	if !ok {
		t.Fatalf("field %s missing or not a number in %v", key, m)
	}
	return int(v)
}

func TestGRPCPullSellBalance(t *testing.T) {
	client, _ := startServer(t, nil)
	ctx := context.Background()

	out, err := client.Pull(ctx)
	if err != nil {
		t.Fatal(err)
	}
	m := out.AsMap()
	if number(t, m, "currency") != 90 || number(t, m, "inventory_size") != 1 || m["name"] == "" {
		t.Fatalf("unexpected pull: %v", m)
	}

	inv, err := client.Inventory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	items, _ := inv.AsMap()["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("inventory=%v", inv.AsMap())
	}

	sold, err := client.Sell(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	refund := number(t, sold.AsMap(), "refund")
	bal, err := client.Balance(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := number(t, bal.AsMap(), "currency"); got != 90+refund {
		t.Fatalf("balance=%d want %d", got, 90+refund)
	}
}

func TestGRPCErrorCodes(t *testing.T) {
	client, _ := startServer(t, func(s *game.Settings) {
		s.InitialCurrency = 30
		s.Capacity = 2
	})
	ctx := context.Background()

	if _, err := client.Sell(ctx, 0); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("sell slot 0: want InvalidArgument, got %v", err)
	}
	if _, err := client.PullAt(ctx, 50); status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("pull over budget: want FailedPrecondition, got %v", err)
	}
	if _, err := client.PullMany(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Pull(ctx); status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("pull when full: want ResourceExhausted, got %v", err)
	}
	if _, err := client.PullMany(ctx, 0); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("pull 0: want InvalidArgument, got %v", err)
	}
}

func TestGRPCHealth(t *testing.T) {
	_, conn := startServer(t, nil)
	resp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatal(err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("status=%v", resp.GetStatus())
	}
}
