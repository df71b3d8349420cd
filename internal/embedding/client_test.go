package embedding

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type lengthEmbedder struct{}

// encode maps text to a tiny deterministic vector.
func (lengthEmbedder) encode(text string) []any {
	return []any{float64(len(text)), 1.0}
}

var embedderDesc = grpc.ServiceDesc{
	ServiceName: DefaultService,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "Encode",
		Handler: func(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
			in := &structpb.Struct{}
			if err := dec(in); err != nil {
				return nil, err
			}
			text := in.GetFields()["text"].GetStringValue()
			if text == "empty" {
				return structpb.NewStruct(map[string]any{})
			}
			return structpb.NewStruct(map[string]any{"embedding": srv.(lengthEmbedder).encode(text)})
		},
	}},
}

func startServer(t *testing.T, status healthpb.HealthCheckResponse_ServingStatus) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	srv.RegisterService(&embedderDesc, lengthEmbedder{})
	hs := health.NewServer()
	hs.SetServingStatus(DefaultService, status)
	healthpb.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	client, err := Dial(Config{Addr: "passthrough:///bufnet"}, nil,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClientEncode(t *testing.T) {
	client := startServer(t, healthpb.HealthCheckResponse_SERVING)
	require.True(t, client.Probe(context.Background()))
	require.True(t, client.Available())

	vec, err := client.Encode(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 1}, vec)
}

func TestClientEmptyEmbedding(t *testing.T) {
	client := startServer(t, healthpb.HealthCheckResponse_SERVING)
	_, err := client.Encode(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrEmptyEmbedding)
}

func TestClientNotServing(t *testing.T) {
	client := startServer(t, healthpb.HealthCheckResponse_NOT_SERVING)
	assert.False(t, client.Probe(context.Background()))
	assert.False(t, client.Available())
}

func TestNilClientUnavailable(t *testing.T) {
	var c *Client
	assert.False(t, c.Available())
	assert.NoError(t, c.Close())
}
