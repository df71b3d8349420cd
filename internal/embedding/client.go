// Package embedding talks to an external sentence-embedding service over
// gRPC. Requests and responses use the protobuf Struct well-known type so no
// generated stubs are needed on this side.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	DefaultMethod  = "/embedding.Embedder/Encode"
	DefaultService = "embedding.Embedder"
)

// ErrEmptyEmbedding is returned when the service answers without a vector.
var ErrEmptyEmbedding = errors.New("empty embedding")

// Config selects the service and per-call limits.
type Config struct {
	Addr    string
	Method  string
	Service string
	Timeout time.Duration
}

// Client encodes text through the remote service. Availability is resolved
// once by Probe and is read-only afterwards.
type Client struct {
	conn      *grpc.ClientConn
	health    healthpb.HealthClient
	method    string
	service   string
	timeout   time.Duration
	available bool
	logger    *slog.Logger
}

// Dial creates a client for cfg.Addr. The connection is lazy; call Probe to
// decide availability.
func Dial(cfg Config, logger *slog.Logger, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", cfg.Addr, err)
	}
	return newClient(conn, cfg, logger), nil
}

func newClient(conn *grpc.ClientConn, cfg Config, logger *slog.Logger) *Client {
	if cfg.Method == "" {
		cfg.Method = DefaultMethod
	}
	if cfg.Service == "" {
		cfg.Service = DefaultService
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		conn:    conn,
		health:  healthpb.NewHealthClient(conn),
		method:  cfg.Method,
		service: cfg.Service,
		timeout: cfg.Timeout,
		logger:  logger.With("component", "embedding"),
	}
}

// Probe asks the health service whether the embedder is serving and records
// the answer. It must be called before the client is shared.
func (c *Client) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: c.service})
	switch {
	case err != nil:
		c.logger.Debug("embedding backend unavailable", "error", err)
		c.available = false
	case resp.GetStatus() != healthpb.HealthCheckResponse_SERVING:
		c.logger.Debug("embedding backend not serving", "status", resp.GetStatus().String())
		c.available = false
	default:
		c.available = true
	}
	return c.available
}

func (c *Client) Available() bool {
	return c != nil && c.available
}

// Encode returns the embedding vector for text.
func (c *Client) Encode(ctx context.Context, text string) ([]float64, error) {
	req, err := structpb.NewStruct(map[string]any{"text": text})
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, c.method, req, resp); err != nil {
		return nil, fmt.Errorf("embed rpc: %w", err)
	}

	values := resp.GetFields()["embedding"].GetListValue().GetValues()
	if len(values) == 0 {
		return nil, ErrEmptyEmbedding
	}
	vec := make([]float64, len(values))
	for i, v := range values {
		vec[i] = v.GetNumberValue()
	}
	return vec, nil
}

// Close shuts down the connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
